package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/notebook-popup-control/internal/app"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    File
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File is the optional YAML configuration file.
type File struct {
	Kernel string         `yaml:"kernel"`
	Keymap conf.Keymap    `yaml:"keymap"`
	Lang   conf.Languages `yaml:"lang"`
}

const (
	envKernelURL  = "NOTEBOOK_POPUP_KERNEL"
	envDocID      = "NOTEBOOK_POPUP_DOC"
	envWidth      = "NOTEBOOK_POPUP_WIDTH"
	envHeight     = "NOTEBOOK_POPUP_HEIGHT"
	envShowFooter = "NOTEBOOK_POPUP_FOOTER"
	envVerbose    = "NOTEBOOK_POPUP_VERBOSE"
	envTrace      = "NOTEBOOK_POPUP_TRACE"
	envLogFile    = "NOTEBOOK_POPUP_LOG_FILE"
	envConfigFile = "NOTEBOOK_POPUP_CONFIG"
	envPoll       = "NOTEBOOK_POPUP_POLL"
	envTimeout    = "NOTEBOOK_POPUP_TIMEOUT"

	DefaultKernelURL  = "http://127.0.0.1:6806"
	DefaultConfigFile = "~/.config/notebook-popup-control/config.yaml"
)

// Values holds the parsed flag destinations registered by Bind.
type Values struct {
	env map[string]string
	fs  *pflag.FlagSet

	kernelURL  *string
	docID      *string
	width      *int
	height     *int
	footer     *bool
	trace      *bool
	verbose    *bool
	logFile    *string
	configFile *string
	poll       *time.Duration
	timeout    *time.Duration
}

// Bind registers the client flags on fs. Defaults come from environ so that
// flags always win over the environment.
func Bind(fs *pflag.FlagSet, environ []string) *Values {
	env := parseEnv(environ)
	return &Values{
		env:        env,
		fs:         fs,
		kernelURL:  fs.String("kernel", envOrDefault(env, envKernelURL, ""), "kernel base URL (default "+DefaultKernelURL+")"),
		docID:      fs.String("doc", envOrDefault(env, envDocID, ""), "document ID to open in the title editor"),
		width:      fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:     fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		footer:     fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)"),
		trace:      fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		verbose:    fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions"),
		logFile:    fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		configFile: fs.String("config", envOrDefault(env, envConfigFile, DefaultConfigFile), "path to the YAML config file"),
		poll:       fs.Duration("poll", envOrDuration(env, envPoll, 1500*time.Millisecond), "kernel polling interval"),
		timeout:    fs.Duration("timeout", envOrDuration(env, envTimeout, 10*time.Second), "kernel request timeout"),
	}
}

// Config resolves the parsed flags, the config file and defaults into a
// Config. args are the positional arguments left after parsing.
func (v *Values) Config(args []string) (Config, error) {
	explicit := v.fs.Changed("config")
	if _, ok := v.env[envConfigFile]; ok {
		explicit = true
	}
	file, err := ReadFile(*v.configFile, explicit)
	if err != nil {
		return Config{}, err
	}

	kernelURL := strings.TrimSpace(*v.kernelURL)
	if kernelURL == "" {
		kernelURL = strings.TrimSpace(file.Kernel)
	}
	if kernelURL == "" {
		kernelURL = DefaultKernelURL
	}
	docID := *v.docID
	if docID == "" && len(args) > 0 {
		docID = args[0]
	}

	cfg := Config{
		App: app.Config{
			KernelURL:  strings.TrimRight(kernelURL, "/"),
			DocID:      docID,
			Width:      *v.width,
			Height:     *v.height,
			ShowFooter: *v.footer,
			Verbose:    *v.verbose,
			Poll:       *v.poll,
			Timeout:    *v.timeout,
			Keymap:     file.Keymap,
			Lang:       conf.DefaultLanguages().Merge(file.Lang),
		},
		Logging: Logging{
			FilePath: *v.logFile,
			Trace:    *v.trace,
		},
		File: file,
		Flags: map[string]string{
			"kernel":  kernelURL,
			"doc":     docID,
			"width":   strconv.Itoa(*v.width),
			"height":  strconv.Itoa(*v.height),
			"footer":  strconv.FormatBool(*v.footer),
			"trace":   strconv.FormatBool(*v.trace),
			"verbose": strconv.FormatBool(*v.verbose),
			"logFile": *v.logFile,
			"config":  *v.configFile,
			"poll":    v.poll.String(),
		},
		Args: append([]string(nil), args...),
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv copies a .env file in the working directory into the process
// environment. Variables already set are left alone.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load parses configuration from CLI arguments and environment variables,
// reading a .env file first when present.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("notebook-popup-control", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	values := Bind(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return values.Config(fs.Args())
}

// MergeEnvFile returns environ extended with the entries of the dotenv file
// at path. Entries already present in environ are kept.
func MergeEnvFile(environ []string, path string) ([]string, error) {
	fileEnv, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	present := parseEnv(environ)
	out := append([]string(nil), environ...)
	for k, v := range fileEnv {
		if _, ok := present[k]; ok {
			continue
		}
		out = append(out, k+"="+v)
	}
	return out, nil
}

// ReadFile loads the YAML config at path. A missing file is only an error
// when the path was given explicitly.
func ReadFile(path string, explicit bool) (File, error) {
	var file File
	if strings.TrimSpace(path) == "" {
		return file, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return file, fmt.Errorf("expand config path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return file, nil
		}
		return file, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", expanded, err)
	}
	return file, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	return validation.Errors{
		"kernel":  validation.Validate(a.KernelURL, validation.Required, is.URL),
		"width":   validation.Validate(a.Width, validation.Min(0)),
		"height":  validation.Validate(a.Height, validation.Min(0)),
		"poll":    validation.Validate(a.Poll, validation.Required, validation.Min(100*time.Millisecond)),
		"timeout": validation.Validate(a.Timeout, validation.Min(time.Duration(0))),
	}.Filter()
}
