package config

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
)

const (
	envAddr    = "NOTEBOOK_POPUP_ADDR"
	envDB      = "NOTEBOOK_POPUP_DB"
	envOrigins = "NOTEBOOK_POPUP_CORS_ORIGINS"

	DefaultAddr   = "127.0.0.1:6806"
	DefaultDBPath = "~/.local/share/notebook-popup-control/kernel.db"
)

// Serve configures `kernel serve`.
type Serve struct {
	Addr    string
	DBPath  string
	Origins []string
}

// ServeValues holds the flag destinations registered by BindServe.
type ServeValues struct {
	addr    *string
	db      *string
	origins *[]string
}

// BindServe registers the kernel server flags on fs.
func BindServe(fs *pflag.FlagSet, environ []string) *ServeValues {
	env := parseEnv(environ)
	var origins []string
	if raw := strings.TrimSpace(env[envOrigins]); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return &ServeValues{
		addr:    fs.String("addr", envOrDefault(env, envAddr, DefaultAddr), "address the kernel listens on"),
		db:      fs.String("db", envOrDefault(env, envDB, DefaultDBPath), "path to the sqlite database"),
		origins: fs.StringSlice("cors-origin", origins, "origins allowed to call the API from a browser"),
	}
}

// Serve resolves the parsed flags. The database path has ~ expanded.
func (v *ServeValues) Serve() (Serve, error) {
	db, err := homedir.Expand(strings.TrimSpace(*v.db))
	if err != nil {
		return Serve{}, fmt.Errorf("expand db path: %w", err)
	}
	s := Serve{
		Addr:    strings.TrimSpace(*v.addr),
		DBPath:  db,
		Origins: append([]string(nil), (*v.origins)...),
	}
	err = validation.Errors{
		"addr": validation.Validate(s.Addr, validation.Required),
		"db":   validation.Validate(s.DBPath, validation.Required),
	}.Filter()
	if err != nil {
		return Serve{}, err
	}
	return s, nil
}
