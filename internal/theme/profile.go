package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ResolveProfile adjusts the detected colour profile using NO_COLOR, TERM and
// COLORTERM from getenv. Terminals that under-report through probing are
// upgraded when their environment advertises more.
func ResolveProfile(detected termenv.Profile, getenv func(string) string) termenv.Profile {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	profile := detected
	term := strings.ToLower(strings.TrimSpace(getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	return profile
}

// ApplyColorProfile sets Lip Gloss's colour profile for the process.
func ApplyColorProfile() termenv.Profile {
	profile := ResolveProfile(termenv.ColorProfile(), os.Getenv)
	lipgloss.SetColorProfile(profile)
	return profile
}
