// Package ids creates and decodes node identifiers of the form
// "20060102150405-abc1234": a local creation timestamp followed by a short
// random suffix.
package ids

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	timeLayout = "20060102150405"
	suffixLen  = 7
)

var nodeIDPattern = regexp.MustCompile(`^\d{14}-[0-9a-z]{7}$`)

var nowFn = time.Now

// NewNodeID returns a fresh identifier stamped with the current time.
func NewNodeID() string {
	return At(nowFn())
}

// At returns an identifier stamped with t.
func At(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return t.Format(timeLayout) + "-" + suffix
}

// IsValid reports whether id is a well-formed node identifier.
func IsValid(id string) bool {
	return nodeIDPattern.MatchString(id)
}

// TimeOf decodes the creation time embedded in id, in local time.
func TimeOf(id string) (time.Time, error) {
	if len(id) < len(timeLayout) {
		return time.Time{}, fmt.Errorf("node id %q: too short", id)
	}
	t, err := time.ParseInLocation(timeLayout, id[:len(timeLayout)], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("node id %q: %w", id, err)
	}
	return t, nil
}

// Stamp formats t the way block updated/created attributes store it.
func Stamp(t time.Time) string {
	return t.Format(timeLayout)
}

// ParseStamp decodes an updated/created attribute value.
func ParseStamp(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}
