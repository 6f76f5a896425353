// Package conf holds the configuration values shared by the kernel and the
// terminal client. Values are passed explicitly and replaced wholesale when
// the kernel returns a canonical copy.
package conf

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort modes understood by the file tree.
const (
	SortModeNameASC = iota
	SortModeNameDESC
	SortModeUpdatedASC
	SortModeUpdatedDESC
	SortModeAlphanumASC
	SortModeAlphanumDESC
	SortModeCustom
	SortModeRefCountASC
	SortModeRefCountDESC
	SortModeCreatedASC
	SortModeCreatedDESC
	SortModeSizeASC
	SortModeSizeDESC
	SortModeSubDocCountASC
	SortModeSubDocCountDESC
	SortModeFileTree
)

const (
	MaxListCountMin     = 1
	MaxListCountMax     = 10240
	DefaultMaxListCount = 512

	maxSavePathLength = 1024
	maxTemplateLength = 1024
)

// FileTree configures how documents are listed and created.
type FileTree struct {
	AlwaysSelectOpenedFile bool   `json:"alwaysSelectOpenedFile"`
	OpenFilesUseCurrentTab bool   `json:"openFilesUseCurrentTab"`
	RefCreateSavePath      string `json:"refCreateSavePath"`
	CreateDocNameTemplate  string `json:"createDocNameTemplate"`
	MaxListCount           int    `json:"maxListCount"`
	AllowCreateDeeper      bool   `json:"allowCreateDeeper"`
	Sort                   int    `json:"sort"`
}

// NewFileTree returns the defaults used when nothing has been persisted.
func NewFileTree() *FileTree {
	return &FileTree{
		Sort:         SortModeCustom,
		MaxListCount: DefaultMaxListCount,
	}
}

// Clone returns an independent copy.
func (f *FileTree) Clone() *FileTree {
	if f == nil {
		return nil
	}
	dup := *f
	return &dup
}

// Normalize rewrites the value into its canonical form: text fields are
// trimmed, a non-empty save path ends with a slash and maxListCount is
// clamped into [MaxListCountMin, MaxListCountMax].
func (f *FileTree) Normalize() {
	f.RefCreateSavePath = strings.TrimSpace(f.RefCreateSavePath)
	if f.RefCreateSavePath != "" && !strings.HasSuffix(f.RefCreateSavePath, "/") {
		f.RefCreateSavePath += "/"
	}
	f.CreateDocNameTemplate = strings.TrimSpace(f.CreateDocNameTemplate)
	f.MaxListCount = ClampMaxListCount(f.MaxListCount)
	if f.Sort < SortModeNameASC || f.Sort > SortModeFileTree {
		f.Sort = SortModeCustom
	}
}

// ClampMaxListCount bounds n to the accepted list size range.
func ClampMaxListCount(n int) int {
	if n < MaxListCountMin {
		return MaxListCountMin
	}
	if n > MaxListCountMax {
		return MaxListCountMax
	}
	return n
}

// Validate reports values outside the accepted ranges.
func (f FileTree) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MaxListCount, validation.By(intRange(MaxListCountMin, MaxListCountMax))),
		validation.Field(&f.Sort, validation.By(intRange(SortModeNameASC, SortModeFileTree))),
		validation.Field(&f.RefCreateSavePath, validation.Length(0, maxSavePathLength)),
		validation.Field(&f.CreateDocNameTemplate, validation.Length(0, maxTemplateLength)),
	)
}

// ozzo's Min/Max treat zero as empty, so ranges that exclude zero need a
// custom rule.
func intRange(lo, hi int) validation.RuleFunc {
	return func(value interface{}) error {
		n, ok := value.(int)
		if !ok {
			return errors.New("must be an integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}
