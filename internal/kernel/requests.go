package kernel

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/atomicstack/notebook-popup-control/internal/filename"
	"github.com/atomicstack/notebook-popup-control/internal/ids"
)

var nodeIDRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !ids.IsValid(s) {
		return errors.New("must be a node id")
	}
	return nil
})

type idRequest struct {
	ID string `json:"id"`
}

func (r idRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, nodeIDRule),
	)
}

type docPathRequest struct {
	Notebook string `json:"notebook"`
	Path     string `json:"path"`
}

func (r docPathRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notebook, validation.Required),
		validation.Field(&r.Path, validation.Required),
	)
}

type renameDocRequest struct {
	Notebook string `json:"notebook"`
	Path     string `json:"path"`
	Title    string `json:"title"`
}

func (r renameDocRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notebook, validation.Required),
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Title, validation.RuneLength(0, filename.MaxTitleLength)),
	)
}

type moveDocsRequest struct {
	FromPaths  []string `json:"fromPaths"`
	ToNotebook string   `json:"toNotebook"`
	ToPath     string   `json:"toPath"`
}

func (r moveDocsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FromPaths, validation.Required, validation.Each(validation.Required)),
		validation.Field(&r.ToNotebook, validation.Required),
		validation.Field(&r.ToPath, validation.Required),
	)
}

type setAttrsRequest struct {
	ID    string            `json:"id"`
	Attrs map[string]string `json:"attrs"`
}

func (r setAttrsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, nodeIDRule),
		validation.Field(&r.Attrs, validation.Required),
	)
}

type reminderRequest struct {
	ID    string `json:"id"`
	Timed string `json:"timed"`
}

func (r reminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, nodeIDRule),
		validation.Field(&r.Timed, validation.Required),
	)
}

type searchRequest struct {
	K string `json:"k"`
}

type createDocRequest struct {
	Notebook   string `json:"notebook"`
	ParentPath string `json:"parentPath"`
	Title      string `json:"title"`
	Markdown   string `json:"markdown"`
}

func (r createDocRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notebook, validation.Required),
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, filename.MaxTitleLength)),
	)
}

type createNotebookRequest struct {
	Name string `json:"name"`
}

func (r createNotebookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, 256)),
	)
}
