package title

import "github.com/atomicstack/notebook-popup-control/internal/model"

// RenderedMsg carries the response of one Render call. Generation identifies
// the call so late responses can be dropped.
type RenderedMsg struct {
	Generation int
	Info       model.DocInfo
	Err        error
}

// RenamedMsg reports the outcome of filetree/renameDoc after a blur.
type RenamedMsg struct {
	Title string
	Err   error
}

// StatusMsg asks the host to show info or an error in its status line.
type StatusMsg struct {
	Info string
	Err  error
}

// FocusContentMsg asks the host to move focus to the first content block.
// Found is false when the document has no content block.
type FocusContentMsg struct {
	Block model.Block
	Found bool
	Err   error
}

// OpenAttrMsg asks the host to open the attribute editor. Focus names the
// field to select first and is empty for the default field.
type OpenAttrMsg struct {
	Info  model.DocInfo
	Focus string
	Err   error
}

// MenuRequestedMsg asks the host to rebuild and show the document menu using
// freshly fetched doc info.
type MenuRequestedMsg struct {
	Info model.DocInfo
	Err  error
}

// CopiedMsg reports a clipboard write.
type CopiedMsg struct {
	Kind string
	Text string
	Err  error
}
