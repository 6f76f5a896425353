package menu

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/title"
)

// CopyRequest asks the title editor to copy a reference of the given kind.
type CopyRequest struct {
	Kind string
}

func loadCopyMenu(ctx Context) ([]Item, error) {
	return []Item{
		{ID: title.CopyRef, Label: ctx.label("copyBlockRef")},
		{ID: title.CopyEmbed, Label: ctx.label("copyBlockEmbed")},
		{ID: title.CopyProtocol, Label: ctx.label("copyProtocol")},
		{ID: title.CopyHPath, Label: ctx.label("copyHPath")},
		{ID: title.CopyID, Label: ctx.label("copyID")},
	}, nil
}

func CopyAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		return CopyRequest{Kind: item.ID}
	}
}
