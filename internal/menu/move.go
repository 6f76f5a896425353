package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/format/table"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// notebookColumnMax keeps long notebook names from pushing paths off screen.
const notebookColumnMax = 24

func loadMoveMenu(ctx Context) ([]Item, error) {
	if ctx.Client == nil {
		return nil, fmt.Errorf("no kernel client")
	}
	refs, err := ctx.Client.SearchDocs(ctx.ctx(), "")
	if err != nil {
		return nil, fmt.Errorf("search move targets: %w", err)
	}
	return MoveTargetItems(ctx.Info, refs), nil
}

// MoveTargetItems lists the places a document can move to as aligned rows.
// The document itself, its descendants and its current parent are left out.
func MoveTargetItems(info model.DocInfo, refs []model.DocRef) []Item {
	rows := make([][]string, 0, len(refs))
	itemIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !validMoveTarget(info, ref) {
			continue
		}
		rows = append(rows, []string{ref.BoxName, ref.HPath})
		itemIDs = append(itemIDs, moveTargetID(ref))
	}
	if len(rows) == 0 {
		return nil
	}
	aligned := table.Format(rows, []table.Column{{Max: notebookColumnMax}, {}})
	items := make([]Item, len(aligned))
	for i, label := range aligned {
		items[i] = Item{ID: itemIDs[i], Label: label}
	}
	return items
}

func validMoveTarget(info model.DocInfo, ref model.DocRef) bool {
	if ref.Box != info.Box {
		return true
	}
	if ref.Path == info.Path || strings.HasPrefix(ref.Path, model.DocDir(info.Path)+"/") {
		return false
	}
	return ref.Path != parentPath(info.Path)
}

// parentPath returns the path of the document that holds path, or "/" for
// top-level documents.
func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx] + ".sy"
}

func moveTargetID(ref model.DocRef) string {
	return ref.Box + ref.Path
}

func splitMoveTarget(id string) (box, path string, ok bool) {
	idx := strings.Index(id, "/")
	if idx <= 0 {
		return "", "", false
	}
	return id[:idx], id[idx:], true
}

func MoveAction(ctx Context, item Item) tea.Cmd {
	box, path, ok := splitMoveTarget(item.ID)
	if !ok {
		return func() tea.Msg { return ActionResult{Err: fmt.Errorf("invalid move target %q", item.ID)} }
	}
	return func() tea.Msg {
		events.Menu.Move(ctx.Info.ID, box, path)
		if err := ctx.Client.MoveDocs(ctx.ctx(), []string{ctx.Info.Path}, box, path); err != nil {
			return ActionResult{Err: err}
		}
		return ActionResult{Info: fmt.Sprintf("%s %s", ctx.label("moved"), strings.TrimSpace(item.Label))}
	}
}
