package menu

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// ItemKind distinguishes selectable entries from decoration.
type ItemKind int

const (
	KindAction ItemKind = iota
	KindSubmenu
	KindSeparator
	KindReadOnly
)

// Item represents a menu entry.
type Item struct {
	ID          string
	Label       string
	Kind        ItemKind
	Accelerator string
}

// Selectable reports whether the cursor may rest on the item.
func (i Item) Selectable() bool {
	return i.Kind == KindAction || i.Kind == KindSubmenu
}

// Level describes a breadcrumb component for display purposes.
type Level struct {
	ID    string
	Title string
	Items []Item
}

// Client is the part of the kernel API menu actions call.
type Client interface {
	DocInfo(ctx context.Context, id string) (model.DocInfo, error)
	SetBlockAttrs(ctx context.Context, id string, attrs map[string]string) error
	SetBlockReminder(ctx context.Context, id, timed string) error
	RemoveDoc(ctx context.Context, notebook, path string) error
	MoveDocs(ctx context.Context, fromPaths []string, toNotebook, toPath string) error
	SearchDocs(ctx context.Context, keyword string) ([]model.DocRef, error)
	Outline(ctx context.Context, id string) ([]model.Heading, error)
	Backlinks(ctx context.Context, id string) ([]model.Backlink, error)
	LocalGraph(ctx context.Context, id string) (model.Graph, error)
}

// Context carries runtime data needed by loader and action functions.
type Context struct {
	Ctx      context.Context
	Client   Client
	Info     model.DocInfo
	Title    string
	ReadOnly bool
	Lang     conf.Languages
	Keymap   conf.Keymap
}

func (c Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c Context) label(key string) string {
	if c.Lang == nil {
		return conf.DefaultLanguages().Get(key)
	}
	return c.Lang.Get(key)
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action. Close
// asks the host to exit once the result is shown.
type ActionResult struct {
	Info  string
	Err   error
	Close bool
}

var nowFn = time.Now

const timeLayout = "2006-01-02 15:04:05"

// DocMenuItems builds the document menu in display order.
func DocMenuItems(ctx Context) []Item {
	items := []Item{{ID: "copy", Label: ctx.label("copy"), Kind: KindSubmenu}}
	if !ctx.ReadOnly {
		items = append(items,
			Item{ID: "attr", Label: ctx.label("attr"), Accelerator: conf.Label(ctx.Keymap.Merge(conf.DefaultKeymap()).Attr) + "/⇧Click"},
			Item{ID: "move", Label: ctx.label("move"), Kind: KindSubmenu},
		)
	}
	items = append(items,
		separator(1),
		Item{ID: "reminder", Label: ctx.label("wechatReminder")},
		separator(2),
		Item{ID: "delete", Label: ctx.label("delete")},
		separator(3),
		Item{ID: "outline", Label: ctx.label("outline")},
		Item{ID: "backlinks", Label: ctx.label("backlinks")},
		Item{ID: "graph", Label: ctx.label("graphView")},
		separator(4),
		Item{ID: "timestamps", Label: timestampsLabel(ctx), Kind: KindReadOnly},
	)
	return items
}

func separator(n int) Item {
	return Item{ID: fmt.Sprintf("separator-%d", n), Kind: KindSeparator}
}

// timestampsLabel renders the modified and created times. Created is
// decoded from the document ID.
func timestampsLabel(ctx Context) string {
	created, cerr := ids.TimeOf(ctx.Info.ID)
	updated, uerr := ids.ParseStamp(ctx.Info.Attr(model.AttrUpdated))
	if uerr != nil {
		updated, uerr = created, cerr
	}
	modified := "-"
	if uerr == nil {
		modified = fmt.Sprintf("%s (%s)", updated.Format(timeLayout), humanize.RelTime(updated, nowFn(), "ago", "from now"))
	}
	createdText := "-"
	if cerr == nil {
		createdText = created.Format(timeLayout)
	}
	return fmt.Sprintf("%s %s / %s %s", ctx.label("modifiedAt"), modified, ctx.label("createdAt"), createdText)
}

func loadDocMenu(ctx Context) ([]Item, error) {
	return DocMenuItems(ctx), nil
}

func docLabel(info model.DocInfo, fallback string) string {
	if t := strings.TrimSpace(fallback); t != "" {
		return t
	}
	return info.Title()
}
