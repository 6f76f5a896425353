package title

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
)

// KeyMap holds the title shortcuts in the order they are checked.
type KeyMap struct {
	Content        key.Binding
	Attr           key.Binding
	SelectAll      key.Binding
	CopyBlockRef   key.Binding
	CopyBlockEmbed key.Binding
	CopyProtocol   key.Binding
	CopyHPath      key.Binding
}

// NewKeyMap builds bindings from the configured key strings.
func NewKeyMap(km conf.Keymap, lang conf.Languages) KeyMap {
	km = km.Merge(conf.DefaultKeymap())
	bind := func(keys []string, helpKey string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(conf.Label(keys), lang.Get(helpKey)))
	}
	return KeyMap{
		Content:        key.NewBinding(key.WithKeys("down", "enter"), key.WithHelp("↓/enter", "body")),
		Attr:           bind(km.Attr, "attr"),
		SelectAll:      bind(km.SelectAll, "selectAll"),
		CopyBlockRef:   bind(km.CopyBlockRef, "copyBlockRef"),
		CopyBlockEmbed: bind(km.CopyBlockEmbed, "copyBlockEmbed"),
		CopyProtocol:   bind(km.CopyProtocol, "copyProtocol"),
		CopyHPath:      bind(km.CopyHPath, "copyHPath"),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Content, k.Attr, k.CopyBlockRef, k.CopyHPath}
}
