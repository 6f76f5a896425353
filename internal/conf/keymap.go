package conf

// Keymap binds title editor commands to key strings as reported by Bubble Tea
// (for example "alt+a" or "ctrl+a").
type Keymap struct {
	Attr           []string `yaml:"attr" json:"attr"`
	SelectAll      []string `yaml:"selectAll" json:"selectAll"`
	CopyBlockRef   []string `yaml:"copyBlockRef" json:"copyBlockRef"`
	CopyBlockEmbed []string `yaml:"copyBlockEmbed" json:"copyBlockEmbed"`
	CopyProtocol   []string `yaml:"copyProtocol" json:"copyProtocol"`
	CopyHPath      []string `yaml:"copyHPath" json:"copyHPath"`
}

func DefaultKeymap() Keymap {
	return Keymap{
		Attr:           []string{"alt+a"},
		SelectAll:      []string{"ctrl+a"},
		CopyBlockRef:   []string{"alt+c"},
		CopyBlockEmbed: []string{"alt+e"},
		CopyProtocol:   []string{"alt+l"},
		CopyHPath:      []string{"alt+p"},
	}
}

// Merge returns k with every empty binding taken from fallback.
func (k Keymap) Merge(fallback Keymap) Keymap {
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return append([]string(nil), def...)
		}
		return append([]string(nil), v...)
	}
	return Keymap{
		Attr:           pick(k.Attr, fallback.Attr),
		SelectAll:      pick(k.SelectAll, fallback.SelectAll),
		CopyBlockRef:   pick(k.CopyBlockRef, fallback.CopyBlockRef),
		CopyBlockEmbed: pick(k.CopyBlockEmbed, fallback.CopyBlockEmbed),
		CopyProtocol:   pick(k.CopyProtocol, fallback.CopyProtocol),
		CopyHPath:      pick(k.CopyHPath, fallback.CopyHPath),
	}
}

// Label renders the first binding for menu accelerators.
func Label(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
