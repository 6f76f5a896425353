package conf

import "testing"

func TestNewFileTreeDefaults(t *testing.T) {
	ft := NewFileTree()
	if ft.MaxListCount != DefaultMaxListCount {
		t.Fatalf("expected maxListCount %d, got %d", DefaultMaxListCount, ft.MaxListCount)
	}
	if ft.Sort != SortModeCustom {
		t.Fatalf("expected custom sort, got %d", ft.Sort)
	}
	if ft.AlwaysSelectOpenedFile || ft.OpenFilesUseCurrentTab || ft.AllowCreateDeeper {
		t.Fatalf("expected toggles off by default: %#v", ft)
	}
	if err := ft.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestNormalizeClampsAndTrims(t *testing.T) {
	tests := []struct {
		name     string
		in       FileTree
		wantMax  int
		wantPath string
	}{
		{"zero", FileTree{MaxListCount: 0}, 1, ""},
		{"negative", FileTree{MaxListCount: -5}, 1, ""},
		{"lower bound", FileTree{MaxListCount: 1}, 1, ""},
		{"upper bound", FileTree{MaxListCount: 10240}, 10240, ""},
		{"over", FileTree{MaxListCount: 99999}, 10240, ""},
		{"path slash", FileTree{MaxListCount: 10, RefCreateSavePath: "  /daily "}, 10, "/daily/"},
		{"path kept", FileTree{MaxListCount: 10, RefCreateSavePath: "/daily/"}, 10, "/daily/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := tt.in
			ft.Sort = SortModeCustom
			ft.Normalize()
			if ft.MaxListCount != tt.wantMax {
				t.Fatalf("maxListCount: want %d, got %d", tt.wantMax, ft.MaxListCount)
			}
			if ft.RefCreateSavePath != tt.wantPath {
				t.Fatalf("refCreateSavePath: want %q, got %q", tt.wantPath, ft.RefCreateSavePath)
			}
			if err := ft.Validate(); err != nil {
				t.Fatalf("normalized value should validate: %v", err)
			}
		})
	}
}

func TestNormalizeResetsUnknownSort(t *testing.T) {
	ft := FileTree{MaxListCount: 5, Sort: 99}
	ft.Normalize()
	if ft.Sort != SortModeCustom {
		t.Fatalf("expected custom sort, got %d", ft.Sort)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	for _, n := range []int{0, 10241} {
		ft := FileTree{MaxListCount: n, Sort: SortModeCustom}
		if err := ft.Validate(); err == nil {
			t.Fatalf("expected error for maxListCount %d", n)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ft := NewFileTree()
	dup := ft.Clone()
	dup.MaxListCount = 3
	if ft.MaxListCount == 3 {
		t.Fatalf("clone shares state with original")
	}
	var nilTree *FileTree
	if nilTree.Clone() != nil {
		t.Fatalf("expected nil clone of nil tree")
	}
}

func TestKeymapMergeFillsEmpty(t *testing.T) {
	k := Keymap{Attr: []string{"ctrl+t"}}.Merge(DefaultKeymap())
	if Label(k.Attr) != "ctrl+t" {
		t.Fatalf("expected override kept, got %v", k.Attr)
	}
	if Label(k.SelectAll) != "ctrl+a" {
		t.Fatalf("expected default selectAll, got %v", k.SelectAll)
	}
}

func TestLanguagesFallback(t *testing.T) {
	l := Languages{"untitled": "Sans titre"}
	if got := l.Get("untitled"); got != "Sans titre" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := l.Get("delete"); got != "Delete" {
		t.Fatalf("expected built-in fallback, got %q", got)
	}
	if got := l.Get("no-such-key"); got != "no-such-key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	merged := DefaultLanguages().Merge(Languages{"copy": "Kopieren", "delete": ""})
	if merged.Get("copy") != "Kopieren" || merged.Get("delete") != "Delete" {
		t.Fatalf("unexpected merge result: %q %q", merged.Get("copy"), merged.Get("delete"))
	}
}
