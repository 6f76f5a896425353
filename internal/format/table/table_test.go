package table

import "testing"

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"Work", "/Plans/Q1", "3"},
		{"Personal", "/", "12"},
	}
	got := Format(rows, []Column{{}, {}, {Align: AlignRight}})
	want := []string{
		"Work      /Plans/Q1   3",
		"Personal  /          12",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatWideRunes(t *testing.T) {
	got := Format([][]string{{"笔记", "x"}, {"ab", "y"}}, nil)
	if got[0] != "笔记  x" || got[1] != "ab    y" {
		t.Fatalf("unexpected rows %q", got)
	}
}

func TestFormatTruncatesToMax(t *testing.T) {
	got := Format([][]string{{"A very long notebook", "/a"}, {"Short", "/b"}}, []Column{{Max: 8}})
	if got[0] != "A very …  /a" {
		t.Fatalf("expected truncated first column, got %q", got[0])
	}
	if got[1] != "Short     /b" {
		t.Fatalf("expected padding to truncated width, got %q", got[1])
	}
}

func TestFormatEmpty(t *testing.T) {
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}
