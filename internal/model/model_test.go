package model

import "testing"

func TestPaths(t *testing.T) {
	if got := ChildPath("", "a"); got != "/a.sy" {
		t.Fatalf("root child: %q", got)
	}
	if got := ChildPath("/", "a"); got != "/a.sy" {
		t.Fatalf("slash child: %q", got)
	}
	if got := ChildPath("/a.sy", "b"); got != "/a/b.sy" {
		t.Fatalf("nested child: %q", got)
	}
	if got := DocDir("/a/b.sy"); got != "/a/b" {
		t.Fatalf("doc dir: %q", got)
	}
	if got := IDFromPath("/a/b.sy"); got != "b" {
		t.Fatalf("id from path: %q", got)
	}
}

func TestFirstContentBlockSkipsContainers(t *testing.T) {
	blocks := []Block{
		{ID: "l1", Type: TypeList},
		{ID: "i1", Type: TypeListItem},
		{ID: "p1", Type: TypeParagraph},
		{ID: "h1", Type: TypeHeading},
	}
	got, ok := FirstContentBlock(blocks)
	if !ok || got.ID != "p1" {
		t.Fatalf("expected p1, got %#v (%v)", got, ok)
	}
	if _, ok := FirstContentBlock([]Block{{Type: TypeBlockquote}}); ok {
		t.Fatalf("expected no content block")
	}
}

func TestDocInfoAttr(t *testing.T) {
	var info DocInfo
	if info.Title() != "" {
		t.Fatalf("expected empty title from nil IAL")
	}
	info.IAL = map[string]string{AttrTitle: "T"}
	if info.Title() != "T" {
		t.Fatalf("expected title T")
	}
}
