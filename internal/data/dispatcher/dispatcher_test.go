package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/state"
)

func TestHandleConf(t *testing.T) {
	confs := state.NewConfStore(nil)
	d := New(confs, state.NewDocStore())

	same := conf.NewConf()
	if res := d.Handle(backend.Event{Kind: backend.KindConf, Data: same}); res.FileTreeChanged || res.EditorChanged {
		t.Fatalf("expected no change for identical conf, got %+v", res)
	}

	next := conf.NewConf()
	next.FileTree.AllowCreateDeeper = true
	next.Editor.ReadOnly = true
	res := d.Handle(backend.Event{Kind: backend.KindConf, Data: next})
	if !res.FileTreeChanged || !res.EditorChanged {
		t.Fatalf("expected both sections changed, got %+v", res)
	}
	if !confs.FileTree().AllowCreateDeeper || !confs.Editor().ReadOnly {
		t.Fatalf("expected store replaced")
	}
}

func TestHandleDocStamp(t *testing.T) {
	docs := state.NewDocStore()
	d := New(state.NewConfStore(nil), docs)
	info := func(stamp string) model.DocInfo {
		return model.DocInfo{ID: "doc", IAL: map[string]string{model.AttrUpdated: stamp}}
	}

	if res := d.Handle(backend.Event{Kind: backend.KindDoc, Data: info("1")}); res.DocChanged {
		t.Fatalf("first snapshot should only record the stamp")
	}
	if res := d.Handle(backend.Event{Kind: backend.KindDoc, Data: info("1")}); res.DocChanged {
		t.Fatalf("same stamp should not report a change")
	}
	if res := d.Handle(backend.Event{Kind: backend.KindDoc, Data: info("2")}); !res.DocChanged {
		t.Fatalf("expected change for new stamp")
	}
}

func TestHandleError(t *testing.T) {
	d := New(state.NewConfStore(nil), state.NewDocStore())
	boom := errors.New("boom")
	res := d.Handle(backend.Event{Kind: backend.KindDoc, Err: boom})
	if !errors.Is(res.Err, boom) || res.DocChanged {
		t.Fatalf("unexpected result %+v", res)
	}
}
