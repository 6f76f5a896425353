package dispatcher

import (
	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/state"
)

type Result struct {
	FileTreeChanged bool
	EditorChanged   bool
	// DocChanged is set when the document's updated stamp moved since the
	// previous snapshot. The first snapshot only records the stamp.
	DocChanged bool
	Err        error
}

type Dispatcher struct {
	conf state.ConfStore
	doc  state.DocStore
}

func New(c state.ConfStore, d state.DocStore) *Dispatcher {
	return &Dispatcher{conf: c, doc: d}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindConf:
		if next, ok := evt.Data.(*conf.Conf); ok && next != nil {
			prev := d.conf.Conf()
			d.conf.SetConf(next)
			cur := d.conf.Conf()
			res.FileTreeChanged = *prev.FileTree != *cur.FileTree
			res.EditorChanged = *prev.Editor != *cur.Editor
		}
	case backend.KindDoc:
		if info, ok := evt.Data.(model.DocInfo); ok {
			_, known := d.doc.Info()
			prev := d.doc.Updated()
			d.doc.SetInfo(info)
			res.DocChanged = known && prev != info.Attr(model.AttrUpdated)
		}
	}
	return res
}
