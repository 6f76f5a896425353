package events

import "github.com/atomicstack/notebook-popup-control/internal/logging"

type MenuTracer struct{}

var Menu = MenuTracer{}

func (MenuTracer) Remove(generation int) {
	logging.Trace("menu.remove", map[string]interface{}{"generation": generation})
}

func (MenuTracer) Popup(generation, items int) {
	logging.Trace("menu.popup", map[string]interface{}{"generation": generation, "items": items})
}

func (MenuTracer) Delete(notebook, path string, subFiles int) {
	logging.Trace("menu.delete", map[string]interface{}{"notebook": notebook, "path": path, "subFiles": subFiles})
}

func (MenuTracer) Move(id, toNotebook, toPath string) {
	logging.Trace("menu.move", map[string]interface{}{"id": id, "toNotebook": toNotebook, "toPath": toPath})
}

func (MenuTracer) Attrs(id string, keys []string) {
	logging.Trace("menu.attrs", map[string]interface{}{"id": id, "keys": keys})
}

func (MenuTracer) Reminder(id, timed string) {
	logging.Trace("menu.reminder", map[string]interface{}{"id": id, "timed": timed})
}

func (MenuTracer) Panel(kind, id string) {
	logging.Trace("menu.panel", map[string]interface{}{"kind": kind, "id": id})
}

func (MenuTracer) StaleLoad(id string, got, want int) {
	logging.Trace("menu.stale-load", map[string]interface{}{"id": id, "generation": got, "current": want})
}
