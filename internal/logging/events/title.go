package events

import "github.com/atomicstack/notebook-popup-control/internal/logging"

type TitleTracer struct{}

var Title = TitleTracer{}

func (TitleTracer) Render(id string, refresh bool, generation int) {
	logging.Trace("title.render", map[string]interface{}{"id": id, "refresh": refresh, "generation": generation})
}

func (TitleTracer) RenderSkipped(id, state string) {
	logging.Trace("title.render-skip", map[string]interface{}{"id": id, "state": state})
}

func (TitleTracer) RenderStale(id string, got, want int) {
	logging.Trace("title.render-stale", map[string]interface{}{"id": id, "generation": got, "latest": want})
}

func (TitleTracer) Rendered(id, title string, badges int) {
	logging.Trace("title.rendered", map[string]interface{}{"id": id, "title": title, "badges": badges})
}

func (TitleTracer) Blur(id, text string, valid bool) {
	logging.Trace("title.blur", map[string]interface{}{"id": id, "text": text, "valid": valid})
}

func (TitleTracer) Rename(id, notebook, path, title string) {
	logging.Trace("title.rename", map[string]interface{}{"id": id, "notebook": notebook, "path": path, "title": title})
}

func (TitleTracer) Paste(id string, raw, inserted int) {
	logging.Trace("title.paste", map[string]interface{}{"id": id, "raw": raw, "inserted": inserted})
}

func (TitleTracer) DropSuppressed(id, source string) {
	logging.Trace("title.drop-suppressed", map[string]interface{}{"id": id, "source": source})
}

func (TitleTracer) Shortcut(id, name string) {
	logging.Trace("title.shortcut", map[string]interface{}{"id": id, "name": name})
}

func (TitleTracer) Copy(id, kind string) {
	logging.Trace("title.copy", map[string]interface{}{"id": id, "kind": kind})
}
