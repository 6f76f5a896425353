package events

import "github.com/atomicstack/notebook-popup-control/internal/logging"

type SettingsTracer struct{}

var Settings = SettingsTracer{}

func (SettingsTracer) Change(field string) {
	logging.Trace("settings.change", map[string]interface{}{"field": field})
}

func (SettingsTracer) Send(payload interface{}) {
	logging.Trace("settings.send", payload)
}

func (SettingsTracer) Applied(payload interface{}) {
	logging.Trace("settings.applied", payload)
}

func (SettingsTracer) Failed(err error) {
	if err == nil {
		return
	}
	logging.Trace("settings.failed", map[string]interface{}{"error": err.Error()})
}
