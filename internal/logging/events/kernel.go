package events

import "github.com/atomicstack/notebook-popup-control/internal/logging"

type KernelTracer struct{}

type BackendTracer struct{}

var (
	Kernel  = KernelTracer{}
	Backend = BackendTracer{}
)

func (KernelTracer) Listen(addr, dbPath string) {
	logging.Trace("kernel.listen", map[string]interface{}{"addr": addr, "db": dbPath})
}

func (KernelTracer) Request(endpoint string, code int) {
	logging.Trace("kernel.request", map[string]interface{}{"endpoint": endpoint, "code": code})
}

func (KernelTracer) Import(id string, blocks, refs int) {
	logging.Trace("kernel.import", map[string]interface{}{"id": id, "blocks": blocks, "refs": refs})
}

func (BackendTracer) Poll(kind string, err error) {
	payload := map[string]interface{}{"kind": kind}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.poll", payload)
}
