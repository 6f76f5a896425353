package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindConf Kind = iota
	KindDoc
)

func (k Kind) String() string {
	switch k {
	case KindConf:
		return "conf"
	case KindDoc:
		return "doc"
	}
	return "unknown"
}

// Event conveys updated data or an error from a backend poll. Data is a
// *conf.Conf for KindConf and a model.DocInfo for KindDoc.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Fetcher is the part of the kernel client the watcher polls.
type Fetcher interface {
	GetConf(ctx context.Context) (*conf.Conf, error)
	DocInfo(ctx context.Context, id string) (model.DocInfo, error)
}

// Watcher polls the kernel at a fixed interval and publishes events.
type Watcher struct {
	src      Fetcher
	docID    string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	pace   *pacer
	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher polling the configuration and, when docID is
// set, the document's metadata every interval.
func NewWatcher(src Fetcher, docID string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		src:      src,
		docID:    docID,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		pace:     newPacer(250*time.Millisecond, interval*4),
		events:   make(chan Event, 16),
	}

	w.startConfPoller()
	if docID != "" {
		w.startDocPoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startConfPoller() {
	w.wg.Add(1)
	go w.poll(KindConf, func(ctx context.Context) (interface{}, error) {
		return w.src.GetConf(ctx)
	})
}

func (w *Watcher) startDocPoller() {
	w.wg.Add(1)
	go w.poll(KindDoc, func(ctx context.Context) (interface{}, error) {
		return w.src.DocInfo(ctx, w.docID)
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		if w.pace.wait(w.ctx) != nil {
			return false
		}
		data, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		w.pace.record(err)
		events.Backend.Poll(kind.String(), err)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
