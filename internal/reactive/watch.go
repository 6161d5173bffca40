package reactive

import "sync"

// WatchOption configures Watch.
type WatchOption func(*watcher)

// Immediate makes the watcher run once at registration, before any source changes.
func Immediate() WatchOption {
	return func(w *watcher) { w.immediate = true }
}

type watcher struct {
	fn        func()
	stops     []func()
	stopped   bool
	queued    bool
	immediate bool
}

func (w *watcher) trigger() {
	if w.stopped {
		return
	}
	if scheduleInBatch(w) {
		return
	}
	w.fn()
}

func (w *watcher) stop() {
	if w.stopped {
		return
	}
	w.stopped = true
	for _, s := range w.stops {
		s()
	}
	w.stops = nil
}

// Watch calls fn whenever any of sources changes and returns a function that stops watching.
// Inside Batch, fn runs once when the outermost batch ends, however many sources changed.
func Watch(sources []Source, fn func(), opts ...WatchOption) (stop func()) {
	w := &watcher{fn: fn}
	for _, o := range opts {
		o(w)
	}
	for _, src := range sources {
		w.stops = append(w.stops, src.onChange(w.trigger))
	}
	if w.immediate {
		w.fn()
	}
	return w.stop
}

// batch state is shared by all watchers. Mutation normally happens on one goroutine;
// the mutex only keeps Batch well-defined if tests drive values from several.
var (
	batchMu    sync.Mutex
	batchDepth int
	batchQueue []*watcher
)

func scheduleInBatch(w *watcher) bool {
	batchMu.Lock()
	defer batchMu.Unlock()
	if batchDepth == 0 {
		return false
	}
	if !w.queued {
		w.queued = true
		batchQueue = append(batchQueue, w)
	}
	return true
}

// Batch runs fn and defers watcher calls until it returns. Nested batches flush with the outermost.
func Batch(fn func()) {
	batchMu.Lock()
	batchDepth++
	batchMu.Unlock()

	defer func() {
		batchMu.Lock()
		batchDepth--
		var pending []*watcher
		if batchDepth == 0 {
			pending = batchQueue
			batchQueue = nil
		}
		batchMu.Unlock()
		for _, w := range pending {
			w.queued = false
			if !w.stopped {
				w.fn()
			}
		}
	}()
	fn()
}
