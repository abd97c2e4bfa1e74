package journal

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/stratsim/event"
)

// Writer is the asynchronous boundary between the engine and a Journal.
// Handle assigns a sequence number and enqueues; a fixed worker pool does
// the actual writes. Enqueue is fire-and-forget: a full queue or a failed
// write is logged and dropped, never reported back to the simulation.
type Writer struct {
	runID string
	j     Journal
	queue chan Record
	wg    sync.WaitGroup
	log   zerolog.Logger

	mu     sync.Mutex
	seq    int64
	closed bool

	dropped int64
}

// NewWriter starts the worker pool. workers and depth fall back to sane
// minimums when non-positive.
func NewWriter(runID string, j Journal, workers, depth int, log zerolog.Logger) *Writer {
	if workers < 1 {
		workers = 2
	}
	if depth < 1 {
		depth = 1024
	}
	w := &Writer{
		runID: runID,
		j:     j,
		queue: make(chan Record, depth),
		log:   log,
	}
	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.work()
	}
	return w
}

func (w *Writer) work() {
	defer w.wg.Done()
	for r := range w.queue {
		if err := w.j.RecordEvent(r); err != nil {
			w.log.Error().Err(err).
				Str("run", r.RunID).Int64("seq", r.Seq).Str("kind", r.Kind).
				Msg("journal write failed")
		}
	}
}

// Handle implements event.Listener. It runs on the engine's goroutine;
// sequence numbers therefore record generation order even though writes
// may land out of order across workers.
func (w *Writer) Handle(e event.Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.seq++
	r := Flatten(w.runID, w.seq, e)
	w.mu.Unlock()

	select {
	case w.queue <- r:
	default:
		w.mu.Lock()
		w.dropped++
		n := w.dropped
		w.mu.Unlock()
		w.log.Warn().Str("run", w.runID).Int64("dropped", n).
			Msg("journal queue full, event dropped")
	}
}

// Close stops intake and drains the queue, waiting at most timeout for
// the workers to finish. A timeout is logged, not returned; pending
// writes past it are abandoned.
func (w *Writer) Close(timeout time.Duration) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.queue)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		w.log.Warn().Str("run", w.runID).Dur("timeout", timeout).
			Msg("journal drain timed out")
	}
}
