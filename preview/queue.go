package preview

import (
	"context"
	"log"
	"sync"
	"time"

	"preset-library/events"
	"preset-library/library"
)

// Renderer is the external collaborator that turns an adjustment set
// into a preview image.
type Renderer interface {
	RenderPreview(ctx context.Context, adjustments library.Adjustments) ([]byte, error)
}

// Status of a preset's preview.
type Status int

const (
	// StatusNone: never requested (or invalidated and not re-enqueued).
	StatusNone Status = iota
	// StatusPending: queued or currently rendering.
	StatusPending
	// StatusReady: a cached image is available.
	StatusReady
	// StatusFailed: the render failed; a placeholder is recorded so the
	// preset is not retried until invalidated.
	StatusFailed
)

// Queue produces cached preview images, one render at a time, skipping
// presets that already have a result or are already waiting. Nothing is
// rendered while the source image is not ready.
type Queue struct {
	store    *library.Store
	renderer Renderer
	timeout  time.Duration
	bus      *events.Bus

	mu      sync.Mutex
	pending []string
	queued  map[string]bool
	cache   map[string][]byte // nil value records a failed render
	ready   bool
	stopped bool

	// active is the id currently rendering; activeDirty records an
	// Invalidate that hit it mid-render, so the result must be thrown
	// away instead of cached.
	active      string
	activeDirty bool

	wake chan struct{}
	done chan struct{}
}

// NewQueue builds the queue and starts its consumer goroutine. bus may
// be nil. timeout bounds each render call; zero means no limit.
func NewQueue(store *library.Store, renderer Renderer, timeout time.Duration, bus *events.Bus) *Queue {
	q := &Queue{
		store:    store,
		renderer: renderer,
		timeout:  timeout,
		bus:      bus,
		queued:   make(map[string]bool),
		cache:    make(map[string][]byte),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// SetReady flips the source-image gate. Turning it off drops the
// pending backlog and blocks new enqueues; completed previews stay
// cached.
func (q *Queue) SetReady(ready bool) {
	q.mu.Lock()
	q.ready = ready
	if !ready {
		for _, id := range q.pending {
			delete(q.queued, id)
		}
		q.pending = nil
	}
	q.mu.Unlock()
}

// Ready reports whether the source-image gate is up.
func (q *Queue) Ready() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ready
}

// Enqueue appends the preset to the backlog unless it already has a
// result (success or recorded failure) or is already queued/in-flight.
func (q *Queue) Enqueue(id string) {
	q.enqueue(id, false)
}

// EnqueueFront puts the preset ahead of the backlog so a just-created
// or just-overwritten preset doesn't wait behind a long tail.
func (q *Queue) EnqueueFront(id string) {
	q.enqueue(id, true)
}

func (q *Queue) enqueue(id string, front bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.ready || q.stopped {
		return
	}
	if _, done := q.cache[id]; done {
		return
	}
	if q.queued[id] {
		return
	}
	q.queued[id] = true
	if front {
		q.pending = append([]string{id}, q.pending...)
	} else {
		q.pending = append(q.pending, id)
	}
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// EnqueueRoot queues every root-level preset (preset panel became
// visible).
func (q *Queue) EnqueueRoot() {
	for _, id := range q.store.RootPresetIDs() {
		q.Enqueue(id)
	}
}

// EnqueueFolder queues a folder's children (folder expanded, or a
// preset moved in).
func (q *Queue) EnqueueFolder(folderID string) {
	children, ok := q.store.FolderChildren(folderID)
	if !ok {
		return
	}
	for _, c := range children {
		q.Enqueue(c.ID)
	}
}

// Invalidate evicts the cached preview for id so the next enqueue
// regenerates it. Used when a preset is overwritten or deleted. If id
// is rendering right now, that render's result is discarded too: it
// was produced from the pre-overwrite adjustments.
func (q *Queue) Invalidate(id string) {
	q.mu.Lock()
	delete(q.cache, id)
	if q.active == id {
		q.activeDirty = true
	}
	q.mu.Unlock()
}

// Preview returns the cached image for id together with its status.
func (q *Queue) Preview(id string) ([]byte, Status) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if data, ok := q.cache[id]; ok {
		if data == nil {
			return nil, StatusFailed
		}
		return data, StatusReady
	}
	if q.queued[id] {
		return nil, StatusPending
	}
	return nil, StatusNone
}

// Stop shuts the consumer down. Cached previews remain readable.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()
	close(q.done)
}

func (q *Queue) run() {
	for {
		select {
		case <-q.done:
			return
		case <-q.wake:
		}
		for {
			select {
			case <-q.done:
				return
			default:
			}
			id, ok := q.pop()
			if !ok {
				break
			}
			q.process(id)
		}
	}
}

func (q *Queue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return "", false
	}
	id := q.pending[0]
	q.pending = q.pending[1:]
	// id stays in q.queued while the render is in flight so a
	// re-enqueue during the render is still deduplicated.
	q.active = id
	q.activeDirty = false
	return id, true
}

func (q *Queue) process(id string) {
	entry, ok := q.store.Find(id)
	if !ok || entry.Preset == nil {
		// Deleted (or a folder id slipped in) while waiting.
		q.mu.Lock()
		delete(q.queued, id)
		q.active = ""
		q.mu.Unlock()
		return
	}

	ctx := context.Background()
	cancel := func() {}
	if q.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
	}
	data, err := q.renderer.RenderPreview(ctx, entry.Preset.Adjustments)
	cancel()

	q.mu.Lock()
	if q.activeDirty {
		// The preset was overwritten while rendering: this image shows
		// the old adjustments. Drop it and render again.
		q.activeDirty = false
		q.active = ""
		if q.ready && !q.stopped {
			q.pending = append([]string{id}, q.pending...)
			select {
			case q.wake <- struct{}{}:
			default:
			}
		} else {
			delete(q.queued, id)
		}
		q.mu.Unlock()
		return
	}
	if err != nil {
		q.cache[id] = nil
	} else {
		q.cache[id] = data
	}
	delete(q.queued, id)
	q.active = ""
	q.mu.Unlock()

	if err != nil {
		log.Printf("preview render failed for %s: %v", id, err)
		if q.bus != nil {
			q.bus.Publish(events.Event{Type: events.PreviewFailed, ID: id, Error: err.Error()})
		}
		return
	}
	if q.bus != nil {
		q.bus.Publish(events.Event{Type: events.PreviewReady, ID: id})
	}
}
