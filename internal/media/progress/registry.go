package progress

import (
	"sync"
	"time"

	"github.com/orbitads/orbit/backend/internal/logger"
)

// Stage names for progress events
const (
	StageConnected  = "connected"
	StageProcessing = "processing"
	StagePreview    = "preview"
	StageThumbnail  = "thumbnail"
	StageUploading  = "uploading"
	StageComplete   = "complete"
	StageError      = "error"
)

// Event is one progress update for an upload session. Within a stage,
// successive Progress values are non-decreasing; the publisher is
// responsible for that ordering.
type Event struct {
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
}

// Subscription is one client's live view of a session's events
type Subscription struct {
	C      <-chan Event
	events chan Event
}

// Registry is a per-process pub/sub channel for upload progress, keyed by
// session id. It is owned by the request lifecycle and injected where
// needed; there is no ambient global registry. Progress is best-effort
// telemetry: publishing never blocks and never errors.
type Registry struct {
	mu     sync.Mutex
	subs   map[string]*Subscription
	logger logger.Logger
}

// subscriptionBuffer absorbs bursts between client reads. Events beyond
// a full buffer are dropped rather than blocking the pipeline.
const subscriptionBuffer = 64

// NewRegistry creates a new progress registry
func NewRegistry(logger logger.Logger) *Registry {
	return &Registry{
		subs:   make(map[string]*Subscription),
		logger: logger,
	}
}

// Open registers a live subscription for sessionID and immediately
// delivers a connected event. A second Open for the same id replaces the
// first: sessions are single-client by construction, so last writer wins.
func (r *Registry) Open(sessionID string) *Subscription {
	sub := &Subscription{events: make(chan Event, subscriptionBuffer)}
	sub.C = sub.events

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.subs[sessionID]; ok {
		close(prev.events)
	}
	r.subs[sessionID] = sub

	select {
	case sub.events <- Event{Stage: StageConnected, Progress: 0, Message: "Connected"}:
	default:
	}
	return sub
}

// Publish delivers an event to the session's subscriber if one is
// registered. With no subscriber the event is dropped: fire and forget.
func (r *Registry) Publish(sessionID string, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[sessionID]
	if !ok {
		// No subscriber; progress is telemetry, not a correctness channel
		return
	}

	// The send happens under the lock so a concurrent Close or Detach can
	// never close the channel mid-send. The buffer keeps it non-blocking.
	select {
	case sub.events <- event:
	default:
		r.logger.LogDebug("Progress subscriber buffer full, event dropped", map[string]interface{}{
			"sessionId": sessionID,
			"stage":     event.Stage,
		})
	}
}

// Close removes the registration for sessionID and ends its stream
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[sessionID]; ok {
		close(sub.events)
		delete(r.subs, sessionID)
	}
}

// CloseAfter closes the session after a delay, giving the subscriber time
// to drain the terminal event
func (r *Registry) CloseAfter(sessionID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		r.Close(sessionID)
	})
}

// Detach removes the registration only if it still maps to sub. Used on
// client disconnect so a replacement subscription is left untouched.
func (r *Registry) Detach(sessionID string, sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.subs[sessionID]; ok && cur == sub {
		close(cur.events)
		delete(r.subs, sessionID)
	}
}

// HasSubscriber reports whether a live subscription exists for sessionID
func (r *Registry) HasSubscriber(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[sessionID]
	return ok
}
