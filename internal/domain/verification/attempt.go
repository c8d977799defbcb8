package verification

import (
	"sync"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/reward"
)

// Stage is the attempt's position in the layer pipeline. Stages only move
// forward; a failed layer is retried in place.
type Stage string

const (
	StageLocation   Stage = "location"
	StageSecret     Stage = "secret"
	StageEvidence   Stage = "evidence"
	StageFinalizing Stage = "finalizing"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// LayerStatus is the UI-facing status of the current layer.
type LayerStatus string

const (
	LayerIdle      LayerStatus = "idle"
	LayerChecking  LayerStatus = "checking"
	LayerSuccess   LayerStatus = "success"
	LayerError     LayerStatus = "error"
	LayerCapturing LayerStatus = "capturing"
	LayerCaptured  LayerStatus = "captured"
	LayerSkipped   LayerStatus = "skipped"
)

// NewAttempt builds a fresh attempt positioned at layer 1.
func NewAttempt(id, uid string, q *quest.Quest, h *hub.Hub) *Attempt {
	return &Attempt{
		ID:          id,
		UID:         uid,
		QuestID:     q.ID,
		Quest:       q,
		Hub:         h,
		stage:       StageLocation,
		layerStatus: LayerIdle,
	}
}

// Attempt is one participant's in-memory verification session for a quest.
// Nothing here is persisted; only the terminal Record is. An attempt dies
// with the session (Abandon) or when finalize succeeds.
type Attempt struct {
	ID      string
	UID     string
	QuestID string

	// Snapshots taken at start. The hub is immutable during an attempt;
	// squad size is deliberately NOT snapshotted (read live at finalize).
	Quest *quest.Quest
	Hub   *hub.Hub

	mu sync.Mutex

	stage       Stage
	layerStatus LayerStatus
	distance    float64
	touchedAt   time.Time

	// lastErr renders until retried; a non-zero expiry makes it transient
	// (the secret-mismatch debounce).
	lastErr       string
	lastErrExpiry time.Time

	// evidence terminal state: exactly one of payload/skipped
	payload    *evidence.Payload
	photoPath  string
	skipped    bool
	captureGen int

	// submission idempotency latch
	submitInFlight bool
	submitted      bool
	retryUsed      bool

	abandoned bool

	outcome *reward.Outcome
}

// Status is the wire representation of an attempt.
type Status struct {
	ID             string          `json:"id"`
	QuestID        string          `json:"questId"`
	Stage          Stage           `json:"stage"`
	LayerStatus    LayerStatus     `json:"layerStatus"`
	DistanceMeters float64         `json:"distanceMeters,omitempty"`
	Error          string          `json:"error,omitempty"`
	AdvanceAfterMs int64           `json:"advanceAfterMs,omitempty"`
	Outcome        *reward.Outcome `json:"outcome,omitempty"`
}

// Status reports the attempt state. Transient errors older than their
// debounce window are suppressed, which is how the "self-clearing" mismatch
// display works without a timer.
func (a *Attempt) Status(now time.Time) Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked(now)
}

// statusLocked builds the status snapshot; callers hold a.mu.
func (a *Attempt) statusLocked(now time.Time) Status {
	st := Status{
		ID:          a.ID,
		QuestID:     a.QuestID,
		Stage:       a.stage,
		LayerStatus: a.layerStatus,
		Outcome:     a.outcome,
	}
	if a.distance > 0 {
		st.DistanceMeters = a.distance
	}
	if a.lastErr != "" && (a.lastErrExpiry.IsZero() || now.Before(a.lastErrExpiry)) {
		st.Error = a.lastErr
	}
	return st
}

// Abandon marks the attempt dead. Any in-flight compression result is
// discarded when it lands because the generation no longer matches.
func (a *Attempt) Abandon() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abandoned = true
	a.captureGen++
	a.payload = nil
}

// touch records activity so the registry sweep can tell a live session from
// an orphaned one.
func (a *Attempt) touch(now time.Time) {
	a.mu.Lock()
	a.touchedAt = now
	a.mu.Unlock()
}

// expired reports whether the sweep should evict this attempt: finished,
// abandoned, or idle past the TTL.
func (a *Attempt) expired(now time.Time, ttl time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stage == StageComplete || a.abandoned {
		return true
	}
	return now.Sub(a.touchedAt) > ttl
}

func (a *Attempt) setTransientErr(msg string, until time.Time) {
	a.lastErr = msg
	a.lastErrExpiry = until
	a.layerStatus = LayerError
}

func (a *Attempt) setStickyErr(msg string) {
	a.lastErr = msg
	a.lastErrExpiry = time.Time{}
	a.layerStatus = LayerError
}

func (a *Attempt) clearErr() {
	a.lastErr = ""
	a.lastErrExpiry = time.Time{}
}
