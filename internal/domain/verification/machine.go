package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/geofence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/reward"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/secret"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/showdown"

	"github.com/google/uuid"
)

const (
	// LocationTimeout caps how long a location acquisition may stay pending
	// before it is treated as a failure rather than left hanging.
	LocationTimeout = 15 * time.Second

	// AdvanceDelay is how long the client lets the layer-1 success feedback
	// render before moving on; returned with the response so the pacing
	// lives in one place.
	AdvanceDelay = 1500 * time.Millisecond

	// AttemptTTL is how long an attempt may sit idle before the sweep
	// treats it as orphaned. Sessions that navigate away without calling
	// abandon are reclaimed through this.
	AttemptTTL = 30 * time.Minute

	uploadTimeout = 30 * time.Second
)

// LocationFunc is an awaitable position acquisition: the HTTP handler backs
// it with the client-reported scan, tests back it with fakes.
type LocationFunc func(ctx context.Context) (hub.Coordinates, error)

// Service drives the three verification layers in strict order and owns the
// finalize step behind the idempotency latch.
type Service struct {
	registry *Registry
	quests   *quest.Service
	store    Store
	uploader Uploader
	radius   float64

	// injected for tests
	clock    func() time.Time
	compress func([]byte) (*evidence.Payload, error)
}

func NewService(quests *quest.Service, store Store, uploader Uploader, radiusMeters float64) *Service {
	return &Service{
		registry: NewRegistry(),
		quests:   quests,
		store:    store,
		uploader: uploader,
		radius:   radiusMeters,
		clock:    time.Now,
		compress: evidence.Compress,
	}
}

// Start opens (or resumes) the caller's verification attempt for a quest.
// The hub snapshot taken here is what every later layer checks against.
func (s *Service) Start(ctx context.Context, uid, questID string) (Status, error) {
	if questID == "" {
		return Status{}, fmt.Errorf("%w: questId is required", ErrBadRequest)
	}

	s.registry.Sweep(s.clock(), AttemptTTL)

	if existing := s.registry.FindByQuest(questID, uid); existing != nil {
		return existing.Status(s.clock()), nil
	}

	q, err := s.quests.Get(ctx, questID)
	if err != nil {
		return Status{}, err
	}
	if q.Status != quest.StatusOpen {
		return Status{}, fmt.Errorf("%w: quest is %s", ErrBadRequest, q.Status)
	}
	if _, err := s.store.IsLeader(ctx, questID, uid); err != nil {
		return Status{}, fmt.Errorf("%w: join the squad before verifying", ErrNotMember)
	}

	// A persisted record means this user already finished the pipeline for
	// the quest; a fresh attempt would re-run the award.
	if done, err := s.store.HasRecord(ctx, questID, uid); err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrFinalize, err)
	} else if done {
		return Status{}, fmt.Errorf("%w: quest already verified", ErrBadState)
	}

	h, err := s.quests.Hub(ctx, q)
	if err != nil {
		return Status{}, err
	}

	a := NewAttempt(uuid.NewString(), uid, q, h)
	a.touch(s.clock())
	s.registry.Put(a)
	return a.Status(s.clock()), nil
}

// SweepLoop evicts finished and orphaned attempts on a fixed cadence until
// the context is cancelled. Run it from main next to the HTTP server.
func (s *Service) SweepLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.registry.Sweep(s.clock(), AttemptTTL); n > 0 {
				log.Printf("[verification] evicted %d stale attempts", n)
			}
		}
	}
}

// Get returns the attempt's current status.
func (s *Service) Get(attemptID, uid string) (Status, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return Status{}, err
	}
	return a.Status(s.clock()), nil
}

// Abandon tears the attempt down. Navigating away mid-suspension is attempt
// abandonment, never state corruption; an unresolved compression result is
// discarded when it lands.
func (s *Service) Abandon(attemptID, uid string) error {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return err
	}
	a.Abandon()
	s.registry.Remove(attemptID)
	return nil
}

// CheckLocation runs layer 1: acquire a position (bounded by
// LocationTimeout), then check proximity against the hub. All failures are
// recoverable; the caller may rescan.
func (s *Service) CheckLocation(ctx context.Context, attemptID, uid string, acquire LocationFunc) (Status, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return Status{}, err
	}

	a.touch(s.clock())
	a.mu.Lock()
	if a.stage != StageLocation {
		a.mu.Unlock()
		return a.Status(s.clock()), fmt.Errorf("%w: location layer already passed", ErrBadState)
	}
	if a.layerStatus == LayerChecking {
		// A scan is in flight; overlapping scans would race on the result.
		a.mu.Unlock()
		return a.Status(s.clock()), fmt.Errorf("%w: a location scan is already running", ErrBadState)
	}
	a.layerStatus = LayerChecking
	a.clearErr()
	a.mu.Unlock()

	actx, cancel := context.WithTimeout(ctx, LocationTimeout)
	defer cancel()
	coords, err := acquire(actx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = geofence.ErrUnavailable
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.setStickyErr(err.Error())
		return a.statusLocked(s.clock()), err
	}

	if a.Hub.Coords == nil {
		// Distinct from "too far away": the hub document itself is broken.
		a.setStickyErr(hub.ErrMissingCoordinates.Error())
		return a.statusLocked(s.clock()), hub.ErrMissingCoordinates
	}

	res := geofence.CheckProximity(coords, *a.Hub.Coords, s.radius)
	a.distance = res.Distance
	if !res.OK {
		outErr := fmt.Errorf("%w: %.0fm away, need %.0fm", geofence.ErrOutOfRange, res.Distance, res.Radius)
		a.setStickyErr(outErr.Error())
		return a.statusLocked(s.clock()), outErr
	}

	a.layerStatus = LayerIdle
	a.clearErr()
	a.stage = StageSecret

	st := a.statusLocked(s.clock())
	st.AdvanceAfterMs = AdvanceDelay.Milliseconds()
	return st, nil
}

// VerifyCode runs layer 2. A mismatch is recoverable with no attempt cap;
// the error self-clears from the status after the debounce window.
func (s *Service) VerifyCode(attemptID, uid, code string) (Status, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return Status{}, err
	}
	a.touch(s.clock())

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stage != StageSecret {
		return a.statusLocked(s.clock()), fmt.Errorf("%w: secret layer not active", ErrBadState)
	}

	if !secret.Verify(code, a.Hub.Secret) {
		a.setTransientErr(secret.ErrMismatch.Error(), s.clock().Add(secret.MismatchDisplayDuration))
		return a.statusLocked(s.clock()), secret.ErrMismatch
	}

	a.clearErr()
	a.stage = StageEvidence
	a.layerStatus = LayerIdle
	return a.statusLocked(s.clock()), nil
}

// CapturePhoto runs layer 3's capture path. Compression and upload happen in
// a goroutine; the returned channel reports completion for callers (and
// tests) that need to wait. While a capture is in flight the layer status is
// "capturing" and new captures are rejected.
func (s *Service) CapturePhoto(attemptID, uid string, raw []byte) (Status, <-chan error, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return Status{}, nil, err
	}
	a.touch(s.clock())

	a.mu.Lock()
	if a.stage != StageEvidence {
		a.mu.Unlock()
		return a.Status(s.clock()), nil, fmt.Errorf("%w: evidence layer not active", ErrBadState)
	}
	if a.layerStatus == LayerCapturing {
		a.mu.Unlock()
		return a.Status(s.clock()), nil, evidence.ErrCaptureInProgress
	}
	a.captureGen++
	gen := a.captureGen
	a.layerStatus = LayerCapturing
	a.clearErr()
	questID := a.QuestID
	a.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		p, cerr := s.compress(raw)
		var path string
		if cerr == nil {
			// Detached from the request context: the handler has already
			// responded by the time the upload runs.
			uctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
			path, cerr = s.uploader.Upload(uctx, questID, uid, p)
			cancel()
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		if a.captureGen != gen || a.abandoned {
			// The layer was abandoned or superseded; drop the result.
			done <- nil
			return
		}
		if cerr != nil {
			a.setStickyErr(cerr.Error())
			done <- cerr
			return
		}
		a.payload = p
		a.photoPath = path
		a.skipped = false
		a.layerStatus = LayerCaptured
		done <- nil
	}()

	return a.Status(s.clock()), done, nil
}

// SkipEvidence records the explicit decision to forgo the photo. It needs
// the confirmed flag from the second warning step; a single tap never
// silently discards evidence.
func (s *Service) SkipEvidence(attemptID, uid string, confirmed bool) (Status, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return Status{}, err
	}
	a.touch(s.clock())

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stage != StageEvidence {
		return a.statusLocked(s.clock()), fmt.Errorf("%w: evidence layer not active", ErrBadState)
	}
	if a.layerStatus == LayerCapturing {
		return a.statusLocked(s.clock()), evidence.ErrCaptureInProgress
	}
	if !confirmed {
		return a.statusLocked(s.clock()), evidence.ErrSkipNotConfirmed
	}

	a.skipped = true
	a.payload = nil
	a.photoPath = ""
	a.layerStatus = LayerSkipped
	a.clearErr()
	return a.statusLocked(s.clock()), nil
}

// Submit finalizes the attempt: persist the record, trigger the quest
// completion side effect, compute the reward. The latch guarantees at most
// one full execution per attempt; a failed finalize may be retried exactly
// once.
func (s *Service) Submit(ctx context.Context, attemptID, uid string) (*reward.Outcome, error) {
	a, err := s.registry.Get(attemptID, uid)
	if err != nil {
		return nil, err
	}
	a.touch(s.clock())

	a.mu.Lock()
	if a.submitted || a.stage == StageComplete {
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: already completed", ErrBadState)
	}
	if a.submitInFlight {
		a.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	switch a.stage {
	case StageEvidence:
		if a.layerStatus != LayerCaptured && a.layerStatus != LayerSkipped {
			a.mu.Unlock()
			return nil, fmt.Errorf("%w: evidence layer not finished", ErrBadState)
		}
	case StageFailed:
		if a.retryUsed {
			a.mu.Unlock()
			return nil, ErrRetryExhausted
		}
		a.retryUsed = true
	default:
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: nothing to submit", ErrBadState)
	}

	// Latch set before the first persistence call begins; never cleared on
	// success, cleared on failure to permit the single retry.
	a.submitInFlight = true
	a.stage = StageFinalizing

	questID := a.QuestID
	photoPath := a.photoPath
	skipped := a.skipped
	scheduledAt := a.Quest.ScheduledAt
	a.mu.Unlock()

	outcome, err := s.finalize(ctx, a, questID, uid, photoPath, skipped, scheduledAt)
	if err != nil {
		a.mu.Lock()
		a.submitInFlight = false
		a.stage = StageFailed
		a.setStickyErr(err.Error())
		a.mu.Unlock()
		return nil, err
	}

	a.mu.Lock()
	a.submitted = true
	a.stage = StageComplete
	a.layerStatus = LayerSuccess
	a.outcome = outcome
	a.clearErr()
	a.mu.Unlock()
	return outcome, nil
}

func (s *Service) finalize(ctx context.Context, a *Attempt, questID, uid, photoPath string, skipped bool, scheduledAt time.Time) (*reward.Outcome, error) {
	// Live reads at the moment of finalize: members can join up to the last
	// second, so nothing from earlier in the session is trusted here.
	squadSize, err := s.store.SquadSize(ctx, questID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFinalize, err)
	}
	isLeader, err := s.store.IsLeader(ctx, questID, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFinalize, err)
	}

	rec := Record{
		QuestID:          questID,
		UID:              uid,
		LocationVerified: true,
		CodeVerified:     true,
		PhotoPath:        photoPath,
	}
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFinalize, err)
	}

	now := s.clock()
	in := reward.Input{
		OnTime:           reward.OnTime(now, scheduledAt),
		HasEvidence:      photoPath != "",
		Skipped:          skipped,
		IsLeader:         isLeader,
		SquadSize:        squadSize,
		MultiplierActive: showdown.IsActive(now),
	}
	outcome := &reward.Outcome{
		XP:               reward.ComputeXP(in),
		MultiplierActive: in.MultiplierActive,
		HasEvidence:      in.HasEvidence,
	}

	// The record write above is the durability boundary. These two are
	// independent calls against the store and may fail after it succeeded;
	// that is logged, not fatal, per the no-cross-collection-transaction
	// model.
	if err := s.store.MarkCompleted(ctx, questID, uid); err != nil {
		log.Printf("[verification] quest completion failed for %s: %v", questID, err)
	}
	if err := s.store.AwardXP(ctx, uid, outcome.XP); err != nil {
		log.Printf("[verification] xp award failed for %s: %v", uid, err)
	}

	return outcome, nil
}

// SubmitReviews records the caller's peer reviews for a quest.
func (s *Service) SubmitReviews(ctx context.Context, questID, uid string, reviews []PeerReview) error {
	if questID == "" || len(reviews) == 0 {
		return fmt.Errorf("%w: questId and reviews[] are required", ErrBadRequest)
	}
	if _, err := s.store.IsLeader(ctx, questID, uid); err != nil {
		return fmt.Errorf("%w: join the squad before reviewing", ErrNotMember)
	}
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			return fmt.Errorf("%w: rating must be 1-5", ErrBadRequest)
		}
	}
	return s.store.SubmitReviews(ctx, questID, uid, reviews)
}
