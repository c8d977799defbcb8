package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/geofence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A Wednesday evening, two minutes past the scheduled start. On time, and
// nowhere near the Saturday multiplier window.
var testNow = time.Date(2026, 8, 26, 19, 2, 0, 0, time.UTC)

var hubCoords = hub.Coordinates{Latitude: 35.6586, Longitude: 139.7454}

type fakeStore struct {
	mu sync.Mutex

	squadSize int
	leader    bool
	leaderErr error
	saveErr   error

	// When set, SaveRecord signals on saveStarted and then blocks until
	// saveRelease closes, so a test can hold the latch open.
	saveStarted chan struct{}
	saveRelease chan struct{}

	saveCalls   int
	awardCalls  int
	awardedXP   int
	completions int
	records     []Record
	reviews     []PeerReview
}

func (f *fakeStore) SquadSize(ctx context.Context, questID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.squadSize, nil
}

func (f *fakeStore) IsLeader(ctx context.Context, questID, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.leaderErr != nil {
		return false, f.leaderErr
	}
	return f.leader, nil
}

func (f *fakeStore) HasRecord(ctx context.Context, questID, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.QuestID == questID && rec.UID == uid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) SaveRecord(ctx context.Context, rec Record) error {
	f.mu.Lock()
	f.saveCalls++
	err := f.saveErr
	started, release := f.saveStarted, f.saveRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.records = append(f.records, rec)
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) MarkCompleted(ctx context.Context, questID, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions++
	return nil
}

func (f *fakeStore) AwardXP(ctx context.Context, uid string, xp int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awardCalls++
	f.awardedXP += xp
	return nil
}

func (f *fakeStore) SubmitReviews(ctx context.Context, questID, reviewerUID string, reviews []PeerReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, reviews...)
	return nil
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, questID, uid string, p *evidence.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "quests/" + questID + "/evidence/" + uid + "-test.jpg", nil
}

func newTestService(store *fakeStore, up *fakeUploader) *Service {
	s := NewService(nil, store, up, geofence.RadiusProductionMeters)
	s.clock = func() time.Time { return testNow }
	s.compress = func(raw []byte) (*evidence.Payload, error) {
		return &evidence.Payload{JPEG: raw, Width: 800, Height: 600}, nil
	}
	return s
}

func testQuest() *quest.Quest {
	return &quest.Quest{
		ID:          "q1",
		Status:      quest.StatusOpen,
		ScheduledAt: time.Date(2026, 8, 26, 19, 0, 0, 0, time.UTC),
	}
}

func testHub() *hub.Hub {
	return &hub.Hub{
		ID:     "h1",
		Name:   "Tokyo Tower Hub",
		Secret: "X7K92M",
		Coords: &hubCoords,
	}
}

// startAttempt injects an attempt directly into the registry, bypassing the
// Firestore-backed quest lookups that Start performs.
func startAttempt(s *Service) *Attempt {
	a := NewAttempt("att-1", "u1", testQuest(), testHub())
	a.touch(testNow)
	s.registry.Put(a)
	return a
}

func atCoords(c hub.Coordinates) LocationFunc {
	return func(context.Context) (hub.Coordinates, error) { return c, nil }
}

func TestPipelineHappyPath(t *testing.T) {
	store := &fakeStore{squadSize: 4, leader: true}
	s := newTestService(store, &fakeUploader{})
	a := startAttempt(s)
	ctx := context.Background()

	st, err := s.CheckLocation(ctx, a.ID, "u1", atCoords(hubCoords))
	require.NoError(t, err)
	assert.Equal(t, StageSecret, st.Stage)
	assert.Equal(t, AdvanceDelay.Milliseconds(), st.AdvanceAfterMs)
	assert.Empty(t, st.Error)

	st, err = s.VerifyCode(a.ID, "u1", "  x7k92m ")
	require.NoError(t, err)
	assert.Equal(t, StageEvidence, st.Stage)

	st, done, err := s.CapturePhoto(a.ID, "u1", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, LayerCapturing, st.LayerStatus)
	require.NoError(t, <-done)

	st, err = s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, LayerCaptured, st.LayerStatus)

	outcome, err := s.Submit(ctx, a.ID, "u1")
	require.NoError(t, err)
	// 100 base + 25 on time + 20 evidence + (4-1)*10 leader, no multiplier.
	assert.Equal(t, 175, outcome.XP)
	assert.True(t, outcome.HasEvidence)
	assert.False(t, outcome.MultiplierActive)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "q1", rec.QuestID)
	assert.Equal(t, "u1", rec.UID)
	assert.True(t, rec.LocationVerified)
	assert.True(t, rec.CodeVerified)
	assert.NotEmpty(t, rec.PhotoPath)
	assert.Equal(t, 1, store.completions)
	assert.Equal(t, 175, store.awardedXP)

	st, err = s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StageComplete, st.Stage)
	require.NotNil(t, st.Outcome)
	assert.Equal(t, 175, st.Outcome.XP)
}

func TestLayersEnforceOrder(t *testing.T) {
	s := newTestService(&fakeStore{squadSize: 1}, &fakeUploader{})
	a := startAttempt(s)
	ctx := context.Background()

	_, err := s.VerifyCode(a.ID, "u1", "X7K92M")
	assert.ErrorIs(t, err, ErrBadState)

	_, _, err = s.CapturePhoto(a.ID, "u1", []byte("x"))
	assert.ErrorIs(t, err, ErrBadState)

	_, err = s.SkipEvidence(a.ID, "u1", true)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = s.Submit(ctx, a.ID, "u1")
	assert.ErrorIs(t, err, ErrBadState)

	_, err = s.CheckLocation(ctx, a.ID, "u1", atCoords(hubCoords))
	require.NoError(t, err)

	// Passed layers are never re-entered.
	_, err = s.CheckLocation(ctx, a.ID, "u1", atCoords(hubCoords))
	assert.ErrorIs(t, err, ErrBadState)

	// Evidence still gated behind the secret layer.
	_, _, err = s.CapturePhoto(a.ID, "u1", []byte("x"))
	assert.ErrorIs(t, err, ErrBadState)
}

func TestCheckLocationOutOfRange(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	ctx := context.Background()

	far := hub.Coordinates{Latitude: hubCoords.Latitude + 0.05, Longitude: hubCoords.Longitude}
	st, err := s.CheckLocation(ctx, a.ID, "u1", atCoords(far))
	require.ErrorIs(t, err, geofence.ErrOutOfRange)
	assert.Equal(t, StageLocation, st.Stage)
	assert.Equal(t, LayerError, st.LayerStatus)
	assert.Greater(t, st.DistanceMeters, float64(geofence.RadiusProductionMeters))
	assert.NotEmpty(t, st.Error)

	// Out of range is recoverable; a rescan from inside the fence passes.
	st, err = s.CheckLocation(ctx, a.ID, "u1", atCoords(hubCoords))
	require.NoError(t, err)
	assert.Equal(t, StageSecret, st.Stage)
	assert.Empty(t, st.Error)
}

func TestCheckLocationSensorFailureSticks(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)

	_, err := s.CheckLocation(context.Background(), a.ID, "u1", func(context.Context) (hub.Coordinates, error) {
		return hub.Coordinates{}, geofence.SensorError(geofence.FailureDenied)
	})
	require.ErrorIs(t, err, geofence.ErrPermissionDenied)

	// Unlike the mismatch debounce the error does not age out; it renders
	// until the next scan replaces it.
	s.clock = func() time.Time { return testNow.Add(time.Hour) }
	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, geofence.ErrPermissionDenied.Error(), st.Error)
}

func TestCheckLocationTimeout(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := s.CheckLocation(ctx, a.ID, "u1", func(c context.Context) (hub.Coordinates, error) {
		<-c.Done()
		return hub.Coordinates{}, c.Err()
	})
	assert.ErrorIs(t, err, geofence.ErrUnavailable)
}

func TestCheckLocationBoundsAcquisition(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)

	var deadlineSet bool
	_, err := s.CheckLocation(context.Background(), a.ID, "u1", func(c context.Context) (hub.Coordinates, error) {
		_, deadlineSet = c.Deadline()
		return hubCoords, nil
	})
	require.NoError(t, err)
	assert.True(t, deadlineSet)
}

func TestCheckLocationMissingHubCoordinates(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	a.Hub.Coords = nil

	_, err := s.CheckLocation(context.Background(), a.ID, "u1", atCoords(hubCoords))
	assert.ErrorIs(t, err, hub.ErrMissingCoordinates)
}

func TestVerifyCodeMismatchDebounce(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	a.stage = StageSecret

	now := testNow
	s.clock = func() time.Time { return now }

	st, err := s.VerifyCode(a.ID, "u1", "WRONG1")
	require.ErrorIs(t, err, secret.ErrMismatch)
	assert.Equal(t, StageSecret, st.Stage)
	assert.NotEmpty(t, st.Error)

	// The mismatch display ages out on its own; no timer involved.
	now = now.Add(secret.MismatchDisplayDuration + time.Millisecond)
	st, err = s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, st.Error)

	// No attempt cap: a later correct entry advances normally.
	st, err = s.VerifyCode(a.ID, "u1", "X7K92M")
	require.NoError(t, err)
	assert.Equal(t, StageEvidence, st.Stage)
}

func TestVerifyCodeOverride(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	a.stage = StageSecret

	st, err := s.VerifyCode(a.ID, "u1", "squadhq")
	require.NoError(t, err)
	assert.Equal(t, StageEvidence, st.Stage)
}

func TestCapturePhotoRejectsConcurrentCapture(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	a.stage = StageEvidence

	block := make(chan struct{})
	s.compress = func(raw []byte) (*evidence.Payload, error) {
		<-block
		return &evidence.Payload{JPEG: raw, Width: 800, Height: 600}, nil
	}

	st, done, err := s.CapturePhoto(a.ID, "u1", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, LayerCapturing, st.LayerStatus)

	_, _, err = s.CapturePhoto(a.ID, "u1", []byte("second"))
	assert.ErrorIs(t, err, evidence.ErrCaptureInProgress)

	_, err = s.SkipEvidence(a.ID, "u1", true)
	assert.ErrorIs(t, err, evidence.ErrCaptureInProgress)

	close(block)
	require.NoError(t, <-done)

	st, err = s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, LayerCaptured, st.LayerStatus)
}

func TestCapturePhotoUploadFailureIsRecoverable(t *testing.T) {
	up := &fakeUploader{err: errors.New("gcs unreachable")}
	s := newTestService(&fakeStore{squadSize: 1}, up)
	a := startAttempt(s)
	a.stage = StageEvidence

	_, done, err := s.CapturePhoto(a.ID, "u1", []byte("x"))
	require.NoError(t, err)
	require.Error(t, <-done)

	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, LayerError, st.LayerStatus)
	assert.NotEmpty(t, st.Error)

	// A new capture replaces the failed one.
	up.mu.Lock()
	up.err = nil
	up.mu.Unlock()
	_, done, err = s.CapturePhoto(a.ID, "u1", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, <-done)
}

func TestSkipEvidenceNeedsConfirmation(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)
	a.stage = StageEvidence

	_, err := s.SkipEvidence(a.ID, "u1", false)
	require.ErrorIs(t, err, evidence.ErrSkipNotConfirmed)

	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, LayerIdle, st.LayerStatus)

	st, err = s.SkipEvidence(a.ID, "u1", true)
	require.NoError(t, err)
	assert.Equal(t, LayerSkipped, st.LayerStatus)
}

// Skipping the photo zeroes the whole reward, not just the evidence bonus.
func TestSubmitAfterSkipForfeitsReward(t *testing.T) {
	store := &fakeStore{squadSize: 4, leader: true}
	s := newTestService(store, &fakeUploader{})
	a := startAttempt(s)
	a.stage = StageEvidence

	_, err := s.SkipEvidence(a.ID, "u1", true)
	require.NoError(t, err)

	outcome, err := s.Submit(context.Background(), a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.XP)
	assert.False(t, outcome.HasEvidence)

	// The record is still persisted; forfeiting XP is not the same as
	// failing verification.
	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.records, 1)
	assert.Empty(t, store.records[0].PhotoPath)
	assert.Equal(t, 1, store.completions)
	assert.Equal(t, 0, store.awardedXP)
}

func TestAbandonDiscardsInFlightCapture(t *testing.T) {
	up := &fakeUploader{}
	s := newTestService(&fakeStore{}, up)
	a := startAttempt(s)
	a.stage = StageEvidence

	block := make(chan struct{})
	s.compress = func(raw []byte) (*evidence.Payload, error) {
		<-block
		return &evidence.Payload{JPEG: raw, Width: 800, Height: 600}, nil
	}

	_, done, err := s.CapturePhoto(a.ID, "u1", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.Abandon(a.ID, "u1"))
	close(block)
	require.NoError(t, <-done)

	_, err = s.Get(a.ID, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	// The late result never lands on the attempt.
	a.mu.Lock()
	defer a.mu.Unlock()
	assert.Nil(t, a.payload)
	assert.Empty(t, a.photoPath)
}

// capturedAttempt fast-forwards an attempt to the submittable state.
func capturedAttempt(s *Service) *Attempt {
	a := startAttempt(s)
	a.stage = StageEvidence
	a.layerStatus = LayerCaptured
	a.photoPath = "quests/q1/evidence/u1-test.jpg"
	return a
}

func TestSubmitConcurrentCallsExecuteOnce(t *testing.T) {
	store := &fakeStore{
		squadSize:   3,
		saveStarted: make(chan struct{}, 1),
		saveRelease: make(chan struct{}),
	}
	s := newTestService(store, &fakeUploader{})
	a := capturedAttempt(s)

	first := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), a.ID, "u1")
		first <- err
	}()

	// Wait until the first call is inside SaveRecord, then race the second
	// against the held latch.
	<-store.saveStarted
	_, err := s.Submit(context.Background(), a.ID, "u1")
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(store.saveRelease)
	require.NoError(t, <-first)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, 1, store.awardCalls)
	require.Len(t, store.records, 1)
}

func TestSubmitAfterSuccessRejected(t *testing.T) {
	store := &fakeStore{squadSize: 1}
	s := newTestService(store, &fakeUploader{})
	a := capturedAttempt(s)

	_, err := s.Submit(context.Background(), a.ID, "u1")
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), a.ID, "u1")
	assert.ErrorIs(t, err, ErrBadState)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.saveCalls)
}

func TestSubmitRetriesExactlyOnce(t *testing.T) {
	store := &fakeStore{squadSize: 1, saveErr: errors.New("unavailable")}
	s := newTestService(store, &fakeUploader{})
	a := capturedAttempt(s)
	ctx := context.Background()

	_, err := s.Submit(ctx, a.ID, "u1")
	require.ErrorIs(t, err, ErrFinalize)

	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StageFailed, st.Stage)
	assert.NotEmpty(t, st.Error)

	// The one retry is consumed whether or not it succeeds.
	_, err = s.Submit(ctx, a.ID, "u1")
	require.ErrorIs(t, err, ErrFinalize)

	_, err = s.Submit(ctx, a.ID, "u1")
	assert.ErrorIs(t, err, ErrRetryExhausted)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 2, store.saveCalls)
}

func TestSubmitRetrySucceedsAfterTransientFailure(t *testing.T) {
	store := &fakeStore{squadSize: 2, saveErr: errors.New("unavailable")}
	s := newTestService(store, &fakeUploader{})
	a := capturedAttempt(s)
	ctx := context.Background()

	_, err := s.Submit(ctx, a.ID, "u1")
	require.ErrorIs(t, err, ErrFinalize)

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()

	outcome, err := s.Submit(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 145, outcome.XP) // 100 + 25 + 20, not leader

	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StageComplete, st.Stage)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.records, 1)
}

func TestSubmitReviews(t *testing.T) {
	store := &fakeStore{leader: false}
	s := newTestService(store, &fakeUploader{})
	ctx := context.Background()

	err := s.SubmitReviews(ctx, "q1", "u1", nil)
	assert.ErrorIs(t, err, ErrBadRequest)

	err = s.SubmitReviews(ctx, "q1", "u1", []PeerReview{{RevieweeUID: "u2", Rating: 0}})
	assert.ErrorIs(t, err, ErrBadRequest)

	err = s.SubmitReviews(ctx, "q1", "u1", []PeerReview{{RevieweeUID: "u2", Rating: 6}})
	assert.ErrorIs(t, err, ErrBadRequest)

	store.mu.Lock()
	store.leaderErr = errors.New("no membership doc")
	store.mu.Unlock()
	err = s.SubmitReviews(ctx, "q1", "u1", []PeerReview{{RevieweeUID: "u2", Rating: 5}})
	assert.ErrorIs(t, err, ErrNotMember)

	store.mu.Lock()
	store.leaderErr = nil
	store.mu.Unlock()
	err = s.SubmitReviews(ctx, "q1", "u1", []PeerReview{
		{RevieweeUID: "u2", Rating: 5, Comment: "carried us"},
		{RevieweeUID: "u3", Rating: 3},
	})
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.reviews, 2)
}

func TestRegistryChecksOwnership(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)

	_, err := s.Get(a.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Abandon(a.ID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Only one location scan may run at a time; a second request during an
// in-flight acquisition is rejected instead of racing on the result.
func TestCheckLocationRejectsOverlappingScan(t *testing.T) {
	s := newTestService(&fakeStore{}, &fakeUploader{})
	a := startAttempt(s)

	started := make(chan struct{})
	release := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		_, err := s.CheckLocation(context.Background(), a.ID, "u1", func(context.Context) (hub.Coordinates, error) {
			close(started)
			<-release
			return hubCoords, nil
		})
		first <- err
	}()

	<-started
	_, err := s.CheckLocation(context.Background(), a.ID, "u1", atCoords(hubCoords))
	assert.ErrorIs(t, err, ErrBadState)

	close(release)
	require.NoError(t, <-first)

	st, err := s.Get(a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, StageSecret, st.Stage)
}

func TestSweepEvictsFinishedAndIdleAttempts(t *testing.T) {
	s := newTestService(&fakeStore{squadSize: 1}, &fakeUploader{})

	completed := NewAttempt("done", "u1", testQuest(), testHub())
	completed.touch(testNow)
	completed.stage = StageComplete
	s.registry.Put(completed)

	active := NewAttempt("active", "u2", testQuest(), testHub())
	active.touch(testNow.Add(-AttemptTTL + time.Minute))
	s.registry.Put(active)

	orphaned := NewAttempt("orphaned", "u3", testQuest(), testHub())
	orphaned.touch(testNow.Add(-AttemptTTL - time.Minute))
	s.registry.Put(orphaned)

	n := s.registry.Sweep(testNow, AttemptTTL)
	assert.Equal(t, 2, n)

	_, err := s.Get("active", "u2")
	require.NoError(t, err)
	_, err = s.Get("done", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("orphaned", "u3")
	assert.ErrorIs(t, err, ErrNotFound)
}

// A successful submit leaves the attempt pollable, and layer operations keep
// a live session out of the sweep's reach.
func TestSweepKeepsTouchedAttempts(t *testing.T) {
	s := newTestService(&fakeStore{squadSize: 1}, &fakeUploader{})
	a := startAttempt(s)
	a.touch(testNow.Add(-AttemptTTL - time.Minute))

	// The scan counts as activity even though the attempt is old.
	_, err := s.CheckLocation(context.Background(), a.ID, "u1", atCoords(hubCoords))
	require.NoError(t, err)

	n := s.registry.Sweep(testNow, AttemptTTL)
	assert.Equal(t, 0, n)

	_, err = s.Get(a.ID, "u1")
	require.NoError(t, err)
}
