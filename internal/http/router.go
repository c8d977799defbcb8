package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/config"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/geofence"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/profile"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/rank"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/secret"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/showdown"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/verification"
	"github.com/Ayuu1305/squad-quest-sub002/internal/handlers"
	"github.com/Ayuu1305/squad-quest-sub002/internal/middleware"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Cfg             config.Config
	AuthClient      *auth.Client
	QuestSvc        *quest.Service
	HubRepo         *hub.Repo
	VerificationSvc *verification.Service
	RankSvc         *rank.Service
	ProfileSvc      *profile.Service
	Photos          *handlers.Photos
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			p, err := d.ProfileSvc.Get(r.Context(), au.UID)
			if err != nil {
				// First sign-in: create the minimal profile, return it.
				if errors.Is(err, profile.ErrNotFound) {
					if err := d.ProfileSvc.UpsertMinimal(r.Context(), au.UID, au.Email); err == nil {
						p, err = d.ProfileSvc.Get(r.Context(), au.UID)
					}
				}
				if err != nil {
					status, msg := mapProfileError(err)
					Fail(w, status, msg)
					return
				}
			}
			WriteJSON(w, 200, p)
		})

		pr.Patch("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in profile.UpdateProfileInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			if err := d.ProfileSvc.Update(r.Context(), au.UID, in); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		// ===== Quest routes =====
		pr.Post("/v1/quests", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in quest.CreateQuestInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.QuestSvc.Create(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapQuestError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/quests/{questId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.QuestSvc.Get(r.Context(), chi.URLParam(r, "questId"))
			if err != nil {
				status, msg := mapQuestError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/quests/{questId}/members", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.QuestSvc.Members(r.Context(), chi.URLParam(r, "questId"))
			if err != nil {
				status, msg := mapQuestError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"members": out})
		})

		pr.Post("/v1/quests/{questId}/members", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if err := d.QuestSvc.Join(r.Context(), chi.URLParam(r, "questId"), au.UID); err != nil {
				status, msg := mapQuestError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, map[string]any{"success": true})
		})

		pr.Post("/v1/quests/{questId}/reviews", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				Reviews []verification.PeerReview `json:"reviews"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			if err := d.VerificationSvc.SubmitReviews(r.Context(), chi.URLParam(r, "questId"), au.UID, in.Reviews); err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, map[string]any{"success": true})
		})

		// ===== Hub routes =====
		pr.Get("/v1/hubs/search", func(w http.ResponseWriter, r *http.Request) {
			name := strings.TrimSpace(r.URL.Query().Get("name"))
			out, err := d.HubRepo.GetByName(r.Context(), name)
			if err != nil {
				status, msg := mapHubError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/hubs/{hubId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.HubRepo.Get(r.Context(), chi.URLParam(r, "hubId"))
			if err != nil {
				status, msg := mapHubError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Verification pipeline =====
		pr.Post("/v1/quests/{questId}/verification", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			st, err := d.VerificationSvc.Start(r.Context(), au.UID, chi.URLParam(r, "questId"))
			if err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, st)
		})

		pr.Get("/v1/verification/{attemptId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			st, err := d.VerificationSvc.Get(chi.URLParam(r, "attemptId"), au.UID)
			if err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, st)
		})

		pr.Delete("/v1/verification/{attemptId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if err := d.VerificationSvc.Abandon(chi.URLParam(r, "attemptId"), au.UID); err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/verification/{attemptId}/location", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in verification.LocationReport
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			acquire := func(ctx context.Context) (hub.Coordinates, error) {
				if in.Failure != "" {
					return hub.Coordinates{}, geofence.SensorError(geofence.FailureKind(in.Failure))
				}
				if in.Latitude == nil || in.Longitude == nil {
					return hub.Coordinates{}, geofence.ErrUnavailable
				}
				return hub.Coordinates{Latitude: *in.Latitude, Longitude: *in.Longitude}, nil
			}

			st, err := d.VerificationSvc.CheckLocation(r.Context(), chi.URLParam(r, "attemptId"), au.UID, acquire)
			if err != nil {
				status, msg := mapVerificationError(err)
				// The layer error is part of the attempt state; return it
				// too so the client renders the specific cause.
				WriteJSON(w, status, map[string]any{"message": msg, "attempt": st})
				return
			}
			WriteJSON(w, 200, st)
		})

		pr.Post("/v1/verification/{attemptId}/code", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			st, err := d.VerificationSvc.VerifyCode(chi.URLParam(r, "attemptId"), au.UID, in.Code)
			if err != nil {
				status, msg := mapVerificationError(err)
				WriteJSON(w, status, map[string]any{"message": msg, "attempt": st})
				return
			}
			WriteJSON(w, 200, st)
		})

		pr.Post("/v1/verification/{attemptId}/photo", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				ImageBase64 string `json:"imageBase64"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ImageBase64 == "" {
				Fail(w, 400, "imageBase64 is required")
				return
			}
			raw, err := base64.StdEncoding.DecodeString(in.ImageBase64)
			if err != nil {
				Fail(w, 400, "imageBase64 is not valid base64")
				return
			}

			st, _, err := d.VerificationSvc.CapturePhoto(chi.URLParam(r, "attemptId"), au.UID, raw)
			if err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			// Compression runs in the background; the client polls the
			// attempt until the layer leaves "capturing".
			WriteJSON(w, 202, st)
		})

		pr.Post("/v1/verification/{attemptId}/skip", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in struct {
				Confirmed bool `json:"confirmed"`
			}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			st, err := d.VerificationSvc.SkipEvidence(chi.URLParam(r, "attemptId"), au.UID, in.Confirmed)
			if err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, st)
		})

		pr.Post("/v1/verification/{attemptId}/submit", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			out, err := d.VerificationSvc.Submit(r.Context(), chi.URLParam(r, "attemptId"), au.UID)
			if err != nil {
				status, msg := mapVerificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Rank / leaderboard =====
		pr.Get("/v1/rank", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			city := strings.TrimSpace(r.URL.Query().Get("city"))
			category := rank.Category(strings.TrimSpace(r.URL.Query().Get("category")))

			p, err := d.ProfileSvc.Get(r.Context(), au.UID)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			if city == "" {
				city = p.City
			}

			myScore := scoreFor(p, category)
			out, err := d.RankSvc.Rank(r.Context(), city, category, myScore)
			if err != nil {
				status, msg := mapRankError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{
				"city":     city,
				"category": category,
				"score":    myScore,
				"rank":     out,
			})
		})

		pr.Get("/v1/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			city := strings.TrimSpace(r.URL.Query().Get("city"))
			category := rank.Category(strings.TrimSpace(r.URL.Query().Get("category")))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

			out, err := d.RankSvc.Leaderboard(r.Context(), city, category, limit)
			if err != nil {
				status, msg := mapRankError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"city": city, "category": category, "entries": out})
		})

		// ===== Showdown window =====
		pr.Get("/v1/showdown", func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			WriteJSON(w, 200, map[string]any{
				"active":            showdown.IsActive(now),
				"remainingSeconds":  int64(showdown.TimeRemaining(now).Seconds()),
				"untilResetSeconds": int64(showdown.UntilWeeklyReset(now).Seconds()),
			})
		})

		// ===== Evidence photo view URLs =====
		if d.Photos != nil {
			pr.Post("/v1/evidence/view-url", d.Photos.CreateViewURL)
		}
	})

	return r
}

// scoreFor picks the caller's own score for the category. For the all-time
// category the ranking field is lifetimeXP; the spendable xp balance is only
// a display value.
func scoreFor(p *profile.UserProfile, category rank.Category) int64 {
	switch category {
	case rank.CategoryWeekly:
		return p.ThisWeekXP
	case rank.CategoryAllTime:
		return p.LifetimeXP
	case rank.CategoryReliability:
		return p.ReliabilityScore
	}
	return 0
}

func mapQuestError(err error) (int, string) {
	switch {
	case errors.Is(err, quest.ErrBadRequest):
		return 400, err.Error()
	case errors.Is(err, quest.ErrNotFound):
		return 404, err.Error()
	case errors.Is(err, quest.ErrUnauthorized):
		return 403, err.Error()
	case errors.Is(err, quest.ErrClosed):
		return 409, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapHubError(err error) (int, string) {
	switch {
	case errors.Is(err, hub.ErrBadRequest):
		return 400, err.Error()
	case errors.Is(err, hub.ErrNotFound):
		return 404, err.Error()
	case errors.Is(err, hub.ErrMissingCoordinates):
		return 422, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapVerificationError(err error) (int, string) {
	switch {
	case errors.Is(err, verification.ErrBadRequest):
		return 400, err.Error()
	case errors.Is(err, verification.ErrNotFound):
		return 404, err.Error()
	case errors.Is(err, verification.ErrNotMember):
		return 403, err.Error()
	case errors.Is(err, verification.ErrBadState):
		return 409, err.Error()
	case errors.Is(err, verification.ErrSubmitInFlight):
		return 409, err.Error()
	case errors.Is(err, verification.ErrRetryExhausted):
		return 409, err.Error()
	case errors.Is(err, verification.ErrFinalize):
		return 502, err.Error()
	case errors.Is(err, secret.ErrMismatch):
		return 400, err.Error()
	case errors.Is(err, evidence.ErrCaptureInProgress):
		return 409, err.Error()
	case errors.Is(err, evidence.ErrSkipNotConfirmed):
		return 400, err.Error()
	case errors.Is(err, evidence.ErrDecode):
		return 400, err.Error()
	case errors.Is(err, hub.ErrMissingCoordinates):
		return 422, err.Error()
	case errors.Is(err, geofence.ErrOutOfRange),
		errors.Is(err, geofence.ErrUnsupported),
		errors.Is(err, geofence.ErrPermissionDenied),
		errors.Is(err, geofence.ErrUnavailable):
		return 400, err.Error()
	case errors.Is(err, quest.ErrNotFound):
		return 404, err.Error()
	case errors.Is(err, quest.ErrBadRequest):
		return 400, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapRankError(err error) (int, string) {
	switch {
	case errors.Is(err, rank.ErrBadRequest):
		return 400, err.Error()
	default:
		return 500, "internal error"
	}
}

func mapProfileError(err error) (int, string) {
	switch {
	case errors.Is(err, profile.ErrBadRequest):
		return 400, err.Error()
	case errors.Is(err, profile.ErrNotFound):
		return 404, err.Error()
	default:
		return 500, "internal error"
	}
}
