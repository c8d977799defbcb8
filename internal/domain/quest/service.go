package quest

import (
	"context"
	"fmt"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
	"github.com/Ayuu1305/squad-quest-sub002/internal/utils"
)

type Service struct {
	repo    *Repo
	hubRepo *hub.Repo
}

func NewService(repo *Repo, hubRepo *hub.Repo) *Service {
	return &Service{repo: repo, hubRepo: hubRepo}
}

// Create validates and creates a quest hosted by uid.
func (s *Service) Create(ctx context.Context, uid string, input CreateQuestInput) (*Quest, error) {
	input.Trim()

	if input.Title == "" || input.ScheduledAt == "" {
		return nil, fmt.Errorf("%w: title and scheduledAt are required", ErrBadRequest)
	}
	if input.HubID == "" && input.HubName == "" {
		return nil, fmt.Errorf("%w: hubId or hubName is required", ErrBadRequest)
	}

	scheduledAt, err := utils.ParseTime(input.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("%w: scheduledAt must be a valid timestamp", ErrBadRequest)
	}

	// Resolve the hub up front so a quest never points at a venue that
	// doesn't exist.
	if input.HubID != "" {
		if _, err := s.hubRepo.Get(ctx, input.HubID); err != nil {
			return nil, fmt.Errorf("%w: hub %q not found", ErrBadRequest, input.HubID)
		}
	} else {
		h, err := s.hubRepo.GetByName(ctx, input.HubName)
		if err != nil {
			return nil, fmt.Errorf("%w: hub %q not found", ErrBadRequest, input.HubName)
		}
		input.HubID = h.ID
		input.HubName = h.Name
	}

	q := Quest{
		Title:             input.Title,
		ScheduledAt:       scheduledAt,
		GenderRequirement: input.GenderRequirement,
		HubID:             input.HubID,
		HubName:           input.HubName,
		Vibe:              input.Vibe,
	}
	return s.repo.Create(ctx, uid, q)
}

// Get retrieves a quest by ID
func (s *Service) Get(ctx context.Context, questID string) (*Quest, error) {
	if questID == "" {
		return nil, fmt.Errorf("%w: questId is required", ErrBadRequest)
	}
	return s.repo.Get(ctx, questID)
}

// Members lists the quest's squad
func (s *Service) Members(ctx context.Context, questID string) ([]SquadMember, error) {
	if questID == "" {
		return nil, fmt.Errorf("%w: questId is required", ErrBadRequest)
	}
	return s.repo.Members(ctx, questID)
}

// Join adds uid to the squad. Allowed while the quest is still open, which
// includes the verification window itself.
func (s *Service) Join(ctx context.Context, questID, uid string) error {
	if questID == "" {
		return fmt.Errorf("%w: questId is required", ErrBadRequest)
	}

	q, err := s.repo.Get(ctx, questID)
	if err != nil {
		return err
	}
	if q.Status != StatusOpen {
		return fmt.Errorf("%w: cannot join a %s quest", ErrClosed, q.Status)
	}

	if existing, _ := s.repo.GetMember(ctx, questID, uid); existing != nil {
		return fmt.Errorf("%w: already a member", ErrBadRequest)
	}

	return s.repo.Join(ctx, questID, uid)
}

// Hub resolves the quest's target hub, preferring the ID reference and
// falling back to the legacy name reference.
func (s *Service) Hub(ctx context.Context, q *Quest) (*hub.Hub, error) {
	if q.HubID != "" {
		return s.hubRepo.Get(ctx, q.HubID)
	}
	if q.HubName != "" {
		return s.hubRepo.GetByName(ctx, q.HubName)
	}
	return nil, fmt.Errorf("%w: quest has no hub reference", hub.ErrNotFound)
}
