package store

import (
	"context"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/pipeline"

	"gorm.io/gorm"
)

// NextMatchInput carries the editable teaser fields
type NextMatchInput struct {
	MatchID         string
	TicketLink      string
	MoreInfoContent string
}

// NextMatchStore manages the home page teaser and its history
type NextMatchStore struct {
	*Repository[domain.NextMatch]
	history *Repository[domain.NextMatchHistory]
}

func matchScope(q *gorm.DB) *gorm.DB {
	return q.Preload("Match")
}

// CreateTeaser stores an inactive teaser for an existing match
func (s *NextMatchStore) CreateTeaser(ctx context.Context, in NextMatchInput) (*domain.NextMatch, error) {
	rec := &domain.NextMatch{MatchID: in.MatchID, TicketLink: in.TicketLink, MoreInfoContent: in.MoreInfoContent}
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Create, Args: rec}
	out, err := s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if err := s.checkMatch(ctx, in.MatchID); err != nil {
			return nil, err
		}
		if err := s.conn(ctx).Create(rec).Error; err != nil {
			return nil, dbError(s.cfg.model, "create", err)
		}
		return s.find(ctx, rec.ID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.NextMatch), nil
}

// UpdateTeaser changes the ticket link and info text of a teaser
func (s *NextMatchStore) UpdateTeaser(ctx context.Context, id string, in NextMatchInput) (*domain.NextMatch, error) {
	changes := map[string]any{
		"ticket_link":       in.TicketLink,
		"more_info_content": in.MoreInfoContent,
	}
	if in.MatchID != "" {
		if err := s.checkMatch(ctx, in.MatchID); err != nil {
			return nil, err
		}
		changes["match_id"] = in.MatchID
	}
	return s.Update(ctx, id, changes)
}

// Activate makes id the active teaser. The previously active one is archived
// to the history and deactivated; activating the active teaser changes nothing.
func (s *NextMatchStore) Activate(ctx context.Context, id string) (*domain.NextMatch, error) {
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Update, ID: id, Args: "activate", Snapshot: s.snapshot(id)}
	out, err := s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		target, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		if target.Active {
			return target, nil
		}

		db := s.conn(ctx)
		now := s.now()
		var current []domain.NextMatch
		if err := db.Where("active = ?", true).Find(&current).Error; err != nil {
			return nil, dbError(s.cfg.model, "find active", err)
		}
		for _, prev := range current {
			activatedAt := prev.CreatedAt
			if prev.ActivatedAt != nil {
				activatedAt = *prev.ActivatedAt
			}
			entry := &domain.NextMatchHistory{
				MatchID:         prev.MatchID,
				TicketLink:      prev.TicketLink,
				MoreInfoContent: prev.MoreInfoContent,
				ActivatedAt:     activatedAt,
				DeactivatedAt:   now,
			}
			if err := db.Create(entry).Error; err != nil {
				return nil, dbError(domain.ModelNextMatchHistory, "archive", err)
			}
		}
		if len(current) > 0 {
			if err := db.Model(&domain.NextMatch{}).Where("active = ?", true).Update("active", false).Error; err != nil {
				return nil, dbError(s.cfg.model, "deactivate", err)
			}
		}
		if err := db.Model(&domain.NextMatch{}).Where("id = ?", id).
			Updates(map[string]any{"active": true, "activated_at": now}).Error; err != nil {
			return nil, dbError(s.cfg.model, "activate", err)
		}
		return s.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.NextMatch), nil
}

// Active returns the active teaser
func (s *NextMatchStore) Active(ctx context.Context) (*domain.NextMatch, error) {
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.FindFirst, Args: "active", Decode: s.decode()}
	out, err := s.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		var rec domain.NextMatch
		if err := s.read(ctx).Where("active = ?", true).First(&rec).Error; err != nil {
			return nil, dbError(s.cfg.model, "find active", err)
		}
		return &rec, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.NextMatch), nil
}

// History lists archived teasers, most recently activated first
func (s *NextMatchStore) History(ctx context.Context) ([]domain.NextMatchHistory, error) {
	return s.history.List(ctx)
}

func (s *NextMatchStore) checkMatch(ctx context.Context, matchID string) error {
	if matchID == "" {
		return apperr.Validation("Invalid next match", apperr.Issue{Path: "matchId", Message: "Match is required"})
	}
	var n int64
	if err := s.conn(ctx).Model(&domain.Match{}).Where("id = ? AND deleted = ?", matchID, false).Count(&n).Error; err != nil {
		return dbError(domain.ModelMatch, "count", err)
	}
	if n == 0 {
		return apperr.Validation("Invalid next match", apperr.Issue{Path: "matchId", Message: "Match does not exist"})
	}
	return nil
}
