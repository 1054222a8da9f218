package store

import (
	"context"
	"encoding/json"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/formation"
	"fangemeinschaft/internal/pipeline"

	"gorm.io/gorm"
)

// FormationStore manages lineups and the single active formation
type FormationStore struct {
	*Repository[domain.Formation]
}

func formationScope(q *gorm.DB) *gorm.DB {
	return q.Preload("Match").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Players.Player")
}

// CreateLineup stores a formation for matchID with players in the given order.
// When active is set the new formation replaces the active one in the same
// transaction.
func (s *FormationStore) CreateLineup(ctx context.Context, matchID string, positions []formation.Position, active bool) (*domain.Formation, error) {
	if issues := formation.Validate(positions); len(issues) > 0 {
		return nil, apperr.Validation("Invalid formation", issues...)
	}
	rec := &domain.Formation{MatchID: matchID, Active: active, Players: lineup(positions)}
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Create, Args: rec}
	out, err := s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if err := s.checkRefs(ctx, matchID, positions); err != nil {
			return nil, err
		}
		if active {
			if err := s.deactivateAll(ctx); err != nil {
				return nil, err
			}
		}
		if err := s.conn(ctx).Create(rec).Error; err != nil {
			return nil, dbError(s.cfg.model, "create", err)
		}
		return s.find(ctx, rec.ID)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Formation), nil
}

// UpdateLineup replaces the players of a formation when positions is non-nil
// and sets its active flag when active is non-nil
func (s *FormationStore) UpdateLineup(ctx context.Context, id string, positions []formation.Position, active *bool) (*domain.Formation, error) {
	if positions != nil {
		if issues := formation.Validate(positions); len(issues) > 0 {
			return nil, apperr.Validation("Invalid formation", issues...)
		}
	}
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Update, ID: id, Args: positions, Snapshot: s.snapshot(id)}
	out, err := s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		rec, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}
		db := s.conn(ctx)
		if positions != nil {
			if err := s.checkRefs(ctx, rec.MatchID, positions); err != nil {
				return nil, err
			}
			if err := db.Where("formation_id = ?", id).Delete(&domain.FormationPlayer{}).Error; err != nil {
				return nil, dbError(s.cfg.model, "clear players", err)
			}
			if players := lineup(positions); len(players) > 0 {
				for i := range players {
					players[i].FormationID = id
				}
				if err := db.Create(&players).Error; err != nil {
					return nil, dbError(s.cfg.model, "place players", err)
				}
			}
		}
		if active != nil && *active != rec.Active {
			if *active {
				if err := s.deactivateAll(ctx); err != nil {
					return nil, err
				}
			}
			if err := db.Model(&domain.Formation{}).Where("id = ?", id).Update("active", *active).Error; err != nil {
				return nil, dbError(s.cfg.model, "update", err)
			}
		} else if err := db.Model(&domain.Formation{}).Where("id = ?", id).Update("updated_at", s.now()).Error; err != nil {
			return nil, dbError(s.cfg.model, "update", err)
		}
		return s.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Formation), nil
}

// Activate makes id the only active formation
func (s *FormationStore) Activate(ctx context.Context, id string) (*domain.Formation, error) {
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Update, ID: id, Args: "activate", Snapshot: s.snapshot(id)}
	out, err := s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if _, err := s.find(ctx, id); err != nil {
			return nil, err
		}
		if err := s.deactivateAll(ctx); err != nil {
			return nil, err
		}
		if err := s.conn(ctx).Model(&domain.Formation{}).Where("id = ?", id).Update("active", true).Error; err != nil {
			return nil, dbError(s.cfg.model, "activate", err)
		}
		return s.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Formation), nil
}

// Active returns the active formation
func (s *FormationStore) Active(ctx context.Context) (*domain.Formation, error) {
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.FindFirst, Args: "active", Decode: s.decode()}
	out, err := s.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		var rec domain.Formation
		if err := s.read(ctx).Where("active = ?", true).First(&rec).Error; err != nil {
			return nil, dbError(s.cfg.model, "find active", err)
		}
		return &rec, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Formation), nil
}

func (s *FormationStore) deactivateAll(ctx context.Context) error {
	err := s.conn(ctx).Model(&domain.Formation{}).Where("active = ?", true).Update("active", false).Error
	return dbError(s.cfg.model, "deactivate", err)
}

// checkRefs makes sure the match and every placed player exist
func (s *FormationStore) checkRefs(ctx context.Context, matchID string, positions []formation.Position) error {
	db := s.conn(ctx)
	var n int64
	if err := db.Model(&domain.Match{}).Where("id = ? AND deleted = ?", matchID, false).Count(&n).Error; err != nil {
		return dbError(domain.ModelMatch, "count", err)
	}
	if n == 0 {
		return apperr.Validation("Invalid formation", apperr.Issue{Path: "matchId", Message: "Match does not exist"})
	}
	if len(positions) == 0 {
		return nil
	}
	ids := make([]string, len(positions))
	for i, p := range positions {
		ids[i] = p.PlayerID
	}
	if err := db.Model(&domain.Player{}).Where("id IN ? AND deleted = ?", ids, false).Count(&n).Error; err != nil {
		return dbError(domain.ModelPlayer, "count", err)
	}
	if int(n) != len(ids) {
		return apperr.Validation("Invalid formation", apperr.Issue{Path: "positions", Message: "Unknown player in lineup"})
	}
	return nil
}

func lineup(positions []formation.Position) []domain.FormationPlayer {
	players := make([]domain.FormationPlayer, len(positions))
	for i, p := range positions {
		players[i] = domain.FormationPlayer{
			PlayerID:  p.PlayerID,
			PositionX: p.PositionX,
			PositionY: p.PositionY,
			SortOrder: i,
		}
	}
	return players
}

// PositionsOf converts stored players back to wire positions
func PositionsOf(f *domain.Formation) []formation.Position {
	out := make([]formation.Position, len(f.Players))
	for i, p := range f.Players {
		out[i] = formation.Position{PlayerID: p.PlayerID, PositionX: p.PositionX, PositionY: p.PositionY}
	}
	return out
}

// MarshalPositions encodes a formation's lineup for the editor's hidden field
func MarshalPositions(f *domain.Formation) (string, error) {
	b, err := json.Marshal(PositionsOf(f))
	return string(b), err
}
