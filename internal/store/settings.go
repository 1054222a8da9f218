package store

import (
	"context"
	"encoding/json"

	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/pipeline"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// SettingsInput carries the editable settings. Nil fields are left unchanged.
type SettingsInput struct {
	LogoURL           *string
	ChatEnabled       *bool
	BuildLabelEnabled *bool
	BuildName         *string
}

// SettingsStore manages the singleton settings row
type SettingsStore struct {
	db   *gorm.DB
	pipe *pipeline.Pipeline
}

// Get returns the settings, creating the defaults on first use
func (s *SettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	op := &pipeline.Operation{Model: domain.ModelSettings, Action: pipeline.FindFirst, Args: "current", Decode: decodeSettings}
	out, err := s.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		return s.current(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Settings), nil
}

// Update applies in to the settings row
func (s *SettingsStore) Update(ctx context.Context, in SettingsInput) (*domain.Settings, error) {
	rec, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	id := rec.ID
	op := &pipeline.Operation{Model: domain.ModelSettings, Action: pipeline.Update, ID: id, Args: in, Snapshot: func(ctx context.Context) (any, error) {
		return s.load(ctx, id)
	}}
	out, err := inTx(ctx, s.db, func(ctx context.Context) (any, error) {
		return s.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
			changes := map[string]any{}
			if in.LogoURL != nil {
				changes["logo_url"] = *in.LogoURL
			}
			if in.ChatEnabled != nil {
				changes["chat_enabled"] = *in.ChatEnabled
			}
			if in.BuildLabelEnabled != nil {
				changes["build_label_enabled"] = *in.BuildLabelEnabled
			}
			if in.BuildName != nil {
				changes["build_name"] = *in.BuildName
			}
			if len(changes) > 0 {
				if err := conn(ctx, s.db).Model(&domain.Settings{}).Where("id = ?", id).Updates(changes).Error; err != nil {
					return nil, dbError(domain.ModelSettings, "update", err)
				}
			}
			return s.load(ctx, id)
		})
	})
	if err != nil {
		return nil, err
	}
	return out.(*domain.Settings), nil
}

// current loads the settings row, inserting the defaults when the table is empty
func (s *SettingsStore) current(ctx context.Context) (*domain.Settings, error) {
	var rec domain.Settings
	err := conn(ctx, s.db).Order("created_at ASC").First(&rec).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dbError(domain.ModelSettings, "load", err)
	}
	rec = domain.DefaultSettings()
	if err := conn(ctx, s.db).Create(&rec).Error; err != nil {
		return nil, dbError(domain.ModelSettings, "create default", err)
	}
	return &rec, nil
}

func (s *SettingsStore) load(ctx context.Context, id string) (*domain.Settings, error) {
	var rec domain.Settings
	if err := conn(ctx, s.db).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, dbError(domain.ModelSettings, "load", err)
	}
	return &rec, nil
}

func decodeSettings(raw []byte) (any, error) {
	var rec domain.Settings
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
