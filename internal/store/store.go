// Package store is the data-access layer. Every call is described as a
// pipeline operation so authentication, logging, auditing, rate limiting and
// caching apply uniformly.
package store

import (
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/pipeline"

	"gorm.io/gorm"
)

// Store groups the per-entity repositories
type Store struct {
	db *gorm.DB

	News        *Repository[domain.News]
	Matches     *Repository[domain.Match]
	Players     *Repository[domain.Player]
	Staff       *Repository[domain.Staff]
	Fanclubs    *Repository[domain.Fanclub]
	Assets      *Repository[domain.Asset]
	Users       *UserStore
	Formations  *FormationStore
	NextMatches *NextMatchStore
	Settings    *SettingsStore
	Audit       *AuditStore
}

// New wires the repositories to db and pipe. audit should be the same writer
// the pipeline's audit interceptor uses.
func New(db *gorm.DB, pipe *pipeline.Pipeline, audit *AuditStore) *Store {
	if audit == nil {
		audit = NewAuditStore(db)
	}
	return &Store{
		db:       db,
		News:     newRepository[domain.News](db, pipe, repoConfig{model: domain.ModelNews, order: "date DESC"}),
		Matches:  newRepository[domain.Match](db, pipe, repoConfig{model: domain.ModelMatch, order: "date ASC"}),
		Players:  newRepository[domain.Player](db, pipe, repoConfig{model: domain.ModelPlayer, order: "number ASC"}),
		Staff:    newRepository[domain.Staff](db, pipe, repoConfig{model: domain.ModelStaff, order: "name ASC"}),
		Fanclubs: newRepository[domain.Fanclub](db, pipe, repoConfig{model: domain.ModelFanclub, order: "name ASC"}),
		Assets: newRepository[domain.Asset](db, pipe, repoConfig{
			model:    domain.ModelAsset,
			order:    "created_at DESC",
			listOmit: []string{"data"},
			noCache:  true, // Data is not serialized, a cached copy would be empty
		}),
		Users: &UserStore{newRepository[domain.User](db, pipe, repoConfig{model: domain.ModelUser, order: "email ASC"})},
		Formations: &FormationStore{newRepository[domain.Formation](db, pipe, repoConfig{
			model: domain.ModelFormation,
			order: "created_at DESC",
			scope: formationScope,
		})},
		NextMatches: &NextMatchStore{
			Repository: newRepository[domain.NextMatch](db, pipe, repoConfig{model: domain.ModelNextMatch, order: "created_at DESC", scope: matchScope}),
			history:    newRepository[domain.NextMatchHistory](db, pipe, repoConfig{model: domain.ModelNextMatchHistory, order: "activated_at DESC", scope: matchScope}),
		},
		Settings: &SettingsStore{db: db, pipe: pipe},
		Audit:    audit,
	}
}

// DB exposes the underlying connection pool
func (s *Store) DB() *gorm.DB {
	return s.db
}
