package domain

import "time"

// Formation Model, a lineup for one match
type Formation struct {
	Base
	SoftDelete
	MatchID string            `gorm:"size:36;not null;index" json:"matchId"`       // Foreign key to Match
	Match   *Match            `gorm:"foreignKey:MatchID" json:"match,omitempty"`   // Owning match
	Active  bool              `gorm:"not null;default:false;index" json:"active"`  // At most one active formation
	Players []FormationPlayer `gorm:"constraint:OnDelete:CASCADE;" json:"players"` // Ordered by SortOrder
}

// FormationPlayer places one player on the pitch, coordinates in percent
type FormationPlayer struct {
	Base
	FormationID string  `gorm:"size:36;not null;index" json:"formationId"`   // Foreign key to Formation
	PlayerID    string  `gorm:"size:36;not null" json:"playerId"`            // Foreign key to Player
	Player      *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"` // Placed player
	PositionX   float64 `json:"positionX"`                                   // 0..100, left to right
	PositionY   float64 `json:"positionY"`                                   // 0..100, top to bottom
	SortOrder   int     `json:"sortOrder"`                                   // Placement order
}

// NextMatch Model, the match teaser shown on the home page
type NextMatch struct {
	Base
	MatchID         string     `gorm:"size:36;not null;index" json:"matchId"`
	Match           *Match     `gorm:"foreignKey:MatchID" json:"match,omitempty"`
	TicketLink      string     `gorm:"size:512" json:"ticketLink"`
	MoreInfoContent string     `gorm:"type:text" json:"moreInfoContent"`
	Active          bool       `gorm:"not null;default:false;index" json:"active"` // At most one active teaser
	ActivatedAt     *time.Time `json:"activatedAt,omitempty"`
}

// NextMatchHistory archives a teaser when another one replaces it
type NextMatchHistory struct {
	Base
	MatchID         string    `gorm:"size:36;not null;index" json:"matchId"`
	Match           *Match    `gorm:"foreignKey:MatchID" json:"match,omitempty"`
	TicketLink      string    `gorm:"size:512" json:"ticketLink"`
	MoreInfoContent string    `gorm:"type:text" json:"moreInfoContent"`
	ActivatedAt     time.Time `gorm:"index" json:"activatedAt"`
	DeactivatedAt   time.Time `json:"deactivatedAt"`
}
