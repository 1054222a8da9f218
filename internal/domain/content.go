package domain

import "time"

// News categories accepted by the admin backend
var NewsCategories = []string{"Team News", "Match Report", "Club News", "Press Release"}

// News Model
type News struct {
	Base
	SoftDelete
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Image    string    `gorm:"size:512" json:"image"`
	Category string    `gorm:"size:32;index" json:"category"`
	Date     time.Time `gorm:"index" json:"date"` // Publish date
}

// Match Model
type Match struct {
	Base
	SoftDelete
	Date        time.Time `gorm:"index" json:"date"` // Kick-off
	Competition string    `gorm:"size:100" json:"competition"`
	HomeTeam    string    `gorm:"size:100" json:"homeTeam"`
	AwayTeam    string    `gorm:"size:100" json:"awayTeam"`
	HomeScore   *int      `json:"homeScore"`         // Nil until played
	AwayScore   *int      `json:"awayScore"`         // Nil until played
	Venue       string    `gorm:"size:100" json:"venue"`
	Played      bool      `gorm:"not null" json:"played"`
}

// Player Model
type Player struct {
	Base
	SoftDelete
	Name     string `gorm:"size:100;not null" json:"name"`
	Number   int    `gorm:"index" json:"number"` // Jersey number
	Position string `gorm:"size:50" json:"position"`
	Image    string `gorm:"size:512" json:"image"`
}

// Staff Model
type Staff struct {
	Base
	SoftDelete
	Name  string `gorm:"size:100;not null" json:"name"`
	Role  string `gorm:"size:100;index" json:"role"` // Coach, physio, ...
	Image string `gorm:"size:512" json:"image"`
}

// Fanclub Model
type Fanclub struct {
	Base
	SoftDelete
	Name      string `gorm:"size:100;not null" json:"name"`
	President string `gorm:"size:100" json:"president"`
	Phone     string `gorm:"size:32" json:"phone"`
	Mobile    string `gorm:"size:32" json:"mobile"`
	Email     string `gorm:"size:191" json:"email"`
	Website   string `gorm:"size:255" json:"website"`
}
