package domain

// DefaultLogoURL is used when settings are created lazily
const DefaultLogoURL = "/fangemeinschaftLogo.png"

// Settings Model, a singleton row
type Settings struct {
	Base
	LogoURL           string `gorm:"size:512" json:"logoUrl"`
	ChatEnabled       bool   `gorm:"not null" json:"chatEnabled"`
	BuildLabelEnabled bool   `gorm:"not null" json:"buildLabelEnabled"`
	BuildName         string `gorm:"size:100" json:"buildName,omitempty"`
}

// DefaultSettings returns the row created on first read
func DefaultSettings() Settings {
	return Settings{
		LogoURL:           DefaultLogoURL,
		ChatEnabled:       true,
		BuildLabelEnabled: true,
	}
}
