package domain

// Asset Model, binary content stored in the database. Always hard deleted.
type Asset struct {
	Base
	Name     string `gorm:"size:255;not null" json:"name"`
	Data     []byte `gorm:"type:longblob" json:"-"`
	MimeType string `gorm:"size:127;not null" json:"mimeType"`
	Size     int64  `json:"size"` // Bytes
}

// URL is the public path the asset is served from
func (a Asset) URL() string {
	return "/api/assets/" + a.ID
}
