package models

import "time"

// Influence repräsentiert eine Inspirationsquelle (Buch, Person, Film etc.).
type Influence struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" gorm:"not null"`
	Category    string `json:"category" gorm:"index;not null"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`

	SortOrder int `json:"sort_order" gorm:"index;default:0"`
	// Kein DB-Default: false würde beim Insert sonst vom Default überschrieben
	IsActive bool `json:"is_active"`
}

// TableName gibt explizit den Tabellennamen an.
func (Influence) TableName() string {
	return "influences"
}
