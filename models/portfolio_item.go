package models

import "time"

// Medientypen für Portfolio-Einträge.
const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// PortfolioItem repräsentiert ein Foto oder Video im Portfolio.
type PortfolioItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	MediaType    string `json:"media_type" gorm:"index;not null"` // photo, video
	MediaURL     string `json:"media_url" gorm:"not null"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Category  string `json:"category,omitempty" gorm:"index"`
	SortOrder int    `json:"sort_order" gorm:"index;default:0"`

	// Pixelmaße des Mediums, optional
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	IsFeatured bool `json:"is_featured" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (PortfolioItem) TableName() string {
	return "portfolio_items"
}
