package models

import (
	"time"

	"gorm.io/datatypes"
)

// Experience repräsentiert eine Station der Arbeits-/Werkshistorie.
type Experience struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string `json:"title" gorm:"not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Subtitle string `json:"subtitle,omitempty"`

	Description     datatypes.JSON `json:"description,omitempty" gorm:"type:jsonb"`
	DescriptionHTML string         `json:"description_html,omitempty" gorm:"type:text"`
	HeaderImageURL  string         `json:"header_image_url,omitempty"`

	SortOrder int `json:"sort_order" gorm:"index;default:0"`
	// Kein DB-Default: false würde beim Insert sonst vom Default überschrieben
	IsActive bool `json:"is_active"`
}

// TableName gibt explizit den Tabellennamen an.
func (Experience) TableName() string {
	return "work_experiences"
}

// TimelineEvent ist ein einzelner Eintrag der Timeline einer Experience.
type TimelineEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ExperienceID uint `json:"experience_id" gorm:"index;not null"`

	// ISO-Datum (YYYY-MM-DD); sortiert als Text korrekt absteigend
	EventDate string `json:"event_date" gorm:"not null"`

	Title     string `json:"title" gorm:"not null"`
	Subtitle  string `json:"subtitle,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
}

// TableName gibt explizit den Tabellennamen an.
func (TimelineEvent) TableName() string {
	return "work_timeline_events"
}

// FeaturedPost verknüpft eine Experience mit einem Blog-Post.
// Referenzen auf gelöschte Posts werden beim Lesen stillschweigend verworfen.
type FeaturedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ExperienceID uint `json:"experience_id" gorm:"index;not null"`
	PostID       uint `json:"post_id" gorm:"index;not null"`
	SortOrder    int  `json:"sort_order" gorm:"default:0"`
}

// TableName gibt explizit den Tabellennamen an.
func (FeaturedPost) TableName() string {
	return "work_featured_posts"
}
