package models

import (
	"time"

	"gorm.io/datatypes"
)

// Status-Werte für Blog-Posts.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// BlogPost repräsentiert einen Blog-Artikel inkl. strukturiertem Editor-Inhalt.
type BlogPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string `json:"title" gorm:"not null"`
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	Excerpt string `json:"excerpt,omitempty" gorm:"type:text"`

	// Strukturiertes Editor-Dokument plus gerendertes HTML
	Content     datatypes.JSON `json:"content,omitempty" gorm:"type:jsonb"`
	ContentHTML string         `json:"content_html,omitempty" gorm:"type:text"`

	CoverImageURL string `json:"cover_image_url,omitempty"`

	Status      string     `json:"status" gorm:"index;default:'draft'"` // draft, published
	AuthorID    string     `json:"author_id,omitempty" gorm:"index"`
	PublishedAt *time.Time `json:"published_at"`

	// SEO
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`

	// Wird beim Lesen aus der Join-Tabelle angereichert, keine DB-Spalte.
	Tags []Tag `json:"tags" gorm:"-"`
}

// TableName gibt explizit den Tabellennamen an.
func (BlogPost) TableName() string {
	return "blog_posts"
}
