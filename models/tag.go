package models

// Tag repräsentiert ein Blog-Schlagwort.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Tag) TableName() string {
	return "blog_tags"
}

// BlogPostTag ist die Join-Zeile zwischen Post und Tag.
// Verknüpfungen werden beim Update komplett ersetzt (delete + insert).
type BlogPostTag struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	PostID uint `json:"post_id" gorm:"index;not null"`
	TagID  uint `json:"tag_id" gorm:"index;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (BlogPostTag) TableName() string {
	return "blog_post_tags"
}
