package models

import "time"

// SiteSettingsID ist der feste Schlüssel der Singleton-Zeile.
const SiteSettingsID = 1

// SiteSettings hält die Freitext-Konfiguration der Website.
// Die Tabelle enthält genau eine logische Zeile (id = 1), Schreibzugriffe
// laufen als Upsert auf diesen festen Schlüssel.
type SiteSettings struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HeroTagline string `json:"hero_tagline,omitempty" gorm:"type:text"`
	AboutText   string `json:"about_text,omitempty" gorm:"type:text"`

	AthleticsIntro      string `json:"athletics_intro,omitempty" gorm:"type:text"`
	AthleticsPhilosophy string `json:"athletics_philosophy,omitempty" gorm:"type:text"`

	ContactEmail    string `json:"contact_email,omitempty"`
	SocialInstagram string `json:"social_instagram,omitempty"`
	SocialLinkedin  string `json:"social_linkedin,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (SiteSettings) TableName() string {
	return "site_settings"
}
