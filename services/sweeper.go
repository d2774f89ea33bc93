package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio-api/models"
)

// Sweeper räumt verwaiste Verknüpfungszeilen auf. Die Lesepfade tolerieren
// hängende Referenzen ohnehin, der Sweep verhindert nur, dass sich die
// Join-Tabellen über die Zeit füllen.
type Sweeper struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewSweeper erstellt eine neue Sweeper-Instanz.
func NewSweeper(db *gorm.DB, logger *zap.Logger) *Sweeper {
	return &Sweeper{DB: db, Logger: logger}
}

// Run löscht Join-Zeilen, deren Endpunkte nicht mehr existieren, und gibt
// die Anzahl der entfernten Zeilen zurück.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
	db := s.DB.WithContext(ctx)
	var removed int64

	res := db.
		Where("post_id NOT IN (?)", db.Model(&models.BlogPost{}).Select("id")).
		Or("tag_id NOT IN (?)", db.Model(&models.Tag{}).Select("id")).
		Delete(&models.BlogPostTag{})
	if res.Error != nil {
		s.Logger.Error("Sweep of blog_post_tags failed", zap.Error(res.Error))
		return removed, res.Error
	}
	removed += res.RowsAffected

	res = db.
		Where("post_id NOT IN (?)", db.Model(&models.BlogPost{}).Select("id")).
		Or("experience_id NOT IN (?)", db.Model(&models.Experience{}).Select("id")).
		Delete(&models.FeaturedPost{})
	if res.Error != nil {
		s.Logger.Error("Sweep of work_featured_posts failed", zap.Error(res.Error))
		return removed, res.Error
	}
	removed += res.RowsAffected

	if removed > 0 {
		s.Logger.Info("Removed dangling association rows", zap.Int64("rows", removed))
	}
	return removed, nil
}
