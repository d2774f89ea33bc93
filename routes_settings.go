package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-api/models"
)

func setupSettingsRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger, guard gin.HandlerFunc) {
	rg.GET("", func(c *gin.Context) {
		var settings models.SiteSettings
		if err := db.First(&settings, models.SiteSettingsID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Noch nie geschrieben: leeres Objekt, kein Fehler
				c.JSON(http.StatusOK, gin.H{})
				return
			}
			log.Error("Settings fetch failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, settings)
	})

	rg.PUT("/admin", guard, func(c *gin.Context) {
		var payload struct {
			HeroTagline         *string `json:"hero_tagline"`
			AboutText           *string `json:"about_text"`
			AthleticsIntro      *string `json:"athletics_intro"`
			AthleticsPhilosophy *string `json:"athletics_philosophy"`
			ContactEmail        *string `json:"contact_email"`
			SocialInstagram     *string `json:"social_instagram"`
			SocialLinkedin      *string `json:"social_linkedin"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		settings := models.SiteSettings{ID: models.SiteSettingsID}
		var columns []string
		if payload.HeroTagline != nil {
			settings.HeroTagline = *payload.HeroTagline
			columns = append(columns, "hero_tagline")
		}
		if payload.AboutText != nil {
			settings.AboutText = *payload.AboutText
			columns = append(columns, "about_text")
		}
		if payload.AthleticsIntro != nil {
			settings.AthleticsIntro = *payload.AthleticsIntro
			columns = append(columns, "athletics_intro")
		}
		if payload.AthleticsPhilosophy != nil {
			settings.AthleticsPhilosophy = *payload.AthleticsPhilosophy
			columns = append(columns, "athletics_philosophy")
		}
		if payload.ContactEmail != nil {
			settings.ContactEmail = *payload.ContactEmail
			columns = append(columns, "contact_email")
		}
		if payload.SocialInstagram != nil {
			settings.SocialInstagram = *payload.SocialInstagram
			columns = append(columns, "social_instagram")
		}
		if payload.SocialLinkedin != nil {
			settings.SocialLinkedin = *payload.SocialLinkedin
			columns = append(columns, "social_linkedin")
		}
		if len(columns) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}
		columns = append(columns, "updated_at")

		// Upsert auf den festen Singleton-Schlüssel
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).Create(&settings).Error; err != nil {
			log.Error("Settings upsert failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}

		var current models.SiteSettings
		if err := db.First(&current, models.SiteSettingsID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, current)
	})
}
