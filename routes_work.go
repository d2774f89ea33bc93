package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfolio-api/models"
)

// featuredPostResponse ist ein aufgelöster Featured-Post: der Blog-Post plus
// die sort_order der Verknüpfung (nicht die der Post-Tabelle).
type featuredPostResponse struct {
	models.BlogPost
	SortOrder int `json:"sort_order"`
}

// resolveFeaturedPosts löst die Featured-Post-Verknüpfungen einer Experience
// gegen die Post-Tabelle auf. Die Reihenfolge der Verknüpfungen bleibt
// erhalten, Referenzen auf gelöschte Posts werden stillschweigend verworfen.
func resolveFeaturedPosts(db *gorm.DB, experienceID uint, publishedOnly bool) ([]featuredPostResponse, error) {
	var links []models.FeaturedPost
	if err := db.Where("experience_id = ?", experienceID).Order("sort_order").Find(&links).Error; err != nil {
		return nil, err
	}

	resolved := []featuredPostResponse{}
	if len(links) == 0 {
		return resolved, nil
	}

	postIDs := make([]uint, 0, len(links))
	for _, l := range links {
		postIDs = append(postIDs, l.PostID)
	}

	query := db.Where("id IN ?", postIDs)
	if publishedOnly {
		query = query.Where("status = ?", models.StatusPublished)
	}
	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}

	postsByID := make(map[uint]models.BlogPost, len(posts))
	for _, p := range posts {
		p.Tags = []models.Tag{}
		postsByID[p.ID] = p
	}

	for _, l := range links {
		post, ok := postsByID[l.PostID]
		if !ok {
			continue
		}
		resolved = append(resolved, featuredPostResponse{BlogPost: post, SortOrder: l.SortOrder})
	}
	return resolved, nil
}

func setupWorkRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger, guard gin.HandlerFunc) {
	// --- Public endpoints ---

	rg.GET("/experiences", func(c *gin.Context) {
		var experiences []models.Experience
		if err := db.Where("is_active = ?", true).Order("sort_order").Find(&experiences).Error; err != nil {
			log.Error("Experience listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if experiences == nil {
			experiences = []models.Experience{}
		}
		c.JSON(http.StatusOK, experiences)
	})

	rg.GET("/experiences/:slug", func(c *gin.Context) {
		slug := c.Param("slug")
		var experiences []models.Experience
		if err := db.Where("slug = ? AND is_active = ?", slug, true).Limit(1).Find(&experiences).Error; err != nil {
			log.Error("Experience fetch by slug failed", zap.String("slug", slug), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if len(experiences) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
			return
		}
		experience := experiences[0]

		var timeline []models.TimelineEvent
		if err := db.Where("experience_id = ?", experience.ID).Order("event_date desc").Find(&timeline).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if timeline == nil {
			timeline = []models.TimelineEvent{}
		}

		featured, err := resolveFeaturedPosts(db, experience.ID, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.JSON(http.StatusOK, struct {
			models.Experience
			Timeline      []models.TimelineEvent `json:"timeline"`
			FeaturedPosts []featuredPostResponse `json:"featured_posts"`
		}{
			Experience:    experience,
			Timeline:      timeline,
			FeaturedPosts: featured,
		})
	})

	// --- Admin endpoints ---

	admin := rg.Group("/admin", guard)

	admin.GET("/experiences", func(c *gin.Context) {
		var experiences []models.Experience
		if err := db.Order("sort_order").Find(&experiences).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if experiences == nil {
			experiences = []models.Experience{}
		}
		c.JSON(http.StatusOK, experiences)
	})

	admin.POST("/experiences", func(c *gin.Context) {
		var payload struct {
			Title           string         `json:"title" binding:"required"`
			Slug            string         `json:"slug" binding:"required"`
			Subtitle        string         `json:"subtitle"`
			Description     datatypes.JSON `json:"description"`
			DescriptionHTML string         `json:"description_html"`
			HeaderImageURL  string         `json:"header_image_url"`
			SortOrder       int            `json:"sort_order"`
			IsActive        *bool          `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		experience := models.Experience{
			Title:           payload.Title,
			Slug:            payload.Slug,
			Subtitle:        payload.Subtitle,
			Description:     payload.Description,
			DescriptionHTML: payload.DescriptionHTML,
			HeaderImageURL:  payload.HeaderImageURL,
			SortOrder:       payload.SortOrder,
			IsActive:        payload.IsActive == nil || *payload.IsActive,
		}
		if err := db.Create(&experience).Error; err != nil {
			log.Error("Failed to create experience", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create experience"})
			return
		}
		c.JSON(http.StatusCreated, experience)
	})

	admin.PUT("/experiences/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var payload struct {
			Title           *string         `json:"title"`
			Slug            *string         `json:"slug"`
			Subtitle        *string         `json:"subtitle"`
			Description     *datatypes.JSON `json:"description"`
			DescriptionHTML *string         `json:"description_html"`
			HeaderImageURL  *string         `json:"header_image_url"`
			SortOrder       *int            `json:"sort_order"`
			IsActive        *bool           `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if payload.Title != nil {
			updates["title"] = *payload.Title
		}
		if payload.Slug != nil {
			updates["slug"] = *payload.Slug
		}
		if payload.Subtitle != nil {
			updates["subtitle"] = *payload.Subtitle
		}
		if payload.Description != nil {
			updates["description"] = *payload.Description
		}
		if payload.DescriptionHTML != nil {
			updates["description_html"] = *payload.DescriptionHTML
		}
		if payload.HeaderImageURL != nil {
			updates["header_image_url"] = *payload.HeaderImageURL
		}
		if payload.SortOrder != nil {
			updates["sort_order"] = *payload.SortOrder
		}
		if payload.IsActive != nil {
			updates["is_active"] = *payload.IsActive
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		res := db.Model(&models.Experience{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.Error("Failed to update experience", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
			return
		}

		var experience models.Experience
		if err := db.First(&experience, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, experience)
	})

	admin.DELETE("/experiences/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&models.Experience{}, id)
		if res.Error != nil {
			log.Error("Failed to delete experience", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Experience deleted"})
	})

	admin.GET("/experiences/:id/timeline", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var timeline []models.TimelineEvent
		if err := db.Where("experience_id = ?", id).Order("event_date desc").Find(&timeline).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if timeline == nil {
			timeline = []models.TimelineEvent{}
		}
		c.JSON(http.StatusOK, timeline)
	})

	admin.POST("/experiences/:id/timeline", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var experience models.Experience
		if err := db.First(&experience, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var payload struct {
			EventDate string `json:"event_date" binding:"required"`
			Title     string `json:"title" binding:"required"`
			Subtitle  string `json:"subtitle"`
			PhotoURL  string `json:"photo_url"`
			SortOrder int    `json:"sort_order"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		event := models.TimelineEvent{
			ExperienceID: experience.ID,
			EventDate:    payload.EventDate,
			Title:        payload.Title,
			Subtitle:     payload.Subtitle,
			PhotoURL:     payload.PhotoURL,
			SortOrder:    payload.SortOrder,
		}
		if err := db.Create(&event).Error; err != nil {
			log.Error("Failed to create timeline event", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timeline event"})
			return
		}
		c.JSON(http.StatusCreated, event)
	})

	admin.PUT("/timeline/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var payload struct {
			EventDate *string `json:"event_date"`
			Title     *string `json:"title"`
			Subtitle  *string `json:"subtitle"`
			PhotoURL  *string `json:"photo_url"`
			SortOrder *int    `json:"sort_order"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if payload.EventDate != nil {
			updates["event_date"] = *payload.EventDate
		}
		if payload.Title != nil {
			updates["title"] = *payload.Title
		}
		if payload.Subtitle != nil {
			updates["subtitle"] = *payload.Subtitle
		}
		if payload.PhotoURL != nil {
			updates["photo_url"] = *payload.PhotoURL
		}
		if payload.SortOrder != nil {
			updates["sort_order"] = *payload.SortOrder
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		res := db.Model(&models.TimelineEvent{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.Error("Failed to update timeline event", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timeline event not found"})
			return
		}

		var event models.TimelineEvent
		if err := db.First(&event, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, event)
	})

	admin.DELETE("/timeline/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&models.TimelineEvent{}, id)
		if res.Error != nil {
			log.Error("Failed to delete timeline event", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timeline event not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Timeline event deleted"})
	})

	admin.GET("/experiences/:id/featured-posts", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		// Ohne Status-Einschränkung, damit auch Drafts sichtbar sind
		featured, err := resolveFeaturedPosts(db, id, false)
		if err != nil {
			log.Error("Featured post resolution failed", zap.Uint("experience_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, featured)
	})

	admin.PUT("/experiences/:id/featured-posts", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var experience models.Experience
		if err := db.First(&experience, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Experience not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var payload struct {
			Posts []struct {
				PostID    uint `json:"post_id" binding:"required"`
				SortOrder int  `json:"sort_order"`
			} `json:"posts"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		// Komplettes Ersetzen der Verknüpfungen, analog zu den Blog-Tags
		var rows []models.FeaturedPost
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("experience_id = ?", experience.ID).Delete(&models.FeaturedPost{}).Error; err != nil {
				return err
			}
			if len(payload.Posts) == 0 {
				return nil
			}
			rows = make([]models.FeaturedPost, 0, len(payload.Posts))
			for _, p := range payload.Posts {
				rows = append(rows, models.FeaturedPost{
					ExperienceID: experience.ID,
					PostID:       p.PostID,
					SortOrder:    p.SortOrder,
				})
			}
			return tx.Create(&rows).Error
		})
		if err != nil {
			log.Error("Failed to update featured posts", zap.Uint("experience_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update featured posts"})
			return
		}
		if rows == nil {
			rows = []models.FeaturedPost{}
		}
		c.JSON(http.StatusOK, rows)
	})
}
