package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio-api/models"
)

func setupPortfolioRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger, guard gin.HandlerFunc) {
	// --- Public endpoints ---

	rg.GET("/items", func(c *gin.Context) {
		query := db.Model(&models.PortfolioItem{})

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if mediaType := c.Query("media_type"); mediaType != "" {
			query = query.Where("media_type = ?", mediaType)
		}
		if c.Query("featured_only") == "true" {
			query = query.Where("is_featured = ?", true)
		}

		var items []models.PortfolioItem
		if err := query.Order("sort_order asc, created_at desc").Find(&items).Error; err != nil {
			log.Error("Portfolio listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if items == nil {
			items = []models.PortfolioItem{}
		}
		c.JSON(http.StatusOK, items)
	})

	rg.GET("/items/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var item models.PortfolioItem
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, item)
	})

	rg.GET("/categories", func(c *gin.Context) {
		var categories []string
		if err := db.Model(&models.PortfolioItem{}).
			Distinct("category").
			Where("category IS NOT NULL AND category <> ''").
			Order("category").
			Pluck("category", &categories).Error; err != nil {
			log.Error("Category listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if categories == nil {
			categories = []string{}
		}
		c.JSON(http.StatusOK, categories)
	})

	// --- Admin endpoints ---

	admin := rg.Group("/admin", guard)

	admin.POST("/items", func(c *gin.Context) {
		var payload struct {
			Title        string `json:"title" binding:"required"`
			Description  string `json:"description"`
			MediaType    string `json:"media_type" binding:"required"`
			MediaURL     string `json:"media_url" binding:"required"`
			ThumbnailURL string `json:"thumbnail_url"`
			Category     string `json:"category"`
			SortOrder    int    `json:"sort_order"`
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			IsFeatured   bool   `json:"is_featured"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if payload.MediaType != models.MediaTypePhoto && payload.MediaType != models.MediaTypeVideo {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media type"})
			return
		}

		item := models.PortfolioItem{
			Title:        payload.Title,
			Description:  payload.Description,
			MediaType:    payload.MediaType,
			MediaURL:     payload.MediaURL,
			ThumbnailURL: payload.ThumbnailURL,
			Category:     payload.Category,
			SortOrder:    payload.SortOrder,
			Width:        payload.Width,
			Height:       payload.Height,
			IsFeatured:   payload.IsFeatured,
		}
		if err := db.Create(&item).Error; err != nil {
			log.Error("Failed to create portfolio item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portfolio item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	})

	admin.PUT("/items/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var payload struct {
			Title        *string `json:"title"`
			Description  *string `json:"description"`
			MediaType    *string `json:"media_type"`
			MediaURL     *string `json:"media_url"`
			ThumbnailURL *string `json:"thumbnail_url"`
			Category     *string `json:"category"`
			SortOrder    *int    `json:"sort_order"`
			Width        *int    `json:"width"`
			Height       *int    `json:"height"`
			IsFeatured   *bool   `json:"is_featured"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if payload.Title != nil {
			updates["title"] = *payload.Title
		}
		if payload.Description != nil {
			updates["description"] = *payload.Description
		}
		if payload.MediaType != nil {
			if *payload.MediaType != models.MediaTypePhoto && *payload.MediaType != models.MediaTypeVideo {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media type"})
				return
			}
			updates["media_type"] = *payload.MediaType
		}
		if payload.MediaURL != nil {
			updates["media_url"] = *payload.MediaURL
		}
		if payload.ThumbnailURL != nil {
			updates["thumbnail_url"] = *payload.ThumbnailURL
		}
		if payload.Category != nil {
			updates["category"] = *payload.Category
		}
		if payload.SortOrder != nil {
			updates["sort_order"] = *payload.SortOrder
		}
		if payload.Width != nil {
			updates["width"] = *payload.Width
		}
		if payload.Height != nil {
			updates["height"] = *payload.Height
		}
		if payload.IsFeatured != nil {
			updates["is_featured"] = *payload.IsFeatured
		}
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		res := db.Model(&models.PortfolioItem{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.Error("Failed to update portfolio item", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
			return
		}

		var item models.PortfolioItem
		if err := db.First(&item, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, item)
	})

	admin.DELETE("/items/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		// Erst nachschlagen, damit fehlende Einträge sauber mit 404 enden.
		// Die Mediendatei selbst wird hier nicht gelöscht.
		var item models.PortfolioItem
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Delete(&item).Error; err != nil {
			log.Error("Failed to delete portfolio item", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Portfolio item deleted"})
	})

	admin.PATCH("/items/:id/reorder", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var payload struct {
			SortOrder *int `json:"sort_order" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		res := db.Model(&models.PortfolioItem{}).Where("id = ?", id).Update("sort_order", *payload.SortOrder)
		if res.Error != nil {
			log.Error("Failed to reorder portfolio item", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
			return
		}

		var item models.PortfolioItem
		if err := db.First(&item, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, item)
	})
}
