package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfolio-api/models"
)

func setupInfluenceRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger, guard gin.HandlerFunc) {
	// --- Public endpoints ---

	rg.GET("", func(c *gin.Context) {
		query := db.Where("is_active = ?", true).Order("category, sort_order")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		var influences []models.Influence
		if err := query.Find(&influences).Error; err != nil {
			log.Error("Influence listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if influences == nil {
			influences = []models.Influence{}
		}
		c.JSON(http.StatusOK, influences)
	})

	// --- Admin endpoints ---

	admin := rg.Group("/admin", guard)

	admin.GET("/influences", func(c *gin.Context) {
		var influences []models.Influence
		if err := db.Order("category, sort_order").Find(&influences).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if influences == nil {
			influences = []models.Influence{}
		}
		c.JSON(http.StatusOK, influences)
	})

	admin.POST("/influences", func(c *gin.Context) {
		var payload struct {
			Title       string `json:"title" binding:"required"`
			Category    string `json:"category" binding:"required"`
			Author      string `json:"author"`
			Description string `json:"description"`
			ImageURL    string `json:"image_url"`
			LinkURL     string `json:"link_url"`
			SortOrder   int    `json:"sort_order"`
			IsActive    *bool  `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		influence := models.Influence{
			Title:       payload.Title,
			Category:    payload.Category,
			Author:      payload.Author,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			LinkURL:     payload.LinkURL,
			SortOrder:   payload.SortOrder,
			IsActive:    payload.IsActive == nil || *payload.IsActive,
		}
		if err := db.Create(&influence).Error; err != nil {
			log.Error("Failed to create influence", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create influence"})
			return
		}
		c.JSON(http.StatusCreated, influence)
	})

	admin.PUT("/influences/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var payload struct {
			Title       *string `json:"title"`
			Category    *string `json:"category"`
			Author      *string `json:"author"`
			Description *string `json:"description"`
			ImageURL    *string `json:"image_url"`
			LinkURL     *string `json:"link_url"`
			SortOrder   *int    `json:"sort_order"`
			IsActive    *bool   `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if payload.Title != nil {
			updates["title"] = *payload.Title
		}
		if payload.Category != nil {
			updates["category"] = *payload.Category
		}
		if payload.Author != nil {
			updates["author"] = *payload.Author
		}
		if payload.Description != nil {
			updates["description"] = *payload.Description
		}
		if payload.ImageURL != nil {
			updates["image_url"] = *payload.ImageURL
		}
		if payload.LinkURL != nil {
			updates["link_url"] = *payload.LinkURL
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

		res := db.Model(&models.Influence{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.Error("Failed to update influence", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Influence not found"})
			return
		}

		var influence models.Influence
		if err := db.First(&influence, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, influence)
	})

	admin.DELETE("/influences/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&models.Influence{}, id)
		if res.Error != nil {
			log.Error("Failed to delete influence", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Influence not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Influence deleted"})
	})
}
