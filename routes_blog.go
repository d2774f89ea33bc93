package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"portfolio-api/models"
)

// attachTags reichert Posts mit ihren Tags aus der Join-Tabelle an.
func attachTags(db *gorm.DB, posts []models.BlogPost) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for i := range posts {
		posts[i].Tags = []models.Tag{}
		ids = append(ids, posts[i].ID)
	}

	var joins []models.BlogPostTag
	if err := db.Where("post_id IN ?", ids).Find(&joins).Error; err != nil {
		return err
	}
	if len(joins) == 0 {
		return nil
	}

	tagIDs := make([]uint, 0, len(joins))
	for _, j := range joins {
		tagIDs = append(tagIDs, j.TagID)
	}
	var tags []models.Tag
	if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}

	tagByID := make(map[uint]models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	tagsByPost := make(map[uint][]models.Tag)
	for _, j := range joins {
		// Join-Zeilen ohne existierendes Tag werden ignoriert
		if t, ok := tagByID[j.TagID]; ok {
			tagsByPost[j.PostID] = append(tagsByPost[j.PostID], t)
		}
	}
	for i := range posts {
		if ts, ok := tagsByPost[posts[i].ID]; ok {
			posts[i].Tags = ts
		}
	}
	return nil
}

// replaceTags ersetzt alle Tag-Verknüpfungen eines Posts (delete + insert).
func replaceTags(tx *gorm.DB, postID uint, tagIDs []uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.BlogPostTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.BlogPostTag, 0, len(tagIDs))
	for _, tid := range tagIDs {
		rows = append(rows, models.BlogPostTag{PostID: postID, TagID: tid})
	}
	return tx.Create(&rows).Error
}

func setupBlogRoutes(rg *gin.RouterGroup, db *gorm.DB, log *zap.Logger, guard gin.HandlerFunc) {
	// --- Public endpoints ---

	rg.GET("/posts", func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
		if perPage < 1 {
			perPage = 10
		}
		if perPage > 50 {
			perPage = 50
		}
		offset := (page - 1) * perPage

		empty := func() {
			c.JSON(http.StatusOK, gin.H{
				"posts":    []models.BlogPost{},
				"total":    0,
				"page":     page,
				"per_page": perPage,
			})
		}

		// Tag-Filter: Slug -> Tag-ID -> Post-IDs aus der Join-Tabelle
		var postIDs []uint
		if tagSlug := c.Query("tag"); tagSlug != "" {
			var tag models.Tag
			if err := db.Where("slug = ?", tagSlug).First(&tag).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					empty()
					return
				}
				log.Error("Tag lookup failed", zap.String("slug", tagSlug), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			if err := db.Model(&models.BlogPostTag{}).Where("tag_id = ?", tag.ID).Pluck("post_id", &postIDs).Error; err != nil {
				log.Error("Tagged post lookup failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
				return
			}
			if len(postIDs) == 0 {
				empty()
				return
			}
		}

		filtered := func() *gorm.DB {
			q := db.Model(&models.BlogPost{}).Where("status = ?", models.StatusPublished)
			if len(postIDs) > 0 {
				q = q.Where("id IN ?", postIDs)
			}
			return q
		}

		var total int64
		if err := filtered().Count(&total).Error; err != nil {
			log.Error("Post count failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var posts []models.BlogPost
		// Roh-Content bleibt in der Listenansicht draußen
		if err := filtered().Omit("content").
			Order("published_at desc").
			Offset(offset).Limit(perPage).
			Find(&posts).Error; err != nil {
			log.Error("Post listing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := attachTags(db, posts); err != nil {
			log.Error("Tag enrichment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if posts == nil {
			posts = []models.BlogPost{}
		}

		c.JSON(http.StatusOK, gin.H{
			"posts":    posts,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	})

	rg.GET("/posts/:slug", func(c *gin.Context) {
		slug := c.Param("slug")
		var posts []models.BlogPost
		if err := db.Where("slug = ? AND status = ?", slug, models.StatusPublished).Limit(1).Find(&posts).Error; err != nil {
			log.Error("Post fetch by slug failed", zap.String("slug", slug), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if len(posts) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, posts[0])
	})

	rg.GET("/tags", func(c *gin.Context) {
		var tags []models.Tag
		if err := db.Order("name").Find(&tags).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, tags)
	})

	// --- Admin endpoints ---

	admin := rg.Group("/admin", guard)

	admin.GET("/posts", func(c *gin.Context) {
		var posts []models.BlogPost
		if err := db.Order("updated_at desc").Find(&posts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if posts == nil {
			posts = []models.BlogPost{}
		}
		c.JSON(http.StatusOK, posts)
	})

	admin.GET("/posts/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var post models.BlogPost
		if err := db.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		posts := []models.BlogPost{post}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, posts[0])
	})

	admin.POST("/posts", func(c *gin.Context) {
		var payload struct {
			Title           string         `json:"title" binding:"required"`
			Slug            string         `json:"slug" binding:"required"`
			Excerpt         string         `json:"excerpt"`
			Content         datatypes.JSON `json:"content"`
			ContentHTML     string         `json:"content_html"`
			CoverImageURL   string         `json:"cover_image_url"`
			Status          string         `json:"status"`
			MetaTitle       string         `json:"meta_title"`
			MetaDescription string         `json:"meta_description"`
			TagIDs          []uint         `json:"tag_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if payload.Status == "" {
			payload.Status = models.StatusDraft
		}
		if payload.Status != models.StatusDraft && payload.Status != models.StatusPublished {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		post := models.BlogPost{
			Title:           payload.Title,
			Slug:            payload.Slug,
			Excerpt:         payload.Excerpt,
			Content:         payload.Content,
			ContentHTML:     payload.ContentHTML,
			CoverImageURL:   payload.CoverImageURL,
			Status:          payload.Status,
			MetaTitle:       payload.MetaTitle,
			MetaDescription: payload.MetaDescription,
			AuthorID:        c.GetString("userID"),
		}
		// published_at wird genau beim Übergang nach "published" gestempelt
		if post.Status == models.StatusPublished {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&post).Error; err != nil {
				return err
			}
			if len(payload.TagIDs) > 0 {
				return replaceTags(tx, post.ID, payload.TagIDs)
			}
			return nil
		})
		if err != nil {
			log.Error("Failed to create post", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
			return
		}
		if post.Status == models.StatusPublished {
			postsPublishedCounter.Inc()
		}

		posts := []models.BlogPost{post}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusCreated, posts[0])
	})

	admin.PUT("/posts/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var post models.BlogPost
		if err := db.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var payload struct {
			Title           *string         `json:"title"`
			Slug            *string         `json:"slug"`
			Excerpt         *string         `json:"excerpt"`
			Content         *datatypes.JSON `json:"content"`
			ContentHTML     *string         `json:"content_html"`
			CoverImageURL   *string         `json:"cover_image_url"`
			Status          *string         `json:"status"`
			MetaTitle       *string         `json:"meta_title"`
			MetaDescription *string         `json:"meta_description"`
			TagIDs          *[]uint         `json:"tag_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		// Map nur mit den mitgesendeten Feldern befüllen
		updates := map[string]interface{}{}
		if payload.Title != nil {
			updates["title"] = *payload.Title
		}
		if payload.Slug != nil {
			updates["slug"] = *payload.Slug
		}
		if payload.Excerpt != nil {
			updates["excerpt"] = *payload.Excerpt
		}
		if payload.Content != nil {
			updates["content"] = *payload.Content
		}
		if payload.ContentHTML != nil {
			updates["content_html"] = *payload.ContentHTML
		}
		if payload.CoverImageURL != nil {
			updates["cover_image_url"] = *payload.CoverImageURL
		}
		if payload.MetaTitle != nil {
			updates["meta_title"] = *payload.MetaTitle
		}
		if payload.MetaDescription != nil {
			updates["meta_description"] = *payload.MetaDescription
		}
		if payload.Status != nil {
			switch *payload.Status {
			case models.StatusPublished:
				updates["status"] = models.StatusPublished
				if post.Status != models.StatusPublished {
					updates["published_at"] = time.Now().UTC()
					postsPublishedCounter.Inc()
				}
			case models.StatusDraft:
				updates["status"] = models.StatusDraft
				updates["published_at"] = nil
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
		}

		if len(updates) == 0 && payload.TagIDs == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&post).Updates(updates).Error; err != nil {
					return err
				}
			}
			if payload.TagIDs != nil {
				return replaceTags(tx, post.ID, *payload.TagIDs)
			}
			return nil
		})
		if err != nil {
			log.Error("Failed to update post", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
			return
		}

		var updated models.BlogPost
		if err := db.First(&updated, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		posts := []models.BlogPost{updated}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, posts[0])
	})

	admin.DELETE("/posts/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("post_id = ?", id).Delete(&models.BlogPostTag{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.BlogPost{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			log.Error("Failed to delete post", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
	})

	publishTransition := func(c *gin.Context, updates map[string]interface{}) bool {
		id, ok := paramID(c, "id")
		if !ok {
			return false
		}
		res := db.Model(&models.BlogPost{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			log.Error("Publish transition failed", zap.Uint("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return false
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return false
		}
		var post models.BlogPost
		if err := db.First(&post, id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return false
		}
		posts := []models.BlogPost{post}
		if err := attachTags(db, posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return false
		}
		c.JSON(http.StatusOK, posts[0])
		return true
	}

	admin.PATCH("/posts/:id/publish", func(c *gin.Context) {
		if publishTransition(c, map[string]interface{}{
			"status":       models.StatusPublished,
			"published_at": time.Now().UTC(),
		}) {
			postsPublishedCounter.Inc()
		}
	})

	admin.PATCH("/posts/:id/unpublish", func(c *gin.Context) {
		publishTransition(c, map[string]interface{}{
			"status":       models.StatusDraft,
			"published_at": nil,
		})
	})

	admin.POST("/tags", func(c *gin.Context) {
		var payload struct {
			Name string `json:"name" binding:"required"`
			Slug string `json:"slug" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		tag := models.Tag{Name: payload.Name, Slug: payload.Slug}
		if err := db.Create(&tag).Error; err != nil {
			log.Error("Failed to create tag", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
			return
		}
		c.JSON(http.StatusCreated, tag)
	})

	admin.DELETE("/tags/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("tag_id = ?", id).Delete(&models.BlogPostTag{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.Tag{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
				return
			}
			log.Error("Failed to delete tag", zap.Uint("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
	})
}
