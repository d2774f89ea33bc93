package main

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio-api/config"
	"portfolio-api/models"
	"portfolio-api/storage"
)

// Erlaubte Content-Types pro Medienart und die jeweiligen Größenlimits.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

const (
	maxImageSize = 5 << 20   // 5 MiB
	maxVideoSize = 100 << 20 // 100 MiB
)

// fileExt liefert die kleingeschriebene Dateiendung ohne Punkt,
// oder den Fallback, wenn keine vorhanden ist.
func fileExt(filename, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return fallback
	}
	return ext
}

// readFormFile liest die komplette Datei aus dem Multipart-Formular.
func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func setupUploadRoutes(rg *gin.RouterGroup, cfg *config.Config, s3Client *s3.Client, log *zap.Logger, guard gin.HandlerFunc) {
	rg.Use(guard)

	uploadImage := func(c *gin.Context, bucket, folder string) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		// Typprüfung kommt vor jeder Größenprüfung
		contentType := header.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image type"})
			return
		}

		data, err := readFormFile(header)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}
		if len(data) > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large (max 5MB)"})
			return
		}

		key := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), fileExt(header.Filename, "jpg"))
		url, err := storage.UploadFile(c.Request.Context(), s3Client, cfg, bucket, key, data, contentType)
		if err != nil {
			log.Error("Upload to object storage failed",
				zap.String("bucket", bucket),
				zap.String("key", key),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		uploadsCounter.Inc()

		c.JSON(http.StatusOK, gin.H{"url": url, "path": key})
	}

	rg.POST("/blog-image", func(c *gin.Context) {
		uploadImage(c, cfg.BlogImagesBucket, c.DefaultQuery("folder", "covers"))
	})

	rg.POST("/work-image", func(c *gin.Context) {
		uploadImage(c, cfg.BlogImagesBucket, "work")
	})

	rg.POST("/portfolio-media", func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		contentType := header.Header.Get("Content-Type")
		isVideo := allowedVideoTypes[contentType]
		if !isVideo && !allowedImageTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
			return
		}

		data, err := readFormFile(header)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
			return
		}

		maxSize := maxImageSize
		limit := "5MB"
		if isVideo {
			maxSize = maxVideoSize
			limit = "100MB"
		}
		if len(data) > maxSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large (max %s)", limit)})
			return
		}

		subfolder, defaultExt, mediaType := "photos", "jpg", models.MediaTypePhoto
		if isVideo {
			subfolder, defaultExt, mediaType = "videos", "mp4", models.MediaTypeVideo
		}

		key := fmt.Sprintf("%s/%s.%s", subfolder, uuid.New().String(), fileExt(header.Filename, defaultExt))
		url, err := storage.UploadFile(c.Request.Context(), s3Client, cfg, cfg.PortfolioMediaBucket, key, data, contentType)
		if err != nil {
			log.Error("Upload to object storage failed",
				zap.String("bucket", cfg.PortfolioMediaBucket),
				zap.String("key", key),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		uploadsCounter.Inc()

		c.JSON(http.StatusOK, gin.H{"url": url, "path": key, "media_type": mediaType})
	})

	rg.DELETE("/file", func(c *gin.Context) {
		bucket := c.Query("bucket")
		path := c.Query("path")

		// Löschen nur in den beiden bekannten Buckets zulassen
		if bucket != cfg.BlogImagesBucket && bucket != cfg.PortfolioMediaBucket {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bucket"})
			return
		}
		if path == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
			return
		}

		if err := storage.DeleteFile(c.Request.Context(), s3Client, bucket, path); err != nil {
			log.Error("Failed to delete object",
				zap.String("bucket", bucket),
				zap.String("path", path),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
	})
}
