package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-api/auth"
	"portfolio-api/config"
	"portfolio-api/identity"
)

func setupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, identityClient *identity.Client, log *zap.Logger) {
	rg.POST("/login", func(c *gin.Context) {
		var payload struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		pair, err := identityClient.PasswordGrant(c.Request.Context(), payload.Email, payload.Password)
		if err != nil {
			if errors.Is(err, identity.ErrUpstreamRejected) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			log.Error("Login request to identity provider failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider unreachable"})
			return
		}
		c.JSON(http.StatusOK, pair)
	})

	rg.POST("/refresh", func(c *gin.Context) {
		var payload struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		pair, err := identityClient.RefreshGrant(c.Request.Context(), payload.RefreshToken)
		if err != nil {
			if errors.Is(err, identity.ErrUpstreamRejected) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
				return
			}
			log.Error("Refresh request to identity provider failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider unreachable"})
			return
		}
		c.JSON(http.StatusOK, pair)
	})

	// Lokale Token-Prüfung ohne Rückfrage beim Provider
	rg.GET("/me", func(c *gin.Context) {
		tokenString := auth.ExtractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		claims, err := auth.ParseToken(tokenString, cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": claims})
	})
}
