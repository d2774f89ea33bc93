package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"portfolio-api/auth"
	"portfolio-api/config"
	"portfolio-api/identity"
	"portfolio-api/models"
	"portfolio-api/services"
	"portfolio-api/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	uploadsCounter        prometheus.Counter
	postsPublishedCounter prometheus.Counter
)

func init() {
	uploadsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uploads_total",
			Help: "Total number of files uploaded to object storage.",
		},
	)
	postsPublishedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_published_total",
			Help: "Total number of blog post publish transitions.",
		},
	)
	prometheus.MustRegister(uploadsCounter, postsPublishedCounter)
}

// newRouter verdrahtet CORS, Metrics und alle Resource-Router.
func newRouter(cfg *config.Config, db *gorm.DB, logging *zap.Logger, s3Client *s3.Client, identityClient *identity.Client) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is running"})
	})

	// Admin-Guard, wird vor jede geschützte Routengruppe komponiert.
	guard := auth.Middleware(cfg)

	api := router.Group("/api")
	setupAuthRoutes(api.Group("/auth"), cfg, identityClient, logging)
	setupBlogRoutes(api.Group("/blog"), db, logging, guard)
	setupPortfolioRoutes(api.Group("/portfolio"), db, logging, guard)
	setupWorkRoutes(api.Group("/work"), db, logging, guard)
	setupUploadRoutes(api.Group("/upload"), cfg, s3Client, logging, guard)
	setupSettingsRoutes(api.Group("/settings"), db, logging, guard)
	setupInfluenceRoutes(api.Group("/influences"), db, logging, guard)

	return router
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.BlogPost{}, &models.Tag{}, &models.BlogPostTag{},
		&models.PortfolioItem{},
		&models.Experience{}, &models.TimelineEvent{}, &models.FeaturedPost{},
		&models.Influence{}, &models.SiteSettings{},
	)

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	identityClient := identity.NewClient(cfg, logging)

	router := newRouter(cfg, db, logging, s3Client, identityClient)

	// Nächtlicher Sweep verwaister Tag-/Featured-Post-Verknüpfungen
	sweeper := services.NewSweeper(db, logging)
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.SweepSchedule, func() {
		logging.Info("Running scheduled association sweep...")
		removed, err := sweeper.Run(context.Background())
		if err != nil {
			logging.Error("Association sweep failed", zap.Error(err))
		} else {
			logging.Info("Association sweep completed", zap.Int64("removed_rows", removed))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// paramID liest einen numerischen Pfadparameter; ungültige Werte werden wie
// nicht vorhandene Ressourcen behandelt.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}
