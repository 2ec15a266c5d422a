package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/api"
	"github.com/atelierhq/sheetwork/internal/config"
	"github.com/atelierhq/sheetwork/internal/db"
	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/observ"
	"github.com/atelierhq/sheetwork/internal/realtime"
	"github.com/atelierhq/sheetwork/internal/repository/postgres"
	"github.com/atelierhq/sheetwork/internal/service"
	"github.com/atelierhq/sheetwork/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	// Repositories. Each store shares the same pool; the pool is
	// goroutine-safe.
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	companyRepo := postgres.NewCompanyStore(pool)
	userCompanyRepo := postgres.NewUserCompanyStore(pool)
	partnershipRepo := postgres.NewPartnershipStore(pool)
	invitationRepo := postgres.NewInvitationStore(pool)
	projectRepo := postgres.NewProjectStore(pool)
	projectMemberRepo := postgres.NewProjectMemberStore(pool)
	sheetRepo := postgres.NewSheetStore(pool)
	versionRepo := postgres.NewSheetVersionStore(pool)
	markerRepo := postgres.NewMarkerStore(pool)
	commentRepo := postgres.NewCommentStore(pool)

	// Services.
	accessSvc := service.NewAccessService(userCompanyRepo)
	membershipSvc := service.NewMembershipService(userCompanyRepo)
	partnershipSvc := service.NewPartnershipService(partnershipRepo, companyRepo)
	invitationSvc := service.NewInvitationService(invitationRepo, membershipSvc, logger)
	images := storage.NewLocalImageStore(cfg.ImageStoreDir, logger)
	versioningSvc := service.NewVersioningService(sheetRepo, versionRepo, markerRepo, images, logger)
	commentSvc := service.NewCommentService(markerRepo, commentRepo, userRepo)

	// Realtime.
	hub := realtime.NewHub(logger)
	presence := realtime.NewPresence(rdb)

	// Handlers.
	guard := api.NewGuard(projectRepo, projectMemberRepo, accessSvc)
	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	companyHandler := api.NewCompanyHandler(companyRepo, membershipSvc, partnershipSvc, userCompanyRepo, logger)
	invitationHandler := api.NewInvitationHandler(invitationSvc, invitationRepo, userCompanyRepo, logger)
	projectHandler := api.NewProjectHandler(projectRepo, projectMemberRepo, guard, logger)
	sheetHandler := api.NewSheetHandler(sheetRepo, versioningSvc, guard, hub, logger)
	markerHandler := api.NewMarkerHandler(markerRepo, sheetHandler, hub, logger)
	commentHandler := api.NewCommentHandler(commentSvc, markerRepo, sheetHandler, hub, logger)
	wsHandler := api.NewWSHandler(hub, presence, sheetHandler, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Health check stays public so load balancers can reach it.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	srv.POST("/v1/auth/signup", authHandler.Signup)
	srv.POST("/v1/auth/login", authHandler.Login)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.POST("/companies", companyHandler.Create)
	v1.GET("/companies/:id", companyHandler.Get)
	v1.PATCH("/companies/:id", companyHandler.Update)
	v1.DELETE("/companies/:id", companyHandler.Delete)
	v1.GET("/companies/:id/members", companyHandler.ListMembers)
	v1.PUT("/companies/:id/members/role", companyHandler.ChangeMemberRole)
	v1.POST("/companies/:id/partnerships", companyHandler.CreatePartnership)
	v1.GET("/companies/:id/partnerships", companyHandler.ListPartners)

	v1.POST("/companies/:id/invitations", invitationHandler.Create)
	v1.GET("/companies/:id/invitations", invitationHandler.List)
	v1.POST("/companies/:id/invitations/expire", invitationHandler.ExpireOverdue)
	v1.POST("/invitations/:token/accept", invitationHandler.Accept)
	v1.POST("/invitations/:token/reject", invitationHandler.Reject)

	v1.POST("/projects", projectHandler.Create)
	v1.GET("/projects/:id", projectHandler.Get)
	v1.PATCH("/projects/:id", projectHandler.Update)
	v1.DELETE("/projects/:id", projectHandler.Delete)
	v1.GET("/projects/:id/members", projectHandler.ListMembers)
	v1.POST("/projects/:id/members", projectHandler.AddMember)
	v1.DELETE("/projects/:id/members/:userId", projectHandler.RemoveMember)

	v1.POST("/projects/:id/sheets", sheetHandler.Create)
	v1.GET("/projects/:id/sheets", sheetHandler.ListByProject)
	v1.GET("/sheets/:id", sheetHandler.Get)
	v1.PATCH("/sheets/:id", sheetHandler.Update)
	v1.DELETE("/sheets/:id", sheetHandler.Delete)
	v1.POST("/sheets/:id/versions", sheetHandler.CreateVersion)
	v1.GET("/sheets/:id/versions", sheetHandler.ListVersions)
	v1.POST("/sheets/:id/versions/:versionId/restore", sheetHandler.RestoreVersion)

	v1.POST("/sheets/:id/markers", markerHandler.Create)
	v1.GET("/sheets/:id/markers", markerHandler.List)
	v1.PATCH("/markers/:id", markerHandler.Update)
	v1.DELETE("/markers/:id", markerHandler.Delete)

	v1.POST("/markers/:id/comments", commentHandler.Create)
	v1.GET("/markers/:id/comments", commentHandler.List)

	v1.GET("/ws/sheets/:id", wsHandler.Watch)
	v1.GET("/sheets/:id/viewers", wsHandler.Viewers)

	logger.Info("starting sheetwork",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
