package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/config"
	"github.com/arenahub/arena-backend/internal/database"
	"github.com/arenahub/arena-backend/internal/handler"
	"github.com/arenahub/arena-backend/internal/repository"
	"github.com/arenahub/arena-backend/internal/router"
	"github.com/arenahub/arena-backend/internal/service"
)

func main() {
	// A .env file is a local-dev convenience; in deployment the variables
	// come from the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database open", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	playerRepo := repository.NewPlayerRepo(db)
	matchRepo := repository.NewMatchRepo(db)
	newsRepo := repository.NewNewsRepo(db)
	eventRepo := repository.NewEventRepo(db)

	authSvc := service.NewAuthService(userRepo, tokenRepo, roleRepo, cfg, logger)
	roleSvc := service.NewRoleService(roleRepo, userRepo, logger)
	rankingSvc := service.NewRankingService(playerRepo, matchRepo, logger)
	newsSvc := service.NewNewsService(newsRepo, logger)
	eventSvc := service.NewEventService(eventRepo, logger)

	e := echo.New()
	e.HideBanner = true

	router.RegisterHealth(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), cfg.JWTSecret)
	router.RegisterRanking(e, handler.NewRankingHandler(rankingSvc), roleRepo, cfg.JWTSecret)
	router.RegisterRoles(e, handler.NewRoleHandler(roleSvc), roleRepo, cfg.JWTSecret)
	router.RegisterNews(e, handler.NewNewsHandler(newsSvc), roleRepo, cfg.JWTSecret)
	router.RegisterEvents(e, handler.NewEventHandler(eventSvc), roleRepo, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
