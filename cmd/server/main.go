package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/formation-enrollment/internal/config"
	"github.com/iliyamo/formation-enrollment/internal/database"
	"github.com/iliyamo/formation-enrollment/internal/handler"
	"github.com/iliyamo/formation-enrollment/internal/middleware"
	"github.com/iliyamo/formation-enrollment/internal/queue"
	"github.com/iliyamo/formation-enrollment/internal/repository"
	"github.com/iliyamo/formation-enrollment/internal/router"
	"github.com/iliyamo/formation-enrollment/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client turns cache and rate limiting into
	// pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	formationRepo := repository.NewFormationRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	opinionRepo := repository.NewOpinionRepo(db)

	enrollSvc := service.NewEnrollmentService(
		service.NewJWTVerifier(cfg.JWTSecret),
		userRepo,
		formationRepo,
		enrollmentRepo,
	)

	// Background consumer writes logs/enrollment.log from confirmed
	// enrollment events.
	go func() {
		if err := queue.StartEnrollmentConsumer(); err != nil {
			log.Printf("enrollment consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Deps{
		Cfg:         cfg,
		Auth:        handler.NewAuthHandler(userRepo, tokenRepo, cfg),
		Formations:  handler.NewFormationHandler(formationRepo),
		Enrollments: handler.NewEnrollmentHandler(enrollSvc, enrollmentRepo),
		Opinions:    handler.NewOpinionHandler(opinionRepo),
		CatalogMW:   []echo.MiddlewareFunc{middleware.NewRedisCache(config.LoadCacheConfig(), rdb)},
	})

	log.Printf("starting server on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
