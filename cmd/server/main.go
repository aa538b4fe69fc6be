package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/devsoc/hackathon-platform/internal/authz"
	"github.com/devsoc/hackathon-platform/internal/config"
	"github.com/devsoc/hackathon-platform/internal/database"
	"github.com/devsoc/hackathon-platform/internal/handler"
	"github.com/devsoc/hackathon-platform/internal/middleware"
	"github.com/devsoc/hackathon-platform/internal/queue"
	"github.com/devsoc/hackathon-platform/internal/repository"
	"github.com/devsoc/hackathon-platform/internal/router"
)

func main() {
	// .env is a development convenience; in production the variables
	// come from the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: the rate limiter fails open and the response
	// cache becomes a no-op when no client is available.
	rdb := config.NewRedisClient()

	accounts := repository.NewAccountRepo(db)
	users := repository.NewUserRepo(db)
	teams := repository.NewTeamRepo(db)
	projects := repository.NewProjectRepo(db)
	evaluations := repository.NewEvaluationRepo(db)

	engine := authz.NewEngine(users)

	authH := handler.NewAuthHandler(cfg, accounts, users)
	userH := handler.NewUserHandler(users, accounts, engine)
	teamH := handler.NewTeamHandler(teams, users, engine)
	projectH := handler.NewProjectHandler(projects, users, engine)
	evalH := handler.NewEvaluationHandler(evaluations, engine)
	showcaseH := handler.NewShowcaseHandler(projects)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, showcaseH, config.LoadCacheConfig(), rdb)

	auth := e.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)
	router.RegisterAuth(e, auth, authH)
	router.RegisterUsers(auth, userH)
	router.RegisterTeams(auth, teamH)
	router.RegisterProjects(auth, projectH)
	router.RegisterEvaluations(auth, evalH)

	go queue.StartEvaluationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
