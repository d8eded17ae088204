package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/config"
	"github.com/iliyamo/identity-service/internal/database"
	"github.com/iliyamo/identity-service/internal/handler"
	"github.com/iliyamo/identity-service/internal/middleware"
	"github.com/iliyamo/identity-service/internal/notify"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/router"
	"github.com/iliyamo/identity-service/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the user cache and the rate
	// limiter, nothing else.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; caching and rate limiting disabled")
	}
	cache := repository.NewUserCache(rdb, config.LoadCacheConfig())

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	vcodes := repository.NewCodeRepo(db, repository.EmailVerificationCodes)
	rcodes := repository.NewCodeRepo(db, repository.PasswordResetCodes)

	// Codes go out through the broker first; the log sender is a dev
	// fallback so a missing broker never blocks registration locally.
	sender := notify.NewChain(notify.NewQueueSender(), notify.LogSender{})

	codeTTL := time.Duration(cfg.CodeTTLMin) * time.Minute
	verification := service.NewVerificationService(users, vcodes, sender, cache, codeTTL)
	reset := service.NewPasswordResetService(users, rcodes, sender, codeTTL, cfg.BcryptCost)
	defer reset.Flush() // drain background code issuance on shutdown
	sessions := service.NewSessionManager(cfg, users, tokens, verification, cache)
	admin := service.NewAdminService(users, tokens, vcodes, rcodes, cache)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(sessions),
		handler.NewVerificationHandler(verification, reset),
		handler.NewAccountHandler(sessions),
		limiter, cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(admin), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
