// Command adminctl provisions admin accounts out-of-band.  The public
// registration endpoint can only ever create standard users; operators run
// this tool against the database directly to create an admin or promote an
// existing account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/identity-service/internal/config"
	"github.com/iliyamo/identity-service/internal/database"
	"github.com/iliyamo/identity-service/internal/model"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/utils"
)

func main() {
	_ = godotenv.Load()

	var (
		createUsername = flag.String("create", "", "create an admin with this username (requires -email and -password)")
		email          = flag.String("email", "", "email for the new admin")
		password       = flag.String("password", "", "password for the new admin")
		displayName    = flag.String("name", "", "display name for the new admin")
		promoteEmail   = flag.String("promote", "", "promote the account behind this email to admin")
	)
	flag.Parse()

	if *createUsername == "" && *promoteEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	// The server caches the admin user listing in Redis; writes made here
	// must invalidate it or the listing stays stale for the cache TTL.
	// With Redis unreachable the cache is off and Invalidate is a no-op.
	cache := repository.NewUserCache(config.NewRedisClient(), config.LoadCacheConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case *createUsername != "":
		if *email == "" || *password == "" {
			log.Fatal("-create requires -email and -password")
		}
		hash, err := utils.HashPassword(*password, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		id, err := users.Create(ctx, *createUsername, *email, hash, *displayName, model.RoleAdmin)
		if err != nil {
			log.Fatalf("create admin: %v", err)
		}
		// Admins do not go through email verification.
		if err := users.SetVerified(ctx, id, true); err != nil {
			log.Fatalf("mark verified: %v", err)
		}
		cache.Invalidate(ctx)
		fmt.Printf("created admin %q with id %d\n", *createUsername, id)

	case *promoteEmail != "":
		u, err := users.GetByEmail(ctx, *promoteEmail)
		if err != nil {
			log.Fatalf("lookup %q: %v", *promoteEmail, err)
		}
		if err := users.UpdateRole(ctx, u.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote: %v", err)
		}
		cache.Invalidate(ctx)
		fmt.Printf("promoted user %d (%s) to admin\n", u.ID, u.Username)
	}
}
