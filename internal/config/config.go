package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	DBMaxConns        int    // connection pool size (open and idle)
	DBConnLifetimeMin int    // max connection lifetime in minutes
	JWTSecret         string // secret used to sign JWTs
	AccessTTLDays     int    // access token time-to-live in days
	RefreshTTLDays    int    // refresh token time-to-live in days
	CodeTTLMin        int    // verification/reset code time-to-live in minutes
	BcryptCost        int    // bcrypt cost for password hashing
	RotateOnRefresh   bool   // when true, /refresh revokes the presented token and issues a new one
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:               must("APP_ENV"),                   // environment (dev/test/prod)
		Port:              must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:            must("DB_USER"),                   // database user
		DBPass:            os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:            must("DB_HOST"),                   // database host
		DBPort:            must("DB_PORT"),                   // database port
		DBName:            must("DB_NAME"),                   // database name
		DBMaxConns:        intOr("DB_MAX_CONNS", 25),         // pool size
		DBConnLifetimeMin: intOr("DB_CONN_LIFETIME_MIN", 30), // connection lifetime
		JWTSecret:         must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLDays:     mustInt("ACCESS_TOKEN_TTL_DAYS"),  // TTL for access tokens in days
		RefreshTTLDays:    mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		CodeTTLMin:        intOr("CODE_TTL_MIN", 15),         // TTL for one-time codes in minutes
		BcryptCost:        mustInt("BCRYPT_COST"),            // bcrypt cost factor
		RotateOnRefresh:   boolOr("ROTATE_REFRESH_TOKENS", false),
	}
	// A bcrypt cost below 10 gives no meaningful protection against offline
	// cracking; refuse to start rather than run with a weak work factor.
	if cfg.BcryptCost < 10 {
		log.Fatalf("BCRYPT_COST must be >= 10, got %d", cfg.BcryptCost)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer variable, falling back to def when the
// variable is unset.  A malformed value is still fatal.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

// boolOr reads an optional boolean variable, falling back to def.
func boolOr(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}
