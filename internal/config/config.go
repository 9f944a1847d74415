package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time for cache TTL parsing

	"github.com/joho/godotenv" // godotenv loads a local .env file in development
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, integers for prices.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	DBUser            string        // database username
	DBPass            string        // database password (optional)
	DBHost            string        // database host address
	DBPort            string        // database port number
	DBName            string        // database name
	JWTSecret         string        // secret used to verify access tokens issued by the auth service
	ReservationAPIURL string        // base URL of the showtime/seat query service
	PaymentAPIURL     string        // base URL of the payment submission service
	UnitPriceCents    uint32        // fixed per-seat ticket price in cents
	SeatCacheTTL      time.Duration // how long reserved-seat sets stay cached in Redis
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file is honored when present so local development does
// not require exporting everything by hand.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; real env always wins

	return Config{
		Env:               must("APP_ENV"),             // environment (dev/test/prod)
		Port:              must("APP_PORT"),            // port to bind the HTTP server
		DBUser:            must("DB_USER"),             // database user
		DBPass:            os.Getenv("DB_PASS"),        // database password (empty allowed)
		DBHost:            must("DB_HOST"),             // database host
		DBPort:            must("DB_PORT"),             // database port
		DBName:            must("DB_NAME"),             // database name
		JWTSecret:         must("JWT_SECRET"),          // secret shared with the auth service
		ReservationAPIURL: must("RESERVATION_API_URL"), // showtime/seat query service
		PaymentAPIURL:     must("PAYMENT_API_URL"),     // payment submission service
		UnitPriceCents:    mustCents("TICKET_PRICE_CENTS", 1500), // per-seat price, default $15.00
		SeatCacheTTL:      envDurOr("SEAT_CACHE_TTL", 10*time.Second),
	}
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

// mustCents reads an optional price in cents, falling back to def.  A
// value that is present but not a positive integer is fatal: a wrong
// price must never be silently substituted.
func mustCents(key string, def uint32) uint32 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		log.Fatalf("invalid price for %s: %q", key, s)
	}
	return uint32(n)
}

// envDurOr reads an optional duration, falling back to def on absence
// or parse failure.
func envDurOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
