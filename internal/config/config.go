package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Store driver names accepted in STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  MySQL fields are only consulted when the row
// store driver is "mysql"; likewise SMTP fields only matter when the
// booking consumer should send real email.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	StoreDriver string // row store backend: memory, redis or mysql

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	AMQPURL string // RabbitMQ url; empty disables booking notifications

	SMTPHost   string // SMTP server host for confirmation email
	SMTPPort   string // SMTP server port (smtps, TLS from the first byte)
	SMTPSender string // sender address, doubles as the SMTP login
	SMTPPass   string // SMTP password; empty falls back to file logging

	TicketCodesPath string // optional JSON file of pre-generated booking codes
	LogDir          string // directory for the booking delivery log
	CORSOrigins     string // comma separated allowed origins, "*" by default
}

// Load reads configuration values from environment variables and returns a
// Config.  Only APP_PORT is strictly required; everything else has a
// sensible default or is optional, so the server can boot with the
// in-memory store and no external services at all.
func Load() Config {
	cfg := Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        must("APP_PORT"),
		StoreDriver: getenv("STORE_DRIVER", DriverMemory),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getenv("DB_HOST", "localhost"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: os.Getenv("DB_NAME"),

		AMQPURL: os.Getenv("AMQP_URL"),

		SMTPHost:   getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:   getenv("SMTP_PORT", "465"),
		SMTPSender: os.Getenv("SMTP_SENDER"),
		SMTPPass:   os.Getenv("SMTP_PASSWORD"),

		TicketCodesPath: os.Getenv("TICKET_CODES_PATH"),
		LogDir:          getenv("LOG_DIR", "logs"),
		CORSOrigins:     getenv("CORS_ORIGINS", "*"),
	}
	switch cfg.StoreDriver {
	case DriverMemory, DriverRedis, DriverMySQL:
	default:
		log.Fatalf("unknown STORE_DRIVER: %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == DriverMySQL {
		if cfg.DBUser == "" || cfg.DBName == "" {
			log.Fatal("STORE_DRIVER=mysql requires DB_USER and DB_NAME")
		}
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

// getenv returns the variable's value or the given default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
