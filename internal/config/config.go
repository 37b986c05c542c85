package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends accepted in DB_DRIVER.
const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

// MinBcryptCost is the lowest bcrypt cost the service will hash with.
const MinBcryptCost = 10

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; see Load for defaults.
type Config struct {
	Env         string // application environment (dev, prod)
	Port        string // HTTP port to listen on
	FrontendURL string // allowed CORS origin ("*" when unset)

	DBDriver      string // mongo | mysql
	MongoURI      string // MongoDB connection string
	MongoDatabase string // MongoDB database name
	DBUser        string // MySQL user
	DBPass        string // MySQL password (optional)
	DBHost        string // MySQL host
	DBPort        string // MySQL port
	DBName        string // MySQL database

	EmailUser     string // SMTP account, also the From address
	EmailPassword string // SMTP password / app password
	SMTPHost      string
	SMTPPort      string
	AdminNotifyTo string // address that receives new booking alerts
	AdminEmail    string // admin login email
	AdminPassword string // admin login password

	RazorpayKeyID     string
	RazorpayKeySecret string
	Currency          string

	BcryptCost   int
	JWTSecret    string // empty disables token issuance
	AccessTTLMin int

	AdminAuthRequired   bool // guard admin and per-user routes with JWT
	StrictBookingStatus bool // reject status values outside the enumeration

	AMQPURL string // empty disables booking events
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required values are reported together in the error.
func Load() (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV", "dev"),
		Port:        getenv("PORT", getenv("APP_PORT", "5000")),
		FrontendURL: getenv("FRONTEND_URL", "*"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", DriverMongo)),
		MongoURI: getenv("MONGODB_URI", "mongodb://localhost:27017/friendlyvoice"),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   os.Getenv("DB_HOST"),
		DBPort:   getenv("DB_PORT", "3306"),
		DBName:   os.Getenv("DB_NAME"),

		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		SMTPHost:      getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getenv("SMTP_PORT", "465"),
		AdminEmail:    os.Getenv("ADMIN_LOGIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_LOGIN_PASSWORD"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:          getenv("PAYMENT_CURRENCY", "INR"),

		BcryptCost:   envInt("BCRYPT_COST", MinBcryptCost),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),

		AdminAuthRequired:   envBool("ADMIN_AUTH_REQUIRED", false),
		StrictBookingStatus: envBool("STRICT_BOOKING_STATUS", false),

		AMQPURL: getenv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	cfg.AdminNotifyTo = getenv("ADMIN_EMAIL", cfg.EmailUser)
	cfg.MongoDatabase = getenv("MONGODB_DATABASE", databaseFromURI(cfg.MongoURI))
	if cfg.BcryptCost < MinBcryptCost {
		cfg.BcryptCost = MinBcryptCost
	}
	if cfg.AccessTTLMin <= 0 {
		cfg.AccessTTLMin = 60
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var missing []string
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	case DriverMySQL:
		for k, v := range map[string]string{"DB_USER": c.DBUser, "DB_HOST": c.DBHost, "DB_NAME": c.DBName} {
			if v == "" {
				missing = append(missing, k)
			}
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AdminAuthRequired && c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required env vars: " + strings.Join(missing, ", "))
	}
	return nil
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// TokensEnabled reports whether login should issue access tokens.
func (c Config) TokensEnabled() bool { return c.JWTSecret != "" }

// databaseFromURI returns the path segment of a mongodb:// URI, falling
// back to the service's historical database name.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return "friendlyvoice"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
