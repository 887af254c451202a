// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Media backends
const (
	MediaCloudinary = "cloudinary"
	MediaS3         = "s3"
	MediaLocal      = "local"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// Config holds every environment-driven setting of the server
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// PublicBaseURL is the site origin used to build share links
	PublicBaseURL      string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5173"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"mongo"`
	MongoURI     string `env:"MONGO_URI"`
	DBName       string `env:"DB_NAME" envDefault:"yoga_blog"`

	FirebaseProjectID         string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsBase64 string `env:"FIREBASE_CREDENTIALS_BASE64"`
	FirebaseCredentialsFile   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	FeedCacheTTL  time.Duration `env:"FEED_CACHE_TTL" envDefault:"5m"`

	AdminPIN      string        `env:"ADMIN_PIN"`
	AdminPINHash  string        `env:"ADMIN_PIN_HASH"`
	JWTSecret     string        `env:"JWT_SECRET"`
	AdminTokenTTL time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"2h"`

	MediaBackend           string `env:"MEDIA_BACKEND" envDefault:"cloudinary"`
	MaxUploadBytes         int64  `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`
	CloudinaryURL          string `env:"CLOUDINARY_URL"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryFolder       string `env:"CLOUDINARY_FOLDER" envDefault:"yoga/posts"`

	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3Access        string `env:"S3_ACCESS"`
	S3Secret        string `env:"S3_SECRET"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Secure        bool   `env:"S3_SECURE" envDefault:"true"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	SMTPHost   string `env:"SMTP_HOST"`
	SMTPPort   int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASS"`
	FromEmail  string `env:"FROM_EMAIL"`
	OwnerEmail string `env:"OWNER_EMAIL"`
	SiteName   string `env:"SITE_NAME" envDefault:"Yoga with Nandini"`
}

// Load reads .env (when present) and parses the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.MediaBackend = strings.ToLower(strings.TrimSpace(c.MediaBackend))
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.S3PublicBaseURL = strings.TrimRight(c.S3PublicBaseURL, "/")
	if c.FromEmail == "" {
		c.FromEmail = c.SMTPUser
	}
	if c.OwnerEmail == "" {
		c.OwnerEmail = c.FromEmail
	}
}

// IsDevelopment reports whether the server runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	var errs []error

	if c.AdminPINHash == "" && !pinPattern.MatchString(c.AdminPIN) {
		errs = append(errs, errors.New("ADMIN_PIN must be exactly 4 digits (or set ADMIN_PIN_HASH)"))
	}

	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" && !c.IsDevelopment() {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store in production"))
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.MediaBackend {
	case MediaCloudinary:
		if c.CloudinaryURL == "" {
			errs = append(errs, errors.New("CLOUDINARY_URL is required for the cloudinary media backend"))
		}
	case MediaS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			errs = append(errs, errors.New("S3_ENDPOINT, S3_BUCKET and S3_PUBLIC_BASE_URL are required for the s3 media backend"))
		}
	case MediaLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown MEDIA_BACKEND %q", c.MediaBackend))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

// MailEnabled reports whether enough SMTP settings exist to send mail
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.FromEmail != "" && c.OwnerEmail != ""
}
