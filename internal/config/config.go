package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend kinds understood by the gateway wiring.
const (
	BackendFirebase = "firebase"
	BackendSelfHost = "selfhost"
	BackendMemory   = "memory"
)

type Config struct {
	Backend BackendConfig `json:"backend"`

	// Firebase Configuration
	Firebase FirebaseConfig `json:"firebase"`

	// Database Configuration (self-hosted backend)
	Database DatabaseConfig `json:"database"`

	// MongoDB Configuration (self-hosted blob store)
	MongoDB MongoDBConfig `json:"mongodb"`

	Server ServerConfig `json:"server"`

	Auth AuthConfig `json:"auth"`

	Feed FeedConfig `json:"feed"`

	Picker PickerConfig `json:"picker"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// BackendConfig selects which gateway implementation backs the client
type BackendConfig struct {
	Kind string `json:"kind"` // firebase, selfhost, memory
}

// FirebaseConfig contains the hosted backend settings
type FirebaseConfig struct {
	ProjectID           string        `json:"project_id"`
	CredentialsFilePath string        `json:"credentials_file_path"`
	StorageBucket       string        `json:"storage_bucket"`
	APIKey              string        `json:"api_key"` // web API key, used for password sign-in
	SignedURLTTL        time.Duration `json:"signed_url_ttl"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoDBConfig contains the GridFS connection configuration
type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Bucket   string `json:"bucket"`
}

// ServerConfig contains media server and metrics settings
type ServerConfig struct {
	MediaServicePort string `json:"media_service_port"`
	MediaBaseURL     string `json:"media_base_url"`
	MetricsAddr      string `json:"metrics_addr"`
	ReadTimeout      int    `json:"read_timeout"`
	WriteTimeout     int    `json:"write_timeout"`
}

// AuthConfig contains self-hosted session settings
type AuthConfig struct {
	JWTSecret    string        `json:"-"`
	TokenTTL     time.Duration `json:"token_ttl"`
	SignInPerMin int           `json:"sign_in_per_min"`
	SignInBurst  int           `json:"sign_in_burst"`
	AllowSignUp  bool          `json:"allow_sign_up"`
}

// FeedConfig contains message feed settings
type FeedConfig struct {
	Collection       string        `json:"collection"`
	MaxLength        int           `json:"max_length"`
	InlineImageLimit int           `json:"inline_image_limit"` // base64 bytes; 0 keeps every image inline
	PollInterval     time.Duration `json:"poll_interval"`
}

// PickerConfig contains image picker settings
type PickerConfig struct {
	GalleryDir string  `json:"gallery_dir"`
	Quality    float64 `json:"quality"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
	AddSource  bool   `json:"add_source"`
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Backend: BackendConfig{
			Kind: strings.ToLower(getEnv("CHAT_BACKEND", BackendFirebase)),
		},
		Firebase: FirebaseConfig{
			ProjectID:           getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFilePath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			StorageBucket:       getEnv("FIREBASE_STORAGE_BUCKET", ""),
			APIKey:              getEnv("FIREBASE_API_KEY", ""),
			SignedURLTTL:        getEnvAsDuration("FIREBASE_SIGNED_URL_TTL", 7*24*time.Hour),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "chatroom"),
			Password:     getEnv("MYSQL_PASSWORD", "chatroom123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "chatroom"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", "admin"),
			Password: getEnv("MONGO_PASSWORD", "admin123"),
			Database: getEnv("MONGO_DATABASE", "chatroom"),
			Bucket:   getEnv("MONGO_BUCKET", "media_files"),
		},
		Server: ServerConfig{
			MediaServicePort: getEnv("MEDIA_SERVER_PORT", "8080"),
			MetricsAddr:      getEnv("METRICS_ADDR", ""),
			ReadTimeout:      getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:     getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvAsDuration("JWT_TTL", 24*time.Hour),
			SignInPerMin: getEnvAsInt("SIGN_IN_PER_MINUTE", 5),
			SignInBurst:  getEnvAsInt("SIGN_IN_BURST", 5),
			AllowSignUp:  getEnvAsBool("AUTH_ALLOW_SIGN_UP", true),
		},
		Feed: FeedConfig{
			Collection:       getEnv("FEED_COLLECTION", "messages"),
			MaxLength:        getEnvAsInt("FEED_MAX_LENGTH", 500),
			InlineImageLimit: getEnvAsInt("FEED_INLINE_IMAGE_LIMIT", 700*1024),
			PollInterval:     getEnvAsDuration("FEED_POLL_INTERVAL", 2*time.Second),
		},
		Picker: PickerConfig{
			GalleryDir: getEnv("GALLERY_DIR", defaultGalleryDir()),
			Quality:    getEnvAsFloat("PICKER_QUALITY", 0.7),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stderr"),
			AddSource:  getEnvAsBool("LOG_ADD_SOURCE", false),
		},
	}

	cfg.Server.MediaBaseURL = getEnv("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/media", cfg.Server.MediaServicePort))

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" && cfg.MongoDB.Password == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

// Validate checks the settings required by the selected backend.
func (cfg *Config) Validate() error {
	switch cfg.Backend.Kind {
	case BackendFirebase:
		if cfg.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firebase backend")
		}
		if cfg.Firebase.APIKey == "" {
			return fmt.Errorf("FIREBASE_API_KEY is required for the firebase backend")
		}
	case BackendSelfHost:
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the selfhost backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
	if cfg.Feed.MaxLength <= 0 {
		return fmt.Errorf("FEED_MAX_LENGTH must be positive")
	}
	if cfg.Picker.Quality <= 0 || cfg.Picker.Quality > 1 {
		return fmt.Errorf("PICKER_QUALITY must be in (0, 1]")
	}
	return nil
}

func defaultGalleryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home + string(os.PathSeparator) + "Pictures"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
