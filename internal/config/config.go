package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the VideoTube backend service.
type Config struct {
	AppPort       int
	MongoURI      string
	MongoDatabase string
	LogLevel      string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	ObjectStore ObjectStoreConfig

	FFProbePath    string
	FFProbeTimeout time.Duration
	TempDir        string

	RateLimitPerMinute int
	RateLimitBurst     int
}

// ObjectStoreConfig describes the S3-compatible bucket media uploads land in.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
	KeyPrefix     string
}

// Load reads configuration from environment variables, applying sensible defaults
// for local development while allowing overrides through environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:       getInt("VIDEOTUBE_PORT", 8080),
		MongoURI:      getString("VIDEOTUBE_MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getString("VIDEOTUBE_MONGO_DATABASE", "videotube"),
		LogLevel:      getString("VIDEOTUBE_LOG_LEVEL", "info"),

		JWTSecret:  getString("VIDEOTUBE_JWT_SECRET", ""),
		AccessTTL:  getDuration("VIDEOTUBE_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: getDuration("VIDEOTUBE_REFRESH_TOKEN_TTL", 240*time.Hour),

		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("VIDEOTUBE_S3_BUCKET", ""),
			Region:        getString("VIDEOTUBE_S3_REGION", "us-east-1"),
			Endpoint:      getString("VIDEOTUBE_S3_ENDPOINT", ""),
			PublicBaseURL: getString("VIDEOTUBE_S3_PUBLIC_URL", ""),
			KeyPrefix:     getString("VIDEOTUBE_S3_KEY_PREFIX", "media"),
		},

		FFProbePath:    getString("VIDEOTUBE_FFPROBE_PATH", "ffprobe"),
		FFProbeTimeout: getDuration("VIDEOTUBE_FFPROBE_TIMEOUT", 15*time.Second),
		TempDir:        getString("VIDEOTUBE_TEMP_DIR", os.TempDir()),

		RateLimitPerMinute: getInt("VIDEOTUBE_RATE_LIMIT_PER_MINUTE", 300),
		RateLimitBurst:     getInt("VIDEOTUBE_RATE_LIMIT_BURST", 50),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("VIDEOTUBE_JWT_SECRET must be set")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
