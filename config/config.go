package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment driven configuration values. Secrets carry no
// in-code defaults and must come from the environment or a .env file.
type Config struct {
	Port      string
	GinMode   string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	JWTTTL    time.Duration

	// Upload storage. Directories are explicit so nothing is derived from
	// the process location at runtime.
	UploadBasePath    string
	ThumbnailDir      string
	CoverDir          string
	AvatarDir         string
	AllowedImageTypes []string
	MaxImageBytes     int64

	AllowedOrigins     []string
	RateLimitPerMinute int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg Config

// Load reads .env (when present) and the process environment into the
// package level config.
func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg = Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:   getEnv("MONGODB_NAME", "inkwell"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,

		UploadBasePath:    getEnv("UPLOAD_BASE_PATH", "./public/uploads"),
		ThumbnailDir:      getEnv("UPLOAD_THUMBNAIL_DIR", "thumbnails"),
		CoverDir:          getEnv("UPLOAD_COVER_DIR", "articles"),
		AvatarDir:         getEnv("UPLOAD_AVATAR_DIR", "avatars"),
		AllowedImageTypes: getEnvList("UPLOAD_ALLOWED_TYPES", []string{"image/jpeg", "image/jpg", "image/png"}),
		MaxImageBytes:     int64(getEnvInt("UPLOAD_MAX_BYTES", 2*1000*1000)),

		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3001"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:   getEnvBool("LOG_COMPRESS", false),
	}

	return cfg, nil
}

// Get returns the loaded configuration.
func Get() Config {
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
