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

// Storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per HTTP request handled by the server

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote catalog (BoardGameGeek XML API)
	BGGBaseURL          string        // ex: https://boardgamegeek.com/xmlapi2
	BGGUserAgent        string        // sent on every outbound request
	BGGRequestInterval  time.Duration // minimum spacing between two outbound requests
	BGGRequestTimeout   time.Duration // per attempt
	BGGRetryAttempts    int           // attempts in total, not retries
	BGGRetryDelay       time.Duration // fixed delay between attempts
	BGGBreakerThreshold int           // consecutive failures before the breaker opens
	BGGBreakerTimeout   time.Duration // open -> half-open
	PayloadCacheTTL     time.Duration // 0 disables the remote payload cache

	// Reconciliation heuristics
	NameSimilarityThreshold      float64 // general titles
	LocalizedSimilarityThreshold float64 // localized titles

	// Hot list synchronisation
	HotSyncEnabled  bool
	HotSyncInterval time.Duration

	// Review content policy
	RulepackFile string // optional override of the embedded rulepack

	// Startup seed (optional)
	SeedFile string

	// Storage
	Storage               string        // "memory" | "redis"
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedHosts   []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict admin routes to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	AllowedOrigins []string // CORS
	RateBurst      int      // API rate limit burst per IP
	RatePerMinute  int      // API rate limit refill per IP per minute
}

// Load reads the optional env file then the process environment.
func Load() *Config {
	loadEnvFile(getenv("BGR_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BGR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BGR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BGR_HTTP_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("BGR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BGR_PRETTY_LOG", true),

		// Remote catalog
		BGGBaseURL:          strings.TrimRight(getenv("BGR_BGG_BASE_URL", "https://boardgamegeek.com/xmlapi2"), "/"),
		BGGUserAgent:        getenv("BGR_BGG_USER_AGENT", "BGR-BoardGameReview/1.0 (https://bgrq.netlify.app)"),
		BGGRequestInterval:  mustDuration("BGR_BGG_REQUEST_INTERVAL", time.Second),
		BGGRequestTimeout:   mustDuration("BGR_BGG_REQUEST_TIMEOUT", 10*time.Second),
		BGGRetryAttempts:    getenvInt("BGR_BGG_RETRY_ATTEMPTS", 3),
		BGGRetryDelay:       mustDuration("BGR_BGG_RETRY_DELAY", 2*time.Second),
		BGGBreakerThreshold: getenvInt("BGR_BGG_BREAKER_THRESHOLD", 5),
		BGGBreakerTimeout:   mustDuration("BGR_BGG_BREAKER_TIMEOUT", time.Minute),
		PayloadCacheTTL:     mustDuration("BGR_PAYLOAD_CACHE_TTL", 6*time.Hour),

		// Reconciliation
		NameSimilarityThreshold:      mustFloat("BGR_NAME_SIMILARITY_THRESHOLD", 0.85),
		LocalizedSimilarityThreshold: mustFloat("BGR_LOCALIZED_SIMILARITY_THRESHOLD", 0.90),

		HotSyncEnabled:  mustBool("BGR_HOT_SYNC_ENABLED", false),
		HotSyncInterval: mustDuration("BGR_HOT_SYNC_INTERVAL", 24*time.Hour),

		RulepackFile: getenv("BGR_RULEPACK_FILE", ""),
		SeedFile:     getenv("BGR_SEED_FILE", ""),

		// Storage
		Storage: strings.ToLower(getenv("BGR_STORAGE", StorageMemory)),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("BGR_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("BGR_ALLOWED_CIDRS", "")),
		TrustProxy:     mustBool("BGR_TRUST_PROXY", false),
		AllowedOrigins: splitAndTrim(getenv("BGR_ALLOWED_ORIGINS", "*")),
		RateBurst:      getenvInt("BGR_RATE_BURST", 20),
		RatePerMinute:  getenvInt("BGR_RATE_PER_MINUTE", 60),
	}

	switch cfg.Storage {
	case StorageMemory:
	case StorageRedis:
		loadRedis(cfg)
	default:
		panic(fmt.Sprintf("❌ FATAL: BGR_STORAGE must be %q or %q, got %q", StorageMemory, StorageRedis, cfg.Storage))
	}

	if cfg.BGGRetryAttempts < 1 {
		panic(fmt.Sprintf("❌ FATAL: BGR_BGG_RETRY_ATTEMPTS must be >= 1, got %d", cfg.BGGRetryAttempts))
	}
	if !validThreshold(cfg.NameSimilarityThreshold) || !validThreshold(cfg.LocalizedSimilarityThreshold) {
		panic("❌ FATAL: similarity thresholds must be within (0, 1]")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfgCopy.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("BGR_REDIS_ADDR")
	cfg.RedisUser = getenv("BGR_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("BGR_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("BGR_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("BGR_REDIS_DB")
	cfg.RedisDT = mustDuration("BGR_REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("BGR_REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("BGR_REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("BGR_REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("BGR_REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("BGR_REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("BGR_REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("BGR_REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("BGR_REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BGR_REDIS_PASSWORD is required when BGR_REDIS_PASSWORD_REQUIRED=true")
	}
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables already set.
// A missing file is not an error.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid env file %s: %v", path, err))
	}
}

func validThreshold(v float64) bool {
	return v > 0 && v <= 1
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
