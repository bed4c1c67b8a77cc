package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, must exceed ResolverTimeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store string // "redis" | "memory"

	// Sessions
	SessionSecret string // HMAC key for the session cookie
	SecureCookies bool   // set the Secure flag (disable for plain-http dev)

	// Link metadata resolver
	ResolverTimeout      time.Duration // outbound fetch timeout
	ResolverMaxRedirects int           // redirect hops before giving up
	ResolverMaxBodyBytes int           // response bytes read before parsing
	ResolverUserAgent    string        // browser-like UA sent to target sites
	ResolverAllowPrivate bool          // allow fetching private/loopback addresses (dev only)
	PreviewCacheSize     int           // in-process LRU entries, 0 disables
	PreviewCacheTTL      time.Duration // TTL for cached previews (memory and redis)

	// Rate limit for /api/metadata
	MetadataBurst        int
	MetadataRefillPerMin int

	ImportMaxBytes int // largest accepted bookmarks.yaml upload

	// Trash
	TrashRetention  time.Duration // archived links older than this are purged
	TrashGCInterval time.Duration // how often the purge runs

	// Redis
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

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /readyz and /metrics to these IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("STASH_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("STASH_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("STASH_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("STASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("STASH_PRETTY_LOG", true),

		Store: strings.ToLower(getenv("STASH_STORE", StoreRedis)),

		// Sessions
		SessionSecret: requireEnv("STASH_SESSION_SECRET"),
		SecureCookies: mustBool("STASH_SECURE_COOKIES", true),

		// Resolver
		ResolverTimeout:      mustDuration("STASH_RESOLVER_TIMEOUT", 10*time.Second),
		ResolverMaxRedirects: getenvInt("STASH_RESOLVER_MAX_REDIRECTS", 5),
		ResolverMaxBodyBytes: getenvInt("STASH_RESOLVER_MAX_BODY_BYTES", 2<<20),
		ResolverUserAgent:    getenv("STASH_RESOLVER_USER_AGENT", "Mozilla/5.0 (compatible; StashBot/1.0)"),
		ResolverAllowPrivate: mustBool("STASH_RESOLVER_ALLOW_PRIVATE", false),
		PreviewCacheSize:     getenvInt("STASH_PREVIEW_CACHE_SIZE", 1024),
		PreviewCacheTTL:      mustDuration("STASH_PREVIEW_CACHE_TTL", 6*time.Hour),

		MetadataBurst:        getenvInt("STASH_METADATA_BURST", 20),
		MetadataRefillPerMin: getenvInt("STASH_METADATA_REFILL_PER_MIN", 30),

		ImportMaxBytes: getenvInt("STASH_IMPORT_MAX_BYTES", 1<<20),

		TrashRetention:  mustDuration("STASH_TRASH_RETENTION", 30*24*time.Hour),
		TrashGCInterval: mustDuration("STASH_TRASH_GC_INTERVAL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("STASH_REDIS_ADDR", ""),
		RedisUser:             getenv("STASH_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("STASH_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("STASH_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("STASH_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("STASH_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("STASH_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("STASH_TRUST_PROXY", false),
	}

	switch cfg.Store {
	case StoreRedis:
		if cfg.RedisAddr == "" {
			panic("❌ FATAL: STASH_REDIS_ADDR is required when STASH_STORE=redis")
		}
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: STASH_REDIS_PASSWORD is required when STASH_REDIS_PASSWORD_REQUIRED=true")
		}
	case StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown STASH_STORE %q (want %q or %q)", cfg.Store, StoreRedis, StoreMemory))
	}

	if cfg.RequestTimeout <= cfg.ResolverTimeout {
		log.Printf("[WARN] STASH_REQUEST_TIMEOUT (%s) <= STASH_RESOLVER_TIMEOUT (%s), metadata requests may be cut short",
			cfg.RequestTimeout, cfg.ResolverTimeout)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.SessionSecret = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
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
