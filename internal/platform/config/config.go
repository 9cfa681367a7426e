package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the policy gateway.
type Server struct {
	Addr string

	// Token issuance / verification
	IssuerDID     string
	Audience      string
	JWKSKid       string
	SigningKeyB64 string // base64url Ed25519 seed; ephemeral key generated when empty

	MinTTL     time.Duration
	MaxTTL     time.Duration
	DefaultTTL time.Duration

	// Policy engine
	HoldThreshold float64

	// Payment challenges
	PaymentReceiver string
	PaymentAsset    string

	Redis       RedisConfig
	PostgresURL string
}

// RedisConfig holds connection settings for the shared Redis client. An empty
// URL means Redis is not configured and in-memory stores are used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            envOr("WORLDVAULT_ADDR", ":8080"),
		IssuerDID:       envOr("JWT_ISSUER_DID", "did:wv:issuer:main"),
		Audience:        envOr("JWT_AUDIENCE", "worldvault-policy"),
		JWKSKid:         envOr("JWKS_KID", "wv_jwks_1"),
		SigningKeyB64:   os.Getenv("JWT_ED25519_PRIVATE_KEY_B64"),
		MinTTL:          envDuration("CONSENT_TTL_MIN_SECONDS", 60*time.Second),
		MaxTTL:          envDuration("CONSENT_TTL_MAX_SECONDS", 3600*time.Second),
		DefaultTTL:      envDuration("CONSENT_TTL_DEFAULT_SECONDS", 600*time.Second),
		HoldThreshold:   envFloat("HOLD_THRESHOLD", 0.05),
		PaymentReceiver: os.Getenv("X402_RECEIVER_ADDRESS"),
		PaymentAsset:    envOr("X402_ASSET", "USDC"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT_SECONDS", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT_SECONDS", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT_SECONDS", 3*time.Second),
		},
		PostgresURL: os.Getenv("AUDIT_POSTGRES_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
