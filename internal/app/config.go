package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// JWTSecret signs bearer credentials. Mandatory outside dev; an empty
	// value falls back to a random per-process secret, which invalidates all
	// tokens on restart.
	JWTSecret string

	// CredentialTTL bounds credential lifetime (default 7 days).
	CredentialTTL time.Duration

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("IDENFLOW_HTTP_ADDR", "0.0.0.0:3001"),
		LogLevel: EnvString("IDENFLOW_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("IDENFLOW_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("IDENFLOW_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("IDENFLOW_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("IDENFLOW_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("IDENFLOW_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("IDENFLOW_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("IDENFLOW_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("IDENFLOW_DB_MIN_CONNS", 0),

		JWTSecret:     EnvString("IDENFLOW_JWT_SECRET", ""),
		CredentialTTL: EnvDuration("IDENFLOW_CREDENTIAL_TTL", 7*24*time.Hour),

		ReadinessRequireDB: EnvBool("IDENFLOW_READINESS_REQUIRE_DB", false),
	}
}
