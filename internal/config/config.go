package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/game-tracker/internal/platform/logging"
	"github.com/riskibarqy/game-tracker/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MutationTimeout    time.Duration
	LogLevel           logging.Level
	SwaggerEnabled     bool
	CORSAllowedOrigins []string

	GameStore               string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	ViewerStore   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RealtimeRedisEnabled bool
	RealtimeChannel      string
	RealtimeWorkers      int
	RealtimeBuffer       int

	PresenceWindow     time.Duration
	ViewerRetention    time.Duration
	ViewerReapInterval time.Duration

	AccountBaseURL        string
	AccountIntrospectPath string
	AccountAdminKey       string
	AccountTimeout        time.Duration
	AccountCacheTTL       time.Duration
	AccountCircuit        resilience.CircuitBreakerConfig

	MetricsEnabled bool

	UptraceEnabled bool
	UptraceDSN     string

	BetterStackEnabled  bool
	BetterStackEndpoint string
	BetterStackToken    string
	BetterStackTimeout  time.Duration
	BetterStackMinLevel logging.Level

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

// UsesRedis reports whether any component needs a redis client.
func (c Config) UsesRedis() bool {
	return c.ViewerStore == StoreRedis || c.RealtimeRedisEnabled
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := appEnv != EnvProd
	r := &envReader{}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "game-tracker-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        r.duration("APP_READ_TIMEOUT", "10s"),
		WriteTimeout:       r.duration("APP_WRITE_TIMEOUT", "15s"),
		ShutdownTimeout:    r.duration("APP_SHUTDOWN_TIMEOUT", "10s"),
		MutationTimeout:    r.duration("APP_MUTATION_TIMEOUT", "5s"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		SwaggerEnabled:     r.bool("SWAGGER_ENABLED", swaggerDefault),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		GameStore:               strings.ToLower(strings.TrimSpace(getEnv("GAME_STORE", StoreMemory))),
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: r.bool("DB_DISABLE_PREPARED_BINARY_RESULT", true),
		CacheEnabled:            r.bool("CACHE_ENABLED", true),
		CacheTTL:                r.duration("CACHE_TTL", "30s"),

		ViewerStore:   strings.ToLower(strings.TrimSpace(getEnv("VIEWER_STORE", StoreMemory))),
		RedisAddr:     strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       r.int("REDIS_DB", 0, 0),

		RealtimeRedisEnabled: r.bool("REALTIME_REDIS_ENABLED", false),
		RealtimeChannel:      strings.TrimSpace(getEnv("REALTIME_CHANNEL", "game-tracker:events")),
		RealtimeWorkers:      r.int("REALTIME_WORKERS", 16, 1),
		RealtimeBuffer:       r.int("REALTIME_SUBSCRIBER_BUFFER", 32, 1),

		PresenceWindow:     r.duration("PRESENCE_WINDOW", "10m"),
		ViewerRetention:    r.duration("VIEWER_RETENTION", "24h"),
		ViewerReapInterval: r.duration("VIEWER_REAP_INTERVAL", "15m"),

		AccountBaseURL:        getEnv("ACCOUNT_BASE_URL", "http://localhost:8081"),
		AccountIntrospectPath: getEnv("ACCOUNT_INTROSPECT_PATH", "/v1/auth/introspect"),
		AccountAdminKey:       getEnv("ACCOUNT_ADMIN_KEY", ""),
		AccountTimeout:        r.duration("ACCOUNT_TIMEOUT", "3s"),
		AccountCacheTTL:       r.duration("ACCOUNT_CACHE_TTL", "30s"),
		AccountCircuit: resilience.CircuitBreakerConfig{
			Enabled:          r.bool("ACCOUNT_CIRCUIT_ENABLED", true),
			FailureThreshold: r.int("ACCOUNT_CIRCUIT_FAILURE_COUNT", 5, 1),
			OpenTimeout:      r.duration("ACCOUNT_CIRCUIT_OPEN_TIMEOUT", "15s"),
			HalfOpenMaxReq:   r.int("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
		},

		MetricsEnabled: r.bool("METRICS_ENABLED", true),

		UptraceEnabled: r.bool("UPTRACE_ENABLED", false),
		UptraceDSN:     strings.TrimSpace(getEnv("UPTRACE_DSN", "")),

		BetterStackEnabled:  r.bool("BETTERSTACK_ENABLED", false),
		BetterStackEndpoint: strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", "")),
		BetterStackToken:    strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:  r.duration("BETTERSTACK_TIMEOUT", "3s"),
		BetterStackMinLevel: parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error")),

		PyroscopeEnabled:           r.bool("PYROSCOPE_ENABLED", false),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        r.duration("PYROSCOPE_UPLOAD_RATE", "15s"),

		PprofEnabled: r.bool("PPROF_ENABLED", false),
		PprofAddr:    strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if r.err != nil {
		return Config{}, r.err
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.GameStore {
	case StoreMemory:
	case StorePostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required when GAME_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("invalid GAME_STORE %q: valid values are %s, %s", c.GameStore, StoreMemory, StorePostgres)
	}

	switch c.ViewerStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("invalid VIEWER_STORE %q: valid values are %s, %s", c.ViewerStore, StoreMemory, StoreRedis)
	}
	if c.UsesRedis() && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when VIEWER_STORE=redis or REALTIME_REDIS_ENABLED=true")
	}
	if c.RealtimeRedisEnabled && c.RealtimeChannel == "" {
		return fmt.Errorf("REALTIME_CHANNEL cannot be empty when REALTIME_REDIS_ENABLED=true")
	}
	if c.ViewerRetention < c.PresenceWindow {
		return fmt.Errorf("VIEWER_RETENTION must be >= PRESENCE_WINDOW")
	}

	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.BetterStackEnabled && c.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

// envReader keeps the first parse error so Load can read every key in one
// pass and report it afterwards.
type envReader struct {
	err error
}

func (r *envReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *envReader) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	out, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	return out
}

func (r *envReader) int(key string, fallback, min int) int {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	if out < min {
		r.fail(fmt.Errorf("%s must be >= %d", key, min))
		return fallback
	}
	return out
}

// duration parses a positive duration.
func (r *envReader) duration(key, fallback string) time.Duration {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		r.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out <= 0 {
		r.fail(fmt.Errorf("%s must be > 0", key))
	}
	return out
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}
	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
