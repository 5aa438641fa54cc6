package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "patientdir/pkg/platform/strings"
)

// SourceKind selects where the directory document is read from.
type SourceKind string

const (
	SourceFile  SourceKind = "file"
	SourceHTTP  SourceKind = "http"
	SourceS3    SourceKind = "s3"
	SourceRedis SourceKind = "redis"
)

// Config is the whole process configuration.
type Config struct {
	Server Server
	Log    Log
	Source Source
	S3     S3
	Redis  Redis
	// AllowedImageHosts are the only hosts patient photos are loaded from.
	AllowedImageHosts []string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log configures the slog handler.
type Log struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// Source configures the one-time record load.
type Source struct {
	Kind SourceKind
	File string
	URL  string
	// LoadTimeout bounds the initial fetch; zero means no timeout.
	LoadTimeout time.Duration
}

// S3 locates the document in a bucket.
type S3 struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	PathStyle bool
	// Static credentials; the default AWS chain is used when empty.
	AccessKeyID     string
	SecretAccessKey string
}

// Redis configures the redis client used by the redis source.
type Redis struct {
	URL          string
	Key          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedis returns client settings suitable for a single GET at startup.
func DefaultRedis() Redis {
	return Redis{
		Key:          "patientdir:records",
		PoolSize:     2,
		MinIdleConns: 0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	redis := DefaultRedis()
	redis.URL = os.Getenv("PATIENTDIR_REDIS_URL")
	redis.Key = getEnv("PATIENTDIR_REDIS_KEY", redis.Key)

	cfg := Config{
		Server: Server{
			Addr:            getEnv("PATIENTDIR_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("PATIENTDIR_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Source: Source{
			Kind:        SourceKind(strings.ToLower(getEnv("PATIENTDIR_SOURCE", string(SourceFile)))),
			File:        getEnv("PATIENTDIR_DATA_FILE", "public/MOCK_DATA.json"),
			URL:         os.Getenv("PATIENTDIR_DATA_URL"),
			LoadTimeout: getEnvDuration("PATIENTDIR_LOAD_TIMEOUT", 0),
		},
		S3: S3{
			Bucket:    os.Getenv("PATIENTDIR_S3_BUCKET"),
			Key:       getEnv("PATIENTDIR_S3_KEY", "MOCK_DATA.json"),
			Region:    os.Getenv("PATIENTDIR_S3_REGION"),
			Endpoint:  os.Getenv("PATIENTDIR_S3_ENDPOINT"),
			PathStyle: getEnvBool("PATIENTDIR_S3_PATH_STYLE", false),

			AccessKeyID:     os.Getenv("PATIENTDIR_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("PATIENTDIR_S3_SECRET_ACCESS_KEY"),
		},
		Redis:             redis,
		AllowedImageHosts: getEnvList("PATIENTDIR_ALLOWED_IMAGE_HOSTS", []string{"randomuser.me"}),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []string

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.File == "" {
			errs = append(errs, "PATIENTDIR_DATA_FILE is required for the file source")
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			errs = append(errs, "PATIENTDIR_DATA_URL is required for the http source")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			errs = append(errs, "PATIENTDIR_S3_BUCKET is required for the s3 source")
		}
	case SourceRedis:
		if c.Redis.URL == "" {
			errs = append(errs, "PATIENTDIR_REDIS_URL is required for the redis source")
		}
	default:
		errs = append(errs, fmt.Sprintf("PATIENTDIR_SOURCE %q is not one of file, http, s3, redis", c.Source.Kind))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q is not json or text", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if list := pstrings.SplitList(os.Getenv(key)); len(list) > 0 {
		return list
	}
	return fallback
}
