package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingEnv = errors.New("missing-env")
	ErrInvalidEnv = errors.New("invalid-env")
)

type Config struct {
	AllowedOrigins []string
	JWTKey         string
	ListenAddr     string
	Debug          bool

	StoreEngine string
	PostgresURL string
	SQLitePath  string

	WordBankPath   string
	TokenAge       time.Duration
	TurnSeconds    int
	FeedbackDelay  time.Duration
	FreezeDuration time.Duration
	SessionTTL     time.Duration
}

// Load reads the optional env files (".env" when none are given) into the
// process environment, then builds the configuration from it.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var (
		cfg Config
		err error
	)

	origins, err := required("ALLOWED_ORIGINS")
	if err != nil {
		return Config{}, err
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.JWTKey, err = required("JWT_KEY"); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = stringOr("LISTEN_ADDR", ":5000")
	cfg.StoreEngine = strings.ToLower(stringOr("STORE_ENGINE", "sqlite"))
	cfg.PostgresURL = os.Getenv("POSTGRES_URL")
	cfg.SQLitePath = stringOr("SQLITE_PATH", "./data/tamazight.db")
	cfg.WordBankPath = os.Getenv("WORD_BANK_PATH")

	if cfg.StoreEngine == "postgres" && cfg.PostgresURL == "" {
		return Config{}, fmt.Errorf("%w: POSTGRES_URL is required with STORE_ENGINE=postgres", ErrMissingEnv)
	}

	if cfg.Debug, err = boolOr("DEBUG", false); err != nil {
		return Config{}, err
	}
	if cfg.TurnSeconds, err = intOr("TURN_SECONDS", 10); err != nil {
		return Config{}, err
	}
	if cfg.TokenAge, err = durationOr("TOKEN_AGE", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.FeedbackDelay, err = durationOr("FEEDBACK_DELAY", 1500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.FreezeDuration, err = durationOr("FREEZE_DURATION", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationOr("SESSION_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func required(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func boolOr(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v)
	}
	return b, nil
}

func intOr(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v)
	}
	return n, nil
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v)
	}
	return d, nil
}
