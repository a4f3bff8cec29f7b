// Package config assembles the service configuration from defaults,
// command-line flags, a .env file and environment variables, in that
// order of increasing precedence, and validates the result.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	RunAddr                    string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel                   string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName                 string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DatabaseDSN                string        `env:"DATABASE_DSN"`
	DBConnectionTimeout        time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir              string        `env:"MIGRATIONS_DIR"`
	SweepInterval              time.Duration `env:"SWEEP_INTERVAL"`
	ProbeTimeout               time.Duration `env:"PROBE_TIMEOUT"`
	AuthCookieName             string        `env:"AUTH_COOKIE_NAME"`
	AuthCookieSigningSecretKey string        `env:"AUTH_COOKIE_SIGNING_SECRET_KEY"`
	AuthTokenTTL               time.Duration `env:"AUTH_TOKEN_TTL"`
}

// InitOption configures New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line flag parsing. Tests use it to
// keep the flag package away from the test binary's own flags.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	if err := validate.RegisterValidation("filepath", validateFilePath); err != nil {
		return err
	}

	return validate.Struct(c)
}

// New builds the configuration: defaults, then flags, then .env, then
// environment variables. It returns an error when validation fails.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{
		RunAddr:                    ":8080",
		LogLevel:                   "info",
		DBFileName:                 "",
		DatabaseDSN:                "",
		DBConnectionTimeout:        10 * time.Second,
		MigrationsDir:              "migrations",
		SweepInterval:              30 * time.Second,
		ProbeTimeout:               5 * time.Second,
		AuthCookieName:             "linkwatch_session",
		AuthCookieSigningSecretKey: "c2VjcmV0",
		AuthTokenTTL:               24 * time.Hour,
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
		flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "logger level")
		flag.StringVar(&cfg.DBFileName, "f", cfg.DBFileName, "JSON file name with database")
		flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "a string with the database connection details")
		flag.StringVar(&cfg.MigrationsDir, "m", cfg.MigrationsDir, "directory with goose migrations")
		flag.DurationVar(&cfg.SweepInterval, "s", cfg.SweepInterval, "interval between liveness sweeps")
		flag.DurationVar(&cfg.ProbeTimeout, "p", cfg.ProbeTimeout, "timeout of a single reachability probe")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		cfg.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.LogLevel != "" {
		cfg.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.DBFileName != "" {
		cfg.DBFileName = valuesFromEnv.DBFileName
	}

	if valuesFromEnv.DatabaseDSN != "" {
		cfg.DatabaseDSN = valuesFromEnv.DatabaseDSN
	}

	if valuesFromEnv.DBConnectionTimeout != 0 {
		cfg.DBConnectionTimeout = valuesFromEnv.DBConnectionTimeout
	}

	if valuesFromEnv.MigrationsDir != "" {
		cfg.MigrationsDir = valuesFromEnv.MigrationsDir
	}

	if valuesFromEnv.SweepInterval != 0 {
		cfg.SweepInterval = valuesFromEnv.SweepInterval
	}

	if valuesFromEnv.ProbeTimeout != 0 {
		cfg.ProbeTimeout = valuesFromEnv.ProbeTimeout
	}

	if valuesFromEnv.AuthCookieName != "" {
		cfg.AuthCookieName = valuesFromEnv.AuthCookieName
	}

	if valuesFromEnv.AuthCookieSigningSecretKey != "" {
		cfg.AuthCookieSigningSecretKey = valuesFromEnv.AuthCookieSigningSecretKey
	}

	if valuesFromEnv.AuthTokenTTL != 0 {
		cfg.AuthTokenTTL = valuesFromEnv.AuthTokenTTL
	}

	return cfg, cfg.validate()
}
