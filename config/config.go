package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/dockerlabs/internal/engine"
	"github.com/angeloszaimis/dockerlabs/internal/httpserver"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Flag names understood by Load.
const (
	FlagConfig  = "config"
	FlagAddress = "address"
	FlagEngine  = "engine"
	FlagEnv     = "env-file"
)

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	Environment     string `mapstructure:"environment"`
	Engine          string `mapstructure:"engine"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type AdminConfig struct {
	Address string `mapstructure:"address"`
}

type HealthCheckConfig struct {
	Interval string `mapstructure:"interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Admin       AdminConfig       `mapstructure:"admin"`
	HealthCheck HealthCheckConfig `mapstructure:"health_check"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// NewFlagSet returns the flags Load knows how to bind.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String(FlagConfig, "", "path to a YAML config file")
	flags.String(FlagEnv, ".env", "path to a dotenv file, ignored when missing")
	flags.String(FlagAddress, "", "public listen address (host:port)")
	flags.String(FlagEngine, "", "HTTP engine: stdlib, chi or echo")
	return flags
}

// Load builds the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.engine", string(engine.KindStdlib))
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("admin.address", "")
	v.SetDefault("health_check.interval", "30s")
	v.SetDefault("logging.level", LogLevelInfo)

	envFile := ".env"
	configFile := ""
	if flags != nil {
		if f := flags.Lookup(FlagEnv); f != nil {
			envFile = f.Value.String()
		}
		if f := flags.Lookup(FlagConfig); f != nil {
			configFile = f.Value.String()
		}
	}

	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}

	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	slog.Info("loaded env file", slog.String("file", path))
	return nil
}

// bindFlags binds only flags the user actually set so an empty default does
// not shadow file or environment values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	keys := map[string]string{
		FlagAddress: "server.address",
		FlagEngine:  "server.engine",
	}

	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	return nil
}

// EngineKind returns the parsed engine. Validate guarantees it succeeds.
func (c *Config) EngineKind() engine.Kind {
	kind, err := engine.Parse(c.Server.Engine)
	if err != nil {
		return engine.KindStdlib
	}
	return kind
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(httpserver.ValidateHostPort),
					),
					validation.Field(&sc.Engine,
						validation.Required,
						validation.By(validateEngine),
					),
					validation.Field(&sc.ReadTimeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
					validation.Field(&sc.WriteTimeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
					validation.Field(&sc.ShutdownTimeout,
						validation.Required,
						validation.By(validatePositiveDuration),
					),
				)
			}),
		),
		validation.Field(&c.Admin,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AdminConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AdminConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.Address,
						validation.When(ac.Address != "", validation.By(httpserver.ValidateHostPort)),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.HealthCheck,
			validation.Required,
			validation.By(func(value interface{}) error {
				hc, ok := value.(HealthCheckConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a HealthCheckConfig")
				}
				return validation.ValidateStruct(&hc,
					validation.Field(&hc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
	)
}

func validateEngine(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := engine.Parse(name); err != nil {
		return validation.NewError("validation_invalid_engine", "must be one of stdlib, chi, echo")
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	if d < 0 {
		return validation.NewError("validation_negative_duration", "must not be negative")
	}

	return nil
}

func validatePositiveDuration(value interface{}) error {
	if err := validateDuration(value); err != nil {
		return err
	}

	if d, _ := time.ParseDuration(value.(string)); d == 0 {
		return validation.NewError("validation_zero_duration", "must be greater than zero")
	}

	return nil
}

// Durations parses the timeout settings. Validate guarantees they parse.
func (c *Config) Durations() (read, write, shutdown, healthInterval time.Duration) {
	read, _ = time.ParseDuration(c.Server.ReadTimeout)
	write, _ = time.ParseDuration(c.Server.WriteTimeout)
	shutdown, _ = time.ParseDuration(c.Server.ShutdownTimeout)
	healthInterval, _ = time.ParseDuration(c.HealthCheck.Interval)
	return read, write, shutdown, healthInterval
}
