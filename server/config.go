package server

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"github.com/ecolang-io/ecolang/interp"
)

// Config holds the server settings. The limit fields are ceilings:
// per-request settings may lower them but never raise them.
type Config struct {
	Listen         string
	DBPath         string
	LogLevel       string
	MaxSteps       int64
	MaxLoop        int64
	MaxTimeS       float64
	MaxOutputChars int64

	// WorkerCommand overrides the argv used to spawn sandbox workers.
	// Empty means the server re-executes itself with a "worker" argument.
	WorkerCommand []string
}

// LoadConfig reads settings from the environment (ECOLANG_ prefix) and,
// when file is non-empty or an ecolang config file exists in the working
// directory, from that file. Environment values win over file values.
func LoadConfig(file string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ECOLANG")
	v.AutomaticEnv()

	v.SetDefault("listen", ":8000")
	v.SetDefault("db_path", "ecolang.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_steps", interp.DefaultMaxSteps)
	v.SetDefault("max_loop", interp.DefaultMaxLoop)
	v.SetDefault("max_time_s", interp.DefaultMaxTime.Seconds())
	v.SetDefault("max_output_chars", interp.DefaultMaxOutputChars)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("ecolang")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		Listen:         v.GetString("listen"),
		DBPath:         v.GetString("db_path"),
		LogLevel:       v.GetString("log_level"),
		MaxSteps:       v.GetInt64("max_steps"),
		MaxLoop:        v.GetInt64("max_loop"),
		MaxTimeS:       v.GetFloat64("max_time_s"),
		MaxOutputChars: v.GetInt64("max_output_chars"),
		WorkerCommand:  v.GetStringSlice("worker_command"),
	}, nil
}

// Ceiling converts the configured limits into a run config. Unset limits
// fall back to the runtime defaults.
func (c Config) Ceiling() interp.Config {
	cfg := interp.DefaultConfig()
	if c.MaxSteps > 0 {
		cfg.MaxSteps = c.MaxSteps
	}
	if c.MaxLoop > 0 {
		cfg.MaxLoop = c.MaxLoop
	}
	if c.MaxTimeS > 0 {
		cfg.MaxTime = time.Duration(c.MaxTimeS * float64(time.Second))
	}
	if c.MaxOutputChars > 0 {
		cfg.MaxOutputChars = c.MaxOutputChars
	}
	return cfg
}
