// Package config loads harness settings from the environment.
//
// Values come from SHOPFLOW_* variables; a .env file in the working
// directory is read first if present. Defaults target the public SauceDemo
// site with its standard account.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

// ErrParsingConfig wraps environment parsing failures.
var ErrParsingConfig = errors.New("failed to parse config")

// Config holds harness settings.
type Config struct {
	BaseURL   string        `env:"SHOPFLOW_BASE_URL" envDefault:"https://www.saucedemo.com/" validate:"required,url"`
	Username  string        `env:"SHOPFLOW_USERNAME" envDefault:"standard_user" validate:"required"`
	Password  string        `env:"SHOPFLOW_PASSWORD" envDefault:"secret_sauce" validate:"required"`
	Timeout   time.Duration `env:"SHOPFLOW_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	Headless  bool          `env:"SHOPFLOW_HEADLESS" envDefault:"true"`
	Parallel  int           `env:"SHOPFLOW_PARALLEL" envDefault:"1" validate:"min=1,max=16"`
	ChromeBin string        `env:"SHOPFLOW_CHROME_BIN"`
	Journeys  []string      `env:"SHOPFLOW_JOURNEYS" envSeparator:","`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()
	return parse(env.Options{})
}

// LoadFile reads the named dotenv files into the process environment
// without overriding variables that are already set, then loads.
func LoadFile(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil {
		return Config{}, fmt.Errorf("load %v: %w", paths, err)
	}
	return parse(env.Options{})
}

// FromMap loads from vars instead of the process environment.
func FromMap(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Credentials returns the configured account.
func (c Config) Credentials() shopflow.Credentials {
	return shopflow.Credentials{Username: c.Username, Password: c.Password}
}
