package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	loansvc "libraryapi/service/loan"
	"libraryapi/util/database"

	"github.com/spf13/viper"
)

const devSecret = "local_dev_secret"

// SetDefaults registers every key so environment variables of the same name
// (upper-cased) are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	p := loansvc.DefaultPolicy()

	v.SetDefault("app_port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("db_driver", database.DriverPgx)
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", 24*time.Hour)
	v.SetDefault("app_env", "dev")
	v.SetDefault("app_debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 15*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("loan_period_days", p.LoanPeriodDays)
	v.SetDefault("max_active_loans", p.MaxActiveLoans)
	v.SetDefault("max_extensions", p.MaxExtensions)
	v.SetDefault("max_extension_days", p.MaxExtensionDays)
	v.SetDefault("overdue_mode", string(p.OverdueMode))
}

// New returns a viper instance with defaults and environment lookup wired.
// configFile, when set, is read on top of the defaults.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	// PORT is what most platforms inject; it wins over APP_PORT
	_ = v.BindEnv("port", "PORT")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

func Load(v *viper.Viper) (App, error) {
	var cfg App
	if err := v.Unmarshal(&cfg); err != nil {
		return App{}, err
	}
	if port := v.GetString("port"); port != "" {
		cfg.Port = port
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = devSecret
	}
	if err := cfg.Validate(); err != nil {
		return App{}, err
	}
	return cfg, nil
}

func (a App) Validate() error {
	var problems []error
	switch a.DBDriver {
	case database.DriverPgx, database.DriverPQ:
		if a.DatabaseURL == "" {
			problems = append(problems, errors.New("DATABASE_URL is required for postgres"))
		}
	case database.DriverSQLite:
	default:
		problems = append(problems, fmt.Errorf("unsupported DB_DRIVER %q", a.DBDriver))
	}
	if a.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required outside dev"))
	}
	if a.JWTTTL <= 0 {
		problems = append(problems, errors.New("JWT_TTL must be positive"))
	}
	if _, ok := loansvc.ParseOverdueMode(a.OverdueMode); !ok {
		problems = append(problems, fmt.Errorf("unknown OVERDUE_MODE %q", a.OverdueMode))
	}
	for name, n := range map[string]int{
		"LOAN_PERIOD_DAYS":   a.LoanPeriodDays,
		"MAX_ACTIVE_LOANS":   a.MaxActiveLoans,
		"MAX_EXTENSIONS":     a.MaxExtensions,
		"MAX_EXTENSION_DAYS": a.MaxExtensionDays,
	} {
		if n < 0 || (n == 0 && name != "MAX_EXTENSIONS") {
			problems = append(problems, fmt.Errorf("%s must be positive", name))
		}
	}
	return errors.Join(problems...)
}
