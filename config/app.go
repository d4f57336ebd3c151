package config

import (
	"log/slog"
	"strings"
	"time"

	loansvc "libraryapi/service/loan"
)

type App struct {
	Port        string `mapstructure:"app_port"`
	DatabaseURL string `mapstructure:"database_url"`
	DBDriver    string `mapstructure:"db_driver"`
	DBMaxConns  int    `mapstructure:"db_max_conns"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	Env         string   `mapstructure:"app_env"`
	Debug       bool     `mapstructure:"app_debug"`
	LogLevel    string   `mapstructure:"log_level"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	LoanPeriodDays   int    `mapstructure:"loan_period_days"`
	MaxActiveLoans   int    `mapstructure:"max_active_loans"`
	MaxExtensions    int    `mapstructure:"max_extensions"`
	MaxExtensionDays int    `mapstructure:"max_extension_days"`
	OverdueMode      string `mapstructure:"overdue_mode"`
}

func (a App) IsDev() bool { return a.Env == "dev" }

// UsesDevSecret reports tokens being signed with the public fallback secret.
func (a App) UsesDevSecret() bool { return a.JWTSecret == devSecret }

func (a App) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Policy is the loan policy; Validate has already vetted the overdue mode.
func (a App) Policy() loansvc.Policy {
	mode, _ := loansvc.ParseOverdueMode(a.OverdueMode)
	p := loansvc.DefaultPolicy()
	p.LoanPeriodDays = a.LoanPeriodDays
	p.MaxActiveLoans = a.MaxActiveLoans
	p.MaxExtensions = a.MaxExtensions
	p.MaxExtensionDays = a.MaxExtensionDays
	p.DefaultExtensionDays = min(a.LoanPeriodDays, a.MaxExtensionDays)
	p.OverdueMode = mode
	return p
}
