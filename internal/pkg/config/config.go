// Package config provides application configuration management using Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	Server   ServerConfig
	RunStore RunStoreConfig
	Redis    RedisConfig
	CPBackend CPBackendConfig
	Solver   SolverConfig
	Log      LogConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RunStoreConfig holds the solver-run audit store's database configuration.
type RunStoreConfig struct {
	Driver          string // "postgres" or "sqlite"
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string.
func (c RunStoreConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration for the warm-start/memoization cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CPBackendConfig holds connection settings for the external CP-SAT backend.
type CPBackendConfig struct {
	URL            string
	Timeout        time.Duration
	AllowFallback  bool
}

// SolverConfig holds the default solver configuration injected when a
// solve request omits fields (spec §6 defaults).
type SolverConfig struct {
	Strategy                   string
	TimeLimitSeconds           int
	SeedRatio                  float64
	TabuTenure                 int
	TabuIterations             int
	StopAtFirstSolution        bool
	DisableLNS                 bool
	DisableTeacherEdgePenalty  bool
	TeacherSpreadWeight        float64
	TeacherEdgeWeight          float64
	MaxConsecDefault           int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig holds general application configuration.
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
}

// IsDevelopment returns true if the application is running in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// IsProduction returns true if the application is running in production mode.
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Load reads configuration from environment variables and returns a Config struct.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			Debug:       v.GetBool("APP_DEBUG"),
		},
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		RunStore: RunStoreConfig{
			Driver:          v.GetString("RUNSTORE_DRIVER"),
			Host:            v.GetString("RUNSTORE_DB_HOST"),
			Port:            v.GetInt("RUNSTORE_DB_PORT"),
			User:            v.GetString("RUNSTORE_DB_USER"),
			Password:        v.GetString("RUNSTORE_DB_PASSWORD"),
			Name:            v.GetString("RUNSTORE_DB_NAME"),
			SSLMode:         v.GetString("RUNSTORE_DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("RUNSTORE_DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("RUNSTORE_DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("RUNSTORE_DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		CPBackend: CPBackendConfig{
			URL:           v.GetString("CP_BACKEND_URL"),
			Timeout:       v.GetDuration("CP_BACKEND_TIMEOUT"),
			AllowFallback: v.GetBool("CP_BACKEND_ALLOW_FALLBACK"),
		},
		Solver: SolverConfig{
			Strategy:                  v.GetString("SOLVER_STRATEGY"),
			TimeLimitSeconds:          v.GetInt("SOLVER_TIME_LIMIT_SECONDS"),
			SeedRatio:                 v.GetFloat64("SOLVER_SEED_RATIO"),
			TabuTenure:                v.GetInt("SOLVER_TABU_TENURE"),
			TabuIterations:            v.GetInt("SOLVER_TABU_ITERATIONS"),
			StopAtFirstSolution:       v.GetBool("SOLVER_STOP_AT_FIRST_SOLUTION"),
			DisableLNS:                v.GetBool("SOLVER_DISABLE_LNS"),
			DisableTeacherEdgePenalty: v.GetBool("SOLVER_DISABLE_TEACHER_EDGE_PENALTY"),
			TeacherSpreadWeight:       v.GetFloat64("SOLVER_TEACHER_SPREAD_WEIGHT"),
			TeacherEdgeWeight:         v.GetFloat64("SOLVER_TEACHER_EDGE_WEIGHT"),
			MaxConsecDefault:          v.GetInt("SOLVER_MAX_CONSEC_DEFAULT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "mslscheduler")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_DEBUG", true)

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")

	v.SetDefault("RUNSTORE_DRIVER", "sqlite")
	v.SetDefault("RUNSTORE_DB_HOST", "localhost")
	v.SetDefault("RUNSTORE_DB_PORT", 5432)
	v.SetDefault("RUNSTORE_DB_USER", "mslscheduler")
	v.SetDefault("RUNSTORE_DB_PASSWORD", "mslscheduler")
	v.SetDefault("RUNSTORE_DB_NAME", "mslscheduler_runs.db")
	v.SetDefault("RUNSTORE_DB_SSLMODE", "disable")
	v.SetDefault("RUNSTORE_DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("RUNSTORE_DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("RUNSTORE_DB_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CP_BACKEND_URL", "http://localhost:9090")
	v.SetDefault("CP_BACKEND_TIMEOUT", "150s")
	v.SetDefault("CP_BACKEND_ALLOW_FALLBACK", false)

	// Solver defaults per spec §6.
	v.SetDefault("SOLVER_STRATEGY", "cp")
	v.SetDefault("SOLVER_TIME_LIMIT_SECONDS", 150)
	v.SetDefault("SOLVER_SEED_RATIO", 0.15)
	v.SetDefault("SOLVER_TABU_TENURE", 50)
	v.SetDefault("SOLVER_TABU_ITERATIONS", 2000)
	v.SetDefault("SOLVER_STOP_AT_FIRST_SOLUTION", true)
	v.SetDefault("SOLVER_DISABLE_LNS", true)
	v.SetDefault("SOLVER_DISABLE_TEACHER_EDGE_PENALTY", true)
	v.SetDefault("SOLVER_TEACHER_SPREAD_WEIGHT", 1.0)
	v.SetDefault("SOLVER_TEACHER_EDGE_WEIGHT", 1.0)
	v.SetDefault("SOLVER_MAX_CONSEC_DEFAULT", 3)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"APP_NAME", "APP_ENV", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"RUNSTORE_DRIVER", "RUNSTORE_DB_HOST", "RUNSTORE_DB_PORT", "RUNSTORE_DB_USER", "RUNSTORE_DB_PASSWORD",
		"RUNSTORE_DB_NAME", "RUNSTORE_DB_SSLMODE", "RUNSTORE_DB_MAX_OPEN_CONNS", "RUNSTORE_DB_MAX_IDLE_CONNS",
		"RUNSTORE_DB_CONN_MAX_LIFETIME",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"CP_BACKEND_URL", "CP_BACKEND_TIMEOUT", "CP_BACKEND_ALLOW_FALLBACK",
		"SOLVER_STRATEGY", "SOLVER_TIME_LIMIT_SECONDS", "SOLVER_SEED_RATIO", "SOLVER_TABU_TENURE",
		"SOLVER_TABU_ITERATIONS", "SOLVER_STOP_AT_FIRST_SOLUTION", "SOLVER_DISABLE_LNS",
		"SOLVER_DISABLE_TEACHER_EDGE_PENALTY", "SOLVER_TEACHER_SPREAD_WEIGHT", "SOLVER_TEACHER_EDGE_WEIGHT",
		"SOLVER_MAX_CONSEC_DEFAULT",
		"LOG_LEVEL", "LOG_FORMAT",
	}

	for _, env := range envVars {
		_ = v.BindEnv(env)
	}
}
