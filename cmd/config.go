package cmd

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvProject      = "OPENFOLIO_PROJECT"
	EnvBaseCurrency = "OPENFOLIO_BASE_CURRENCY"
	EnvRiskFreeRate = "OPENFOLIO_RISK_FREE_RATE"
	EnvCache        = "OPENFOLIO_CACHE"
	EnvLogLevel     = "OPENFOLIO_LOG_LEVEL"
	EnvAddr         = "OPENFOLIO_ADDR"
)

// Config holds the global settings. The environment provides the defaults of the global flags.
type Config struct {
	Project      string
	BaseCurrency string
	RiskFreeRate float64
	Cache        string
	LogLevel     string
	Addr         string
	Now          string
	Raw          bool
}

// LoadConfig reads the configuration from the environment, after loading a .env file from the
// working directory when there is one.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	c := &Config{
		Project:      getenv(EnvProject, "project.json"),
		BaseCurrency: os.Getenv(EnvBaseCurrency),
		Cache:        os.Getenv(EnvCache),
		LogLevel:     getenv(EnvLogLevel, "info"),
		Addr:         getenv(EnvAddr, ":8080"),
	}
	if v := os.Getenv(EnvRiskFreeRate); v != "" {
		rf, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New(EnvRiskFreeRate + ": " + err.Error())
		}
		c.RiskFreeRate = rf
	}
	return c, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// SetFlags declares the global flags, their defaults are the current values.
func (c *Config) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.Project, "project", c.Project, "Path to the project file ($"+EnvProject+").")
	f.StringVar(&c.BaseCurrency, "base", c.BaseCurrency, "Reporting currency, the project's by default ($"+EnvBaseCurrency+").")
	f.Float64Var(&c.RiskFreeRate, "risk-free", c.RiskFreeRate, "Annual risk free rate as a fraction ($"+EnvRiskFreeRate+").")
	f.StringVar(&c.Cache, "cache", c.Cache, "Path to the SQLite result cache, memory only when empty ($"+EnvCache+").")
	f.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error ($"+EnvLogLevel+").")
	f.StringVar(&c.Now, "now", c.Now, "Date of the reports, today by default.")
	f.BoolVar(&c.Raw, "raw", c.Raw, "Print reports as raw markdown.")
}
