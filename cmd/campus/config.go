package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/campus/internal/logging"
	"github.com/tinytelemetry/campus/internal/model"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName = "campus"

	defaultDataSource   = model.DefaultDataSource
	defaultSkin         = model.DefaultSkin
	defaultAPIPort      = model.DefaultAPIPort
	defaultQueryTimeout = model.DefaultQueryTimeout
	defaultBindHost     = "127.0.0.1"
	defaultLogLevel     = "info"

	sourceCatalog = "catalog"
	sourceDuckDB  = "duckdb"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DataSource         string        `mapstructure:"data-source"`
	CatalogPath        string        `mapstructure:"catalog-path"`
	DBPath             string        `mapstructure:"db-path"`
	QueryTimeout       time.Duration `mapstructure:"query-timeout"`
	Skin               string        `mapstructure:"skin"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
	APIAddr            string        `mapstructure:"api-addr"`
	APIPort            int           `mapstructure:"api-port"`
	LogFile            string        `mapstructure:"log-file"`
	LogLevel           string        `mapstructure:"log-level"`
	ConfigPath         string        `mapstructure:"-"` // not from config file
	ConfigDir          string        `mapstructure:"-"`
}

// loadConfig merges defaults, the config file, CAMPUS_* environment
// variables and any flags in flags that were set explicitly.
func loadConfig(configPath string, flags *pflag.FlagSet) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", appName)
	defaultDBPath := filepath.Join(home, ".local", "share", appName, appName+".duckdb")
	defaultLogFile, err := logging.DefaultPath(appName)
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("data-source", defaultDataSource)
	v.SetDefault("catalog-path", "")
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("api-addr", "")
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("log-file", defaultLogFile)
	v.SetDefault("log-level", defaultLogLevel)

	if flags != nil {
		for _, name := range []string{"data-source", "catalog-path", "db-path", "skin", "log-file", "log-level", "api-addr", "api-port"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return cfg, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	cfg.ConfigDir = configDir
	if configPath != "" {
		cfg.ConfigDir = filepath.Dir(configPath)
	}

	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))
	switch cfg.DataSource {
	case sourceCatalog, sourceDuckDB:
	default:
		return cfg, fmt.Errorf("invalid data-source %q (want %s or %s)", cfg.DataSource, sourceCatalog, sourceDuckDB)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.QueryTimeout <= 0 {
		return cfg, fmt.Errorf("invalid query-timeout: %s", cfg.QueryTimeout)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}

	// Expand ~ in paths
	for _, p := range []*string{&cfg.DBPath, &cfg.CatalogPath, &cfg.LogFile} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
