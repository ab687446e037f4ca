package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joacominatel/salesdash/internal/logging"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	configDir  = ".salesdash"
	configFile = "config"
	configType = "yaml"

	envPrefix = "SALESDASH"

	// KeyringService is the OS keyring service holding the store password,
	// keyed by the postgres user name.
	KeyringService = "salesdash"
)

// Load reads the configuration. Flags already bound to v take precedence over
// SALESDASH_* environment variables, which take precedence over the file at path
// (or ~/.salesdash/config.yaml when path is empty). A missing default file is not
// an error. v may be nil.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := configDirPath()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		v.SetConfigName(configFile)
		v.SetConfigType(configType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	resolvePassword(&cfg.Postgres)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("postgres.dsn", d.Postgres.URL)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.dbname", d.Postgres.Database)
	v.SetDefault("postgres.user", d.Postgres.Username)
	v.SetDefault("postgres.password", d.Postgres.Password)
	v.SetDefault("postgres.sslmode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_conns", d.Postgres.MaxConns)
	v.SetDefault("postgres.connect_timeout", d.Postgres.ConnectTimeout)
	v.SetDefault("postgres.connect_attempts", d.Postgres.ConnectAttempts)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("query.timeout", d.Query.Timeout)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

// resolvePassword falls back to the OS keyring when no password is configured.
// A missing entry means the server does not need one.
func resolvePassword(c *Connection) {
	if c.URL != "" || c.Password != "" || c.Username == "" {
		return
	}
	secret, err := keyring.Get(KeyringService, c.Username)
	switch {
	case err == nil:
		c.Password = secret
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logging.Warn().Err(err).Str("user", c.Username).Msg("keyring unavailable, connecting without password")
	}
}

// SavePassword stores the password for user in the OS keyring.
func SavePassword(user, password string) error {
	if user == "" {
		return errors.New("postgres.user is required to store a password")
	}
	return keyring.Set(KeyringService, user, password)
}

// Save writes the configuration to path, or ~/.salesdash/config.yaml when path is
// empty. The password is never written; use SavePassword.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		dir, err := configDirPath()
		if err != nil {
			return "", fmt.Errorf("config dir: %w", err)
		}
		path = filepath.Join(dir, configFile+"."+configType)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType)
	for key, value := range cfg.settings() {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// settings flattens the config into viper keys. Durations are written as strings
// so the file stays readable.
func (cfg *Config) settings() map[string]any {
	s := map[string]any{
		"postgres.host":             cfg.Postgres.Host,
		"postgres.port":             cfg.Postgres.Port,
		"postgres.dbname":           cfg.Postgres.Database,
		"postgres.user":             cfg.Postgres.Username,
		"postgres.sslmode":          cfg.Postgres.SSLMode,
		"postgres.max_conns":        cfg.Postgres.MaxConns,
		"postgres.connect_timeout":  cfg.Postgres.ConnectTimeout.String(),
		"postgres.connect_attempts": cfg.Postgres.ConnectAttempts,
		"cache.ttl":                 cfg.Cache.TTL.String(),
		"cache.size":                cfg.Cache.Size,
		"query.timeout":             cfg.Query.Timeout.String(),
		"server.addr":               cfg.Server.Addr,
		"server.rate_limit":         cfg.Server.RateLimit,
		"server.read_timeout":       cfg.Server.ReadTimeout.String(),
		"server.write_timeout":      cfg.Server.WriteTimeout.String(),
		"log.level":                 cfg.Log.Level,
		"log.format":                cfg.Log.Format,
	}
	if cfg.Postgres.URL != "" {
		s["postgres.dsn"] = cfg.Postgres.URL
	}
	if cfg.Log.File != "" {
		s["log.file"] = cfg.Log.File
	}
	return s
}

// DefaultPath returns ~/.salesdash/config.yaml.
func DefaultPath() (string, error) {
	dir, err := configDirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile+"."+configType), nil
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
