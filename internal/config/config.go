package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration.
type Config struct {
	Postgres Connection `mapstructure:"postgres" yaml:"postgres"`
	Cache    Cache      `mapstructure:"cache" yaml:"cache"`
	Query    Query      `mapstructure:"query" yaml:"query"`
	Server   Server     `mapstructure:"server" yaml:"server"`
	Log      Log        `mapstructure:"log" yaml:"log"`
}

// Connection holds the store credentials.
type Connection struct {
	// URL, when set, is used verbatim instead of the individual fields.
	URL             string        `mapstructure:"dsn" yaml:"dsn,omitempty"`
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Database        string        `mapstructure:"dbname" yaml:"dbname"`
	Username        string        `mapstructure:"user" yaml:"user"`
	Password        string        `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode         string        `mapstructure:"sslmode" yaml:"sslmode"`
	MaxConns        int           `mapstructure:"max_conns" yaml:"max_conns"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	ConnectAttempts int           `mapstructure:"connect_attempts" yaml:"connect_attempts"`
}

// Cache configures result memoization.
type Cache struct {
	TTL  time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Size int           `mapstructure:"size" yaml:"size"`
}

// Query bounds statement execution.
type Query struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Server configures the browser dashboard.
type Server struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	RateLimit    int           `mapstructure:"rate_limit" yaml:"rate_limit"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// Log configures logging.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

// DSN builds a PostgreSQL connection string from the connection profile.
func (c Connection) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgresql",
		Host:   c.Host,
		Path:   "/" + c.Database,
	}
	if c.Port > 0 {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		secs := int(c.ConnectTimeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		q.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return "postgres"
		}
		u.User = nil
		u.RawQuery = ""
		return strings.TrimPrefix(strings.TrimPrefix(u.String(), "postgresql://"), "postgres://")
	}
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

var validLogFormats = map[string]bool{"console": true, "json": true}

// Validate checks the configuration for values the process cannot start with.
func (cfg *Config) Validate() error {
	var errs []error
	p := cfg.Postgres
	if p.URL == "" {
		if p.Host == "" {
			errs = append(errs, errors.New("postgres.host is required"))
		}
		if p.Database == "" {
			errs = append(errs, errors.New("postgres.dbname is required"))
		}
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("postgres.port %d out of range", p.Port))
		}
	}
	if p.MaxConns < 1 {
		errs = append(errs, errors.New("postgres.max_conns must be at least 1"))
	}
	if p.ConnectAttempts < 1 {
		errs = append(errs, errors.New("postgres.connect_attempts must be at least 1"))
	}
	if cfg.Cache.Size < 0 {
		errs = append(errs, errors.New("cache.size must not be negative"))
	}
	if cfg.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", cfg.Log.Format))
	}
	return errors.Join(errs...)
}
