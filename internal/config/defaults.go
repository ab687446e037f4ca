package config

import "time"

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Postgres: Connection{
			Host:            "localhost",
			Port:            5432,
			Database:        "retail",
			Username:        "postgres",
			SSLMode:         "disable",
			MaxConns:        4,
			ConnectTimeout:  10 * time.Second,
			ConnectAttempts: 3,
		},
		Cache: Cache{
			TTL:  600 * time.Second,
			Size: 128,
		},
		Query: Query{
			Timeout: 30 * time.Second,
		},
		Server: Server{
			Addr:         ":8080",
			RateLimit:    120,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}
