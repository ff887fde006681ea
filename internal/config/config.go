package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	// ClientBuffer is the per-connection outbound event buffer. A client
	// that lets it fill up is dropped.
	ClientBuffer    int   `mapstructure:"client_buffer" yaml:"client_buffer"`
	MaxMessageBytes int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	// MessageRateLimit caps comment submissions per connection per
	// minute. 0 disables the limit.
	MessageRateLimit int `mapstructure:"message_rate_limit" yaml:"message_rate_limit"`
	// PresenceScope is "global" (every connection hears join notices)
	// or "room" (only members of the activity room do).
	PresenceScope string `mapstructure:"presence_scope" yaml:"presence_scope"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "reactivities.db",
		JWTSecret:         "",
		JWTIssuer:         "reactivities",
		JWTAudience:       "reactivities",
		JWTTTL:            24 * time.Hour,
		ClientBuffer:      32,
		MaxMessageBytes:   1 << 20,
		MessageRateLimit:  0,
		PresenceScope:     "global",
	}
}
