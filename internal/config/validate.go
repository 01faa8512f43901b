package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.RateLimit.ContactPerMinute <= 0 {
		return fmt.Errorf("rate_limit.contact_per_minute must be > 0 (got %d)", c.RateLimit.ContactPerMinute)
	}

	if c.Mail.HasMailer() && c.Mail.Host == "" {
		return fmt.Errorf("mail.host is required when mail credentials are set")
	}

	return nil
}
