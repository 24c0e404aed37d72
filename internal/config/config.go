package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string   `mapstructure:"PORT"`
	DatabasePath                  string   `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string   `mapstructure:"JWT_SECRET"`
	FrontendURL                   string   `mapstructure:"FRONTEND_URL"`
	EnableCORS                    bool     `mapstructure:"ENABLE_CORS"`
	LogLevel                      string   `mapstructure:"LOG_LEVEL"`
	StaffUsernames                []string `mapstructure:"STAFF_USERNAMES"`
	SMTPHost                      string   `mapstructure:"SMTP_HOST"`
	SMTPPort                      int      `mapstructure:"SMTP_PORT"`
	SMTPUsername                  string   `mapstructure:"SMTP_USERNAME"`
	SMTPPassword                  string   `mapstructure:"SMTP_PASSWORD"`
	EmailFrom                     string   `mapstructure:"EMAIL_FROM"`
	DiscordBotToken               string   `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string   `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

// IsStaff reports whether accounts registered under username get staff privileges.
func (c *Config) IsStaff(username string) bool {
	for _, s := range c.StaffUsernames {
		if s == username {
			return true
		}
	}
	return false
}

func LoadConfig() *Config {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	return cfg
}

// Load reads the configuration from the environment of v.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "events.db")
	v.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STAFF_USERNAMES", []string{})
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 25)
	v.SetDefault("EMAIL_FROM", "Event Team <no-reply@localhost>")

	for _, key := range []string{
		"JWT_SECRET",
		"ENABLE_CORS",
		"SMTP_USERNAME",
		"SMTP_PASSWORD",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &config, nil
}
