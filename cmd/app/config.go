package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"neftit_waitlist/internal/content"
	"neftit_waitlist/internal/export"
	"neftit_waitlist/internal/repository"
	"neftit_waitlist/internal/service"
	"neftit_waitlist/internal/session"
	"neftit_waitlist/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Server       ServerConfig               `mapstructure:"server"`
	Database     repository.Config          `mapstructure:"database"`
	Logger       logger.Configuration       `mapstructure:"logger"`
	Links        content.Links              `mapstructure:"links"`
	Verification service.VerificationConfig `mapstructure:"verification"`
	Leaderboard  service.LeaderboardConfig  `mapstructure:"leaderboard"`
	Session      session.Config             `mapstructure:"session"`
	CORS         CORSConfig                 `mapstructure:"cors"`
	Export       export.Config              `mapstructure:"export"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("database.driver", repository.DriverPgx)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "neftit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "neftit.db")
	v.SetDefault("database.migrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	links := content.DefaultLinks()
	v.SetDefault("links.siteURL", links.SiteURL)
	v.SetDefault("links.twitterFollow", links.TwitterFollow)
	v.SetDefault("links.discordInvite", links.DiscordInvite)
	v.SetDefault("links.shareText", links.ShareText)

	v.SetDefault("verification.attempts", 3)
	v.SetDefault("verification.retryDelay", time.Second)

	v.SetDefault("leaderboard.pageSize", 10)
	v.SetDefault("leaderboard.dashboardSize", 10)
	v.SetDefault("leaderboard.refreshInterval", 30*time.Second)

	v.SetDefault("session.cookieName", "waitlist_session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.interval", 24*time.Hour)
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.prefix", "exports/")
	v.SetDefault("export.endpoint", "")
	v.SetDefault("export.region", "auto")
	v.SetDefault("export.accessKeyID", "")
	v.SetDefault("export.secretAccessKey", "")
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
