package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Session  Session
	Auth     Auth
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Session struct {
	// DurationMinutes is the default session length for tests without a
	// scheduled end time.
	DurationMinutes int
	// TimezoneOffsetHours is the fixed UTC offset all platform timestamps use.
	TimezoneOffsetHours int
}

type Auth struct {
	JWTSecret          string
	TokenExpireMinutes int
	BootstrapUsername  string
	BootstrapPassword  string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SESSION_DURATION_MINUTES", 90)
	viper.SetDefault("TIMEZONE_OFFSET_HOURS", 5)
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 1440)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Session.DurationMinutes = viper.GetInt("SESSION_DURATION_MINUTES")
	config.Session.TimezoneOffsetHours = viper.GetInt("TIMEZONE_OFFSET_HOURS")

	config.Auth.JWTSecret = viper.GetString("SECRET_KEY")
	config.Auth.TokenExpireMinutes = viper.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")
	config.Auth.BootstrapUsername = viper.GetString("ADMIN_USERNAME")
	config.Auth.BootstrapPassword = viper.GetString("ADMIN_PASSWORD")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
