package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory", a SQLite file path, or a postgres:// URL (Supabase)
	}
	Redis struct {
		Addr     string // Empty disables Redis; progress falls back to the in-memory store
		Password string
		DB       int
	}
	Admin struct {
		Token string `mapstructure:"token"` // Shared token guarding /api/admin routes
	}
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
// Environment variables take precedence over the config file.
func LoadConfig() {
	viper.SetConfigName("config")    // Name of config file (without extension)
	viper.SetConfigType("yaml")      // REQUIRED if the config file does not have the extension in the name
	viper.AddConfigPath("./config")  // Path to look for the config file in
	viper.AddConfigPath(".")         // Optionally look for config in the working directory
	viper.AddConfigPath("../config") // For running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Println("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		AppConfig.Redis.Addr = addr
		log.Printf("INFO: [Config] Redis address overridden by environment variable REDIS_ADDR: %s", addr)
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		AppConfig.Redis.Password = password
		log.Println("INFO: [Config] Redis password loaded from environment variable REDIS_PASSWORD.")
	}
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		AppConfig.Admin.Token = token
		log.Println("INFO: [Config] Admin token loaded from environment variable ADMIN_TOKEN.")
	}

	if AppConfig.Admin.Token == "" {
		log.Println("WARN: [Config] No admin token configured. Admin endpoints will reject all requests.")
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
