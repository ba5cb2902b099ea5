package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	S3       S3Config       `mapstructure:"s3"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"` // "development" or "production"
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines session token configuration. Expiration is parsed from a
// duration string ("24h", "90m").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig defines password hashing, cookie and QR login settings.
type AuthConfig struct {
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	QRTokenTTL     time.Duration `mapstructure:"qr_token_ttl"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
	CookieSameSite string        `mapstructure:"cookie_same_site"` // "lax" or "none"
}

// AdminConfig seeds the bootstrap admin account on startup. Self-registration
// never grants the admin role, so a fresh deployment sets these (ADMIN_EMAIL,
// ADMIN_PASSWORD) to get its first operator. Left blank, no account is seeded.
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment overrides: jwt.expiration -> JWT_EXPIRATION etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "trainer_hub")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("auth.bcrypt_cost", 10)
	viper.SetDefault("auth.qr_token_ttl", "720h") // 30 days
	viper.SetDefault("auth.cookie_secure", false)
	viper.SetDefault("auth.cookie_same_site", "lax")
	viper.SetDefault("admin.name", "admin")
	// Empty defaults register the keys so AutomaticEnv can fill them.
	viper.SetDefault("admin.email", "")
	viper.SetDefault("admin.password", "")
	viper.SetDefault("s3.use_ssl", true)

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.Server.Environment == "production" {
		// Production cookies ride cross-site from the SPA origin.
		config.Auth.CookieSecure = true
		config.Auth.CookieSameSite = "none"
	}

	return config, nil
}
