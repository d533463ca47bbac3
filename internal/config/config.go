package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type HTTPConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	AccessSecret string        `mapstructure:"access_secret"`
	AccessTTL    time.Duration `mapstructure:"access_ttl"`
	RefreshTTL   time.Duration `mapstructure:"refresh_ttl"`
	ResetCodeTTL time.Duration `mapstructure:"reset_code_ttl"`
}

type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	SenderName string `mapstructure:"sender_name"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

func Load(path string) (*Config, error) {
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})

	viper.SetDefault("database.dsn", "host=localhost user=taskforge password=taskforge dbname=taskforge port=5432 sslmode=disable")

	viper.SetDefault("jwt.access_ttl", "15m")
	viper.SetDefault("jwt.refresh_ttl", "168h")
	viper.SetDefault("jwt.reset_code_ttl", "1h")

	viper.SetDefault("smtp.host", "localhost")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from", "no-reply@taskforge.dev")
	viper.SetDefault("smtp.sender_name", "TaskForge")

	viper.SetDefault("logging.development", false)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			viper.SetConfigFile(path)
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKFORGE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
