package app

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
	"github.com/titanfab/qcmaster-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	AllowOrigins []string
}

type fileConfig struct {
	Port         string   `yaml:"port"`
	JWTSecretKey string   `yaml:"jwt_secret_key"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// LoadConfig reads the optional CONFIG_FILE yaml first, then overrides from
// the environment. Env always wins.
func LoadConfig(log *logger.Logger) Config {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Could not read config file", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &fc); err != nil {
			log.Warn("Could not parse config file", "path", path, "error", err)
		}
	}

	cfg := Config{
		Port:         fc.Port,
		JWTSecretKey: fc.JWTSecretKey,
		AllowOrigins: fc.AllowOrigins,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = "defaultsecret"
	}
	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	if raw := os.Getenv("ALLOW_ORIGINS"); raw != "" {
		cfg.AllowOrigins = nil
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, trimmed)
			}
		}
	}
	return cfg
}
