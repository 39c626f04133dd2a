package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers de almacenamiento soportados.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

type Config struct {
	HTTPPort string
	LogLevel string

	StoreDriver string
	SQLitePath  string
	JSONPath    string
	DatabaseURL string

	BackupDir           string
	BackupRetentionDays int
	ExportIncludeID     bool

	RedisAddr    string
	CacheTTL     time.Duration
	KafkaBrokers []string
	KafkaTopic   string

	GitHubToken    string
	GitHubOwner    string
	GitHubRepo     string
	GitHubBranch   string
	GitHubFilePath string
	GitHubAPIURL   string
	GitHubTimeout  time.Duration
}

// LoadConfig lee .env (opcional) y las variables de entorno, y valida el resultado.
func LoadConfig() (*Config, error) {
	// .env es opcional cuando las variables llegan del entorno.
	_ = godotenv.Load()

	getEnv := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		HTTPPort:       getEnv("PORT", "10000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:     getEnv("SQLITE_PATH", "participantes.db"),
		JSONPath:       getEnv("JSON_PATH", "participantes.json"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		BackupDir:      getEnv("BACKUP_DIR", "backups"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "participantes"),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubOwner:    getEnv("GITHUB_OWNER", ""),
		GitHubRepo:     getEnv("GITHUB_REPO", ""),
		GitHubBranch:   getEnv("GITHUB_BRANCH", "main"),
		GitHubFilePath: getEnv("GITHUB_FILE_PATH", ""),
		GitHubAPIURL:   getEnv("GITHUB_API_URL", "https://api.github.com"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.BackupRetentionDays, err = strconv.Atoi(getEnv("BACKUP_RETENTION_DAYS", "7")); err != nil {
		return nil, fmt.Errorf("config: BACKUP_RETENTION_DAYS inválido: %w", err)
	}
	if cfg.ExportIncludeID, err = strconv.ParseBool(getEnv("EXPORT_INCLUDE_ID", "true")); err != nil {
		return nil, fmt.Errorf("config: EXPORT_INCLUDE_ID inválido: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("config: CACHE_TTL inválido: %w", err)
	}
	if cfg.GitHubTimeout, err = time.ParseDuration(getEnv("GITHUB_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("config: GITHUB_TIMEOUT inválido: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate aplica las reglas sobre la configuración cargada.
func (c *Config) validate() error {
	port, err := strconv.Atoi(c.HTTPPort)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("config: PORT inválido (%q)", c.HTTPPort)
	}

	switch c.StoreDriver {
	case DriverSQLite, DriverJSON:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL es obligatorio con STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER debe ser sqlite, postgres o json (%q)", c.StoreDriver)
	}

	if c.BackupRetentionDays <= 0 {
		return fmt.Errorf("config: BACKUP_RETENTION_DAYS debe ser mayor que 0")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL debe ser positivo")
	}
	if c.GitHubTimeout <= 0 {
		return fmt.Errorf("config: GITHUB_TIMEOUT debe ser positivo")
	}
	return nil
}

// StorePath es el fichero del almacén, vacío si el almacén no es un fichero.
func (c *Config) StorePath() string {
	switch c.StoreDriver {
	case DriverSQLite:
		return c.SQLitePath
	case DriverJSON:
		return c.JSONPath
	}
	return ""
}
