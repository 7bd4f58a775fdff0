package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const placeholderToken = "YOUR_BOT_TOKEN_HERE"

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Admins     AdminsConfig     `yaml:"admins"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Google     GoogleConfig     `yaml:"google"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
	Timeout  int    `yaml:"timeout"`
}

// AdminsConfig статические списки администраторов: по Telegram ID и по телефону
type AdminsConfig struct {
	IDs    []int64  `yaml:"ids"`
	Phones []string `yaml:"phones"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile    string `yaml:"credentials_file"`
	UsersSpreadSheetID string `yaml:"users_spreadsheet_id"`
}

// Enabled синхронизация с Google Sheets настроена
func (g GoogleConfig) Enabled() bool {
	return g.CredentialsFile != "" && g.UsersSpreadSheetID != ""
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		App:      AppConfig{Name: "fitbot", Environment: "production"},
		Telegram: TelegramConfig{Timeout: 60},
		Database: DatabaseConfig{Path: "data/bot.db"},
		Monitoring: MonitoringConfig{
			PrometheusPort: 9090,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			FilePath:   "logs/bot.log",
			MaxSizeMB:  100,
			MaxBackups: 10,
			MaxAgeDays: 7,
		},
		Exports: ExportConfig{Path: "exports"},
	}
}

// Load читает .env (если есть), YAML-файл (если есть) и переменные окружения
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Предварительная замена переменных окружения в YAML
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// допустим запуск только на переменных окружения
	default:
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("BOT_TOKEN")); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		ids, err := ParseIDs(v)
		if err != nil {
			return fmt.Errorf("ADMIN_IDS: %w", err)
		}
		c.Admins.IDs = ids
	}
	if v := os.Getenv("ADMIN_PHONES"); v != "" {
		c.Admins.Phones = ParseList(v)
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_PATH")); v != "" {
		c.Database.Path = v
	}
	return nil
}

// Validate проверяет обязательные параметры перед запуском
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == placeholderToken {
		return errors.New("telegram bot token is not set")
	}
	if c.Database.Path == "" {
		return errors.New("database path is not set")
	}
	if len(c.Admins.IDs) == 0 && len(c.Admins.Phones) == 0 {
		return errors.New("at least one admin id or admin phone is required")
	}
	return nil
}

// ParseIDs разбирает список ID через запятую, пустые элементы пропускаются
func ParseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range ParseList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseList разбирает строку через запятую с обрезкой пробелов
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
