package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hireassist/models"
)

type Config struct {
	DatabaseURL string
	DBPath      string
	RedisURL    string
	BaseURL     string
	LogLevel    string
	Scheduler   SchedulerConfig
	Fetch       FetchConfig
	SMTP        SMTPConfig
	Companies   map[string]*CompanyConfig
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type FetchConfig struct {
	TimeoutSec int
	DelayMS    int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// CompanyConfig is one tracked company, loaded from config/companies/*.yaml.
// Token is the board identifier at the ATS (board token, company slug).
type CompanyConfig struct {
	Name      string `yaml:"name"`
	Source    string `yaml:"source"`
	Token     string `yaml:"token"`
	CareerURL string `yaml:"career_url"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/hireassist"),
		DBPath:      getEnv("DB_PATH", "hireassist.db"),
		RedisURL:    os.Getenv("REDIS_URL"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SYNC_CRON"),
		},
		Fetch: FetchConfig{
			TimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 30),
			DelayMS:    getEnvInt("FETCH_DELAY_MS", 500),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Companies: make(map[string]*CompanyConfig),
	}

	if interval := os.Getenv("SYNC_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadCompanyConfigs(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadCompanyConfigs() error {
	configDir := "config/companies"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var company CompanyConfig
		if err := yaml.Unmarshal(data, &company); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if company.Name == "" {
			return fmt.Errorf("%s: company name is required", path)
		}
		if _, err := models.ParseSource(company.Source); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		c.Companies[company.Name] = &company
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
