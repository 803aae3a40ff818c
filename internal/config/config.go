package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Storage backend types
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config конфигурация сервиса
type Config struct {
	Telegram  Telegram  `toml:"telegram"`
	Admins    Admins    `toml:"admins"`
	Storage   Storage   `toml:"storage"`
	Database  Database  `toml:"database"`
	Reminders Reminders `toml:"reminders"`
	Metrics   Metrics   `toml:"metrics"`
	Logs      Logs      `toml:"logs"`
}

// Telegram настройки транспорта
type Telegram struct {
	Token       string `toml:"token"`
	PollTimeout int    `toml:"poll_timeout"` // секунды long polling
}

// Admins статический список привилегированных пользователей.
// Проверяется перед каждой админской операцией, изменяемого состояния нет.
type Admins struct {
	IDs []int64 `toml:"ids"`
}

// Storage выбор бэкенда хранилища
type Storage struct {
	Type string `toml:"type"` // "file" | "postgres"
	Dir  string `toml:"dir"`  // каталог json-файлов для type = "file"
}

// Database настройки подключения к PostgreSQL (для storage.type = "postgres")
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// Reminders настройки рассылки напоминаний
type Reminders struct {
	Hour int `toml:"hour"` // час суток для ежедневного прохода
}

// Metrics настройки прометеевских метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Address     string `toml:"address"` // адрес ops-сервера, например ":9091"
	Path        string `toml:"path"`    // endpoint метрик, например "/metrics"
	ServiceName string `toml:"service_name"`
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Load читает конфигурацию из toml-файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN строит строку подключения к PostgreSQL
func (d *Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// IsAdmin проверяет, входит ли пользователь в список администраторов
func (a *Admins) IsAdmin(userID int64) bool {
	for _, id := range a.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

func defaultConfig() *Config {
	return &Config{
		Telegram: Telegram{PollTimeout: 30},
		Storage:  Storage{Type: StorageFile, Dir: "data"},
		Database: Database{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Reminders: Reminders{Hour: 9},
		Metrics: Metrics{
			Address:     ":9091",
			Path:        "/metrics",
			ServiceName: "tlb-tutorbot",
		},
		Logs: Logs{Level: "info"},
	}
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: telegram.token is required")
	}

	switch c.Storage.Type {
	case StorageFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("config: storage.dir is required for file storage")
		}
	case StoragePostgres:
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.dbname is required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage.type %q", c.Storage.Type)
	}

	if c.Reminders.Hour < 0 || c.Reminders.Hour > 23 {
		return fmt.Errorf("config: reminders.hour must be within 0..23")
	}

	return nil
}
