package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Auth        AuthConfig        `yaml:"auth"`
	Reservation ReservationConfig `yaml:"reservation"`
	Cache       CacheConfig       `yaml:"cache"`
	Worker      WorkerConfig      `yaml:"worker"`
	Log         LogConfig         `yaml:"log"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectAttempts int           `yaml:"connect_attempts"`
	Migrate         bool          `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers           []string `yaml:"brokers"`
	ReservationsTopic string   `yaml:"reservations_topic"`
	GroupID           string   `yaml:"group_id"`
}

// AuthConfig describes how bearer tokens issued by the identity provider are verified.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

type ReservationConfig struct {
	CodeLength       int  `yaml:"code_length"`
	MaxCodeAttempts  int  `yaml:"max_code_attempts"`
	AllowDuplicates  bool `yaml:"allow_duplicates"`
	QRCodeSizePixels int  `yaml:"qr_code_size_pixels"`
}

type CacheConfig struct {
	EventsTTL       time.Duration `yaml:"events_ttl"`
	AvailabilityTTL time.Duration `yaml:"availability_ttl"`
}

type WorkerConfig struct {
	AuditLogPath string `yaml:"audit_log_path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used for any key the file leaves out.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			Name:            "sparkbytes",
			SSLMode:         "disable",
			MaxConns:        20,
			MinConns:        2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectAttempts: 5,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			Brokers:           []string{"localhost:9092"},
			ReservationsTopic: "reservations",
			GroupID:           "sparkbytes-worker",
		},
		Reservation: ReservationConfig{
			CodeLength:       8,
			MaxCodeAttempts:  5,
			AllowDuplicates:  true,
			QRCodeSizePixels: 256,
		},
		Cache: CacheConfig{
			EventsTTL:       30 * time.Second,
			AvailabilityTTL: 5 * time.Second,
		},
		Worker: WorkerConfig{AuditLogPath: "stdout"},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadConfig reads a .env file when present, then the YAML file at path on
// top of Default, then secret overrides from the environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return errors.New("database host and name are required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (or AUTH_JWT_SECRET)")
	}
	if c.Reservation.CodeLength < 6 || c.Reservation.CodeLength > 16 {
		return fmt.Errorf("reservation.code_length must be between 6 and 16, got %d", c.Reservation.CodeLength)
	}
	if c.Reservation.MaxCodeAttempts < 1 {
		return errors.New("reservation.max_code_attempts must be at least 1")
	}
	return nil
}
