// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SMTP                    `yaml:"smtp"`
	FileStore               `yaml:"file_store"`
	OTP                     `yaml:"otp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"5s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"pass" env:"SMTP_PASS"`
	From     string `yaml:"from" env:"EMAIL_FROM"`
}

// FileStore структура для настройки объектного хранилища изображений профиля
type FileStore struct {
	Endpoint  string `yaml:"endpoint" env:"FILESTORE_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"FILESTORE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"FILESTORE_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"FILESTORE_BUCKET" env-default:"profile-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"FILESTORE_USE_SSL" env-default:"false"`
	PublicURL string `yaml:"public_url" env:"FILESTORE_PUBLIC_URL"`
}

// OTP структура для настройки одноразовых кодов.
// TTL кода одинаковый и для хранилища, и для текста письма.
type OTP struct {
	CodeTTL time.Duration `yaml:"code_ttl" env:"OTP_CODE_TTL" env-default:"5m"`
}

// MustLoad функция для загрузки конфига, при ошибке завершает процесс.
// Отсутствие секретного ключа JWT считается фатальной ошибкой конфигурации.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.JWTSecretKey == "" {
		log.Fatal("jwt_secret_key is not set")
	}
	return &cfg
}
