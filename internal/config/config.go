package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит конфигурацию сервиса
type Config struct {
	ServerAddress   string        `json:"server_address"`
	APIKey          string        `json:"-"`
	UpstreamURL     string        `json:"upstream_url"`
	UpstreamTimeout time.Duration `json:"-"`
	MaxWorkers      int           `json:"max_workers"`
	MaxBodyBytes    int64         `json:"max_body_bytes"`
	EnableHTTPS     bool          `json:"enable_https"`
	TLSCertPath     string        `json:"tls_cert_path"`
	TLSKeyPath      string        `json:"tls_key_path"`
	LogLevel        string        `json:"log_level"`
}

// fileConfig формат JSON-файла конфигурации. Таймаут задаётся строкой, например "60s".
type fileConfig struct {
	Config
	UpstreamTimeout string `json:"upstream_timeout"`
}

// NewConfig инициализирует конфигурацию из аргументов командной строки и окружения
func NewConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Printf("Ошибка конфигурации: %v", err)
	}
	return cfg
}

// Load собирает конфигурацию. Приоритет: флаги > переменные окружения > .env > JSON-файл > значения по умолчанию.
// Отсутствие BUMPUPS_API_KEY ошибкой не считается.
func Load(args []string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_ADDRESS", "localhost:8080")
	v.SetDefault("BUMPUPS_API_URL", "https://api.bumpups.com/general/timestamps")
	v.SetDefault("UPSTREAM_TIMEOUT", "60s")
	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("ENABLE_HTTPS", false)
	v.SetDefault("TLS_CERT_PATH", "cert.pem")
	v.SetDefault("TLS_KEY_PATH", "key.pem")
	v.SetDefault("LOG_LEVEL", "info")

	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	serverAddress := fs.String("a", "", "server address")
	upstreamURL := fs.String("u", "", "Bumpups API endpoint")
	upstreamTimeout := fs.Duration("timeout", 0, "timeout of one Bumpups API call")
	maxWorkers := fs.Int("w", 0, "max concurrent Bumpups API calls per batch")
	enableHTTPS := fs.Bool("s", false, "enable HTTPS")
	tlsCertPath := fs.String("cert", "", "path to TLS certificate")
	tlsKeyPath := fs.String("key", "", "path to TLS key")
	logLevel := fs.String("l", "", "log level")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return defaults(v), err
	}

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	if *configPath != "" {
		if err := applyJSONFile(v, *configPath); err != nil {
			log.Printf("Не удалось прочитать JSON-файл конфигурации %q: %v", *configPath, err)
		}
	}

	// .env не переопределяет переменные окружения
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig()

	v.AutomaticEnv()

	cfg := defaults(v)

	if *serverAddress != "" {
		cfg.ServerAddress = *serverAddress
	}
	if *upstreamURL != "" {
		cfg.UpstreamURL = *upstreamURL
	}
	if *upstreamTimeout > 0 {
		cfg.UpstreamTimeout = *upstreamTimeout
	}
	if *maxWorkers > 0 {
		cfg.MaxWorkers = *maxWorkers
	}
	if *enableHTTPS {
		cfg.EnableHTTPS = true
	}
	if *tlsCertPath != "" {
		cfg.TLSCertPath = *tlsCertPath
	}
	if *tlsKeyPath != "" {
		cfg.TLSKeyPath = *tlsKeyPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	return cfg, cfg.Validate()
}

func defaults(v *viper.Viper) *Config {
	return &Config{
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		APIKey:          v.GetString("BUMPUPS_API_KEY"),
		UpstreamURL:     v.GetString("BUMPUPS_API_URL"),
		UpstreamTimeout: v.GetDuration("UPSTREAM_TIMEOUT"),
		MaxWorkers:      v.GetInt("MAX_WORKERS"),
		MaxBodyBytes:    v.GetInt64("MAX_BODY_BYTES"),
		EnableHTTPS:     v.GetBool("ENABLE_HTTPS"),
		TLSCertPath:     v.GetString("TLS_CERT_PATH"),
		TLSKeyPath:      v.GetString("TLS_KEY_PATH"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}
}

// applyJSONFile записывает значения из JSON-файла поверх значений по умолчанию.
func applyJSONFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("ошибка разбора JSON: %w", err)
	}

	setIf := func(key string, val any, ok bool) {
		if ok {
			v.SetDefault(key, val)
		}
	}
	setIf("SERVER_ADDRESS", fc.ServerAddress, fc.ServerAddress != "")
	setIf("BUMPUPS_API_URL", fc.UpstreamURL, fc.UpstreamURL != "")
	setIf("UPSTREAM_TIMEOUT", fc.UpstreamTimeout, fc.UpstreamTimeout != "")
	setIf("MAX_WORKERS", fc.MaxWorkers, fc.MaxWorkers > 0)
	setIf("MAX_BODY_BYTES", fc.MaxBodyBytes, fc.MaxBodyBytes > 0)
	setIf("ENABLE_HTTPS", fc.EnableHTTPS, fc.EnableHTTPS)
	setIf("TLS_CERT_PATH", fc.TLSCertPath, fc.TLSCertPath != "")
	setIf("TLS_KEY_PATH", fc.TLSKeyPath, fc.TLSKeyPath != "")
	setIf("LOG_LEVEL", fc.LogLevel, fc.LogLevel != "")
	return nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("адрес сервера не может быть пустым")
	}
	if cfg.UpstreamURL == "" {
		return fmt.Errorf("адрес Bumpups API не может быть пустым")
	}
	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("таймаут вызова Bumpups API должен быть положительным")
	}
	if cfg.MaxWorkers <= 0 {
		return fmt.Errorf("число параллельных вызовов должно быть положительным")
	}
	return nil
}
