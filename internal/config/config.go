package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr  string
	DataDir   string
	DBPath    string
	ExportDir string

	Email EmailConfig
}

// EmailConfig holds the outbound SMTP settings. All fields empty means
// no mail transport is available and email export degrades to text-only.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// Configured reports whether an SMTP transport can be built.
func (c EmailConfig) Configured() bool {
	return strings.TrimSpace(c.SMTPHost) != "" && c.SMTPPort > 0
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("LEDGERPAD_DATA_DIR", ".")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "ledgerpad"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("LEDGERPAD_ADDR", "127.0.0.1:8080"),
		DataDir:     dataDir,
		DBPath:      getenv("LEDGERPAD_DB_PATH", filepath.Join(dataDir, "ledgerpad.db")),
		ExportDir:   getenv("LEDGERPAD_EXPORT_DIR", filepath.Join(dataDir, "exports")),
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 0),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", ""),
		},
	}

	return cfg
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewDocumentConfigHolder),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
