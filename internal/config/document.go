package config

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DocumentConfig holds generated-document presentation preferences.
// It lives in an optional ledgerpad.yml so users can restyle documents
// without touching the environment.
type DocumentConfig struct {
	AccentColor   string `mapstructure:"accentColor"`
	FooterMessage string `mapstructure:"footerMessage"`
	ItemJoiner    string `mapstructure:"itemJoiner"`
}

func DefaultDocumentConfig() DocumentConfig {
	return DocumentConfig{
		AccentColor:   "#2563eb",
		FooterMessage: "Thank you for your business!",
		ItemJoiner:    "; ",
	}
}

type DocumentConfigHolder struct {
	current atomic.Value // holds DocumentConfig
}

func NewDocumentConfigHolder() (*DocumentConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("ledgerpad")
	v.SetConfigType("yml")
	v.AddConfigPath(getenv("LEDGERPAD_DATA_DIR", "."))
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGERPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDocumentConfig()
	v.SetDefault("document.accentColor", defaults.AccentColor)
	v.SetDefault("document.footerMessage", defaults.FooterMessage)
	v.SetDefault("document.itemJoiner", defaults.ItemJoiner)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg DocumentConfig
	if err := v.UnmarshalKey("document", &cfg); err != nil {
		return nil, err
	}
	if err := validateDocumentConfig(cfg); err != nil {
		return nil, err
	}

	holder := &DocumentConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DocumentConfig
		if err := v.UnmarshalKey("document", &updated); err != nil {
			log.Printf("[document-config] reload failed: %v", err)
			return
		}
		if err := validateDocumentConfig(updated); err != nil {
			log.Printf("[document-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[document-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *DocumentConfigHolder) Get() DocumentConfig {
	return h.current.Load().(DocumentConfig)
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validateDocumentConfig(cfg DocumentConfig) error {
	if !hexColorPattern.MatchString(strings.TrimSpace(cfg.AccentColor)) {
		return errors.New("document.accentColor must be a #rrggbb value")
	}
	if cfg.ItemJoiner == "" {
		return errors.New("document.itemJoiner cannot be empty")
	}
	return nil
}
