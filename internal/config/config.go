package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Telegram Telegram `yaml:"telegram"`
	GPT      GPT      `yaml:"gpt"`
	Temporal Temporal `yaml:"temporal"`
	Themes   Themes   `yaml:"themes"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
	// RateRPS and RateBurst bound requests across all clients.
	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
	// MaxBodyBytes caps request bodies; zero keeps the server default.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

type Telegram struct {
	Token          string  `yaml:"token"`
	AllowedChats   []int64 `yaml:"allowed_chats"`
	ErrorLogChatID int64   `yaml:"error_log_chat_id"`
	// ChatRateRPS and ChatRateBurst bound messages per chat.
	ChatRateRPS   float64 `yaml:"chat_rate_rps"`
	ChatRateBurst int     `yaml:"chat_rate_burst"`
}

type GPT struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type Temporal struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
}

type Themes struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:      ":8080",
			RateRPS:   20,
			RateBurst: 40,
		},
		Telegram: Telegram{
			ChatRateRPS:   0.5,
			ChatRateBurst: 3,
		},
		Temporal: Temporal{
			Address:   "localhost:7233",
			Namespace: "default",
		},
	}
}

// Load reads the optional YAML file at path over the defaults and then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	str("GPT_API_KEY", &c.GPT.APIKey)
	str("GPT_MODEL", &c.GPT.Model)
	str("TEMPORAL_ADDRESS", &c.Temporal.Address)
	str("TEMPORAL_NAMESPACE", &c.Temporal.Namespace)
	str("MD2PPTX_HTTP_ADDR", &c.HTTP.Addr)
	str("MD2PPTX_THEMES_DIR", &c.Themes.Dir)

	if v, ok := lookup("MD2PPTX_ALLOWED_CHATS"); ok && v != "" {
		chats, err := ParseChatIDs(v)
		if err != nil {
			return fmt.Errorf("MD2PPTX_ALLOWED_CHATS: %w", err)
		}
		c.Telegram.AllowedChats = chats
	}
	if v, ok := lookup("ERROR_LOG_CHAT_ID"); ok && v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("ERROR_LOG_CHAT_ID: %w", err)
		}
		c.Telegram.ErrorLogChatID = id
	}
	if v, ok := lookup("MD2PPTX_RATE_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MD2PPTX_RATE_RPS: %w", err)
		}
		c.HTTP.RateRPS = rps
	}
	if v, ok := lookup("MD2PPTX_RATE_BURST"); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MD2PPTX_RATE_BURST: %w", err)
		}
		c.HTTP.RateBurst = burst
	}
	return nil
}

// ParseChatIDs parses a comma separated list of chat IDs.
func ParseChatIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
