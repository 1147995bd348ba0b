package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DeliveryConfig holds Telegram delivery settings. When Enabled is false the
// gateway degrades to successful no-ops, so token and channel may be empty.
type DeliveryConfig struct {
	Enabled   bool
	BotToken  string `validate:"required_if=Enabled true"`
	ChannelID string `validate:"required_if=Enabled true"`

	// BroadcastChannels maps a language code to an additional destination
	// channel, loaded from TELEGRAM_CHANNEL_ID_<LANG>.
	BroadcastChannels map[string]string
}

// ValidationError indicates that delivery is enabled but required identity or
// token values are absent. It is the only fatal pre-run error.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("delivery configuration invalid: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery configuration invalid: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// LoadDelivery reads delivery settings from the environment. Broadcast
// channels are loaded for every language in broadcastLanguages; a language
// without a configured channel is skipped.
func LoadDelivery(enabled bool, broadcastLanguages []string) DeliveryConfig {
	cfg := DeliveryConfig{
		Enabled:           enabled,
		BotToken:          os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChannelID:         os.Getenv("TELEGRAM_CHANNEL_ID"),
		BroadcastChannels: make(map[string]string),
	}
	for _, lang := range broadcastLanguages {
		key := "TELEGRAM_CHANNEL_ID_" + strings.ToUpper(lang)
		if id := os.Getenv(key); id != "" {
			cfg.BroadcastChannels[lang] = id
		}
	}
	return cfg
}

// Validate checks that required values are present when delivery is enabled.
func (c *DeliveryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if c.BotToken == "" {
			return &ValidationError{
				Message: "TELEGRAM_BOT_TOKEN is not set; set it or pass --no-telegram",
				Cause:   err,
			}
		}
		return &ValidationError{
			Message: "TELEGRAM_CHANNEL_ID is not set; set it or pass --no-telegram",
			Cause:   err,
		}
	}
	return nil
}
