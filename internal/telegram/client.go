// Package telegram connects the conversation router to the Telegram Bot API
// through long polling.
package telegram

import (
	"fmt"

	"github.com/Rrens/lookup-bot/internal/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// API is the subset of *tgbotapi.BotAPI used by this package
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewClient authenticates against the Bot API with the configured token
func NewClient(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = cfg.Debug

	log.Info().Str("username", api.Self.UserName).Msg("Authorized on telegram")

	return api, nil
}
