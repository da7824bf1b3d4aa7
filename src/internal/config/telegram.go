package config

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/viper"

	"shop-service/src/pkg/log"
)

// NewTelegramAPI connects the bot transport. Returns nil when no token is
// configured, which runs the service with the operator HTTP API only.
func NewTelegramAPI(v *viper.Viper, logger log.Log) *tgbotapi.BotAPI {
	token := v.GetString("telegram.token")
	if token == "" {
		logger.Info("telegram-config", "telegram token is not set, chat transport disabled", "config", "")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("telegram-config", err.Error(), "config", "")
		return nil
	}

	api.Debug = v.GetBool("telegram.debug")
	return api
}
