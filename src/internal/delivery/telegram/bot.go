package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/viper"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/repository"
	"shop-service/src/internal/usecase"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

// Bot is the chat transport adapter: it translates telegram updates into
// core operations and renders their results. All decisions live in the
// usecases; this layer only parses, routes and formats.
type Bot struct {
	API         *tgbotapi.BotAPI
	Log         log.Log
	AdminID     int64
	ChannelID   int64
	Sessions    repository.SessionStore
	Account     *usecase.AccountUseCase
	Purchase    *usecase.PurchaseUseCase
	Orders      *usecase.OrderUseCase
	Withdrawals *usecase.WithdrawalUseCase
	Catalog     *usecase.CatalogUseCase
	Support     *usecase.SupportUseCase

	locks *utils.KeyedLock
}

type BotConfig struct {
	API         *tgbotapi.BotAPI
	Log         log.Log
	Config      *viper.Viper
	Sessions    repository.SessionStore
	Account     *usecase.AccountUseCase
	Purchase    *usecase.PurchaseUseCase
	Orders      *usecase.OrderUseCase
	Withdrawals *usecase.WithdrawalUseCase
	Catalog     *usecase.CatalogUseCase
	Support     *usecase.SupportUseCase
}

func NewBot(cfg BotConfig) *Bot {
	return &Bot{
		API:         cfg.API,
		Log:         cfg.Log,
		AdminID:     cfg.Config.GetInt64("telegram.admin_id"),
		ChannelID:   cfg.Config.GetInt64("telegram.channel_id"),
		Sessions:    cfg.Sessions,
		Account:     cfg.Account,
		Purchase:    cfg.Purchase,
		Orders:      cfg.Orders,
		Withdrawals: cfg.Withdrawals,
		Catalog:     cfg.Catalog,
		Support:     cfg.Support,
		locks:       utils.NewKeyedLock(),
	}
}

// Run consumes the long-polling update stream until the context closes.
// Updates from the same user are serialized; different users proceed in
// parallel.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.API.GetUpdatesChan(updateConfig)

	b.Log.Info("telegram", "bot update loop started", "Run", b.API.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			userID := updateUserID(update)
			if userID == 0 {
				continue
			}
			go func(update tgbotapi.Update, key string) {
				b.locks.Lock(key)
				defer b.locks.Unlock(key)
				b.handleUpdate(ctx, update)
			}(update, strconv.FormatInt(userID, 10))
		}
	}
}

func updateUserID(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return update.CallbackQuery.From.ID
	}
	return 0
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) isOperator(userID int64) bool {
	return b.AdminID != 0 && userID == b.AdminID
}

func (b *Bot) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.API.Send(msg); err != nil {
		b.Log.Warn("telegram", fmt.Sprintf("send failed: %v", err), "send", strconv.FormatInt(chatID, 10))
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	callback := tgbotapi.NewCallback(id, text)
	callback.ShowAlert = alert
	if _, err := b.API.Request(callback); err != nil {
		b.Log.Warn("telegram", fmt.Sprintf("answer callback failed: %v", err), "answerCallback", "")
	}
}

// NotifyNewOrder implements worker.OperatorNotifier: the order summary goes
// to the operator channel with the decision buttons attached.
func (b *Bot) NotifyNewOrder(ctx context.Context, order *entity.Order) error {
	target := b.ChannelID
	if target == 0 {
		target = b.AdminID
	}
	if target == 0 {
		return nil
	}

	text := fmt.Sprintf(
		"<b>New order</b>\nOrder: <code>%s</code>\nUser: <code>%s</code>\nProduct: %s\nWeight: %gg | Total: %.2f\nCity: %s",
		order.OrderID, order.UserID, order.ProductName, order.Weight, order.Total, order.City,
	)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Mark paid", tokenOrderPay+order.OrderID),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", tokenOrderVoid+order.OrderID),
		),
	)

	msg := tgbotapi.NewMessage(target, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	_, err := b.API.Send(msg)
	return err
}
