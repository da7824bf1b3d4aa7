package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shop-service/src/internal/model"
	httpError "shop-service/src/pkg/http-error"
)

const (
	tokenMainMenu   = "menu:main"
	tokenCatalog    = "menu:catalog"
	tokenSettings   = "menu:settings"
	tokenSupport    = "menu:support"
	tokenSetCity    = "city:set"
	tokenConfirm    = "buy:confirm"
	tokenCancelBuy  = "buy:cancel"
	tokenProduct    = "prod:"
	tokenOrderPay   = "order:pay:"
	tokenOrderVoid  = "order:cancel:"
	tokenWdApprove  = "wd:approve:"
	tokenWdReject   = "wd:reject:"
	supportTokenTag = "token: reply:"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// the operator routing a support reply via a native telegram reply
	if b.isOperator(msg.From.ID) && msg.ReplyToMessage != nil {
		if b.handleSupportReply(msg) {
			return
		}
	}

	session, err := b.Sessions.Get(ctx, userID)
	if err != nil {
		b.Log.Error("telegram", fmt.Sprintf("get session: %v", err), "handleMessage", userID)
		return
	}
	if session == nil {
		b.sendMainMenu(msg.Chat.ID)
		return
	}

	switch session.State {
	case model.PurchaseStateChoosingAmount:
		b.handleWeightInput(ctx, msg, userID)
	case model.ChatStateEnteringCity:
		b.handleCityInput(ctx, msg, userID)
	case model.ChatStateSupportMessage:
		b.handleSupportInput(ctx, msg, userID)
	default:
		b.sendMainMenu(msg.Chat.ID)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	switch msg.Command() {
	case "start":
		result := b.Account.Start(ctx, &model.StartRequest{
			UserID:       userID,
			ReferralCode: strings.TrimSpace(msg.CommandArguments()),
		})
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		if err := b.Sessions.Clear(ctx, userID); err != nil {
			b.Log.Warn("telegram", fmt.Sprintf("clear session: %v", err), "handleCommand", userID)
		}
		b.sendMainMenu(msg.Chat.ID)
	case "profit":
		result := b.Account.TeamProfile(ctx, userID)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		member := result.Data.(*model.TeamMemberResponse)
		b.send(msg.Chat.ID, fmt.Sprintf(
			"<b>Commission</b>\nEarned: %.2f\nWithdrawn: %.2f\nAvailable: %.2f",
			member.TotalEarned, member.Withdrawn, member.Profit), nil)
	case "withdraw":
		amount, err := strconv.ParseFloat(strings.TrimSpace(msg.CommandArguments()), 64)
		if err != nil {
			b.send(msg.Chat.ID, "Usage: /withdraw amount", nil)
			return
		}
		result := b.Withdrawals.Request(ctx, &model.WithdrawalRequest{UserID: userID, Amount: amount})
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		w := result.Data.(*model.WithdrawalResponse)
		b.send(msg.Chat.ID, fmt.Sprintf("Withdrawal <code>%s</code> for %.2f requested.", w.ID, w.Amount), nil)
		b.notifyWithdrawalRequested(w)
	default:
		if b.isOperator(msg.From.ID) {
			b.handleOperatorCommand(ctx, msg)
			return
		}
		// unknown commands from regular users fall back to the menu
		b.sendMainMenu(msg.Chat.ID)
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		b.answerCallback(callback.ID, "", false)
		return
	}
	userID := strconv.FormatInt(callback.From.ID, 10)
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == tokenMainMenu || data == tokenCancelBuy:
		if result := b.Purchase.Cancel(ctx, userID); result.Error != nil {
			b.answerCallback(callback.ID, "try again later", true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		b.sendMainMenu(chatID)

	case data == tokenCatalog:
		result := b.Purchase.OpenCatalog(ctx, userID)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		b.sendCatalog(chatID, result.Data.(*model.CatalogResponse))

	case strings.HasPrefix(data, tokenProduct):
		productID, err := strconv.ParseInt(strings.TrimPrefix(data, tokenProduct), 10, 64)
		if err != nil {
			b.answerCallback(callback.ID, "malformed action", true)
			return
		}
		result := b.Purchase.ChooseProduct(ctx, userID, productID)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		prompt := result.Data.(*model.AmountPromptResponse)
		b.send(chatID, fmt.Sprintf(
			"Product: <b>%s</b> (%.2f per gram)\nEnter the weight in grams (0.1 to 5):",
			prompt.ProductName, prompt.UnitPrice), nil)

	case data == tokenConfirm:
		result := b.Purchase.Confirm(ctx, userID)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		purchase := result.Data.(*model.PurchaseResultResponse)
		b.send(chatID, fmt.Sprintf(
			"Order placed.\n<b>Order id:</b> <code>%s</code>\nQuote it when contacting support.",
			purchase.OrderID), nil)

	case data == tokenSettings:
		b.sendProfile(ctx, chatID, userID)
		b.answerCallback(callback.ID, "", false)

	case data == tokenSetCity:
		if err := b.Sessions.Save(ctx, userID, &model.PurchaseSession{State: model.ChatStateEnteringCity}); err != nil {
			b.answerCallback(callback.ID, "try again later", true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		b.send(chatID, "Enter your city:", nil)

	case data == tokenSupport:
		if err := b.Sessions.Save(ctx, userID, &model.PurchaseSession{State: model.ChatStateSupportMessage}); err != nil {
			b.answerCallback(callback.ID, "try again later", true)
			return
		}
		b.answerCallback(callback.ID, "", false)
		b.send(chatID, "Describe your issue in one message:", nil)

	case strings.HasPrefix(data, tokenOrderPay), strings.HasPrefix(data, tokenOrderVoid),
		strings.HasPrefix(data, tokenWdApprove), strings.HasPrefix(data, tokenWdReject):
		b.handleOperatorCallback(ctx, callback)

	default:
		b.answerCallback(callback.ID, "", false)
	}
}

func (b *Bot) handleWeightInput(ctx context.Context, msg *tgbotapi.Message, userID string) {
	result := b.Purchase.EnterWeight(ctx, userID, msg.Text)
	if result.Error != nil {
		b.sendError(msg.Chat.ID, result.Error)
		return
	}

	prompt := result.Data.(*model.ConfirmPromptResponse)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirm", tokenConfirm),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cancel", tokenCancelBuy),
		),
	)
	b.send(msg.Chat.ID, fmt.Sprintf(
		"<b>Confirmation</b>\nProduct: %s\nWeight: %gg\nTotal: %.2f\nDelivery city: %s",
		prompt.ProductName, prompt.Weight, prompt.Total, prompt.City), &keyboard)
}

func (b *Bot) handleCityInput(ctx context.Context, msg *tgbotapi.Message, userID string) {
	result := b.Account.SetCity(ctx, &model.SetCityRequest{UserID: userID, City: msg.Text})
	if result.Error != nil {
		b.sendError(msg.Chat.ID, result.Error)
		return
	}
	if err := b.Sessions.Clear(ctx, userID); err != nil {
		b.Log.Warn("telegram", fmt.Sprintf("clear session: %v", err), "handleCityInput", userID)
	}

	profile := result.Data.(*model.ProfileResponse)
	b.send(msg.Chat.ID, fmt.Sprintf("City saved: <b>%s</b>", profile.City), nil)
}

func (b *Bot) handleSupportInput(ctx context.Context, msg *tgbotapi.Message, userID string) {
	result := b.Support.Forward(&model.SupportMessageRequest{UserID: userID, Text: msg.Text})
	if result.Error != nil {
		b.sendError(msg.Chat.ID, result.Error)
		return
	}
	if err := b.Sessions.Clear(ctx, userID); err != nil {
		b.Log.Warn("telegram", fmt.Sprintf("clear session: %v", err), "handleSupportInput", userID)
	}

	forward := result.Data.(*model.SupportForward)
	if b.AdminID != 0 {
		b.send(b.AdminID, fmt.Sprintf(
			"Support message from <code>%s</code>:\n\n%s\n\n%s%s",
			forward.UserID, forward.Text, supportTokenTag, forward.UserID), nil)
	}
	b.send(msg.Chat.ID, "Your message was sent to support.", nil)
}

// handleSupportReply routes the operator's native reply using the token
// embedded in the forwarded message it answers. Returns false when the
// replied-to message is not a support forward.
func (b *Bot) handleSupportReply(msg *tgbotapi.Message) bool {
	idx := strings.LastIndex(msg.ReplyToMessage.Text, supportTokenTag)
	if idx < 0 {
		return false
	}
	token := "reply:" + strings.TrimSpace(msg.ReplyToMessage.Text[idx+len(supportTokenTag):])

	result := b.Support.RouteReply(&model.SupportReplyRequest{ReplyToken: token, Text: msg.Text})
	if result.Error != nil {
		b.sendError(msg.Chat.ID, result.Error)
		return true
	}

	delivery := result.Data.(*model.SupportDelivery)
	target, err := strconv.ParseInt(delivery.UserID, 10, 64)
	if err != nil {
		b.send(msg.Chat.ID, "Cannot route the reply: broken token.", nil)
		return true
	}
	b.send(target, "Support reply:\n\n"+delivery.Text, nil)
	b.send(msg.Chat.ID, "Reply delivered.", nil)
	return true
}

func (b *Bot) sendMainMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Catalog", tokenCatalog)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Support", tokenSupport)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Settings", tokenSettings)),
	)
	b.send(chatID, "Welcome! Pick an action:", &keyboard)
}

func (b *Bot) sendCatalog(chatID int64, catalog *model.CatalogResponse) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(catalog.Products)+1)
	for _, p := range catalog.Products {
		label := fmt.Sprintf("%s (%.2f per gram)", p.Name, p.PricePerGram)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", tokenProduct, p.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", tokenMainMenu),
	))
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(chatID, "Choose a product:", &keyboard)
}

func (b *Bot) sendProfile(ctx context.Context, chatID int64, userID string) {
	result := b.Account.Profile(ctx, userID)
	if result.Error != nil {
		b.sendError(chatID, result.Error)
		return
	}

	profile := result.Data.(*model.ProfileResponse)
	city := profile.City
	if city == "" {
		city = "not set"
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Change city", tokenSetCity)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Back", tokenMainMenu)),
	)
	b.send(chatID, fmt.Sprintf(
		"<b>Profile</b>\nID: <code>%s</code>\nBalance: %.2f\nCity: %s\nInvite code: <code>%s</code>",
		profile.UserID, profile.Balance, city, profile.ReferralCode), &keyboard)
}

func (b *Bot) notifyWithdrawalRequested(w *model.WithdrawalResponse) {
	if b.AdminID == 0 {
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Approve", tokenWdApprove+w.ID),
			tgbotapi.NewInlineKeyboardButtonData("Reject", tokenWdReject+w.ID),
		),
	)
	b.send(b.AdminID, fmt.Sprintf(
		"<b>Withdrawal request</b>\nID: <code>%s</code>\nUser: <code>%s</code>\nAmount: %.2f",
		w.ID, w.UserID, w.Amount), &keyboard)
}

func (b *Bot) sendError(chatID int64, err interface{}) {
	b.send(chatID, errorText(err), nil)
}

func errorText(err interface{}) string {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return commonErr.Message
	}
	return "something went wrong, try again later"
}
