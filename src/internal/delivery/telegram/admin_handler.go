package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shop-service/src/internal/model"
	"shop-service/src/pkg/utils"
)

// handleOperatorCommand serves the back-office command set. The caller has
// already passed the isOperator check.
func (b *Bot) handleOperatorCommand(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "bal":
		if len(args) != 2 {
			b.send(msg.Chat.ID, "Usage: /bal userId amount", nil)
			return
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			b.send(msg.Chat.ID, "Usage: /bal userId amount", nil)
			return
		}
		result := b.Account.AdjustBalance(ctx, &model.AdjustBalanceRequest{UserID: args[0], Amount: amount})
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		profile := result.Data.(*model.ProfileResponse)
		b.send(msg.Chat.ID, fmt.Sprintf("Balance of <code>%s</code> is now %.2f", profile.UserID, profile.Balance), nil)

	case "addprod":
		if len(args) < 2 {
			b.send(msg.Chat.ID, "Usage: /addprod name price", nil)
			return
		}
		price, err := strconv.ParseFloat(args[len(args)-1], 64)
		if err != nil {
			b.send(msg.Chat.ID, "Usage: /addprod name price", nil)
			return
		}
		name := strings.Join(args[:len(args)-1], " ")
		result := b.Catalog.Add(ctx, &model.AddProductRequest{Name: name, PricePerGram: price})
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		product := result.Data.(*model.ProductResponse)
		b.send(msg.Chat.ID, fmt.Sprintf("Added <b>%s</b> (#%d) at %.2f per gram", product.Name, product.ID, product.PricePerGram), nil)

	case "delprod":
		if len(args) != 1 {
			b.send(msg.Chat.ID, "Usage: /delprod id", nil)
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.send(msg.Chat.ID, "Usage: /delprod id", nil)
			return
		}
		result := b.Catalog.Remove(ctx, id)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		product := result.Data.(*model.ProductResponse)
		b.send(msg.Chat.ID, fmt.Sprintf("Removed <b>%s</b> (#%d). Existing orders keep their snapshots.", product.Name, product.ID), nil)

	case "prod":
		result := b.Catalog.List(ctx)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		products := result.Data.([]model.ProductResponse)
		if len(products) == 0 {
			b.send(msg.Chat.ID, "The catalog is empty.", nil)
			return
		}
		var sb strings.Builder
		sb.WriteString("<b>Catalog</b>\n")
		for _, p := range products {
			fmt.Fprintf(&sb, "#%d %s — %.2f per gram\n", p.ID, p.Name, p.PricePerGram)
		}
		b.send(msg.Chat.ID, sb.String(), nil)

	case "ord":
		// /ord lists pending orders, /ord paid filters by status, anything
		// else is treated as a user id
		filter := "pending"
		if len(args) == 1 {
			filter = args[0]
		}
		var result utils.Result
		switch filter {
		case "pending", "paid", "cancelled":
			result = b.Orders.ListByStatus(ctx, filter)
		default:
			result = b.Orders.ListByUser(ctx, filter)
		}
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		orders := result.Data.([]model.OrderResponse)
		if len(orders) == 0 {
			b.send(msg.Chat.ID, fmt.Sprintf("No orders for %s.", filter), nil)
			return
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "<b>Orders (%s)</b>\n", filter)
		for _, o := range orders {
			fmt.Fprintf(&sb, "<code>%s</code> user %s, %s %gg, total %.2f, %s\n",
				o.OrderID, o.UserID, o.ProductName, o.Weight, o.Total, o.Status)
		}
		b.send(msg.Chat.ID, sb.String(), nil)

	case "order":
		if len(args) != 1 {
			b.send(msg.Chat.ID, "Usage: /order orderId", nil)
			return
		}
		result := b.Orders.GetByID(ctx, args[0])
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		order := result.Data.(*model.OrderResponse)
		b.sendOrderCard(msg.Chat.ID, order)

	case "users":
		result := b.Orders.ListBuyers(ctx)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		userIDs := result.Data.([]string)
		if len(userIDs) == 0 {
			b.send(msg.Chat.ID, "No buyers yet.", nil)
			return
		}
		b.send(msg.Chat.ID, fmt.Sprintf("<b>Buyers (%d)</b>\n%s", len(userIDs), strings.Join(userIDs, "\n")), nil)

	case "team_add":
		if len(args) != 1 {
			b.send(msg.Chat.ID, "Usage: /team_add userId", nil)
			return
		}
		result := b.Account.AddTeamMember(ctx, args[0])
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		b.send(msg.Chat.ID, fmt.Sprintf("<code>%s</code> is now a team member.", args[0]), nil)

	case "team_del":
		if len(args) != 1 {
			b.send(msg.Chat.ID, "Usage: /team_del userId", nil)
			return
		}
		result := b.Account.RemoveTeamMember(ctx, args[0])
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		b.send(msg.Chat.ID, fmt.Sprintf("<code>%s</code> removed from the team. Earned totals stay on record.", args[0]), nil)

	case "team":
		result := b.Account.ListTeam(ctx)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		members := result.Data.([]model.TeamMemberResponse)
		if len(members) == 0 {
			b.send(msg.Chat.ID, "The team is empty.", nil)
			return
		}
		var sb strings.Builder
		sb.WriteString("<b>Team</b>\n")
		for _, m := range members {
			fmt.Fprintf(&sb, "<code>%s</code> earned %.2f, withdrawn %.2f, profit %.2f\n",
				m.UserID, m.TotalEarned, m.Withdrawn, m.Profit)
		}
		b.send(msg.Chat.ID, sb.String(), nil)

	case "wd":
		result := b.Withdrawals.ListPending(ctx)
		if result.Error != nil {
			b.sendError(msg.Chat.ID, result.Error)
			return
		}
		withdrawals := result.Data.([]model.WithdrawalResponse)
		if len(withdrawals) == 0 {
			b.send(msg.Chat.ID, "No pending withdrawals.", nil)
			return
		}
		for i := range withdrawals {
			b.notifyWithdrawalRequested(&withdrawals[i])
		}

	default:
		b.send(msg.Chat.ID, "Unknown command.", nil)
	}
}

// handleOperatorCallback serves the pay/cancel and approve/reject buttons.
// A lost race against another operator shows up as an alert, the ledger
// itself stays single-transition.
func (b *Bot) handleOperatorCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if !b.isOperator(callback.From.ID) {
		b.answerCallback(callback.ID, "operators only", true)
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, tokenOrderPay):
		orderID := strings.TrimPrefix(data, tokenOrderPay)
		result := b.Orders.Pay(ctx, orderID)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		transition := result.Data.(*model.TransitionResponse)
		b.answerCallback(callback.ID, "marked paid", false)
		text := fmt.Sprintf("Order <code>%s</code> is %s.", transition.OrderID, transition.Status)
		if transition.Commission > 0 {
			text += fmt.Sprintf(" Commission credited: %.2f", transition.Commission)
		}
		b.send(chatID, text, nil)

	case strings.HasPrefix(data, tokenOrderVoid):
		orderID := strings.TrimPrefix(data, tokenOrderVoid)
		result := b.Orders.Cancel(ctx, orderID)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		transition := result.Data.(*model.TransitionResponse)
		b.answerCallback(callback.ID, "cancelled", false)
		b.send(chatID, fmt.Sprintf("Order <code>%s</code> is %s.", transition.OrderID, transition.Status), nil)

	case strings.HasPrefix(data, tokenWdApprove):
		id := strings.TrimPrefix(data, tokenWdApprove)
		result := b.Withdrawals.Approve(ctx, id)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		w := result.Data.(*model.WithdrawalResponse)
		b.answerCallback(callback.ID, "approved", false)
		b.send(chatID, fmt.Sprintf("Withdrawal <code>%s</code> approved for %.2f.", w.ID, w.Amount), nil)
		b.notifyUser(w.UserID, fmt.Sprintf("Your withdrawal <code>%s</code> for %.2f was approved.", w.ID, w.Amount))

	case strings.HasPrefix(data, tokenWdReject):
		id := strings.TrimPrefix(data, tokenWdReject)
		result := b.Withdrawals.Reject(ctx, id)
		if result.Error != nil {
			b.answerCallback(callback.ID, errorText(result.Error), true)
			return
		}
		w := result.Data.(*model.WithdrawalResponse)
		b.answerCallback(callback.ID, "rejected", false)
		b.send(chatID, fmt.Sprintf("Withdrawal <code>%s</code> rejected.", w.ID), nil)
		b.notifyUser(w.UserID, fmt.Sprintf("Your withdrawal <code>%s</code> was rejected.", w.ID))
	}
}

func (b *Bot) sendOrderCard(chatID int64, order *model.OrderResponse) {
	var keyboard *tgbotapi.InlineKeyboardMarkup
	if order.Status == "pending" {
		markup := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Paid", tokenOrderPay+order.OrderID),
				tgbotapi.NewInlineKeyboardButtonData("Cancel", tokenOrderVoid+order.OrderID),
			),
		)
		keyboard = &markup
	}
	referrer := order.ReferrerID
	if referrer == "" {
		referrer = "none"
	}
	b.send(chatID, fmt.Sprintf(
		"<b>Order</b> <code>%s</code>\nUser: <code>%s</code>\nReferrer: %s\nProduct: %s\nWeight: %gg at %.2f\nTotal: %.2f\nCity: %s\nStatus: %s",
		order.OrderID, order.UserID, referrer, order.ProductName,
		order.Weight, order.UnitPrice, order.Total, order.City, order.Status), keyboard)
}

func (b *Bot) notifyUser(userID, text string) {
	if chatID, err := strconv.ParseInt(userID, 10, 64); err == nil {
		b.send(chatID, text, nil)
	}
}
