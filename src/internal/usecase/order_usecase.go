package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/viper"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/gateway/messaging"
	"shop-service/src/internal/model"
	"shop-service/src/internal/model/converter"
	"shop-service/src/internal/repository"
	"shop-service/src/internal/worker"
	"shop-service/src/pkg/databases/mysql"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

const orderTokenAttempts = 5

type OrderUseCase struct {
	Log             log.Log
	Validate        *validator.Validate
	DB              mysql.DBInterface
	OrderRepository *repository.OrderRepository
	TeamRepository  *repository.TeamRepository
	Config          *viper.Viper
	OrderProducer   *messaging.OrderProducer
	AsynqClient     *asynq.Client
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	orderRepository *repository.OrderRepository,
	teamRepository *repository.TeamRepository,
	cfg *viper.Viper,
	orderProducer *messaging.OrderProducer,
	asynqClient *asynq.Client,
) *OrderUseCase {
	return &OrderUseCase{
		Log:             logger,
		Validate:        validate,
		DB:              db,
		OrderRepository: orderRepository,
		TeamRepository:  teamRepository,
		Config:          cfg,
		OrderProducer:   orderProducer,
		AsynqClient:     asynqClient,
	}
}

// newOrderToken derives a short order id from a uuid, as shown to users and
// the operator.
func newOrderToken() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create persists a pending order with its frozen snapshot. Token collisions
// are resolved by regenerating, never by overwriting an existing record.
func (c *OrderUseCase) Create(ctx context.Context, request *model.CreateOrderRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("order-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return result
	}

	order := &entity.Order{
		UserID:      request.UserID,
		ReferrerID:  toNullString(request.ReferrerID),
		ProductName: request.ProductName,
		UnitPrice:   request.UnitPrice,
		Weight:      request.Weight,
		Total:       request.Total,
		City:        request.City,
		Status:      entity.OrderStatusPending,
		CreatedAt:   time.Now(),
	}

	var insertErr error
	for attempt := 0; attempt < orderTokenAttempts; attempt++ {
		order.OrderID = newOrderToken()
		insertErr = c.OrderRepository.Insert(ctx, order)
		if insertErr != repository.ErrDuplicateOrderID {
			break
		}
	}
	if insertErr != nil {
		errObj := httpError.NewInternalServer()
		result.Error = errObj
		c.Log.Error("order-usecase", fmt.Sprintf("failed to insert order: %v", insertErr), "Create", "")
		return result
	}

	if err := c.OrderProducer.SendCreated(converter.OrderToCreatedEvent(order)); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("failed to publish order-created: %v", err), "Create", order.OrderID)
	}
	c.enqueueNotify(order.OrderID)

	result.Data = converter.OrderToResponse(order)
	return result
}

func (c *OrderUseCase) enqueueNotify(orderID string) {
	if c.AsynqClient == nil {
		return
	}
	task, err := worker.NewOrderNotifyTask(orderID)
	if err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("failed to build notify task: %v", err), "enqueueNotify", orderID)
		return
	}
	if _, err := c.AsynqClient.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("failed to enqueue notify task: %v", err), "enqueueNotify", orderID)
	}
}

// Pay settles a pending order. The status flip and the referral credit are
// one transaction: if crediting fails the transition rolls back and may be
// retried by the operator.
func (c *OrderUseCase) Pay(ctx context.Context, orderID string) utils.Result {
	var result utils.Result

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServer()
		return result
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("begin tx: %v", err), "Pay", orderID)
		return result
	}
	defer tx.Rollback()

	claimed, err := c.OrderRepository.TransitionTx(ctx, tx, orderID, entity.OrderStatusPaid, time.Now())
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("transition: %v", err), "Pay", orderID)
		return result
	}
	if !claimed {
		result.Error = c.transitionFailure(ctx, orderID)
		return result
	}

	order, err := c.OrderRepository.FindByIDTx(ctx, tx, orderID)
	if err != nil || order == nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("read claimed order: %v", err), "Pay", orderID)
		return result
	}

	// commission goes to the referrer frozen on the order, not whoever the
	// buyer's referrer is now
	commission := 0.0
	if order.ReferrerID.Valid && order.ReferrerID.String != "" {
		amount := utils.Round2(order.Total * c.Config.GetFloat64("referral.percent"))
		credited, err := c.TeamRepository.CreditEarnedTx(ctx, tx, order.ReferrerID.String, amount)
		if err != nil {
			result.Error = httpError.NewInternalServer()
			c.Log.Error("order-usecase", fmt.Sprintf("credit referrer: %v", err), "Pay", orderID)
			return result
		}
		if credited {
			commission = amount
		}
	}

	if err := tx.Commit(); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("commit: %v", err), "Pay", orderID)
		return result
	}

	if err := c.OrderProducer.SendPaid(&model.OrderPaidEvent{OrderID: orderID, Commission: commission}); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("failed to publish order-paid: %v", err), "Pay", orderID)
	}

	result.Data = &model.TransitionResponse{
		OrderID:    orderID,
		Status:     entity.OrderStatusPaid,
		Commission: commission,
	}
	return result
}

// Cancel voids a pending order. No balance or commission effect.
func (c *OrderUseCase) Cancel(ctx context.Context, orderID string) utils.Result {
	var result utils.Result

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServer()
		return result
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("begin tx: %v", err), "Cancel", orderID)
		return result
	}
	defer tx.Rollback()

	claimed, err := c.OrderRepository.TransitionTx(ctx, tx, orderID, entity.OrderStatusCancelled, time.Now())
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("transition: %v", err), "Cancel", orderID)
		return result
	}
	if !claimed {
		result.Error = c.transitionFailure(ctx, orderID)
		return result
	}

	if err := tx.Commit(); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("commit: %v", err), "Cancel", orderID)
		return result
	}

	if err := c.OrderProducer.SendCancelled(&model.OrderCancelledEvent{OrderID: orderID}); err != nil {
		c.Log.Warn("order-usecase", fmt.Sprintf("failed to publish order-cancelled: %v", err), "Cancel", orderID)
	}

	result.Data = &model.TransitionResponse{
		OrderID: orderID,
		Status:  entity.OrderStatusCancelled,
	}
	return result
}

// transitionFailure distinguishes an unknown order from one already claimed
// by a racing operator action.
func (c *OrderUseCase) transitionFailure(ctx context.Context, orderID string) *httpError.CommonError {
	order, err := c.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		return httpError.NewInternalServer()
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", orderID)
		return errObj
	}
	errObj := httpError.NewConflict()
	errObj.Message = fmt.Sprintf("order %s already processed (status %s)", orderID, order.Status)
	return errObj
}

func (c *OrderUseCase) GetByID(ctx context.Context, orderID string) utils.Result {
	var result utils.Result

	order, err := c.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("find order: %v", err), "GetByID", orderID)
		return result
	}
	if order == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("order %s not found", orderID)
		result.Error = errObj
		return result
	}

	result.Data = converter.OrderToResponse(order)
	return result
}

func (c *OrderUseCase) ListByUser(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	orders, err := c.OrderRepository.ListByUser(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("list orders: %v", err), "ListByUser", userID)
		return result
	}

	result.Data = converter.OrdersToResponse(orders)
	return result
}

func (c *OrderUseCase) ListByStatus(ctx context.Context, status string) utils.Result {
	var result utils.Result

	switch status {
	case entity.OrderStatusPending, entity.OrderStatusPaid, entity.OrderStatusCancelled:
	default:
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("unknown order status %q", status)
		result.Error = errObj
		return result
	}

	orders, err := c.OrderRepository.ListByStatus(ctx, status)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("list orders: %v", err), "ListByStatus", status)
		return result
	}

	result.Data = converter.OrdersToResponse(orders)
	return result
}

func (c *OrderUseCase) ListBuyers(ctx context.Context) utils.Result {
	var result utils.Result

	userIDs, err := c.OrderRepository.ListUserIDs(ctx)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("order-usecase", fmt.Sprintf("list buyers: %v", err), "ListBuyers", "")
		return result
	}

	result.Data = userIDs
	return result
}
