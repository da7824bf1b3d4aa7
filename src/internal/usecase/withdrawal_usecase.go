package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/gateway/messaging"
	"shop-service/src/internal/model"
	"shop-service/src/internal/model/converter"
	"shop-service/src/internal/repository"
	"shop-service/src/pkg/databases/mysql"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

type WithdrawalUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	DB                   mysql.DBInterface
	WithdrawalRepository *repository.WithdrawalRepository
	TeamRepository       *repository.TeamRepository
	Config               *viper.Viper
	WithdrawalProducer   *messaging.WithdrawalProducer
}

func NewWithdrawalUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	withdrawalRepository *repository.WithdrawalRepository,
	teamRepository *repository.TeamRepository,
	cfg *viper.Viper,
	withdrawalProducer *messaging.WithdrawalProducer,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		Log:                  logger,
		Validate:             validate,
		DB:                   db,
		WithdrawalRepository: withdrawalRepository,
		TeamRepository:       teamRepository,
		Config:               cfg,
		WithdrawalProducer:   withdrawalProducer,
	}
}

// Request validates against the profit still unreserved by other pending
// withdrawals, so several requests cannot jointly promise more than the
// member has earned.
func (c *WithdrawalUseCase) Request(ctx context.Context, request *model.WithdrawalRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("withdrawal-usecase", errObj.Message, "Request", utils.ConvertString(err))
		return result
	}

	minAmount := c.Config.GetFloat64("withdrawal.min_amount")
	if request.Amount < minAmount {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("minimum withdrawal amount is %.2f", minAmount)
		result.Error = errObj
		return result
	}

	member, err := c.TeamRepository.FindByID(ctx, request.UserID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("find member: %v", err), "Request", request.UserID)
		return result
	}
	if member == nil {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "not a team member"
		result.Error = errObj
		return result
	}

	reserved, err := c.WithdrawalRepository.SumPendingByUser(ctx, request.UserID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("sum pending: %v", err), "Request", request.UserID)
		return result
	}

	available := member.Profit() - reserved
	if request.Amount > available {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = fmt.Sprintf("insufficient profit: available %.2f, requested %.2f", available, request.Amount)
		result.Error = errObj
		return result
	}

	withdrawal := &entity.Withdrawal{
		ID:        uuid.NewString(),
		UserID:    request.UserID,
		Amount:    request.Amount,
		Status:    entity.WithdrawalStatusPending,
		CreatedAt: time.Now(),
	}
	if err := c.WithdrawalRepository.Insert(ctx, withdrawal); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("insert withdrawal: %v", err), "Request", request.UserID)
		return result
	}

	if err := c.WithdrawalProducer.SendRequested(&model.WithdrawalRequestedEvent{
		ID:     withdrawal.ID,
		UserID: withdrawal.UserID,
		Amount: withdrawal.Amount,
	}); err != nil {
		c.Log.Warn("withdrawal-usecase", fmt.Sprintf("failed to publish withdrawal-requested: %v", err), "Request", withdrawal.ID)
	}

	result.Data = converter.WithdrawalToResponse(withdrawal)
	return result
}

// Approve flips the record and moves the withdrawn counter in one
// transaction. The counter update itself re-checks withdrawn <= total_earned;
// a failed check rolls the approval back instead of overdrawing.
func (c *WithdrawalUseCase) Approve(ctx context.Context, id string) utils.Result {
	var result utils.Result

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServer()
		return result
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("begin tx: %v", err), "Approve", id)
		return result
	}
	defer tx.Rollback()

	claimed, err := c.WithdrawalRepository.TransitionTx(ctx, tx, id, entity.WithdrawalStatusApproved, time.Now())
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("transition: %v", err), "Approve", id)
		return result
	}
	if !claimed {
		result.Error = c.transitionFailure(ctx, id)
		return result
	}

	withdrawal, err := c.WithdrawalRepository.FindByID(ctx, id)
	if err != nil || withdrawal == nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("read claimed withdrawal: %v", err), "Approve", id)
		return result
	}

	moved, err := c.TeamRepository.AddWithdrawnTx(ctx, tx, withdrawal.UserID, withdrawal.Amount)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("add withdrawn: %v", err), "Approve", id)
		return result
	}
	if !moved {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "approval would exceed earned commission"
		result.Error = errObj
		return result
	}

	if err := tx.Commit(); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("commit: %v", err), "Approve", id)
		return result
	}

	if err := c.WithdrawalProducer.SendProcessed(&model.WithdrawalProcessedEvent{
		ID:     id,
		Status: entity.WithdrawalStatusApproved,
	}); err != nil {
		c.Log.Warn("withdrawal-usecase", fmt.Sprintf("failed to publish withdrawal-processed: %v", err), "Approve", id)
	}

	result.Data = &model.WithdrawalResponse{
		ID:     id,
		UserID: withdrawal.UserID,
		Amount: withdrawal.Amount,
		Status: entity.WithdrawalStatusApproved,
	}
	return result
}

// Reject flips the record only. No counter moves.
func (c *WithdrawalUseCase) Reject(ctx context.Context, id string) utils.Result {
	var result utils.Result

	db, err := c.DB.GetDB()
	if err != nil {
		result.Error = httpError.NewInternalServer()
		return result
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("begin tx: %v", err), "Reject", id)
		return result
	}
	defer tx.Rollback()

	claimed, err := c.WithdrawalRepository.TransitionTx(ctx, tx, id, entity.WithdrawalStatusRejected, time.Now())
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("transition: %v", err), "Reject", id)
		return result
	}
	if !claimed {
		result.Error = c.transitionFailure(ctx, id)
		return result
	}

	if err := tx.Commit(); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("commit: %v", err), "Reject", id)
		return result
	}

	if err := c.WithdrawalProducer.SendProcessed(&model.WithdrawalProcessedEvent{
		ID:     id,
		Status: entity.WithdrawalStatusRejected,
	}); err != nil {
		c.Log.Warn("withdrawal-usecase", fmt.Sprintf("failed to publish withdrawal-processed: %v", err), "Reject", id)
	}

	result.Data = &model.WithdrawalResponse{
		ID:     id,
		Status: entity.WithdrawalStatusRejected,
	}
	return result
}

func (c *WithdrawalUseCase) transitionFailure(ctx context.Context, id string) *httpError.CommonError {
	withdrawal, err := c.WithdrawalRepository.FindByID(ctx, id)
	if err != nil {
		return httpError.NewInternalServer()
	}
	if withdrawal == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("withdrawal %s not found", id)
		return errObj
	}
	errObj := httpError.NewConflict()
	errObj.Message = fmt.Sprintf("withdrawal %s already processed (status %s)", id, withdrawal.Status)
	return errObj
}

func (c *WithdrawalUseCase) ListByUser(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	withdrawals, err := c.WithdrawalRepository.ListByUser(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("list withdrawals: %v", err), "ListByUser", userID)
		return result
	}

	result.Data = converter.WithdrawalsToResponse(withdrawals)
	return result
}

func (c *WithdrawalUseCase) ListPending(ctx context.Context) utils.Result {
	var result utils.Result

	withdrawals, err := c.WithdrawalRepository.ListByStatus(ctx, entity.WithdrawalStatusPending)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("withdrawal-usecase", fmt.Sprintf("list pending: %v", err), "ListPending", "")
		return result
	}

	result.Data = converter.WithdrawalsToResponse(withdrawals)
	return result
}
