package http

import (
	"github.com/gofiber/fiber/v2"

	"shop-service/src/internal/usecase"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

type WithdrawalController struct {
	Log     log.Log
	UseCase *usecase.WithdrawalUseCase
}

func NewWithdrawalController(useCase *usecase.WithdrawalUseCase, logger log.Log) *WithdrawalController {
	return &WithdrawalController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *WithdrawalController) Approve(ctx *fiber.Ctx) error {
	result := c.UseCase.Approve(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Withdrawal Approved", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) Reject(ctx *fiber.Ctx) error {
	result := c.UseCase.Reject(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Withdrawal Rejected", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) ListPending(ctx *fiber.Ctx) error {
	result := c.UseCase.ListPending(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Pending Withdrawals", fiber.StatusOK, ctx)
}

func (c *WithdrawalController) ListByUser(ctx *fiber.Ctx) error {
	result := c.UseCase.ListByUser(ctx.Context(), ctx.Params("userId"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Withdrawals By User", fiber.StatusOK, ctx)
}
