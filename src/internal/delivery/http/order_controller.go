package http

import (
	"github.com/gofiber/fiber/v2"

	"shop-service/src/internal/usecase"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

type OrderController struct {
	Log     log.Log
	UseCase *usecase.OrderUseCase
}

func NewOrderController(useCase *usecase.OrderUseCase, logger log.Log) *OrderController {
	return &OrderController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *OrderController) Pay(ctx *fiber.Ctx) error {
	result := c.UseCase.Pay(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Paid", fiber.StatusOK, ctx)
}

func (c *OrderController) Cancel(ctx *fiber.Ctx) error {
	result := c.UseCase.Cancel(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Cancelled", fiber.StatusOK, ctx)
}

func (c *OrderController) Get(ctx *fiber.Ctx) error {
	result := c.UseCase.GetByID(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order", fiber.StatusOK, ctx)
}

func (c *OrderController) ListByUser(ctx *fiber.Ctx) error {
	result := c.UseCase.ListByUser(ctx.Context(), ctx.Params("userId"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders By User", fiber.StatusOK, ctx)
}

func (c *OrderController) ListByStatus(ctx *fiber.Ctx) error {
	result := c.UseCase.ListByStatus(ctx.Context(), ctx.Query("status", "pending"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders By Status", fiber.StatusOK, ctx)
}

func (c *OrderController) ListBuyers(ctx *fiber.Ctx) error {
	result := c.UseCase.ListBuyers(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Buyers", fiber.StatusOK, ctx)
}
