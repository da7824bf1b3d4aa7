package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"shop-service/src/internal/model"
	"shop-service/src/internal/usecase"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

// AdminController groups the remaining operator operations: balance
// adjustment, catalog mutation and team management.
type AdminController struct {
	Log            log.Log
	AccountUseCase *usecase.AccountUseCase
	CatalogUseCase *usecase.CatalogUseCase
}

func NewAdminController(accountUseCase *usecase.AccountUseCase, catalogUseCase *usecase.CatalogUseCase, logger log.Log) *AdminController {
	return &AdminController{
		Log:            logger,
		AccountUseCase: accountUseCase,
		CatalogUseCase: catalogUseCase,
	}
}

func (c *AdminController) AdjustBalance(ctx *fiber.Ctx) error {
	request := new(model.AdjustBalanceRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.AdjustBalance", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(httpError.NewBadRequest(), ctx)
	}
	request.UserID = ctx.Params("userId")

	result := c.AccountUseCase.AdjustBalance(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Balance Adjusted", fiber.StatusOK, ctx)
}

func (c *AdminController) AddProduct(ctx *fiber.Ctx) error {
	request := new(model.AddProductRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.AddProduct", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(httpError.NewBadRequest(), ctx)
	}

	result := c.CatalogUseCase.Add(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Product Added", fiber.StatusCreated, ctx)
}

func (c *AdminController) RemoveProduct(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return utils.ResponseError(httpError.NewBadRequest(), ctx)
	}

	result := c.CatalogUseCase.Remove(ctx.Context(), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Product Removed", fiber.StatusOK, ctx)
}

func (c *AdminController) ListProducts(ctx *fiber.Ctx) error {
	result := c.CatalogUseCase.List(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Products", fiber.StatusOK, ctx)
}

func (c *AdminController) AddTeamMember(ctx *fiber.Ctx) error {
	result := c.AccountUseCase.AddTeamMember(ctx.Context(), ctx.Params("userId"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Team Member Added", fiber.StatusCreated, ctx)
}

func (c *AdminController) RemoveTeamMember(ctx *fiber.Ctx) error {
	result := c.AccountUseCase.RemoveTeamMember(ctx.Context(), ctx.Params("userId"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Team Member Removed", fiber.StatusOK, ctx)
}

func (c *AdminController) ListTeam(ctx *fiber.Ctx) error {
	result := c.AccountUseCase.ListTeam(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Team", fiber.StatusOK, ctx)
}
