package utils

import (
	"github.com/gofiber/fiber/v2"

	httpError "shop-service/src/pkg/http-error"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(apiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseError(err interface{}, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(apiResponse{
			Success: false,
			Message: commonErr.Message,
		})
	}
	if stdErr, ok := err.(error); ok {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apiResponse{
			Success: false,
			Message: stdErr.Error(),
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(apiResponse{
		Success: false,
		Message: "internal server error",
	})
}
