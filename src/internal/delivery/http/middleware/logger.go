package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"shop-service/src/pkg/log"
)

func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		logger := log.GetLogger()
		logger.Info("http",
			fmt.Sprintf("%s %s -> %d (%s)", ctx.Method(), ctx.Path(), ctx.Response().StatusCode(), time.Since(start)),
			"request", ctx.IP())
		return err
	}
}
