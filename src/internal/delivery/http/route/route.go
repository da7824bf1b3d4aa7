package route

import (
	"github.com/gofiber/fiber/v2"

	"shop-service/src/internal/delivery/http"
	"shop-service/src/internal/delivery/http/middleware"
)

type RouteConfig struct {
	App                  *fiber.App
	OrderController      *http.OrderController
	WithdrawalController *http.WithdrawalController
	AdminController      *http.AdminController
	AuthMiddleware       fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupOperatorRoutes()
}

// SetupOperatorRoutes mounts the administrative surface. Every route below
// requires the configured operator token.
func (c *RouteConfig) SetupOperatorRoutes() {
	c.App.Use(c.AuthMiddleware)

	c.App.Post("/orders/v1/:id/pay", c.OrderController.Pay)
	c.App.Post("/orders/v1/:id/cancel", c.OrderController.Cancel)
	c.App.Get("/orders/v1/:id", c.OrderController.Get)
	c.App.Get("/orders/v1", c.OrderController.ListByStatus)
	c.App.Get("/users/v1/:userId/orders", c.OrderController.ListByUser)
	c.App.Get("/users/v1", c.OrderController.ListBuyers)

	c.App.Post("/withdrawals/v1/:id/approve", c.WithdrawalController.Approve)
	c.App.Post("/withdrawals/v1/:id/reject", c.WithdrawalController.Reject)
	c.App.Get("/withdrawals/v1", c.WithdrawalController.ListPending)
	c.App.Get("/users/v1/:userId/withdrawals", c.WithdrawalController.ListByUser)

	c.App.Post("/users/v1/:userId/balance", c.AdminController.AdjustBalance)

	c.App.Post("/products/v1", c.AdminController.AddProduct)
	c.App.Delete("/products/v1/:id", c.AdminController.RemoveProduct)
	c.App.Get("/products/v1", c.AdminController.ListProducts)

	c.App.Post("/team/v1/:userId", c.AdminController.AddTeamMember)
	c.App.Delete("/team/v1/:userId", c.AdminController.RemoveTeamMember)
	c.App.Get("/team/v1", c.AdminController.ListTeam)
}
