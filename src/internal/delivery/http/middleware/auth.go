package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/utils"
)

// VerifyOperator admits exactly one configured operator identity. Anything
// else gets a generic refusal, never a hint.
func VerifyOperator(v *viper.Viper) fiber.Handler {
	token := v.GetString("web.admin_token")

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return utils.ResponseError(httpError.NewUnauthorized(), ctx)
		}
		return ctx.Next()
	}
}
