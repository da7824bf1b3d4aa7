package usecase

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/src/internal/model"
	httpError "shop-service/src/pkg/http-error"
)

func TestSupportReplyTokenRoundtrip(t *testing.T) {
	uc := NewSupportUseCase(testLogger(), validator.New())

	forwarded := uc.Forward(&model.SupportMessageRequest{UserID: "42", Text: "where is my order?"})
	require.Nil(t, forwarded.Error)

	forward := forwarded.Data.(*model.SupportForward)
	assert.Equal(t, "reply:42", forward.ReplyToken)

	// the operator echoes the token back, nothing else identifies the target
	routed := uc.RouteReply(&model.SupportReplyRequest{ReplyToken: forward.ReplyToken, Text: "on its way"})
	require.Nil(t, routed.Error)

	delivery := routed.Data.(*model.SupportDelivery)
	assert.Equal(t, "42", delivery.UserID)
	assert.Equal(t, "on its way", delivery.Text)
}

func TestSupportRouteReplyRejectsMalformedToken(t *testing.T) {
	uc := NewSupportUseCase(testLogger(), validator.New())

	for _, token := range []string{"42", "reply:", "answer:42"} {
		result := uc.RouteReply(&model.SupportReplyRequest{ReplyToken: token, Text: "hi"})
		require.NotNil(t, result.Error, "token %q", token)

		commonErr := result.Error.(*httpError.CommonError)
		assert.Equal(t, 400, commonErr.Code)
	}
}
