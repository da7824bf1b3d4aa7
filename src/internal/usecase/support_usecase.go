package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shop-service/src/internal/model"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

const supportReplyPrefix = "reply:"

// SupportUseCase routes support traffic between users and the operator. The
// reply target travels inside the correlation token echoed back by the
// operator's reply action; there is no shared slot to race on.
type SupportUseCase struct {
	Log      log.Log
	Validate *validator.Validate
}

func NewSupportUseCase(logger log.Log, validate *validator.Validate) *SupportUseCase {
	return &SupportUseCase{
		Log:      logger,
		Validate: validate,
	}
}

func (c *SupportUseCase) Forward(request *model.SupportMessageRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	result.Data = &model.SupportForward{
		UserID:     request.UserID,
		Text:       request.Text,
		ReplyToken: supportReplyPrefix + request.UserID,
	}
	return result
}

func (c *SupportUseCase) RouteReply(request *model.SupportReplyRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	userID, ok := strings.CutPrefix(request.ReplyToken, supportReplyPrefix)
	if !ok || userID == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "malformed reply token"
		result.Error = errObj
		return result
	}

	result.Data = &model.SupportDelivery{
		UserID: userID,
		Text:   request.Text,
	}
	return result
}
