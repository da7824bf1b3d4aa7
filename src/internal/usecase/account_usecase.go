package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"shop-service/src/internal/model"
	"shop-service/src/internal/model/converter"
	"shop-service/src/internal/repository"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

type AccountUseCase struct {
	Log            log.Log
	Validate       *validator.Validate
	UserRepository *repository.UserRepository
	TeamRepository *repository.TeamRepository
}

func NewAccountUseCase(
	logger log.Log,
	validate *validator.Validate,
	userRepository *repository.UserRepository,
	teamRepository *repository.TeamRepository,
) *AccountUseCase {
	return &AccountUseCase{
		Log:            logger,
		Validate:       validate,
		UserRepository: userRepository,
		TeamRepository: teamRepository,
	}
}

// ReferralCode derives a short deterministic invite code from the user id.
// Deliberately non-cryptographic; collisions across a large population are
// an accepted non-goal.
func ReferralCode(userID string) string {
	h := fnv.New64a()
	h.Write([]byte(userID))
	code := strconv.FormatUint(h.Sum64(), 36)
	if len(code) > 8 {
		code = code[:8]
	}
	return strings.ToUpper(code)
}

// Start registers the user on first contact and, when an invite code is
// present, links the referrer once. The linkage never changes afterwards.
func (c *AccountUseCase) Start(ctx context.Context, request *model.StartRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("account-usecase", errObj.Message, "Start", utils.ConvertString(err))
		return result
	}

	if err := c.UserRepository.EnsureUser(ctx, request.UserID, ReferralCode(request.UserID)); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("ensure user: %v", err), "Start", request.UserID)
		return result
	}

	if request.ReferralCode != "" {
		referrer, err := c.UserRepository.FindByReferralCode(ctx, request.ReferralCode)
		if err != nil {
			result.Error = httpError.NewInternalServer()
			c.Log.Error("account-usecase", fmt.Sprintf("find referrer: %v", err), "Start", request.ReferralCode)
			return result
		}
		if referrer != nil && referrer.UserID != request.UserID {
			linked, err := c.UserRepository.LinkReferrer(ctx, request.UserID, referrer.UserID)
			if err != nil {
				result.Error = httpError.NewInternalServer()
				c.Log.Error("account-usecase", fmt.Sprintf("link referrer: %v", err), "Start", request.UserID)
				return result
			}
			if linked {
				c.Log.Info("account-usecase",
					fmt.Sprintf("user %s linked to referrer %s", request.UserID, referrer.UserID), "Start", "")
			}
		}
	}

	return c.Profile(ctx, request.UserID)
}

func (c *AccountUseCase) Profile(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	user, err := c.UserRepository.FindByID(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("find user: %v", err), "Profile", userID)
		return result
	}
	if user == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("user %s not found", userID)
		result.Error = errObj
		return result
	}

	result.Data = &model.ProfileResponse{
		UserID:       user.UserID,
		City:         user.City.String,
		Balance:      user.Balance,
		ReferralCode: user.ReferralCode,
	}
	return result
}

func (c *AccountUseCase) SetCity(ctx context.Context, request *model.SetCityRequest) utils.Result {
	var result utils.Result

	request.City = strings.TrimSpace(request.City)
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = "city must not be empty"
		result.Error = errObj
		return result
	}

	if err := c.UserRepository.SetCity(ctx, request.UserID, request.City); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("set city: %v", err), "SetCity", request.UserID)
		return result
	}

	return c.Profile(ctx, request.UserID)
}

// AdjustBalance is the operator's relative balance adjustment.
func (c *AccountUseCase) AdjustBalance(ctx context.Context, request *model.AdjustBalanceRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	if err := c.UserRepository.EnsureUser(ctx, request.UserID, ReferralCode(request.UserID)); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("ensure user: %v", err), "AdjustBalance", request.UserID)
		return result
	}

	if err := c.UserRepository.AddBalance(ctx, request.UserID, request.Amount); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("add balance: %v", err), "AdjustBalance", request.UserID)
		return result
	}

	return c.Profile(ctx, request.UserID)
}

// AddTeamMember grants referral eligibility. Idempotent.
func (c *AccountUseCase) AddTeamMember(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	if err := c.UserRepository.EnsureUser(ctx, userID, ReferralCode(userID)); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("ensure user: %v", err), "AddTeamMember", userID)
		return result
	}

	if err := c.TeamRepository.Add(ctx, userID); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("add member: %v", err), "AddTeamMember", userID)
		return result
	}

	return c.TeamProfile(ctx, userID)
}

// RemoveTeamMember revokes future eligibility.
func (c *AccountUseCase) RemoveTeamMember(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	removed, err := c.TeamRepository.Remove(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("remove member: %v", err), "RemoveTeamMember", userID)
		return result
	}
	if !removed {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("team member %s not found", userID)
		result.Error = errObj
		return result
	}

	result.Data = userID
	return result
}

func (c *AccountUseCase) TeamProfile(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	member, err := c.TeamRepository.FindByID(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("find member: %v", err), "TeamProfile", userID)
		return result
	}
	if member == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("team member %s not found", userID)
		result.Error = errObj
		return result
	}

	result.Data = converter.TeamMemberToResponse(member)
	return result
}

func (c *AccountUseCase) ListTeam(ctx context.Context) utils.Result {
	var result utils.Result

	members, err := c.TeamRepository.List(ctx)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("account-usecase", fmt.Sprintf("list team: %v", err), "ListTeam", "")
		return result
	}

	responses := make([]model.TeamMemberResponse, 0, len(members))
	for i := range members {
		responses = append(responses, *converter.TeamMemberToResponse(&members[i]))
	}
	result.Data = responses
	return result
}
