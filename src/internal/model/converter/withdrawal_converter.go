package converter

import (
	"shop-service/src/internal/entity"
	"shop-service/src/internal/model"
)

func WithdrawalToResponse(w *entity.Withdrawal) *model.WithdrawalResponse {
	return &model.WithdrawalResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Amount:      w.Amount,
		Status:      w.Status,
		CreatedAt:   w.CreatedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

func WithdrawalsToResponse(withdrawals []entity.Withdrawal) []model.WithdrawalResponse {
	responses := make([]model.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		responses = append(responses, *WithdrawalToResponse(&withdrawals[i]))
	}
	return responses
}

func TeamMemberToResponse(m *entity.TeamMember) *model.TeamMemberResponse {
	return &model.TeamMemberResponse{
		UserID:      m.UserID,
		TotalEarned: m.TotalEarned,
		Withdrawn:   m.Withdrawn,
		Profit:      m.Profit(),
	}
}
