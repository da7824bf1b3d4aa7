package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/src/internal/model"
	"shop-service/src/internal/repository"
)

func newAccountUseCaseForTest(t *testing.T) (*AccountUseCase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	uc := NewAccountUseCase(
		testLogger(),
		validator.New(),
		repository.NewUserRepository(db),
		repository.NewTeamRepository(db),
	)
	return uc, mock
}

func userRows(userID, city, referrerID, code string, balance float64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"user_id", "city", "referrer_id", "referral_code", "balance", "created_at"})
	var cityVal, referrerVal interface{}
	if city != "" {
		cityVal = city
	}
	if referrerID != "" {
		referrerVal = referrerID
	}
	rows.AddRow(userID, cityVal, referrerVal, code, balance, time.Now())
	return rows
}

func TestReferralCodeIsDeterministic(t *testing.T) {
	first := ReferralCode("123456789")
	second := ReferralCode("123456789")
	other := ReferralCode("987654321")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.LessOrEqual(t, len(first), 8)
	assert.NotEmpty(t, first)
	assert.Equal(t, strings.ToUpper(first), first)
}

func TestStartLinksReferrerFromInviteCode(t *testing.T) {
	uc, mock := newAccountUseCaseForTest(t)

	mock.ExpectExec("INSERT IGNORE INTO users").
		WithArgs("new-user", ReferralCode("new-user"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT user_id, city, referrer_id, referral_code, balance").
		WithArgs("INVITE1").
		WillReturnRows(userRows("ref1", "", "", "INVITE1", 0))
	mock.ExpectExec("UPDATE users SET referrer_id").
		WithArgs("ref1", "new-user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT user_id, city, referrer_id, referral_code, balance").
		WithArgs("new-user").
		WillReturnRows(userRows("new-user", "", "ref1", ReferralCode("new-user"), 0))

	result := uc.Start(context.Background(), &model.StartRequest{UserID: "new-user", ReferralCode: "INVITE1"})
	require.Nil(t, result.Error)

	profile := result.Data.(*model.ProfileResponse)
	assert.Equal(t, "new-user", profile.UserID)
	assert.Equal(t, ReferralCode("new-user"), profile.ReferralCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartIgnoresOwnInviteCode(t *testing.T) {
	uc, mock := newAccountUseCaseForTest(t)
	code := ReferralCode("selfish")

	// resolving one's own code must not attempt a linkage
	mock.ExpectExec("INSERT IGNORE INTO users").
		WithArgs("selfish", code, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT user_id, city, referrer_id, referral_code, balance").
		WithArgs(code).
		WillReturnRows(userRows("selfish", "", "", code, 0))
	mock.ExpectQuery("SELECT user_id, city, referrer_id, referral_code, balance").
		WithArgs("selfish").
		WillReturnRows(userRows("selfish", "", "", code, 0))

	result := uc.Start(context.Background(), &model.StartRequest{UserID: "selfish", ReferralCode: code})
	require.Nil(t, result.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCityRejectsBlankInput(t *testing.T) {
	uc, _ := newAccountUseCaseForTest(t)

	result := uc.SetCity(context.Background(), &model.SetCityRequest{UserID: "u1", City: "   "})
	require.NotNil(t, result.Error)
}

func TestAdjustBalanceEnsuresAccountFirst(t *testing.T) {
	uc, mock := newAccountUseCaseForTest(t)

	mock.ExpectExec("INSERT IGNORE INTO users").
		WithArgs("u1", ReferralCode("u1"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE users SET balance").
		WithArgs(150.0, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT user_id, city, referrer_id, referral_code, balance").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "", ReferralCode("u1"), 150))

	result := uc.AdjustBalance(context.Background(), &model.AdjustBalanceRequest{UserID: "u1", Amount: 150})
	require.Nil(t, result.Error)

	profile := result.Data.(*model.ProfileResponse)
	assert.Equal(t, 150.0, profile.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
