package usecase

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/src/internal/gateway/messaging"
	"shop-service/src/internal/model"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/internal/repository"
)

func newPurchaseUseCaseForTest(t *testing.T, mode string) (*PurchaseUseCase, *fakeSessionStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	logger := testLogger()
	cfg := testConfig(map[string]interface{}{
		"purchase.mode":    mode,
		"referral.percent": 0.5,
	})
	sessions := newFakeSessionStore()

	orderUseCase := NewOrderUseCase(
		logger,
		validator.New(),
		db,
		repository.NewOrderRepository(db),
		repository.NewTeamRepository(db),
		cfg,
		messaging.NewOrderProducer(nil, logger),
		nil,
	)
	uc := NewPurchaseUseCase(
		logger,
		sessions,
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		orderUseCase,
		cfg,
	)
	return uc, sessions, mock
}

func productRows(id int64, name string, price float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price_per_gram"}).AddRow(id, name, price)
}

func errDuplicate() error {
	return &driver.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func TestOpenCatalogRequiresCity(t *testing.T) {
	uc, _, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)

	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "", "", "CODE", 100))

	result := uc.OpenCatalog(context.Background(), "u1")
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 400, commonErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnterWeightBounds(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"lower bound inclusive", "0.1", true},
		{"upper bound inclusive", "5", true},
		{"comma separator", "0,5", true},
		{"below lower bound", "0.0999", false},
		{"above upper bound", "5.01", false},
		{"not a number", "abc", false},
		{"negative", "-1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
			ctx := context.Background()

			_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
				State:       model.PurchaseStateChoosingAmount,
				ProductID:   7,
				ProductName: "Arabica",
				UnitPrice:   100,
			})
			if tc.ok {
				mock.ExpectQuery("SELECT user_id, city").
					WithArgs("u1").
					WillReturnRows(userRows("u1", "Riga", "", "CODE", 1000))
			}

			result := uc.EnterWeight(ctx, "u1", tc.input)
			if tc.ok {
				require.Nil(t, result.Error)
				prompt := result.Data.(*model.ConfirmPromptResponse)
				assert.Greater(t, prompt.Total, 0.0)
			} else {
				require.NotNil(t, result.Error)
				commonErr := result.Error.(*httpError.CommonError)
				assert.Equal(t, 400, commonErr.Code)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnterWeightExactFundsAccepted(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateChoosingAmount,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
	})
	// balance equals the total to the cent, still enough
	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "", "CODE", 250))

	result := uc.EnterWeight(ctx, "u1", "2.5")
	require.Nil(t, result.Error)

	prompt := result.Data.(*model.ConfirmPromptResponse)
	assert.Equal(t, 250.0, prompt.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnterWeightInsufficientFunds(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateChoosingAmount,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
	})
	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "", "CODE", 249.99))

	result := uc.EnterWeight(ctx, "u1", "2.5")
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 422, commonErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnterWeightPostpaidSkipsFundsCheck(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModePostpaid)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateChoosingAmount,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
	})
	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "", "CODE", 0))

	result := uc.EnterWeight(ctx, "u1", "2.5")
	require.Nil(t, result.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChooseProductWithoutSessionExpires(t *testing.T) {
	uc, _, _ := newPurchaseUseCaseForTest(t, PurchaseModeBalance)

	result := uc.ChooseProduct(context.Background(), "u1", 7)
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 410, commonErr.Code)
	assert.Equal(t, "session expired", commonErr.Message)
}

func TestChooseProductGoneKeepsState(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{State: model.PurchaseStateChoosingProduct})
	mock.ExpectQuery("SELECT id, name, price_per_gram").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	result := uc.ChooseProduct(ctx, "u1", 7)
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 404, commonErr.Code)

	// the flow stays at product choice so another pick still works
	session, err := sessions.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, model.PurchaseStateChoosingProduct, session.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmExpiresWhenProductRemoved(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateConfirming,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
		Weight:      2,
		Total:       200,
	})
	mock.ExpectQuery("SELECT id, name, price_per_gram").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	result := uc.Confirm(ctx, "u1")
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 410, commonErr.Code)

	session, err := sessions.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmDebitsAndCreatesOrder(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateConfirming,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
		Weight:      2,
		Total:       200,
	})
	mock.ExpectQuery("SELECT id, name, price_per_gram").
		WithArgs(int64(7)).
		WillReturnRows(productRows(7, "Arabica", 100))
	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "ref1", "CODE", 500))
	mock.ExpectExec("UPDATE users SET balance = balance - ").
		WithArgs(200.0, "u1", 200.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := uc.Confirm(ctx, "u1")
	require.Nil(t, result.Error)

	purchase := result.Data.(*model.PurchaseResultResponse)
	assert.Len(t, purchase.OrderID, 8)
	assert.Equal(t, 200.0, purchase.Total)

	session, err := sessions.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmRefundsWhenOrderInsertFails(t *testing.T) {
	uc, sessions, mock := newPurchaseUseCaseForTest(t, PurchaseModeBalance)
	ctx := context.Background()

	_ = sessions.Save(ctx, "u1", &model.PurchaseSession{
		State:       model.PurchaseStateConfirming,
		ProductID:   7,
		ProductName: "Arabica",
		UnitPrice:   100,
		Weight:      2,
		Total:       200,
	})
	mock.ExpectQuery("SELECT id, name, price_per_gram").
		WithArgs(int64(7)).
		WillReturnRows(productRows(7, "Arabica", 100))
	mock.ExpectQuery("SELECT user_id, city").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "Riga", "", "CODE", 500))
	mock.ExpectExec("UPDATE users SET balance = balance - ").
		WithArgs(200.0, "u1", 200.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// five insert attempts, all colliding, then the refund
	for i := 0; i < 5; i++ {
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(errDuplicate())
	}
	mock.ExpectExec(`UPDATE users SET balance = balance \+ `).
		WithArgs(200.0, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := uc.Confirm(ctx, "u1")
	require.NotNil(t, result.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
