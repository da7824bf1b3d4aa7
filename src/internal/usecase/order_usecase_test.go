package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/gateway/messaging"
	"shop-service/src/internal/model"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/internal/repository"
)

func newOrderUseCaseForTest(t *testing.T) (*OrderUseCase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMockDB(t)
	logger := testLogger()
	cfg := testConfig(map[string]interface{}{"referral.percent": 0.5})

	uc := NewOrderUseCase(
		logger,
		validator.New(),
		db,
		repository.NewOrderRepository(db),
		repository.NewTeamRepository(db),
		cfg,
		messaging.NewOrderProducer(nil, logger),
		nil,
	)
	return uc, mock
}

func orderRows(orderID, userID, referrerID, status string, total float64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"order_id", "user_id", "referrer_id", "product_name", "unit_price",
		"weight", "total", "city", "status", "created_at", "processed_at",
	})
	var referrer interface{}
	if referrerID != "" {
		referrer = referrerID
	}
	rows.AddRow(orderID, userID, referrer, "Colombian", 100.0, total/100.0, total, "Riga", status, time.Now(), nil)
	return rows
}

func TestOrderPayCreditsFrozenReferrer(t *testing.T) {
	uc, mock := newOrderUseCaseForTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.OrderStatusPaid, sqlmock.AnyArg(), "AB12CD34", entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("AB12CD34").
		WillReturnRows(orderRows("AB12CD34", "buyer", "ref1", entity.OrderStatusPending, 200))
	mock.ExpectExec("UPDATE team_members SET total_earned").
		WithArgs(100.0, "ref1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := uc.Pay(context.Background(), "AB12CD34")
	require.Nil(t, result.Error)

	transition := result.Data.(*model.TransitionResponse)
	assert.Equal(t, entity.OrderStatusPaid, transition.Status)
	assert.Equal(t, 100.0, transition.Commission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPaySecondAttemptConflicts(t *testing.T) {
	uc, mock := newOrderUseCaseForTest(t)

	// the conditional update claims zero rows, the order already settled
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.OrderStatusPaid, sqlmock.AnyArg(), "AB12CD34", entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("AB12CD34").
		WillReturnRows(orderRows("AB12CD34", "buyer", "", entity.OrderStatusPaid, 200))
	mock.ExpectRollback()

	result := uc.Pay(context.Background(), "AB12CD34")
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 409, commonErr.Code)
	assert.Contains(t, commonErr.Message, "already processed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPayNoCommissionWhenReferrerLeftTeam(t *testing.T) {
	uc, mock := newOrderUseCaseForTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.OrderStatusPaid, sqlmock.AnyArg(), "AB12CD34", entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("AB12CD34").
		WillReturnRows(orderRows("AB12CD34", "buyer", "gone", entity.OrderStatusPending, 200))
	mock.ExpectExec("UPDATE team_members SET total_earned").
		WithArgs(100.0, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result := uc.Pay(context.Background(), "AB12CD34")
	require.Nil(t, result.Error)

	transition := result.Data.(*model.TransitionResponse)
	assert.Equal(t, 0.0, transition.Commission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCancelUnknownOrder(t *testing.T) {
	uc, mock := newOrderUseCaseForTest(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.OrderStatusCancelled, sqlmock.AnyArg(), "MISSING1", entity.OrderStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("MISSING1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))
	mock.ExpectRollback()

	result := uc.Cancel(context.Background(), "MISSING1")
	require.NotNil(t, result.Error)

	commonErr := result.Error.(*httpError.CommonError)
	assert.Equal(t, 404, commonErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateRetriesOnTokenCollision(t *testing.T) {
	uc, mock := newOrderUseCaseForTest(t)

	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := uc.Create(context.Background(), &model.CreateOrderRequest{
		UserID:      "buyer",
		ProductName: "Colombian",
		UnitPrice:   100,
		Weight:      2,
		Total:       200,
		City:        "Riga",
	})
	require.Nil(t, result.Error)

	order := result.Data.(*model.OrderResponse)
	assert.Len(t, order.OrderID, 8)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewOrderTokenFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := newOrderToken()
		assert.Len(t, token, 8)
		assert.Equal(t, strings.ToUpper(token), token)
		seen[token] = true
	}
	// uuid-derived tokens should not repeat over a small sample
	assert.Greater(t, len(seen), 95)
}
