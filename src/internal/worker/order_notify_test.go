package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/repository"
	"shop-service/src/pkg/log"
)

type mockDatabase struct {
	db *sqlx.DB
}

func (d *mockDatabase) GetDB() (*sqlx.DB, error) {
	return d.db, nil
}

type fakeNotifier struct {
	orders []*entity.Order
	err    error
}

func (n *fakeNotifier) NotifyNewOrder(_ context.Context, order *entity.Order) error {
	n.orders = append(n.orders, order)
	return n.err
}

func newHandlerForTest(t *testing.T, notifier *fakeNotifier) (*OrderNotifyHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	logger := log.Log{AppName: "test", LogLevel: 3, Logger: l}

	handler := NewOrderNotifyHandler(
		logger,
		repository.NewOrderRepository(&mockDatabase{db: sqlx.NewDb(db, "sqlmock")}),
		notifier,
	)
	return handler, mock
}

func TestHandleOrderNotifyDeliversOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	handler, mock := newHandlerForTest(t, notifier)

	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("AB12CD34").
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "user_id", "referrer_id", "product_name", "unit_price",
			"weight", "total", "city", "status", "created_at", "processed_at",
		}).AddRow("AB12CD34", "buyer", nil, "Arabica", 100.0, 2.0, 200.0, "Riga", entity.OrderStatusPending, time.Now(), nil))

	task, err := NewOrderNotifyTask("AB12CD34")
	require.NoError(t, err)

	require.NoError(t, handler.HandleOrderNotify(context.Background(), task))
	require.Len(t, notifier.orders, 1)
	assert.Equal(t, "AB12CD34", notifier.orders[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderNotifySkipsRetryOnBadPayload(t *testing.T) {
	handler, _ := newHandlerForTest(t, &fakeNotifier{})

	task := asynq.NewTask(TypeOrderNotify, []byte("{broken"))
	err := handler.HandleOrderNotify(context.Background(), task)

	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleOrderNotifyDropsVanishedOrder(t *testing.T) {
	notifier := &fakeNotifier{}
	handler, mock := newHandlerForTest(t, notifier)

	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("MISSING1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	task, err := NewOrderNotifyTask("MISSING1")
	require.NoError(t, err)

	require.NoError(t, handler.HandleOrderNotify(context.Background(), task))
	assert.Empty(t, notifier.orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderNotifyRetriesOnNotifierError(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram unavailable")}
	handler, mock := newHandlerForTest(t, notifier)

	mock.ExpectQuery("SELECT order_id, user_id, referrer_id").
		WithArgs("AB12CD34").
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "user_id", "referrer_id", "product_name", "unit_price",
			"weight", "total", "city", "status", "created_at", "processed_at",
		}).AddRow("AB12CD34", "buyer", nil, "Arabica", 100.0, 2.0, 200.0, "Riga", entity.OrderStatusPending, time.Now(), nil))

	task, err := NewOrderNotifyTask("AB12CD34")
	require.NoError(t, err)

	err = handler.HandleOrderNotify(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
