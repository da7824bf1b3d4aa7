package usecase

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"shop-service/src/internal/model"
	"shop-service/src/pkg/log"
)

// mockDatabase wraps a sqlmock-backed connection behind the DBInterface the
// repositories expect.
type mockDatabase struct {
	db *sqlx.DB
}

func (d *mockDatabase) GetDB() (*sqlx.DB, error) {
	return d.db, nil
}

func newMockDB(t *testing.T) (*mockDatabase, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return &mockDatabase{db: sqlx.NewDb(db, "sqlmock")}, mock
}

func testLogger() log.Log {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return log.Log{AppName: "test", LogLevel: 3, Logger: l}
}

func testConfig(pairs map[string]interface{}) *viper.Viper {
	v := viper.New()
	for key, value := range pairs {
		v.Set(key, value)
	}
	return v
}

// fakeSessionStore is an in-memory SessionStore for exercising the purchase
// flow without redis.
type fakeSessionStore struct {
	sessions map[string]*model.PurchaseSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*model.PurchaseSession{}}
}

func (s *fakeSessionStore) Get(_ context.Context, userID string) (*model.PurchaseSession, error) {
	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) Save(_ context.Context, userID string, session *model.PurchaseSession) error {
	copied := *session
	s.sessions[userID] = &copied
	return nil
}

func (s *fakeSessionStore) Clear(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}
