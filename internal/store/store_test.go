package store

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealsense/internal/crypto"
	"mealsense/internal/models"
)

func sampleAccount() *models.Account {
	return &models.Account{
		Username:     "lan",
		PasswordHash: "hash",
		Profile:      &models.Profile{Name: "Lan", Age: 30, TargetCalories: 1546, Goal: models.GoalReduce},
		FoodLog: []models.MealRecord{
			{ID: "m1", Timestamp: "2025-03-10T08:00:00+07:00", Date: "2025-03-10", MealName: "Pho bo", Calories: 450},
		},
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx, "lan")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, sampleAccount()))
	got, err := s.Load(ctx, "lan")
	require.NoError(t, err)
	assert.Equal(t, sampleAccount(), got)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	acc := sampleAccount()
	require.NoError(t, s.Save(ctx, acc))

	acc.FoodLog = append(acc.FoodLog, models.MealRecord{ID: "m2"})
	got, err := s.Load(ctx, "lan")
	require.NoError(t, err)
	got.Profile.Name = "changed"

	again, err := s.Load(ctx, "lan")
	require.NoError(t, err)
	assert.Len(t, again.FoodLog, 1)
	assert.Equal(t, "Lan", again.Profile.Name)
}

func TestMemoryStore_EmptyLogIsNotNull(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	acc := &models.Account{Username: "minh"}
	require.NoError(t, s.Save(ctx, acc))
	assert.Nil(t, acc.FoodLog, "saving must not modify the caller's account")

	got, err := s.Load(ctx, "minh")
	require.NoError(t, err)
	assert.NotNil(t, got.FoodLog)
	assert.Empty(t, got.FoodLog)
}

func newPostgresWithMock(t *testing.T, cipher *crypto.EncryptionService) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "pgx"), cipher), mock
}

const (
	selectQ = `(?s)^SELECT\s+payload,\s*encrypted\s+FROM\s+accounts\s+WHERE\s+username=\$1$`
	upsertQ = `(?s)^INSERT\s+INTO\s+accounts\s*\(username,\s*payload,\s*encrypted,\s*updated_at\).*ON\s+CONFLICT\s*\(username\)`
)

func TestPostgresStore_LoadNotFound(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	mock.ExpectQuery(selectQ).WithArgs("lan").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "encrypted"}))

	_, err := s.Load(context.Background(), "lan")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadPlain(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	payload := `{"username":"lan","password_hash":"hash","profile":null,"food_log":[{"id":"m1","timestamp":"t","date":"2025-03-10","meal_name":"Com tam","calories":600,"description":"","nutrition_analysis":""}]}`
	mock.ExpectQuery(selectQ).WithArgs("lan").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "encrypted"}).AddRow(payload, false))

	got, err := s.Load(context.Background(), "lan")
	require.NoError(t, err)
	assert.Equal(t, "lan", got.Username)
	require.Len(t, got.FoodLog, 1)
	assert.Equal(t, 600, got.FoodLog[0].Calories)
	assert.Nil(t, got.Profile)
}

func TestPostgresStore_LoadDBError(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	mock.ExpectQuery(selectQ).WithArgs("lan").WillReturnError(errors.New("db down"))

	_, err := s.Load(context.Background(), "lan")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestPostgresStore_SavePlain(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	mock.ExpectExec(upsertQ).
		WithArgs("lan", sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), sampleAccount()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveDBError(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	mock.ExpectExec(upsertQ).WillReturnError(errors.New("constraint"))

	err := s.Save(context.Background(), sampleAccount())
	assert.ErrorContains(t, err, "save account")
}

// capturePayload records the sealed payload handed to the driver.
type capturePayload struct{ value string }

func (c *capturePayload) Match(v driver.Value) bool {
	s, ok := v.(string)
	c.value = s
	return ok
}

func TestPostgresStore_EncryptedRoundTrip(t *testing.T) {
	cipher, err := crypto.NewEncryptionService(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)
	s, mock := newPostgresWithMock(t, cipher)

	captured := &capturePayload{}
	mock.ExpectExec(upsertQ).
		WithArgs("lan", captured, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(context.Background(), sampleAccount()))
	assert.NotContains(t, captured.value, "Pho bo")

	mock.ExpectQuery(selectQ).WithArgs("lan").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "encrypted"}).AddRow(captured.value, true))
	got, err := s.Load(context.Background(), "lan")
	require.NoError(t, err)
	assert.Equal(t, sampleAccount(), got)
}

func TestPostgresStore_EncryptedWithoutKey(t *testing.T) {
	s, mock := newPostgresWithMock(t, nil)
	mock.ExpectQuery(selectQ).WithArgs("lan").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "encrypted"}).AddRow("c2VhbGVk", true))

	_, err := s.Load(context.Background(), "lan")
	assert.ErrorContains(t, err, "no key")
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("lan")
			defer unlock()
			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, km.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	unlockA := km.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}
