package payment_test

import (
	"context"
	"testing"
	"time"

	"go-payday/internal/payment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock, func() { _ = db.Close() }
}

func TestPaymentRepository_WithTxSharesTransaction(t *testing.T) {
	gormDB, mock, closeDB := newGormOverMock(t)
	defer closeDB()

	sqlDB, err := gormDB.DB()
	assert.NoError(t, err)

	repo := payment.NewRepository(gormDB)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	p := &payment.Payment{
		ID:          id,
		EmployeeID:  uuid.New(),
		AmountCFA:   650000,
		AmountUSD:   1080,
		Date:        time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		PeriodMonth: "2024-06",
		Status:      payment.StatusPending,
		Type:        payment.TypeSalary,
		Reference:   "PAY-2024-001",
	}
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), p))

	// The insert must ride the caller's transaction: rolling it back
	// leaves nothing committed on the pooled connection.
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_WithTxScopesAllocationScan(t *testing.T) {
	gormDB, mock, closeDB := newGormOverMock(t)
	defer closeDB()

	sqlDB, err := gormDB.DB()
	assert.NoError(t, err)

	repo := payment.NewRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs("PAY-2024-%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))
	mock.ExpectCommit()

	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	maxSeq, err := repo.WithTx(tx).MaxReferenceSeq(context.Background(), 2024)
	assert.NoError(t, err)
	assert.Equal(t, 41, maxSeq)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
