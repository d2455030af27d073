package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The increment must be a single relative UPDATE, not a read-modify-write;
// that keeps the counter monotonic under concurrent detail-page loads.
func TestIncrementViewCount_IssuesRelativeUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET "view_count"=view_count \+ 1 WHERE id = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewPostRepository(gdb)
	require.NoError(t, repo.IncrementViewCount(context.Background(), 42))
	require.NoError(t, mock.ExpectationsWereMet())
}
