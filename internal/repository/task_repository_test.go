package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB wires a sqlmock connection behind the postgres dialector so the
// generated SQL can be inspected.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestList_ScopesToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE tasks\.user_id = \$1`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = \$1 ORDER BY tasks\.created_at DESC`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title"}))

	tasks, total, err := repo.List(TaskFilter{UserID: 1, SortBy: SortByCreatedAt})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, tasks)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_PriorityOrderingUsesCaseRanking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY CASE tasks\.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(TaskFilter{UserID: 1, SortBy: SortByPriority})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DueAtOrderingPutsNullsLast(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY CASE WHEN tasks\.due_at IS NULL THEN 1 ELSE 0 END, tasks\.due_at ASC`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(TaskFilter{UserID: 1, SortBy: SortByDueAt})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_TagFilterUsesExistsSubquery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	tagID := uint64(5)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE tasks\.user_id = \$1 AND .*EXISTS \(SELECT 1 FROM "task_tags"`).
		WithArgs(uint64(1), tagID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`EXISTS \(SELECT 1 FROM "task_tags" WHERE task_tags\.task_id = tasks\.id AND task_tags\.tag_id = \$2`).
		WithArgs(uint64(1), tagID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.List(TaskFilter{UserID: 1, TagID: &tagID, SortBy: SortByCreatedAt})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_AppliesLimitAndOffset(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs(uint64(1), 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(TaskFilter{UserID: 1, SortBy: SortByCreatedAt, Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesLinksInSameTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "task_tags" WHERE task_id = \$1`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE "tasks"\."id" = \$1`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(7)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachTag_IgnoresDuplicateLinks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "task_tags" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.AttachTag(3, 5)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
