package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupReportRepo(t *testing.T) (ReportRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return NewReportRepository(gormDB), mock
}

func TestReportRepository_CountTasks(t *testing.T) {
	repo, mock := setupReportRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tasks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountTasks()
	require.NoError(t, err)
	require.Equal(t, int64(42), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CountMembers(t *testing.T) {
	repo, mock := setupReportRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE role = $1`)).
		WithArgs(string(models.RoleMember)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountMembers()
	require.NoError(t, err)
	require.Equal(t, int64(7), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GroupTasksByStatus(t *testing.T) {
	repo, mock := setupReportRepo(t)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("todo", 3).
		AddRow("in_progress", 2).
		AddRow("completed", 5)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) AS count FROM "tasks" GROUP BY`)).
		WillReturnRows(rows)

	result, err := repo.GroupTasksByStatus()
	require.NoError(t, err)
	require.Equal(t, map[models.TaskStatus]int64{
		models.TaskStatusTodo:       3,
		models.TaskStatusInProgress: 2,
		models.TaskStatusCompleted:  5,
	}, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GroupTasksByPriority(t *testing.T) {
	repo, mock := setupReportRepo(t)

	rows := sqlmock.NewRows([]string{"priority", "count"}).
		AddRow("high", 4).
		AddRow("low", 1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT priority, COUNT(*) AS count FROM "tasks" GROUP BY`)).
		WillReturnRows(rows)

	result, err := repo.GroupTasksByPriority()
	require.NoError(t, err)
	require.Equal(t, map[models.Priority]int64{
		models.PriorityHigh: 4,
		models.PriorityLow:  1,
	}, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CountProjects_Error(t *testing.T) {
	repo, mock := setupReportRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "projects"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CountProjects()
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
