package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/waqas1412/ReAgentWABot-sub001/pkg/errors"
)

func getTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type widget struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewDatabaseInstance(sqlx.NewDb(mockDB, "sqlmock"), getTestLogger()), mock
}

func newTestCollection(t *testing.T) (*Collection[widget], sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()
	restricted, restrictedMock := newMockDB(t)
	elevated, elevatedMock := newMockDB(t)
	handles := NewHandles(restricted, elevated)
	c := NewCollection[widget](handles, getTestLogger(), time.Second, "widgets", "id", "name", "created_at")
	return c, restrictedMock, elevatedMock
}

func widgetRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "widget "+id, time.Now().UTC())
	}
	return rows
}

func TestCollectionFind(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the matching row", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		// limit 1 is parameterized alongside the filter
		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-1", 1).
			WillReturnRows(widgetRows("w-1"))

		got, err := c.FindByID(ctx, "w-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "w-1", got.ID)
		assert.NoError(t, restricted.ExpectationsWereMet())
	})

	t.Run("should return nil without error when no row matches", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-404", 1).
			WillReturnRows(widgetRows())

		got, err := c.FindByID(ctx, "w-404")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("should order filters deterministically", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		// alphabetical column order regardless of map iteration
		restricted.ExpectQuery("WHERE name = .+ AND zone = ").
			WithArgs("gear", "north", 1).
			WillReturnRows(widgetRows("w-1"))

		_, err := c.FindOne(ctx, Filter{"zone": "north", "name": "gear"})
		require.NoError(t, err)
		assert.NoError(t, restricted.ExpectationsWereMet())
	})

	t.Run("should list all matches with default ordering", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("ORDER BY created_at ASC").
			WillReturnRows(widgetRows("w-1", "w-2"))

		got, err := c.FindAll(ctx, nil, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("should map a timeout to a store timeout error", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WillReturnError(context.DeadlineExceeded)

		_, err := c.FindByID(ctx, "w-1")
		require.Error(t, err)
		assert.True(t, apperrors.IsStoreTimeout(err))
	})
}

func TestCollectionCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("should insert with generated id and return the row", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("INSERT INTO widgets").
			WillReturnRows(widgetRows("w-1"))

		got, err := c.Create(ctx, Fields{"name": "gear"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "w-1", got.ID)
	})

	t.Run("should map a unique violation to a constraint violation", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("INSERT INTO widgets").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "widgets_name_key"})

		_, err := c.Create(ctx, Fields{"name": "gear"})
		require.Error(t, err)
		assert.True(t, apperrors.IsConstraintViolation(err))
	})

	t.Run("should map other database errors to store errors", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectQuery("INSERT INTO widgets").
			WillReturnError(&pq.Error{Code: "53300"})

		_, err := c.Create(ctx, Fields{"name": "gear"})
		require.Error(t, err)
		assert.True(t, apperrors.IsStoreError(err))
		assert.False(t, apperrors.IsConstraintViolation(err))
	})
}

func TestCollectionUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("should return nil when updating a missing row", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectExec("UPDATE widgets").
			WillReturnResult(sqlmock.NewResult(0, 0))

		got, err := c.UpdateByID(ctx, "w-404", Fields{"name": "gear"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("should re-fetch the row after updating", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectExec("UPDATE widgets").
			WillReturnResult(sqlmock.NewResult(0, 1))
		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-1", 1).
			WillReturnRows(widgetRows("w-1"))

		got, err := c.UpdateByID(ctx, "w-1", Fields{"name": "gear"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "w-1", got.ID)
	})

	t.Run("should re-read the row when there is nothing to set", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		// no UPDATE is issued for an empty field set
		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-1", 1).
			WillReturnRows(widgetRows("w-1"))

		got, err := c.UpdateByID(ctx, "w-1", Fields{})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "w-1", got.ID)
		assert.NoError(t, restricted.ExpectationsWereMet())
	})

	t.Run("should report whether a delete removed a row", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		restricted.ExpectExec("DELETE FROM widgets").
			WillReturnResult(sqlmock.NewResult(0, 1))
		restricted.ExpectExec("DELETE FROM widgets").
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := c.DeleteByID(ctx, "w-1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = c.DeleteByID(ctx, "w-1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestCollectionAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("should route elevated views to the elevated pool", func(t *testing.T) {
		c, _, elevated := newTestCollection(t)

		elevated.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-1", 1).
			WillReturnRows(widgetRows("w-1"))

		got, err := c.Access(AccessElevated).FindByID(ctx, "w-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.NoError(t, elevated.ExpectationsWereMet())
	})

	t.Run("should not mutate the receiver", func(t *testing.T) {
		c, restricted, _ := newTestCollection(t)

		_ = c.Access(AccessElevated)

		restricted.ExpectQuery("SELECT id, name, created_at FROM widgets").
			WithArgs("w-1", 1).
			WillReturnRows(widgetRows("w-1"))

		// still served by the restricted pool
		got, err := c.FindByID(ctx, "w-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.NoError(t, restricted.ExpectationsWereMet())
	})

	t.Run("should count through the bound pool", func(t *testing.T) {
		c, _, elevated := newTestCollection(t)

		elevated.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := c.Access(AccessElevated).Count(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}
