package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/storage/storagetest"
	"github.com/doeshing/firewatch/internal/pkg/logger"
)

type countingMetrics struct {
	rejected int
}

func (m *countingMetrics) IncRejectedQuery() { m.rejected++ }

func (m *countingMetrics) ObserveQuery(domain.BackendMode, string, time.Duration) {}
func (m *countingMetrics) IncFallback(domain.ErrorKind)                           {}
func (m *countingMetrics) ObserveProbe(domain.BackendMode, bool)                  {}

func TestGateway_RejectsNonSelectWithoutTouchingStorage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	metrics := &countingMetrics{}
	gw := NewGatewayWithDB(db, logger.NewTest(t), metrics)

	statements := []string{
		"DROP TABLE pr_person",
		"  delete from disease_case",
		"INSERT INTO gis_location (name) VALUES ('x')",
		"update asset_asset set status = 1",
		"PRAGMA writable_schema = 1",
		"WITH x AS (SELECT 1) DELETE FROM pr_person",
		"-- SELECT\nDROP TABLE x",
		"",
		"SELECT 1; DROP TABLE pr_person",
		"SELECT 'a;b'; DROP TABLE pr_person",
		"SELECT 1 /* ; */; DELETE FROM pr_person",
		"SELECTED",
	}
	for _, stmt := range statements {
		rows, err := gw.Execute(context.Background(), stmt)
		assert.Nil(t, rows, stmt)
		assert.True(t, errors.Is(err, domain.ErrRejectedWriteQuery), "%q: got %v", stmt, err)
	}

	assert.Equal(t, len(statements), metrics.rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_AcceptsSelectInAnyCase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("select name from gis_location").
		WillReturnRows(sqlmock.NewRows([]string{"name", "population"}).
			AddRow([]byte("Pine Ridge Township"), int64(1800)))

	gw := NewGatewayWithDB(db, logger.NewNop(), nil)
	rows, err := gw.Execute(context.Background(), "  select name from gis_location;")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pine Ridge Township", rows[0]["name"])
	assert.Equal(t, int64(1800), rows[0].Int("population"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_MapsDriverErrorsToQueryFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("no such column: bogus"))

	gw := NewGatewayWithDB(db, logger.NewNop(), nil)
	rows, err := gw.Execute(context.Background(), "SELECT bogus FROM pr_person")
	assert.Nil(t, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQueryFailed))

	var typed *domain.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, "no such column: bogus", typed.Detail)
}

func TestGateway_MissingTableIsQueryFailed(t *testing.T) {
	fx := storagetest.New(t)
	fx.DropTable(t, "asset_asset")

	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()

	_, err := gw.Execute(context.Background(), "SELECT COUNT(*) AS n FROM asset_asset")
	assert.True(t, errors.Is(err, domain.ErrQueryFailed), "got %v", err)
}

func TestGateway_LazyOpenReuseAndReopen(t *testing.T) {
	fx := storagetest.New(t)
	fx.AddLocation(t, "Pine Ridge Township", 1800, 39.2, -120.1)

	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	assert.Nil(t, gw.db, "connection must not open before first query")

	ctx := context.Background()
	first, err := gw.Execute(ctx, "SELECT name FROM gis_location WHERE name LIKE ?", "%pine%")
	require.NoError(t, err)
	require.Len(t, first, 1)
	opened := gw.db

	_, err = gw.Execute(ctx, "SELECT COUNT(*) AS n FROM gis_location")
	require.NoError(t, err)
	assert.Same(t, opened, gw.db)

	require.NoError(t, gw.Close())
	assert.Nil(t, gw.db)
	require.NoError(t, gw.Close())

	again, err := gw.Execute(ctx, "SELECT name FROM gis_location")
	require.NoError(t, err)
	assert.Len(t, again, 1)
	require.NoError(t, gw.Close())
}

func TestGateway_EmptyResultIsNotAnError(t *testing.T) {
	fx := storagetest.New(t)
	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()

	rows, err := gw.Execute(context.Background(), "SELECT * FROM pr_person")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGateway_CustomQueryDropReturnsMarkerAndKeepsTable(t *testing.T) {
	fx := storagetest.New(t)
	fx.AddPerson(t, "Maria", "Lopez", 2, "", "2025-07-28")

	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()
	ctx := context.Background()

	rows := gw.CustomQuery(ctx, "DROP TABLE pr_person")
	require.Len(t, rows, 1)
	assert.Equal(t, domain.Row{"error": RejectedQueryMessage}, rows[0])

	count, err := gw.Execute(ctx, "SELECT COUNT(*) AS n FROM pr_person")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count[0].Int("n"))
}

func TestGateway_CustomQueryReportsFailureDetail(t *testing.T) {
	fx := storagetest.New(t)
	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()

	rows := gw.CustomQuery(context.Background(), "SELECT * FROM no_such_table")
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsError())
	assert.Contains(t, rows[0].String("error"), "no_such_table")

	ok := gw.CustomQuery(context.Background(), "SELECT * FROM pr_person")
	assert.NotNil(t, ok)
	assert.Empty(t, ok)
}

func TestGateway_ReadOnlyConnectionCannotWrite(t *testing.T) {
	fx := storagetest.New(t)
	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()

	db, err := gw.conn()
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM pr_person")
	assert.Error(t, err)
}

func TestGateway_MissingFileFailsAtQueryTime(t *testing.T) {
	gw := NewGateway(filepath.Join(t.TempDir(), "absent.db"), logger.NewNop(), nil)
	defer gw.Close()

	_, err := gw.Execute(context.Background(), "SELECT 1")
	assert.True(t, errors.Is(err, domain.ErrQueryFailed))
}

func TestGateway_SemicolonInsideLiteralIsOneStatement(t *testing.T) {
	fx := storagetest.New(t)
	fx.AddLocation(t, "Camp A;B", 120, 34.1, -118.2)
	fx.AddLocation(t, "Camp C", 80, 34.2, -118.3)
	gw := NewGateway(fx.Path, logger.NewNop(), nil)
	defer gw.Close()

	queries := []string{
		"SELECT name FROM gis_location WHERE name = 'Camp A;B'",
		"SELECT name FROM gis_location WHERE name = 'Camp A;B';",
		"SELECT name FROM gis_location WHERE name = 'Camp A;B' -- trailing; note",
		"SELECT name /* a;b */ FROM gis_location WHERE name = 'Camp A;B'",
	}
	for _, q := range queries {
		rows, err := gw.Execute(context.Background(), q)
		require.NoError(t, err, q)
		require.Len(t, rows, 1, q)
		assert.Equal(t, "Camp A;B", rows[0]["name"], q)
	}

	rows := gw.CustomQuery(context.Background(), "SELECT name FROM gis_location WHERE name LIKE '%;%'")
	require.Len(t, rows, 1)
	assert.Equal(t, "Camp A;B", rows[0]["name"])
}

func TestStripLiterals(t *testing.T) {
	tests := map[string]string{
		"SELECT 'a;b'":          "SELECT  ",
		"SELECT 'it''s;'":       "SELECT  ",
		"SELECT [x;y] FROM t":   "SELECT   FROM t",
		"SELECT 1 -- ;\n; x":     "SELECT 1  \n; x",
		"SELECT 1 /* ; */ FROM": "SELECT 1   FROM",
		"SELECT 'open;":         "SELECT  ",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripLiterals(in), "stripLiterals(%q)", in)
	}
}

func TestFirstToken(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM x":  "SELECT",
		"select(1)":        "SELECT",
		"\n\tSeLeCt 1":     "",
		"drop table x":     "DROP",
		"":                 "",
		"123":              "",
		"SELECT":           "SELECT",
		"SELECTION FROM y": "SELECTION",
	}
	for in, want := range tests {
		assert.Equal(t, want, firstToken(in), "firstToken(%q)", in)
	}
}
