package writer

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

const dateLayout = "2006-01-02"

// DuckDBBarCache implements BarCache on a DuckDB database file. An empty
// path opens an in-memory database, which tests use.
type DuckDBBarCache struct {
	db   *sql.DB
	path string
}

func NewDuckDBBarCache(path string) BarCache {
	return &DuckDBBarCache{
		db:   nil,
		path: path,
	}
}

// Initialize implements BarCache.
func (c *DuckDBBarCache) Initialize() (err error) {
	c.db, err = sql.Open("duckdb", c.path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open duckdb database", err)
	}

	_, err = c.db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol      TEXT NOT NULL,
			range_start TEXT NOT NULL,
			range_end   TEXT NOT NULL,
			time        TIMESTAMP NOT NULL,
			open        DOUBLE NOT NULL,
			high        DOUBLE NOT NULL,
			low         DOUBLE NOT NULL,
			close       DOUBLE NOT NULL,
			volume      BIGINT NOT NULL
		)
	`)
	if err != nil {
		c.db.Close()

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create bars table", err)
	}

	return nil
}

// SaveSeries implements BarCache. The snapshot replaces any previous one
// for the same key in a single transaction.
func (c *DuckDBBarCache) SaveSeries(ctx context.Context, series *types.BarSeries, startDate time.Time, endDate time.Time) error {
	if c.db == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "bar cache is not initialized")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}

	defer tx.Rollback()

	deleteQuery, deleteArgs, err := sq.Delete("bars").
		Where(sq.Eq{
			"symbol":      series.Symbol,
			"range_start": startDate.Format(dateLayout),
			"range_end":   endDate.Format(dateLayout),
		}).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to build delete query", err)
	}

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to clear previous snapshot", err)
	}

	insert := sq.Insert("bars").
		Columns("symbol", "range_start", "range_end", "time", "open", "high", "low", "close", "volume")

	for _, bar := range series.Bars {
		insert = insert.Values(
			series.Symbol,
			startDate.Format(dateLayout),
			endDate.Format(dateLayout),
			bar.Time,
			bar.Open,
			bar.High,
			bar.Low,
			bar.Close,
			bar.Volume,
		)
	}

	if len(series.Bars) > 0 {
		insertQuery, insertArgs, err := insert.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to build insert query", err)
		}

		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to insert bars", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit snapshot", err)
	}

	return nil
}

// LoadSeries implements BarCache.
func (c *DuckDBBarCache) LoadSeries(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) (*types.BarSeries, bool, error) {
	if c.db == nil {
		return nil, false, errors.New(errors.ErrCodeQueryFailed, "bar cache is not initialized")
	}

	query, args, err := sq.Select("time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(sq.Eq{
			"symbol":      symbol,
			"range_start": startDate.Format(dateLayout),
			"range_end":   endDate.Format(dateLayout),
		}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}

	defer rows.Close()

	series := &types.BarSeries{Symbol: symbol}

	for rows.Next() {
		var bar types.Bar

		bar.Symbol = symbol
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar row", err)
		}

		bar.Time = bar.Time.UTC()
		series.Bars = append(series.Bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bar rows", err)
	}

	if len(series.Bars) == 0 {
		return nil, false, nil
	}

	return series, true, nil
}

// Close implements BarCache.
func (c *DuckDBBarCache) Close() error {
	if c.db == nil {
		return nil
	}

	return c.db.Close()
}
