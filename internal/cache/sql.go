package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tennisscout/internal/assert"
	"tennisscout/internal/telemetry"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

const Schema = `
create table if not exists player_urls (
	key text primary key,
	url text not null
);
`

// SQLStore keeps the mapping in a sqlite database, either a local file
// (modernc sqlite) or a remote libsql database.
type SQLStore struct {
	db  *sql.DB
	tel telemetry.API
}

// OpenSQLStore opens dsn, which is either a path to a sqlite file,
// ":memory:", or a libsql:// / https:// url for a remote database.
func OpenSQLStore(dsn string, tel telemetry.API) (SQLStore, error) {
	assert.NotEmptyStr(dsn)
	assert.NotNil(tel)

	driver := "sqlite"
	if strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "http://") {
		driver = "libsql"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return SQLStore{}, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// a single connection keeps ":memory:" databases from splitting
		// into one database per connection
		db.SetMaxOpenConns(1)
	}

	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return SQLStore{}, fmt.Errorf("apply schema: %w", err)
	}

	return NewSQLStore(db, tel), nil
}

// NewSQLStore wraps a database that already has Schema applied.
func NewSQLStore(db *sql.DB, tel telemetry.API) SQLStore {
	assert.NotNil(db)
	return SQLStore{db: db, tel: telemetry.NewScopedAPI("cache", tel)}
}

func (s SQLStore) Close() error {
	return s.db.Close()
}

func (s SQLStore) Lookup(ctx context.Context, key Key) (string, bool) {
	ctx, span := tracer.Start(ctx, "sql:lookup")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	var url string
	err := s.db.QueryRowContext(
		ctx,
		"select url from player_urls where key = ?",
		key.String(),
	).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query cache")
		s.tel.ReportWarning(report_sql_store_lookup, err, key.String())
		return "", false
	}
	return url, true
}

func (s SQLStore) Store(ctx context.Context, key Key, url string) error {
	ctx, span := tracer.Start(ctx, "sql:store")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key.String()))

	_, err := s.db.ExecContext(
		ctx,
		`insert into player_urls(key, url) values (?, ?)
		on conflict(key) do update set url = excluded.url`,
		key.String(), url,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert cache entry")
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

func (s SQLStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "select key, url from player_urls")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mapping := map[string]string{}
	for rows.Next() {
		var key, url string
		err = rows.Scan(&key, &url)
		if err != nil {
			return nil, err
		}
		mapping[key] = url
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entriesOf(mapping), nil
}

func (s SQLStore) Forget(ctx context.Context, key Key) (bool, error) {
	res, err := s.db.ExecContext(ctx, "delete from player_urls where key = ?", key.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
