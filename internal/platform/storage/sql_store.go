package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// SQLStore persists values in the kv_store table, the localStorage of the CLI.
type SQLStore struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.qb.
		Select("value").
		From("kv_store").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query, args, err := s.qb.
		Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	query, args, err := s.qb.
		Delete("kv_store").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStore) Clear(ctx context.Context) error {
	query, args, err := s.qb.Delete("kv_store").ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}
