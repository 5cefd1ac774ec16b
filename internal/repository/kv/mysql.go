package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQLStore stores values in the kv_store table of a MySQL database.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (m *MySQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE store_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select value: %w", err)
	}
	return value, nil
}

func (m *MySQLStore) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert value: %w", err)
	}
	return nil
}

func (m *MySQLStore) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM kv_store WHERE store_key = ?`, key); err != nil {
		return fmt.Errorf("delete value: %w", err)
	}
	return nil
}

func (m *MySQLStore) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}
