package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/marketplace-ui/internal/testutil"
)

func TestInTx_CommitAndRollback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS tx_probe`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE tx_probe (v int)`)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.ExecContext(context.Background(), `DROP TABLE IF EXISTS tx_probe`) })

	err = InTx(ctx, db, nil, func(tx *sql.Tx) error {
		_, execErr := tx.ExecContext(ctx, `INSERT INTO tx_probe (v) VALUES (1)`)
		return execErr
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = InTx(ctx, db, nil, func(tx *sql.Tx) error {
		if _, execErr := tx.ExecContext(ctx, `INSERT INTO tx_probe (v) VALUES (2)`); execErr != nil {
			return execErr
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM tx_probe`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRaw_ExposesPgxConn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	var got int
	err := Raw(ctx, db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT 41 + 1`).Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
