package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"
)

// SQLStore implements Store on top of MySQL.  Row locks are taken with
// SELECT ... FOR UPDATE inside the transaction opened by InTx.
type SQLStore struct {
    db *sql.DB
}

// NewSQLStore returns a SQLStore bound to the provided database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying database handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

// writeTxOptions run InTx at READ COMMITTED.  Counts taken after a row lock
// (approved participants, accepted seats) must see rows committed by the
// transaction that held the lock before, not the snapshot InnoDB fixes at
// the first plain read under REPEATABLE READ.
var writeTxOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

func (s *SQLStore) InTx(ctx context.Context, fn func(Tx) error) error {
    return s.run(ctx, writeTxOptions, fn)
}

func (s *SQLStore) ReadTx(ctx context.Context, fn func(Tx) error) error {
    return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (s *SQLStore) run(ctx context.Context, opts *sql.TxOptions, fn func(Tx) error) error {
    tx, err := s.db.BeginTx(ctx, opts)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&sqlTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// sqlTx carries one *sql.Tx through the repository methods.
type sqlTx struct {
    tx *sql.Tx
}

type rowScanner interface {
    Scan(dest ...any) error
}

// isDuplicate reports whether err is a MySQL unique key violation (1062).
func isDuplicate(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    return err
}

// collectIDs drains rows holding a single id column.
func collectIDs(rows *sql.Rows) ([]string, error) {
    defer rows.Close()
    var ids []string
    for rows.Next() {
        var id string
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

// inClause returns "?,?,?" for n placeholders and the ids as arguments.
func inClause(ids []string) (string, []any) {
    args := make([]any, len(ids))
    ph := make([]byte, 0, len(ids)*2)
    for i, id := range ids {
        if i > 0 {
            ph = append(ph, ',')
        }
        ph = append(ph, '?')
        args[i] = id
    }
    return string(ph), args
}
