package repository

import (
    "database/sql"
    "testing"
)

func TestWriteTxReadsCommittedRows(t *testing.T) {
    if writeTxOptions == nil || writeTxOptions.Isolation != sql.LevelReadCommitted {
        t.Fatalf("write tx options = %+v, want READ COMMITTED", writeTxOptions)
    }
    if writeTxOptions.ReadOnly {
        t.Fatal("write tx must not be read-only")
    }
}
