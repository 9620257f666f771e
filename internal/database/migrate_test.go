package database

import (
    "strings"
    "testing"
)

func TestSchemaDeclaresAllTables(t *testing.T) {
    for _, table := range []string{"users", "refresh_tokens", "events", "event_participants", "ride_matches"} {
        if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
            t.Errorf("schema is missing table %s", table)
        }
    }
    if !strings.Contains(schema, "UNIQUE KEY uq_participant_event_user (event_id, user_id)") {
        t.Error("participants must be unique per event and user")
    }
}
