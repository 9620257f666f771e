package queue

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestFormatLine(t *testing.T) {
    got := formatLine(ActivityEvent{
        Kind:          KindParticipantLeft,
        EventID:       "e1",
        ActorID:       "u1",
        ParticipantID: "p1",
        MatchIDs:      []string{"m1", "m2"},
        OccurredAt:    "2026-01-01T00:00:00Z",
    })
    want := "[2026-01-01T00:00:00Z] participant.left | event_id=e1 | actor_id=u1 | participant_id=p1 | matches=[m1,m2]\n"
    if got != want {
        t.Fatalf("got  %q\nwant %q", got, want)
    }
}

func TestHandleMessageAppends(t *testing.T) {
    dir := t.TempDir()
    msgs := []string{
        `{"kind":"event.published","event_id":"e1","occurred_at":"t1"}`,
        `{"kind":"participant.joined","event_id":"e1","status":"APPROVED","occurred_at":"t2"}`,
    }
    for _, m := range msgs {
        if err := handleMessage(dir, []byte(m)); err != nil {
            t.Fatalf("handleMessage: %v", err)
        }
    }
    b, err := os.ReadFile(filepath.Join(dir, "activity.log"))
    if err != nil {
        t.Fatal(err)
    }
    lines := strings.Split(strings.TrimSpace(string(b)), "\n")
    if len(lines) != 2 {
        t.Fatalf("got %d lines, want 2: %q", len(lines), b)
    }
    if !strings.Contains(lines[1], "status=APPROVED") {
        t.Fatalf("second line missing status: %q", lines[1])
    }
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
    dir := t.TempDir()
    if err := handleMessage(dir, []byte("not json")); err == nil {
        t.Fatal("expected unmarshal error")
    }
    if err := handleMessage(dir, []byte(`{"kind":""}`)); err == nil {
        t.Fatal("expected missing-field error")
    }
}
