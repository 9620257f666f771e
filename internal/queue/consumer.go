package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares the activity queue and
// appends each message as one line to <logDir>/activity.log.  It reconnects
// with exponential backoff and never returns; a message that cannot be
// handled is rejected without requeue so the loop keeps going.
func StartActivityConsumer(logDir string) error {
    url := brokerURL()
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("activity-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        if err := consumeLoop(conn, logDir); err != nil {
            log.Printf("activity-consumer: consume loop ended: %v; reconnecting", err)
            _ = conn.Close()
            time.Sleep(2 * time.Second)
        }
    }
}

func consumeLoop(conn *amqp.Connection, logDir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("activity-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(ActivityQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(logDir, d.Body); err != nil {
            log.Printf("activity-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(logDir string, body []byte) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" || ev.EventID == "" {
        return errors.New("kind and event_id are required")
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", logDir, err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, "activity.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// formatLine renders one activity as a single log line.  Empty fields are
// left out.
func formatLine(ev ActivityEvent) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | event_id=%s", ev.OccurredAt, ev.Kind, ev.EventID)
    if ev.ActorID != "" {
        fmt.Fprintf(&b, " | actor_id=%s", ev.ActorID)
    }
    if ev.ParticipantID != "" {
        fmt.Fprintf(&b, " | participant_id=%s", ev.ParticipantID)
    }
    if ev.Status != "" {
        fmt.Fprintf(&b, " | status=%s", ev.Status)
    }
    if len(ev.MatchIDs) > 0 {
        fmt.Fprintf(&b, " | matches=[%s]", strings.Join(ev.MatchIDs, ","))
    }
    b.WriteByte('\n')
    return b.String()
}
