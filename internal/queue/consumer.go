package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartSecurityConsumer connects to RabbitMQ, declares the gate.scan
// and borrow.confirmed queues (durable), and starts consuming both.
// Each message is appended to logs/security.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// exponential backoff and keeps running for the lifetime of the
// server; processing errors are logged and the offending message is
// rejected without requeueing so the loop never spins on a bad
// payload.
func StartSecurityConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("security-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("security-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("security-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{GateScanQueue, BorrowConfirmedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	scans, err := ch.Consume(GateScanQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", GateScanQueue, err)
	}
	borrows, err := ch.Consume(BorrowConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BorrowConfirmedQueue, err)
	}

	for {
		select {
		case d, ok := <-scans:
			if !ok {
				return errors.New("gate.scan deliveries channel closed")
			}
			ackOrNack(d, handleGateScan(d.Body))
		case d, ok := <-borrows:
			if !ok {
				return errors.New("borrow.confirmed deliveries channel closed")
			}
			ackOrNack(d, handleBorrowConfirmed(d.Body))
		}
	}
}

func ackOrNack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("security-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func handleGateScan(body []byte) error {
	var ev GateScanEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Gate %s | entry_id=%d | student=%s | method=%s | ref=%q\n",
		ev.ScannedAt, ev.Direction, ev.EntryID, ev.StudentNumber, ev.Method, ev.CaptureRef)
	return appendLog(line)
}

func handleBorrowConfirmed(body []byte) error {
	var ev BorrowConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Borrow confirmed | record_id=%d | student=%s | book=%q | isbn=%s | due=%s\n",
		ev.BorrowDate, ev.BorrowRecordID, ev.StudentNumber, ev.BookTitle, ev.ISBN, ev.DueDate)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "security.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
