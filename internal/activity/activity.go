// Package activity records who did what as JSON lines.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// EventType is the message type activity entries are published under.
const EventType = "activity.recorded"

// Entry is one line of the activity log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// Log appends entries to an io.Writer, one JSON document per line.
type Log struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLog(out io.Writer) *Log {
	return &Log{out: out}
}

func (l *Log) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.out.Write(data)
	return err
}

// HandleMessage is a queue consumer callback. Activity messages are appended, other event
// types are only logged.
func (l *Log) HandleMessage(msgType string, body []byte) error {
	if msgType != EventType {
		log.Printf("Received %s event: %s", msgType, body)
		return nil
	}
	var e Entry
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("malformed activity entry: %w", err)
	}
	return l.Append(e)
}

// Publisher is satisfied by the RabbitMQ and Kafka clients.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Recorder fans an entry out to the event publisher and to a local log. Either may be nil.
// Failures are logged and never returned.
type Recorder struct {
	publisher Publisher
	sink      *Log
	now       func() time.Time
}

func NewRecorder(publisher Publisher, sink *Log) *Recorder {
	return &Recorder{publisher: publisher, sink: sink, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, userID, action, details string) {
	if r == nil {
		return
	}
	e := Entry{
		Timestamp: r.now().UTC(),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, EventType, e); err != nil {
			log.Printf("Warning: failed to publish activity %s: %v", action, err)
		}
	}
	if r.sink != nil {
		if err := r.sink.Append(e); err != nil {
			log.Printf("Warning: failed to write activity %s: %v", action, err)
		}
	}
}
