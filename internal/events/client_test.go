package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type ackRecorder struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestTransactionSavedFromJSON(t *testing.T) {
	cat := int64(3)
	body, err := NewTransactionSaved(1, 2, &cat, "2024-05-01").ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	msg, err := TransactionSavedFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if msg.OwnerID != 1 || msg.TransactionID != 2 || msg.CategoryID == nil || *msg.CategoryID != 3 || msg.Date != "2024-05-01" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	for _, bad := range []string{`not json`, `{"owner_id":0,"transaction_id":1}`, `{"owner_id":1}`} {
		if _, err := TransactionSavedFromJSON([]byte(bad)); !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("%s: expected ErrInvalidMessage, got %v", bad, err)
		}
	}
}

func TestDispatch(t *testing.T) {
	valid, _ := NewTransactionSaved(1, 2, nil, "2024-05-01").ToJSON()

	tests := []struct {
		name       string
		body       []byte
		handlerErr error
		wantAck    bool
		wantNack   bool
		wantQueue  bool
		wantCalled bool
	}{
		{name: "handled", body: valid, wantAck: true, wantCalled: true},
		{name: "handler fails", body: valid, handlerErr: errors.New("db down"), wantNack: true, wantQueue: true, wantCalled: true},
		{name: "malformed", body: []byte("{"), wantNack: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ackRecorder{}
			called := false
			d := amqp091.Delivery{Acknowledger: rec, Body: tt.body}
			dispatch(context.Background(), d, func(ctx context.Context, msg TransactionSaved) error {
				called = true
				return tt.handlerErr
			})
			if rec.acked != tt.wantAck || rec.nacked != tt.wantNack || rec.requeued != tt.wantQueue || called != tt.wantCalled {
				t.Errorf("ack=%v nack=%v requeue=%v called=%v", rec.acked, rec.nacked, rec.requeued, called)
			}
		})
	}
}
