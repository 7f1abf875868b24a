// internal/events/messages.go
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidMessage = errors.New("invalid message")

// TransactionSaved is published after a transaction is created or updated.
// It carries references only; consumers read current state from storage.
type TransactionSaved struct {
	OwnerID       int64     `json:"owner_id"`
	TransactionID int64     `json:"transaction_id"`
	CategoryID    *int64    `json:"category_id"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionSaved(ownerID, transactionID int64, categoryID *int64, date string) TransactionSaved {
	return TransactionSaved{
		OwnerID:       ownerID,
		TransactionID: transactionID,
		CategoryID:    categoryID,
		Date:          date,
		Timestamp:     time.Now().UTC(),
	}
}

func (m TransactionSaved) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSavedFromJSON(data []byte) (TransactionSaved, error) {
	var msg TransactionSaved
	if err := json.Unmarshal(data, &msg); err != nil {
		return TransactionSaved{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if msg.OwnerID <= 0 || msg.TransactionID <= 0 {
		return TransactionSaved{}, fmt.Errorf("%w: missing owner or transaction id", ErrInvalidMessage)
	}
	return msg, nil
}
