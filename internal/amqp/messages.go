package amqp

import (
	"encoding/json"
	"time"
)

// CreditsSavedMessage announces that the dataset at Location was
// overwritten. It carries counts only; consumers read the dataset itself
// from Location.
type CreditsSavedMessage struct {
	Location   string    `json:"location"`
	Credits    int       `json:"credits"`
	Statements int       `json:"statements"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCreditsSavedMessage(location string, credits, statements int) *CreditsSavedMessage {
	return &CreditsSavedMessage{
		Location:   location,
		Credits:    credits,
		Statements: statements,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CreditsSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CreditsSavedMessageFromJSON creates a message from JSON bytes
func CreditsSavedMessageFromJSON(data []byte) (*CreditsSavedMessage, error) {
	var msg CreditsSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
