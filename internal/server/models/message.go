package models

import "time"

// Message is an inbound email stored in its owner's mailbox.
type Message struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	SenderAddress string    `json:"sender_address"`
	ReceivedAt    time.Time `json:"received_at"`
}
