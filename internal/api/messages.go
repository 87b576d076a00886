package api

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse carries a session token; registration logs the new
// account in.
type RegisterResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetAccountRequest struct {
	Username string `json:"username"`
}

type Account struct {
	Username          string    `json:"username"`
	ForwardingAddress string    `json:"forwarding_address,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type GetAccountResponse struct {
	Account Account `json:"account"`
}

// SetForwardingRequest clears forwarding when Address is empty.
type SetForwardingRequest struct {
	Username string `json:"username"`
	Address  string `json:"address"`
}

type SetForwardingResponse struct {
	ForwardingAddress string `json:"forwarding_address,omitempty"`
}

type ListMessagesRequest struct {
	Username string `json:"username"`
}

type Message struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	SenderAddress string    `json:"sender_address"`
	ReceivedAt    time.Time `json:"received_at"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type DeleteMessageRequest struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// DeleteMessageResponse reports whether a message was removed. Deleting an
// unknown id is not an error.
type DeleteMessageResponse struct {
	Deleted bool `json:"deleted"`
}
