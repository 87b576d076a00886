package models

import "time"

// Account is a registered mailbox. Username is the case-folded mailbox
// name and never changes after creation.
type Account struct {
	Username          string
	PasswordHash      []byte
	ForwardingAddress *string
	CreatedAt         time.Time
}

// ForwardsTo returns the forwarding address and whether one is set.
func (a *Account) ForwardsTo() (string, bool) {
	if a == nil || a.ForwardingAddress == nil || *a.ForwardingAddress == "" {
		return "", false
	}
	return *a.ForwardingAddress, true
}
