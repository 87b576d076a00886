package forwarding

import (
	"errors"
	"fmt"
)

var errMissingRecipient = errors.New("forwarding: missing recipient")

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("forwarding: transport panicked: %v", e.value)
}
