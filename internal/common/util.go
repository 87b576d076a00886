package common

import (
	"crypto/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/secure/precis"
)

// Username length limits, in characters.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

// GenerateRandByteArray returns n bytes from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeUsername case-folds a mailbox name and validates it. A valid name
// is 3-30 characters long and consists of letters and digits only.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrInvalidUsername
	}

	key, err := precis.UsernameCaseMapped.String(username)
	if err != nil {
		return "", ErrInvalidUsername
	}

	n := utf8.RuneCountInString(key)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return "", ErrInvalidUsername
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return "", ErrInvalidUsername
		}
	}

	return key, nil
}

// LocalPart returns the part of an address before the first '@'.
// An address without '@' is returned unchanged.
func LocalPart(address string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(address), "@")
	return local
}

// IsForwardingAddress reports whether address is acceptable as a forwarding
// target. Only a syntactic check is made: the address must contain '@'.
func IsForwardingAddress(address string) bool {
	return strings.Contains(address, "@")
}
