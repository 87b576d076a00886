package common

// SessionTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const SessionTokenHeaderName = "session_token"

// Forwarded message conventions.
const (
	ForwardSubjectPrefix = "[Fwd] "
	ForwardEmptySubject  = "(No Subject)"
)

// Ingest outcomes reported back to the mail provider.
const (
	IngestStatusStored          = "stored"
	IngestStatusMailboxNotFound = "mailbox_not_found"
)
