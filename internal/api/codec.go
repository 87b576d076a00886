package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the content-subtype announced on the wire.
const CodecName = "json"

// Codec encodes RPC messages as JSON. It satisfies grpc encoding.Codec and
// is forced on both ends of the connection.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal: %w", err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal: %w", err)
	}
	return nil
}

func (Codec) Name() string { return CodecName }
