package transport

import (
	"errors"
	"fmt"

	"github.com/hivelock/chatadmin"
)

// StatusError is returned for any non-200 response. The raw body is kept
// for diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform returned %d: %s", e.Status, e.Body)
}

// DecodeError marks a 200 response whose body did not match the expected
// shape.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Classify maps a Call failure onto the client's error taxonomy: decode
// failures are bad payloads, everything else is a transport failure.
func Classify(err error) chatadmin.Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return chatadmin.KindBadPayload
	}
	return chatadmin.KindTransport
}
