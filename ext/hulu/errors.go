package hulu

import (
	"fmt"

	"huludl/ext/hulu/envelope"
	"huludl/util"
)

var (
	ErrInvalidKeyLength   = &util.Error{Message: "device key must be 16 bytes"}
	ErrInvalidDeviceCode  = &util.Error{Message: "device code must be numeric"}
	ErrInvalidDeviceKey   = &util.Error{Message: "device key is not valid hex"}
	ErrRequestFailed      = &util.Error{Message: "request failed"}
	ErrInvalidWatchID     = &util.Error{Message: "not a valid watch URL or ID"}
	ErrContentUnavailable = &util.Error{Message: "unable to get content ID. possible GeoIP error"}
	ErrPlaylistBlocked    = &util.Error{Message: "playlist is blocked"}
	ErrNoEpisodes         = &util.Error{Message: "no episodes found. possible GeoIP error"}

	// envelope failures, re-exported so callers only need this package
	ErrMalformedEnvelope = envelope.ErrMalformedEnvelope
	ErrDecryption        = envelope.ErrDecryption
	ErrMalformedPayload  = envelope.ErrMalformedPayload
)

// RequestError is returned for non-success responses. It matches
// ErrRequestFailed with errors.Is.
type RequestError struct {
	URL        string
	StatusCode int
	Body       string
}

func (err *RequestError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s", ErrRequestFailed, err.URL, err.StatusCode, err.Body)
}

func (err *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}
