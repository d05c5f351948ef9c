package wire

import "errors"

// Protocol-level failure taxonomy. Malformed and forged traffic is dropped
// by the receive loop without a reply; only the scheme error is fatal, and
// only at startup.
var (
	// ErrUnsupportedScheme is returned when a connection file names a
	// signature scheme other than hmac-sha256.
	ErrUnsupportedScheme = errors.New("wire: unsupported signature scheme")

	// ErrMalformedMessage is returned when a multipart message is missing
	// the delimiter or body frames, or a frame fails to decode.
	ErrMalformedMessage = errors.New("wire: malformed message")

	// ErrSignatureInvalid is returned when the HMAC over the body frames
	// does not match the signature frame.
	ErrSignatureInvalid = errors.New("wire: signature verification failed")

	// ErrUnknownMessageType is returned when the content frame does not
	// decode as the shape declared by the header's msg_type.
	ErrUnknownMessageType = errors.New("wire: content does not match message type")
)
