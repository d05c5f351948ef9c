package wire

import (
	"time"

	"github.com/google/uuid"
)

// ProtocolVersion is the messaging protocol version the kernel reports.
const ProtocolVersion = "5.3"

// Header identifies one message. Every field is a string on the wire; date
// is ISO-8601.
type Header struct {
	MsgID    string `json:"msg_id"`
	Session  string `json:"session"`
	Username string `json:"username"`
	Date     string `json:"date"`
	MsgType  string `json:"msg_type"`
	Version  string `json:"version"`
}

// NewHeader mints a header with a fresh msg_id and the current time.
func NewHeader(msgType, session, username, version string) Header {
	return Header{
		MsgID:    uuid.NewString(),
		Session:  session,
		Username: username,
		Date:     time.Now().UTC().Format(time.RFC3339Nano),
		MsgType:  msgType,
		Version:  version,
	}
}

// ChildHeader mints a header for a message caused by parent: fresh msg_id
// and timestamp, session/username/version carried over.
func ChildHeader(parent *Header, msgType string) Header {
	return NewHeader(msgType, parent.Session, parent.Username, parent.Version)
}
