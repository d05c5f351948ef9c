// Package wire implements the kernel's multipart wire format: identity
// frames, the <IDS|MSG> delimiter, an HMAC signature, and four JSON body
// frames (header, parent header, metadata, content).
package wire

import (
	"bytes"
	"encoding/json"

	"github.com/samber/oops"

	"github.com/wabznasm/wabznasm/lib/util/logger"
)

var log = logger.GetLogger()

// Delimiter separates routing identities from the signed message body.
const Delimiter = "<IDS|MSG>"

var delimiterBytes = []byte(Delimiter)

// Message is a fully parsed wire message.
type Message struct {
	// Identities are the opaque routing frames, preserved verbatim so a
	// reply can be routed back to the sender.
	Identities [][]byte
	Signature  string
	Header     Header
	// ParentHeader is nil when the wire carried an empty object.
	ParentHeader *Header
	Metadata     map[string]json.RawMessage
	Content      Content
}

// Parse validates and decodes raw multipart frames. The signature is
// verified before anything else is interpreted; forged or truncated input
// fails without a usable Message.
func Parse(frames [][]byte, signer *Signer) (*Message, error) {
	delim := -1
	for i, frame := range frames {
		if bytes.Equal(frame, delimiterBytes) {
			delim = i
			break
		}
	}
	if delim < 0 {
		return nil, oops.Wrapf(ErrMalformedMessage, "missing %q delimiter", Delimiter)
	}

	body := frames[delim+1:]
	if len(body) < 5 {
		return nil, oops.Wrapf(ErrMalformedMessage,
			"expected at least 5 frames after delimiter, got %d", len(body))
	}
	signature := string(body[0])
	headerBytes := body[1]
	parentBytes := body[2]
	metadataBytes := body[3]
	contentBytes := body[4]

	if !signer.Verify(signature, [][]byte{headerBytes, parentBytes, metadataBytes, contentBytes}) {
		return nil, oops.Wrap(ErrSignatureInvalid)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, oops.Wrapf(ErrMalformedMessage, "header: %v", err)
	}

	parentHeader, err := parseParentHeader(parentBytes)
	if err != nil {
		return nil, err
	}

	var metadata map[string]json.RawMessage
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, oops.Wrapf(ErrMalformedMessage, "metadata: %v", err)
	}

	content, err := decodeContent(header.MsgType, contentBytes)
	if err != nil {
		return nil, oops.With("msg_type", header.MsgType).
			Wrapf(ErrUnknownMessageType, "content: %v", err)
	}

	identities := make([][]byte, delim)
	for i := 0; i < delim; i++ {
		identities[i] = frames[i]
	}

	log.WithField("msg_type", header.MsgType).Debug("Parsed wire message")
	return &Message{
		Identities:   identities,
		Signature:    signature,
		Header:       header,
		ParentHeader: parentHeader,
		Metadata:     metadata,
		Content:      content,
	}, nil
}

// parseParentHeader treats an empty JSON object as an absent parent.
func parseParentHeader(raw []byte) (*Header, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, oops.Wrapf(ErrMalformedMessage, "parent header: %v", err)
	}
	if len(probe) == 0 {
		return nil, nil
	}
	var parent Header
	if err := json.Unmarshal(raw, &parent); err != nil {
		return nil, oops.Wrapf(ErrMalformedMessage, "parent header: %v", err)
	}
	return &parent, nil
}

// Construct serializes, signs, and assembles a complete multipart message:
// identities..., delimiter, signature, header, parent header, metadata,
// content. An absent parent serializes as {}.
func Construct(
	identities [][]byte,
	header Header,
	parentHeader *Header,
	metadata map[string]json.RawMessage,
	content Content,
	signer *Signer,
) ([][]byte, error) {
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return nil, oops.Wrapf(err, "marshal header")
	}
	parentBytes := []byte("{}")
	if parentHeader != nil {
		parentBytes, err = json.Marshal(parentHeader)
		if err != nil {
			return nil, oops.Wrapf(err, "marshal parent header")
		}
	}
	if metadata == nil {
		metadata = map[string]json.RawMessage{}
	}
	metadataBytes, err := json.Marshal(metadata)
	if err != nil {
		return nil, oops.Wrapf(err, "marshal metadata")
	}
	contentBytes, err := json.Marshal(content)
	if err != nil {
		return nil, oops.Wrapf(err, "marshal content")
	}

	signature := signer.Sign([][]byte{headerBytes, parentBytes, metadataBytes, contentBytes})

	frames := make([][]byte, 0, len(identities)+6)
	frames = append(frames, identities...)
	frames = append(frames,
		delimiterBytes,
		[]byte(signature),
		headerBytes,
		parentBytes,
		metadataBytes,
		contentBytes,
	)
	return frames, nil
}
