package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) *Signer {
	t.Helper()
	signer, err := NewSigner(SchemeHMACSHA256, []byte("test-key"))
	require.NoError(t, err)
	return signer
}

func TestConstructParseRoundTrip(t *testing.T) {
	signer := testSigner(t)
	header := NewHeader(MsgTypeExecuteRequest, "sess-1", "tester", ProtocolVersion)
	identities := [][]byte{[]byte("router-id")}
	content := ExecuteRequest{Code: "1+2", StoreHistory: true}

	frames, err := Construct(identities, header, nil, nil, content, signer)
	require.NoError(t, err)
	// identity, delimiter, signature, header, parent, metadata, content
	require.Len(t, frames, 7)
	assert.Equal(t, []byte(Delimiter), frames[1])

	msg, err := Parse(frames, signer)
	require.NoError(t, err)
	assert.Equal(t, identities, msg.Identities)
	assert.Equal(t, header, msg.Header)
	assert.Nil(t, msg.ParentHeader)
	require.IsType(t, ExecuteRequest{}, msg.Content)
	parsed := msg.Content.(ExecuteRequest)
	assert.Equal(t, "1+2", parsed.Code)
	assert.True(t, parsed.StoreHistory)
}

func TestConstructCarriesParentHeader(t *testing.T) {
	signer := testSigner(t)
	parent := NewHeader(MsgTypeExecuteRequest, "sess-1", "tester", ProtocolVersion)
	child := ChildHeader(&parent, MsgTypeStatus)
	assert.Equal(t, parent.Session, child.Session)
	assert.Equal(t, parent.Username, child.Username)
	assert.NotEqual(t, parent.MsgID, child.MsgID)

	frames, err := Construct(nil, child, &parent, nil, Status{ExecutionState: StateBusy}, signer)
	require.NoError(t, err)

	msg, err := Parse(frames, signer)
	require.NoError(t, err)
	require.NotNil(t, msg.ParentHeader)
	assert.Equal(t, parent.MsgID, msg.ParentHeader.MsgID)
}

func TestParseRejectsTamperedFrames(t *testing.T) {
	signer := testSigner(t)
	header := NewHeader(MsgTypeExecuteRequest, "sess-1", "tester", ProtocolVersion)
	frames, err := Construct(nil, header, nil, nil, ExecuteRequest{Code: "1+2"}, signer)
	require.NoError(t, err)

	// Flip one byte of the content frame, after the signature was taken.
	frames[len(frames)-1][2] ^= 0x01
	_, err = Parse(frames, signer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestParseRejectsWrongKey(t *testing.T) {
	signer := testSigner(t)
	other, err := NewSigner(SchemeHMACSHA256, []byte("another-key"))
	require.NoError(t, err)

	header := NewHeader(MsgTypeKernelInfoRequest, "s", "u", ProtocolVersion)
	frames, err := Construct(nil, header, nil, nil, KernelInfoRequest{}, signer)
	require.NoError(t, err)

	_, err = Parse(frames, other)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestParseRejectsMissingDelimiter(t *testing.T) {
	signer := testSigner(t)
	frames := [][]byte{[]byte("id"), []byte("sig"), []byte("{}"), []byte("{}"), []byte("{}"), []byte("{}")}
	_, err := Parse(frames, signer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestParseRejectsTruncatedBody(t *testing.T) {
	signer := testSigner(t)
	header := NewHeader(MsgTypeKernelInfoRequest, "s", "u", ProtocolVersion)
	frames, err := Construct(nil, header, nil, nil, KernelInfoRequest{}, signer)
	require.NoError(t, err)

	// Dropping the content frame leaves only 4 frames after the delimiter.
	_, err = Parse(frames[:len(frames)-1], signer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestParseRejectsMalformedHeaderJSON(t *testing.T) {
	signer := testSigner(t)
	body := [][]byte{[]byte("not json"), []byte("{}"), []byte("{}"), []byte("{}")}
	sig := signer.Sign(body)
	frames := [][]byte{delimiterBytes, []byte(sig), body[0], body[1], body[2], body[3]}
	_, err := Parse(frames, signer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestParseRejectsContentShapeMismatch(t *testing.T) {
	signer := testSigner(t)
	headerBytes, err := json.Marshal(NewHeader(MsgTypeExecuteRequest, "s", "u", ProtocolVersion))
	require.NoError(t, err)
	// execute_request content with a numeric code field.
	body := [][]byte{headerBytes, []byte("{}"), []byte("{}"), []byte(`{"code": 42}`)}
	sig := signer.Sign(body)
	frames := [][]byte{delimiterBytes, []byte(sig), body[0], body[1], body[2], body[3]}

	_, err = Parse(frames, signer)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestParseRetainsUnknownMessageTypeOpaque(t *testing.T) {
	signer := testSigner(t)
	headerBytes, err := json.Marshal(NewHeader("comm_open", "s", "u", ProtocolVersion))
	require.NoError(t, err)
	raw := json.RawMessage(`{"comm_id":"abc","target_name":"t"}`)
	body := [][]byte{headerBytes, []byte("{}"), []byte("{}"), raw}
	sig := signer.Sign(body)
	frames := [][]byte{delimiterBytes, []byte(sig), body[0], body[1], body[2], body[3]}

	msg, err := Parse(frames, signer)
	require.NoError(t, err)
	require.IsType(t, Unhandled{}, msg.Content)
	u := msg.Content.(Unhandled)
	assert.Equal(t, "comm_open", u.MsgType)
	assert.JSONEq(t, string(raw), string(u.Raw))
}

func TestConstructDefaultsAbsentParentAndMetadata(t *testing.T) {
	signer := testSigner(t)
	header := NewHeader(MsgTypeStatus, "s", "u", ProtocolVersion)
	frames, err := Construct(nil, header, nil, nil, Status{ExecutionState: StateIdle}, signer)
	require.NoError(t, err)
	require.Len(t, frames, 6)
	assert.Equal(t, "{}", string(frames[3]))
	assert.Equal(t, "{}", string(frames[4]))
}

func TestIdentityFramesPreservedVerbatim(t *testing.T) {
	signer := testSigner(t)
	header := NewHeader(MsgTypeKernelInfoRequest, "s", "u", ProtocolVersion)
	identities := [][]byte{{0x00, 0x01}, []byte("second")}
	frames, err := Construct(identities, header, nil, nil, KernelInfoRequest{}, signer)
	require.NoError(t, err)

	msg, err := Parse(frames, signer)
	require.NoError(t, err)
	assert.Equal(t, identities, msg.Identities)
}
