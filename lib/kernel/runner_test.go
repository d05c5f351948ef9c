package kernel

import (
	"errors"
	"testing"

	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wabznasm/wabznasm/lib/config"
	"github.com/wabznasm/wabznasm/lib/wire"
)

// fakeShell records replies; Recv is never exercised by dispatch.
type fakeShell struct {
	sent []zmq4.Msg
}

func (f *fakeShell) Recv() (zmq4.Msg, error) {
	return zmq4.Msg{}, errors.New("recv not wired in this fake")
}

func (f *fakeShell) Send(msg zmq4.Msg) error {
	f.sent = append(f.sent, msg)
	return nil
}

func newTestRunner(t *testing.T) (*Runner, *fakeShell) {
	t.Helper()
	signer, err := wire.NewSigner(wire.SchemeHMACSHA256, []byte("runner-test"))
	require.NoError(t, err)
	r := &Runner{
		signer:  signer,
		handler: NewHandler(&capturePub{}, signer),
		quit:    make(chan struct{}),
	}
	return r, &fakeShell{}
}

// request builds a parsed inbound message the way the dispatch loop sees it.
func request(t *testing.T, signer *wire.Signer, content wire.Content) *wire.Message {
	t.Helper()
	header := wire.NewHeader(content.MessageType(), "client-session", "client", wire.ProtocolVersion)
	frames, err := wire.Construct([][]byte{[]byte("router-identity")}, header, nil, nil, content, signer)
	require.NoError(t, err)
	msg, err := wire.Parse(frames, signer)
	require.NoError(t, err)
	return msg
}

// lastReply parses the most recent reply sent on the fake shell.
func lastReply(t *testing.T, r *Runner, shell *fakeShell) *wire.Message {
	t.Helper()
	require.NotEmpty(t, shell.sent)
	msg, err := wire.Parse(shell.sent[len(shell.sent)-1].Frames, r.signer)
	require.NoError(t, err)
	return msg
}

func TestNewRunnerRejectsUnsupportedScheme(t *testing.T) {
	_, err := NewRunner(&config.ConnectionInfo{SignatureScheme: "hmac-sha512", Key: "k"})
	require.Error(t, err)
	assert.ErrorIs(t, err, wire.ErrUnsupportedScheme)
}

func TestDispatchKernelInfo(t *testing.T) {
	r, shell := newTestRunner(t)
	req := request(t, r.signer, wire.KernelInfoRequest{})

	r.dispatch(shell, req)

	reply := lastReply(t, r, shell)
	assert.Equal(t, wire.MsgTypeKernelInfoReply, reply.Header.MsgType)
	require.NotNil(t, reply.ParentHeader)
	assert.Equal(t, req.Header.MsgID, reply.ParentHeader.MsgID)
	// Routed back over the request's identity frames.
	require.Len(t, shell.sent[0].Frames, 7)
	assert.Equal(t, "router-identity", string(shell.sent[0].Frames[0]))
	assert.Equal(t, stateRunning, r.state)
}

func TestDispatchExecuteRepliesWithCount(t *testing.T) {
	r, shell := newTestRunner(t)

	r.dispatch(shell, request(t, r.signer, wire.ExecuteRequest{Code: "2+2"}))
	reply := lastReply(t, r, shell)
	assert.Equal(t, wire.MsgTypeExecuteReply, reply.Header.MsgType)

	content := rawContent(t, reply)
	assert.JSONEq(t, `"ok"`, string(content["status"]))
	assert.JSONEq(t, `1`, string(content["execution_count"]))
}

func TestDispatchShutdownTerminates(t *testing.T) {
	r, shell := newTestRunner(t)

	r.dispatch(shell, request(t, r.signer, wire.ShutdownRequest{Restart: true}))
	assert.Equal(t, stateTerminated, r.state)

	reply := lastReply(t, r, shell)
	assert.Equal(t, wire.MsgTypeShutdownReply, reply.Header.MsgType)
	content := rawContent(t, reply)
	assert.JSONEq(t, `"ok"`, string(content["status"]))
	assert.JSONEq(t, `true`, string(content["restart"]))
}

func TestDispatchInterruptAcknowledgesWithoutTerminating(t *testing.T) {
	r, shell := newTestRunner(t)

	r.dispatch(shell, request(t, r.signer, wire.InterruptRequest{}))
	assert.Equal(t, stateRunning, r.state)

	reply := lastReply(t, r, shell)
	assert.Equal(t, wire.MsgTypeInterruptReply, reply.Header.MsgType)
}

func TestDispatchDropsUnhandledTypes(t *testing.T) {
	r, shell := newTestRunner(t)

	req := request(t, r.signer, wire.Unhandled{MsgType: "comm_open", Raw: []byte(`{}`)})
	r.dispatch(shell, req)

	assert.Empty(t, shell.sent)
	assert.Equal(t, stateRunning, r.state)
}

func TestStopIsIdempotent(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Stop()
	r.Stop()
	select {
	case <-r.quit:
	default:
		t.Fatal("quit channel should be closed after Stop")
	}
}
