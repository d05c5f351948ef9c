package kernel

import (
	"encoding/json"

	"github.com/wabznasm/wabznasm/lib/wire"
)

// broadcaster is the send side of the iopub queue.
type broadcaster interface {
	Publish(frames [][]byte)
}

// Handler implements the per-request kernel logic. It owns the long-lived
// session and emits iopub events through the publisher's queue; replies are
// returned to the dispatch loop for signing and sending.
type Handler struct {
	session *Session
	pub     broadcaster
	signer  *wire.Signer
}

// NewHandler creates a handler with a fresh session.
func NewHandler(pub broadcaster, signer *wire.Signer) *Handler {
	return &Handler{
		session: NewSession(),
		pub:     pub,
		signer:  signer,
	}
}

// Session exposes the handler's session.
func (h *Handler) Session() *Session { return h.session }

// KernelInfo answers a kernel_info_request. Pure; nothing is broadcast.
func (h *Handler) KernelInfo(parent *wire.Header) wire.KernelInfoReply {
	return wire.KernelInfoReply{
		Status:                wire.StatusOK,
		ProtocolVersion:       wire.ProtocolVersion,
		Implementation:        "wabznasm",
		ImplementationVersion: Version,
		LanguageInfo: wire.LanguageInfo{
			Name:              "wabznasm",
			Version:           Version,
			Mimetype:          "text/plain",
			FileExtension:     ".wz",
			PygmentsLexer:     "text",
			CodemirrorMode:    "text",
			NBConvertExporter: "script",
		},
		Banner:    "Wabznasm Kernel",
		HelpLinks: []wire.HelpLink{},
	}
}

// ExecuteRequest runs one cell. For each request the iopub sequence is
// strictly busy, then at most one of execute_result or error, then idle;
// the emissions are sequential sends on the bounded queue, and the session
// is only ever driven by the dispatch goroutine, so sequences from distinct
// requests never interleave.
func (h *Handler) ExecuteRequest(req wire.ExecuteRequest, parent *wire.Header) wire.ExecuteReply {
	h.emit(wire.Status{ExecutionState: wire.StateBusy}, parent)

	value, evalErr := h.session.Execute(req.Code)

	var reply wire.ExecuteReply
	if evalErr != nil {
		log.WithField("code", req.Code).WithField("kind", evalErr.Kind.Code()).
			Debug("Execution failed")
		h.emit(wire.ErrorContent{
			EName:     ErrorName,
			EValue:    evalErr.Error(),
			Traceback: Traceback(evalErr),
		}, parent)
		reply = wire.ExecuteReply{
			Status:         wire.StatusError,
			ExecutionCount: h.session.ExecutionCount(),
			Payload:        []json.RawMessage{},
		}
	} else {
		if data := Render(value); len(data) > 0 {
			h.emit(wire.ExecuteResult{
				ExecutionCount: h.session.ExecutionCount(),
				Data:           data,
				Metadata:       map[string]string{},
			}, parent)
		}
		reply = wire.ExecuteReply{
			Status:         wire.StatusOK,
			ExecutionCount: h.session.ExecutionCount(),
			Payload:        []json.RawMessage{},
		}
	}

	h.emit(wire.Status{ExecutionState: wire.StateIdle}, parent)
	return reply
}

// ShutdownRequest resets the session and acknowledges, echoing restart.
func (h *Handler) ShutdownRequest(req wire.ShutdownRequest, parent *wire.Header) wire.ShutdownReply {
	h.session.Reset()
	log.WithField("restart", req.Restart).Debug("Shutdown requested, session reset")
	return wire.ShutdownReply{Status: wire.StatusOK, Restart: req.Restart}
}

// emit signs and enqueues one iopub message parented to the triggering
// request. The first frame is the msg_type, which pub/sub subscribers use
// as the topic. Failures are logged and swallowed: broadcast is
// best-effort.
func (h *Handler) emit(content wire.Content, parent *wire.Header) {
	header := wire.ChildHeader(parent, content.MessageType())
	frames, err := wire.Construct(
		[][]byte{[]byte(header.MsgType)},
		header,
		parent,
		nil,
		content,
		h.signer,
	)
	if err != nil {
		log.WithError(err).WithField("msg_type", header.MsgType).
			Error("Failed to construct iopub message")
		return
	}
	h.pub.Publish(frames)
}
