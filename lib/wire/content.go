package wire

import "encoding/json"

// Request message types the shell dispatch loop handles. Anything else is
// carried as Unhandled and dropped by the dispatcher.
const (
	MsgTypeKernelInfoRequest = "kernel_info_request" // client -> kernel: capability probe
	MsgTypeExecuteRequest    = "execute_request"     // client -> kernel: run code
	MsgTypeShutdownRequest   = "shutdown_request"    // client -> kernel: stop (optionally restart)
	MsgTypeInterruptRequest  = "interrupt_request"   // client -> kernel: interrupt current work

	MsgTypeKernelInfoReply = "kernel_info_reply"
	MsgTypeExecuteReply    = "execute_reply"
	MsgTypeShutdownReply   = "shutdown_reply"
	MsgTypeInterruptReply  = "interrupt_reply"

	MsgTypeStatus        = "status"         // iopub: busy/idle transitions
	MsgTypeExecuteResult = "execute_result" // iopub: rendered value of an execution
	MsgTypeError         = "error"          // iopub: evaluation failure
)

// Content is a typed message body. The concrete type is selected by the
// header's msg_type.
type Content interface {
	MessageType() string
}

// KernelInfoRequest has no fields.
type KernelInfoRequest struct{}

// ExecuteRequest carries the code to run. Only Code is acted upon; the
// remaining fields are accepted for protocol compatibility.
type ExecuteRequest struct {
	Code            string                     `json:"code"`
	Silent          bool                       `json:"silent,omitempty"`
	StoreHistory    bool                       `json:"store_history,omitempty"`
	UserExpressions map[string]json.RawMessage `json:"user_expressions,omitempty"`
	AllowStdin      bool                       `json:"allow_stdin,omitempty"`
	StopOnError     bool                       `json:"stop_on_error,omitempty"`
}

// ShutdownRequest asks the kernel to exit; restart tells the client whether
// it intends to start a fresh kernel.
type ShutdownRequest struct {
	Restart bool `json:"restart"`
}

// InterruptRequest has no fields.
type InterruptRequest struct{}

// Unhandled preserves the content of a message type the kernel does not
// dispatch on, for forward compatibility.
type Unhandled struct {
	MsgType string
	Raw     json.RawMessage
}

func (KernelInfoRequest) MessageType() string { return MsgTypeKernelInfoRequest }
func (ExecuteRequest) MessageType() string    { return MsgTypeExecuteRequest }
func (ShutdownRequest) MessageType() string   { return MsgTypeShutdownRequest }
func (InterruptRequest) MessageType() string  { return MsgTypeInterruptRequest }
func (u Unhandled) MessageType() string       { return u.MsgType }

// contentDecoders maps a msg_type to a decoder for its content frame. This
// is the closed set of request shapes the dispatcher acts on.
var contentDecoders = map[string]func([]byte) (Content, error){
	MsgTypeKernelInfoRequest: func(raw []byte) (Content, error) {
		var c KernelInfoRequest
		return c, json.Unmarshal(raw, &c)
	},
	MsgTypeExecuteRequest: func(raw []byte) (Content, error) {
		var c ExecuteRequest
		return c, json.Unmarshal(raw, &c)
	},
	MsgTypeShutdownRequest: func(raw []byte) (Content, error) {
		var c ShutdownRequest
		return c, json.Unmarshal(raw, &c)
	},
	MsgTypeInterruptRequest: func(raw []byte) (Content, error) {
		var c InterruptRequest
		return c, json.Unmarshal(raw, &c)
	},
}

// decodeContent interprets raw according to msgType. Unknown types are
// retained opaque rather than rejected.
func decodeContent(msgType string, raw []byte) (Content, error) {
	decode, ok := contentDecoders[msgType]
	if !ok {
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		return Unhandled{MsgType: msgType, Raw: cp}, nil
	}
	c, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return c, nil
}
