package wire

import "encoding/json"

// Reply status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// HelpLink is one entry in kernel_info_reply's help_links.
type HelpLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// LanguageInfo describes the kernel's language in kernel_info_reply.
type LanguageInfo struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	Mimetype          string `json:"mimetype"`
	FileExtension     string `json:"file_extension"`
	PygmentsLexer     string `json:"pygments_lexer"`
	CodemirrorMode    string `json:"codemirror_mode"`
	NBConvertExporter string `json:"nbconvert_exporter"`
}

// KernelInfoReply answers a kernel_info_request.
type KernelInfoReply struct {
	Status                string       `json:"status"`
	ProtocolVersion       string       `json:"protocol_version"`
	Implementation        string       `json:"implementation"`
	ImplementationVersion string       `json:"implementation_version"`
	LanguageInfo          LanguageInfo `json:"language_info"`
	Banner                string       `json:"banner"`
	HelpLinks             []HelpLink   `json:"help_links"`
	Debugger              bool         `json:"debugger"`
}

// ExecuteReply answers an execute_request. ExecutionCount always reflects
// the post-increment counter, whether or not the execution succeeded.
type ExecuteReply struct {
	Status          string                     `json:"status"`
	ExecutionCount  uint64                     `json:"execution_count"`
	Payload         []json.RawMessage          `json:"payload"`
	UserExpressions map[string]json.RawMessage `json:"user_expressions"`
}

// ShutdownReply acknowledges a shutdown_request, echoing restart.
type ShutdownReply struct {
	Status  string `json:"status"`
	Restart bool   `json:"restart"`
}

// InterruptReply acknowledges an interrupt_request.
type InterruptReply struct {
	Status string `json:"status"`
}

// Status broadcasts an execution state transition on iopub.
type Status struct {
	ExecutionState string `json:"execution_state"`
}

// Execution states carried by Status.
const (
	StateBusy = "busy"
	StateIdle = "idle"
)

// ExecuteResult broadcasts the rendered value of one execution on iopub.
type ExecuteResult struct {
	ExecutionCount uint64            `json:"execution_count"`
	Data           map[string]string `json:"data"`
	Metadata       map[string]string `json:"metadata"`
}

// ErrorContent broadcasts an evaluation failure on iopub.
type ErrorContent struct {
	EName     string   `json:"ename"`
	EValue    string   `json:"evalue"`
	Traceback []string `json:"traceback"`
}

func (KernelInfoReply) MessageType() string { return MsgTypeKernelInfoReply }
func (ExecuteReply) MessageType() string    { return MsgTypeExecuteReply }
func (ShutdownReply) MessageType() string   { return MsgTypeShutdownReply }
func (InterruptReply) MessageType() string  { return MsgTypeInterruptReply }
func (Status) MessageType() string          { return MsgTypeStatus }
func (ExecuteResult) MessageType() string   { return MsgTypeExecuteResult }
func (ErrorContent) MessageType() string    { return MsgTypeError }
