// Package kernel implements the interactive kernel: a persistent evaluation
// session, the per-request handler, the iopub broadcast actor, and the
// socket runner that ties the three socket roles together.
package kernel

import (
	"github.com/wabznasm/wabznasm/lib/lang"
	"github.com/wabznasm/wabznasm/lib/util/logger"
)

var log = logger.GetLogger()

// Version is the kernel implementation version reported in kernel_info.
const Version = "0.1.0"

// Session owns the environment that persists across cell executions and the
// execution counter. It is mutated only by the dispatch goroutine; one
// request is fully processed before the next begins, so no locking is
// needed.
type Session struct {
	env   *lang.Environment
	count uint64
}

// NewSession creates a session with an empty environment and a zero counter.
func NewSession() *Session {
	return &Session{env: lang.NewEnvironment()}
}

// Execute runs code against the session environment. The counter increments
// exactly once per call, before evaluation, so failures count too. A nil
// value with a nil error means the code produced nothing to display.
func (s *Session) Execute(code string) (lang.Value, *lang.EvalError) {
	s.count++
	return lang.Eval(code, s.env)
}

// ExecutionCount returns the number of Execute calls since the last reset.
func (s *Session) ExecutionCount() uint64 {
	return s.count
}

// Reset drops all bindings and zeroes the counter.
func (s *Session) Reset() {
	s.env = lang.NewEnvironment()
	s.count = 0
	log.Debug("Session reset")
}
