package kernel

import (
	"fmt"
	"strconv"

	"github.com/wabznasm/wabznasm/lib/lang"
)

// Render converts a value into its multi-mimetype display payload. A nil
// value (a pure statement) renders to an empty map, which suppresses the
// execute_result broadcast.
func Render(v lang.Value) map[string]string {
	data := make(map[string]string)
	switch value := v.(type) {
	case lang.Integer:
		text := strconv.FormatInt(int64(value), 10)
		data["text/plain"] = text
		data["text/html"] = fmt.Sprintf(`<span class="wz-integer">%s</span>`, text)
	case *lang.Function:
		sig := value.Signature()
		data["text/plain"] = sig
		data["text/html"] = fmt.Sprintf(
			`<div class="wz-function"><span class="wz-function-keyword">function</span> <code>%s</code></div>`,
			sig)
	}
	return data
}

// ErrorName is the ename reported for every evaluation failure.
const ErrorName = "WabznasmError"

// Traceback derives the traceback lines broadcast with an error: the
// display message followed by the machine code of the error kind.
func Traceback(err *lang.EvalError) []string {
	return []string{
		fmt.Sprintf("%s: %s", ErrorName, err.Error()),
		fmt.Sprintf("Error [%s]", err.Kind.Code()),
	}
}
