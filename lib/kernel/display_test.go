package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wabznasm/wabznasm/lib/lang"
)

func TestRenderInteger(t *testing.T) {
	data := Render(lang.Integer(42))
	assert.Equal(t, "42", data["text/plain"])
	assert.Contains(t, data["text/html"], "wz-integer")
	assert.Contains(t, data["text/html"], "42")
}

func TestRenderFunction(t *testing.T) {
	env := lang.NewEnvironment()
	v, err := lang.Eval("{[x;y] x+y}", env)
	require.Nil(t, err)

	data := Render(v)
	assert.Equal(t, "{[x;y] x+y}", data["text/plain"])
	assert.Contains(t, data["text/html"], "wz-function")
}

func TestRenderNilValueIsEmpty(t *testing.T) {
	assert.Empty(t, Render(nil))
}

func TestTraceback(t *testing.T) {
	_, err := lang.Eval("1/0", lang.NewEnvironment())
	require.NotNil(t, err)

	lines := Traceback(err)
	require.Len(t, lines, 2)
	assert.Equal(t, "WabznasmError: division by zero", lines[0])
	assert.Equal(t, "Error [DIVISION_BY_ZERO]", lines[1])
}
