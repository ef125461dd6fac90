package pluginreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	reg := NewRegistry()
	el := &FuncElement{}

	require.NoError(t, reg.Register("board", el))
	assert.Error(t, reg.Register("board", &FuncElement{}))

	got, ok := reg.Get("board")
	require.True(t, ok)
	assert.Same(t, Element(el), got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestFuncElementRenderSeesContext(t *testing.T) {
	el := &FuncElement{RenderFunc: func(rc RenderContext) string {
		s, _ := rc.Value.(string)
		return "board: " + s
	}}

	out := el.Render(RenderContext{Value: "quest 2"})
	assert.Equal(t, "board: quest 2", out)
}

func TestFuncElementSubscribeAndCancel(t *testing.T) {
	el := &FuncElement{}

	var got []string
	cancel := el.Subscribe(func(detail string) { got = append(got, detail) })

	el.EmitError("render blew up")
	require.Equal(t, []string{"render blew up"}, got)

	cancel()
	el.EmitError("after unmount")
	assert.Equal(t, []string{"render blew up"}, got, "cancelled listener must not fire")
}
