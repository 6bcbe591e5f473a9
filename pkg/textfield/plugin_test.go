package textfield

import (
	"errors"
	"testing"

	"github.com/go-drift/textfield/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pluginFixture struct {
	plugin  *Plugin
	bridge  *platform.RecordingBridge
	widgets map[int64]*fakeWidget
}

func newPluginFixture(t *testing.T) *pluginFixture {
	t.Helper()
	f := &pluginFixture{
		bridge:  platform.SetupRecordingBridge(t.Cleanup),
		widgets: make(map[int64]*fakeWidget),
	}
	f.plugin = NewPlugin(func(viewID int64) (NativeWidget, error) {
		w := newFakeWidget()
		f.widgets[viewID] = w
		return w, nil
	}, Options{PlatformVersion: "fake 1"})
	require.NoError(t, f.plugin.Attach())
	t.Cleanup(f.plugin.Detach)
	return f
}

// host performs a host call with JSON-encoded args, as a transport would.
func host(t *testing.T, channel, method string, args any) (any, error) {
	t.Helper()
	data, err := platform.DefaultCodec.Encode(args)
	require.NoError(t, err)
	reply, err := platform.HandleMethodCall(channel, method, data)
	if err != nil {
		return nil, err
	}
	return platform.DefaultCodec.Decode(reply)
}

func (f *pluginFixture) create(t *testing.T, viewID int64, params map[string]any) map[string]any {
	t.Helper()
	result, err := host(t, DefaultChannel+"/views", "create", map[string]any{
		"viewId":   viewID,
		"viewType": DefaultViewType,
		"params":   params,
	})
	require.NoError(t, err)
	return result.(map[string]any)
}

func TestPluginDefaults(t *testing.T) {
	p := NewPlugin(nil, Options{})
	opts := p.Options()
	assert.Equal(t, DefaultChannel, opts.Channel)
	assert.Equal(t, DefaultViewType, opts.ViewType)
	assert.Equal(t, DefaultProtocolVersion, opts.ProtocolVersion)
	assert.Equal(t, DefaultHint, opts.DefaultHint)
	assert.Equal(t, DefaultPlatformVersion(), opts.PlatformVersion)
	assert.False(t, p.Attached())
	assert.Nil(t, p.Views())
}

func TestPluginAttachTwice(t *testing.T) {
	f := newPluginFixture(t)
	assert.ErrorIs(t, f.plugin.Attach(), ErrAlreadyAttached)
}

func TestPluginCreateAndCommand(t *testing.T) {
	f := newPluginFixture(t)

	result := f.create(t, 10, map[string]any{"instanceId": 1, "hint": "Enter name"})
	assert.Equal(t, map[string]any{"viewId": float64(10), "instanceId": float64(1)}, result)
	assert.Equal(t, "Enter name", f.widgets[10].hint)
	assert.Equal(t, []int64{1}, f.plugin.Registry().IDs())

	_, err := host(t, DefaultChannel, MethodSetText, map[string]any{"instanceId": 1, "text": "Bob"})
	require.NoError(t, err)
	text, err := host(t, DefaultChannel, MethodGetText, map[string]any{"instanceId": 1})
	require.NoError(t, err)
	assert.Equal(t, "Bob", text)

	version, err := host(t, DefaultChannel, MethodGetPlatformVersion, nil)
	require.NoError(t, err)
	assert.Equal(t, "fake 1", version)

	msgs := f.bridge.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultChannel, msgs[0].Channel)
	assert.Equal(t, EventTextChanged, msgs[0].Method)
}

func TestPluginInstanceIDFallsBackToViewID(t *testing.T) {
	f := newPluginFixture(t)
	result := f.create(t, 4, nil)
	assert.Equal(t, float64(4), result["instanceId"])
	assert.Equal(t, DefaultHint, f.widgets[4].hint)
}

func TestPluginDuplicateInstance(t *testing.T) {
	f := newPluginFixture(t)
	f.create(t, 1, map[string]any{"instanceId": 7})

	_, err := host(t, DefaultChannel+"/views", "create", map[string]any{
		"viewId":   2,
		"viewType": DefaultViewType,
		"params":   map[string]any{"instanceId": 7},
	})
	require.Error(t, err)
	assert.Equal(t, platform.CodeDuplicateInstance, platform.ToChannelError(err).Code)
	assert.Equal(t, 1, f.plugin.Registry().Len())
	assert.Equal(t, []int64{1}, f.plugin.Views().ViewIDs())
}

func TestPluginInvalidParams(t *testing.T) {
	f := newPluginFixture(t)
	_, err := host(t, DefaultChannel+"/views", "create", map[string]any{
		"viewType": DefaultViewType,
		"params":   map[string]any{"maxLines": 0},
	})
	assert.Equal(t, platform.CodeInvalidArguments, platform.ToChannelError(err).Code)
	assert.Zero(t, f.plugin.Registry().Len())
}

func TestPluginFactoryError(t *testing.T) {
	platform.SetupTestBridge(t.Cleanup)
	p := NewPlugin(func(int64) (NativeWidget, error) { return nil, errors.New("no display") }, Options{})
	require.NoError(t, p.Attach())
	t.Cleanup(p.Detach)

	_, err := p.Create(1, nil)
	assert.ErrorContains(t, err, "no display")
	assert.Zero(t, p.Registry().Len())
}

func TestPluginDisposeDeregisters(t *testing.T) {
	f := newPluginFixture(t)
	f.create(t, 10, map[string]any{"instanceId": 1})
	_, err := host(t, DefaultChannel, MethodRequestFocus, map[string]any{"instanceId": 1})
	require.NoError(t, err)
	f.bridge.Reset()

	_, err = host(t, DefaultChannel+"/views", "dispose", map[string]any{"viewId": 10})
	require.NoError(t, err)
	assert.True(t, f.widgets[10].released)
	assert.Zero(t, f.widgets[10].listenerCount())

	msgs := f.bridge.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, map[string]any{"instanceId": float64(1), "hasFocus": false}, msgs[0].Args)

	_, err = host(t, DefaultChannel, MethodGetText, map[string]any{"instanceId": 1})
	assert.Equal(t, platform.CodeInvalidInstance, platform.ToChannelError(err).Code)

	// Disposing again is harmless and the id may be reused.
	_, err = host(t, DefaultChannel+"/views", "dispose", map[string]any{"viewId": 10})
	require.NoError(t, err)
	f.create(t, 11, map[string]any{"instanceId": 1})
}

func TestPluginDetachDisposesAll(t *testing.T) {
	f := newPluginFixture(t)
	f.create(t, 1, nil)
	f.create(t, 2, nil)
	direct, err := f.plugin.Create(3, nil)
	require.NoError(t, err)

	f.plugin.Detach()

	assert.False(t, f.plugin.Attached())
	assert.Zero(t, f.plugin.Registry().Len())
	for id, w := range f.widgets {
		assert.True(t, w.released, "widget %d", id)
	}
	direct.Dispose()

	_, err = host(t, DefaultChannel, MethodGetText, map[string]any{"instanceId": 1})
	assert.ErrorIs(t, err, platform.ErrChannelNotFound)
	_, err = f.plugin.Create(4, nil)
	assert.ErrorIs(t, err, ErrDetached)

	// Reattaching starts from an empty registry.
	require.NoError(t, f.plugin.Attach())
	assert.Zero(t, f.plugin.Registry().Len())
}
