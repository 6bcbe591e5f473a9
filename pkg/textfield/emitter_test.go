package textfield

import (
	"errors"
	"testing"

	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterSendsEnvelopesInOrder(t *testing.T) {
	bridge := platform.SetupRecordingBridge(t.Cleanup)
	e := NewEmitter(platform.NewMethodChannel("test/textfield"))

	e.TextChanged(7, "h")
	e.TextChanged(7, "hi")
	e.FocusChanged(7, true)

	assert.Equal(t, []platform.Message{
		{Channel: "test/textfield", Method: EventTextChanged, Args: map[string]any{"instanceId": float64(7), "text": "h"}},
		{Channel: "test/textfield", Method: EventTextChanged, Args: map[string]any{"instanceId": float64(7), "text": "hi"}},
		{Channel: "test/textfield", Method: EventFocusChanged, Args: map[string]any{"instanceId": float64(7), "hasFocus": true}},
	}, bridge.Messages())
}

func TestEmitterEmptyTextKeepsField(t *testing.T) {
	bridge := platform.SetupRecordingBridge(t.Cleanup)
	e := NewEmitter(platform.NewMethodChannel("test/textfield"))

	e.TextChanged(1, "")
	msgs := bridge.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, map[string]any{"instanceId": float64(1), "text": ""}, msgs[0].Args)
}

func TestEmitterReportsDeliveryFailure(t *testing.T) {
	bridge := platform.SetupRecordingBridge(t.Cleanup)
	bridge.Err = errors.New("link down")

	var reported []*drifterrors.BridgeError
	drifterrors.SetHandler(handlerFunc{onError: func(err *drifterrors.BridgeError) { reported = append(reported, err) }})
	t.Cleanup(func() { drifterrors.SetHandler(nil) })

	e := NewEmitter(platform.NewMethodChannel("test/textfield"))
	var seen []Event
	e.Subscribe(func(ev Event) { seen = append(seen, ev) })

	e.FocusChanged(3, false)

	require.Len(t, reported, 1)
	assert.Equal(t, drifterrors.KindPlatform, reported[0].Kind)
	assert.Equal(t, int64(3), reported[0].InstanceID)
	assert.Equal(t, "test/textfield", reported[0].Channel)
	assert.EqualError(t, reported[0].Err, "link down")
	require.Len(t, seen, 1, "observers still see undeliverable events")
}

func TestEmitterUnbound(t *testing.T) {
	var reported []*drifterrors.BridgeError
	drifterrors.SetHandler(handlerFunc{onError: func(err *drifterrors.BridgeError) { reported = append(reported, err) }})
	t.Cleanup(func() { drifterrors.SetHandler(nil) })

	NewEmitter(nil).TextChanged(1, "x")
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0].Err, platform.ErrNotConnected)
}

func TestEmitterSubscriptions(t *testing.T) {
	platform.SetupTestBridge(t.Cleanup)
	e := NewEmitter(platform.NewMethodChannel("test/textfield"))

	var a, b []Event
	subA := e.Subscribe(func(ev Event) { a = append(a, ev) })
	e.Subscribe(func(ev Event) { b = append(b, ev) })

	e.TextChanged(1, "x")
	subA.Cancel()
	subA.Cancel()
	assert.True(t, subA.IsCanceled())
	e.FocusChanged(1, true)

	require.Len(t, a, 1)
	require.Len(t, b, 2)
	assert.Equal(t, Event{Seq: b[0].Seq, Method: EventTextChanged, InstanceID: 1, Text: "x"}, b[0])
	assert.Equal(t, EventFocusChanged, b[1].Method)
	assert.True(t, b[1].HasFocus)
	assert.Greater(t, b[1].Seq, b[0].Seq)
}
