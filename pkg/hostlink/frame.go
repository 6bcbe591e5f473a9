package hostlink

import (
	"encoding/json"

	"github.com/go-drift/textfield/pkg/platform"
)

// FrameKind distinguishes the three frames exchanged with the host.
type FrameKind string

const (
	// KindCall is a host-to-native method call expecting a reply.
	KindCall FrameKind = "call"
	// KindReply answers the call with the same id.
	KindReply FrameKind = "reply"
	// KindEvent is a one-way native-to-host notification.
	KindEvent FrameKind = "event"
)

// Frame is one JSON WebSocket message. Args and Result hold the platform
// codec's encoding unchanged.
type Frame struct {
	Kind    FrameKind              `json:"kind"`
	ID      int64                  `json:"id,omitempty"`
	Channel string                 `json:"channel,omitempty"`
	Method  string                 `json:"method,omitempty"`
	Args    json.RawMessage        `json:"args,omitempty"`
	Result  json.RawMessage        `json:"result,omitempty"`
	Error   *platform.ChannelError `json:"error,omitempty"`
}

func replyTo(call Frame, result []byte, err error) Frame {
	reply := Frame{Kind: KindReply, ID: call.ID}
	if err != nil {
		reply.Error = platform.ToChannelError(err)
		return reply
	}
	if len(result) == 0 {
		result = []byte("null")
	}
	reply.Result = result
	return reply
}
