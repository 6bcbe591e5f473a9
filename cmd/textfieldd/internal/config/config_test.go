package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestResolveDefaults(t *testing.T) {
	r, err := Resolve(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, r.Addr)
	assert.Equal(t, defaultCallTimeout, r.CallTimeout)
	assert.Equal(t, zapcore.InfoLevel, r.LogLevel)
	assert.Empty(t, r.Channel)
	assert.Empty(t, r.ProtocolVersion)
	assert.Empty(t, r.PlatformVersion)
}

func TestResolveFile(t *testing.T) {
	dir := writeConfig(t, `
plugin:
  channel: my_textfield
  viewType: my_textfield_view
  defaultHint: Type here
  protocolVersion: "1.2"
server:
  addr: ":9000"
  callTimeout: 250ms
  sendQueue: 16
  callRate: 50
  callBurst: 5
log:
  level: debug
  development: true
  trace: true
platform:
  name: Android
  release: "14"
`)
	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Root)
	assert.Equal(t, "my_textfield", r.Channel)
	assert.Equal(t, "my_textfield_view", r.ViewType)
	assert.Equal(t, "Type here", r.DefaultHint)
	assert.Equal(t, "v1.2.0", r.ProtocolVersion)
	assert.Equal(t, "Android 14", r.PlatformVersion)
	assert.Equal(t, ":9000", r.Addr)
	assert.Equal(t, 250*time.Millisecond, r.CallTimeout)
	assert.Equal(t, 16, r.SendQueue)
	assert.Equal(t, 50.0, r.CallRate)
	assert.Equal(t, 5, r.CallBurst)
	assert.True(t, r.Trace)
	assert.Equal(t, zapcore.DebugLevel, r.LogLevel)
	assert.True(t, r.LogDevelopment)
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "plugin: [unterminated"},
		{"bad version", "plugin:\n  protocolVersion: one\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"negative timeout", "server:\n  callTimeout: -1s\n"},
		{"negative queue", "server:\n  sendQueue: -3\n"},
		{"negative rate", "server:\n  callRate: -1\n"},
		{"spaced channel", "plugin:\n  channel: a b\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPlatformVersion(t *testing.T) {
	assert.Equal(t, "", platformVersion(PlatformConfig{Release: "14"}))
	assert.Equal(t, "Android", platformVersion(PlatformConfig{Name: "Android"}))
	assert.Equal(t, "Android 14", platformVersion(PlatformConfig{Name: " Android ", Release: "14"}))
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible("v1.0.0", "1.4.2"))
	assert.False(t, Compatible("v1.0.0", "v2.0.0"))
	assert.False(t, Compatible("v1.0.0", "latest"))
	assert.False(t, Compatible("", "v1.0.0"))
}
