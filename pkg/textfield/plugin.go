package textfield

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	drifterrors "github.com/go-drift/textfield/pkg/errors"
	"github.com/go-drift/textfield/pkg/platform"
	"go.uber.org/zap"
)

const (
	// DefaultChannel is the method channel name shared by all text fields.
	DefaultChannel = "native_textfield_tv"
	// DefaultViewType is the platform view type the plugin registers.
	DefaultViewType = "native_textfield_tv"
	// DefaultProtocolVersion is reported by getProtocolVersion.
	DefaultProtocolVersion = "v1.0.0"
	// DefaultHint is the placeholder used when creation params carry none.
	DefaultHint = "请输入文本"
)

var (
	// ErrAlreadyAttached is returned by Attach on an attached plugin.
	ErrAlreadyAttached = errors.New("textfield: plugin already attached")
	// ErrDetached is returned by Create while the plugin is detached.
	ErrDetached = errors.New("textfield: plugin not attached")
)

// Options configures a Plugin. Zero fields take the package defaults.
type Options struct {
	Channel         string
	ViewType        string
	PlatformVersion string
	ProtocolVersion string
	DefaultHint     string
}

func (o Options) withDefaults() Options {
	if o.Channel == "" {
		o.Channel = DefaultChannel
	}
	if o.ViewType == "" {
		o.ViewType = DefaultViewType
	}
	if o.PlatformVersion == "" {
		o.PlatformVersion = DefaultPlatformVersion()
	}
	if o.ProtocolVersion == "" {
		o.ProtocolVersion = DefaultProtocolVersion
	}
	if o.DefaultHint == "" {
		o.DefaultHint = DefaultHint
	}
	return o
}

// DefaultPlatformVersion describes the running platform, e.g.
// "linux/amd64 go1.24.0".
func DefaultPlatformVersion() string {
	return fmt.Sprintf("%s/%s %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// Plugin owns the registry, dispatcher and emitter for one engine
// attachment, and acts as the platform view factory for text fields.
type Plugin struct {
	opts       Options
	factory    WidgetFactory
	registry   *Registry
	emitter    *Emitter
	dispatcher *Dispatcher

	mu       sync.Mutex
	channel  *platform.MethodChannel
	views    *platform.PlatformViewRegistry
	attached bool
}

// NewPlugin creates a detached plugin building widgets with factory.
func NewPlugin(factory WidgetFactory, opts Options) *Plugin {
	opts = opts.withDefaults()
	registry := NewRegistry()
	return &Plugin{
		opts:       opts,
		factory:    factory,
		registry:   registry,
		emitter:    NewEmitter(nil),
		dispatcher: NewDispatcher(registry, opts.PlatformVersion, opts.ProtocolVersion),
	}
}

// Options returns the effective options.
func (p *Plugin) Options() Options { return p.opts }

// Registry returns the instance registry.
func (p *Plugin) Registry() *Registry { return p.registry }

// Events returns the emitter, for observers.
func (p *Plugin) Events() *Emitter { return p.emitter }

// Dispatcher returns the command dispatcher.
func (p *Plugin) Dispatcher() *Dispatcher { return p.dispatcher }

// Views returns the platform view registry, or nil while detached.
func (p *Plugin) Views() *platform.PlatformViewRegistry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.views
}

// Attached reports whether the plugin is attached.
func (p *Plugin) Attached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attached
}

// ViewType implements platform.PlatformViewFactory.
func (p *Plugin) ViewType() string { return p.opts.ViewType }

// Attach opens the method channel, installs the dispatcher and registers
// the view factory. The registry starts empty.
func (p *Plugin) Attach() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attached {
		return ErrAlreadyAttached
	}

	p.channel = platform.NewMethodChannel(p.opts.Channel)
	p.channel.SetHandler(p.dispatcher.HandleMethodCall)
	p.emitter.Bind(p.channel)

	p.views = platform.NewPlatformViewRegistry(p.opts.Channel + "/views")
	p.views.RegisterFactory(p)
	p.attached = true

	Logger().Info("text field plugin attached",
		zap.String("channel", p.opts.Channel),
		zap.String("view_type", p.opts.ViewType),
		zap.String("protocol", p.opts.ProtocolVersion),
	)
	return nil
}

// Detach disposes every live text field, then closes the view and method
// channels. Detaching a detached plugin does nothing.
func (p *Plugin) Detach() {
	p.mu.Lock()
	if !p.attached {
		p.mu.Unlock()
		return
	}
	views, channel := p.views, p.channel
	p.attached = false
	p.views, p.channel = nil, nil
	p.mu.Unlock()

	views.Close()
	leftovers := p.registry.Clear()
	for _, a := range leftovers {
		a.Dispose()
	}
	channel.Close()
	p.emitter.Bind(nil)

	Logger().Info("text field plugin detached",
		zap.String("channel", p.opts.Channel),
		zap.Int("leftover_instances", len(leftovers)),
	)
}

// Create implements platform.PlatformViewFactory. It decodes the creation
// params, builds the native widget and registers its adapter.
func (p *Plugin) Create(viewID int64, params map[string]any) (platform.PlatformView, error) {
	if !p.Attached() {
		InstancesCreated.WithLabelValues("detached").Inc()
		return nil, ErrDetached
	}

	cp, err := DecodeCreationParams(viewID, params, p.opts.DefaultHint)
	if err != nil {
		InstancesCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if _, exists := p.registry.Lookup(cp.InstanceID); exists {
		InstancesCreated.WithLabelValues("duplicate").Inc()
		return nil, toChannelError(fmt.Errorf("%w: %d", ErrDuplicateInstance, cp.InstanceID))
	}

	widget, err := p.factory(viewID)
	if err != nil {
		InstancesCreated.WithLabelValues("factory_error").Inc()
		drifterrors.Report(&drifterrors.BridgeError{
			Op:         "textfield.create",
			Kind:       drifterrors.KindInstance,
			Channel:    p.opts.Channel,
			InstanceID: cp.InstanceID,
			Err:        err,
		})
		return nil, fmt.Errorf("create native widget: %w", err)
	}

	adapter := NewAdapter(cp.InstanceID, widget, cp, p.emitter)
	if err := p.registry.Register(cp.InstanceID, adapter); err != nil {
		adapter.Dispose()
		InstancesCreated.WithLabelValues("duplicate").Inc()
		return nil, toChannelError(err)
	}
	InstancesCreated.WithLabelValues("created").Inc()

	Logger().Debug("text field created",
		zap.Int64("view_id", viewID),
		zap.Int64("instance_id", cp.InstanceID),
		zap.Bool("obscure_text", cp.ObscureText),
		zap.Int("max_lines", cp.MaxLines),
	)
	return &textFieldView{
		viewID:   viewID,
		viewType: p.opts.ViewType,
		adapter:  adapter,
		registry: p.registry,
	}, nil
}

// textFieldView is the platform view handed to the view registry.
type textFieldView struct {
	viewID   int64
	viewType string
	adapter  *Adapter
	registry *Registry
}

func (v *textFieldView) ViewID() int64     { return v.viewID }
func (v *textFieldView) ViewType() string  { return v.viewType }
func (v *textFieldView) InstanceID() int64 { return v.adapter.ID() }

// Dispose deregisters the instance, then disposes its adapter.
func (v *textFieldView) Dispose() {
	v.registry.remove(v.adapter.ID(), v.adapter)
	v.adapter.Dispose()
	Logger().Debug("text field disposed",
		zap.Int64("view_id", v.viewID),
		zap.Int64("instance_id", v.adapter.ID()),
	)
}
