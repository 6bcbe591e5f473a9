package platform

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// PlatformView represents a native view embedded in the host's view tree.
type PlatformView interface {
	// ViewID returns the framework view identifier.
	ViewID() int64

	// ViewType returns the type identifier for this view (e.g., "native_textfield_tv").
	ViewType() string

	// Dispose releases the native view. It must be safe to call more than once.
	Dispose()
}

// InstanceView is implemented by views addressed by an identifier other
// than their view id. The identifier is reported back to the host on create.
type InstanceView interface {
	InstanceID() int64
}

// PlatformViewFactory creates platform views of a specific type.
type PlatformViewFactory interface {
	// Create creates a new platform view instance.
	Create(viewID int64, params map[string]any) (PlatformView, error)

	// ViewType returns the view type this factory creates.
	ViewType() string
}

// PlatformViewRegistry tracks view factories and live views, and answers
// the host's create and dispose requests on its channel.
type PlatformViewRegistry struct {
	factories map[string]PlatformViewFactory
	views     map[int64]PlatformView
	nextID    atomic.Int64
	mu        sync.RWMutex
	channel   *MethodChannel
}

// NewPlatformViewRegistry creates a registry listening on channelName.
func NewPlatformViewRegistry(channelName string) *PlatformViewRegistry {
	r := &PlatformViewRegistry{
		factories: make(map[string]PlatformViewFactory),
		views:     make(map[int64]PlatformView),
		channel:   NewMethodChannel(channelName),
	}
	r.channel.SetHandler(r.handleMethodCall)
	return r
}

// Channel returns the channel the registry listens on.
func (r *PlatformViewRegistry) Channel() *MethodChannel {
	return r.channel
}

// RegisterFactory registers a factory for a platform view type.
func (r *PlatformViewRegistry) RegisterFactory(factory PlatformViewFactory) {
	r.mu.Lock()
	r.factories[factory.ViewType()] = factory
	r.mu.Unlock()
}

// UnregisterFactory removes the factory for viewType. Live views are untouched.
func (r *PlatformViewRegistry) UnregisterFactory(viewType string) {
	r.mu.Lock()
	delete(r.factories, viewType)
	r.mu.Unlock()
}

// Create creates a view of the given type under a registry-assigned id.
func (r *PlatformViewRegistry) Create(viewType string, params map[string]any) (PlatformView, error) {
	return r.create(viewType, r.allocateID(), params)
}

// CreateWithID creates a view under a host-assigned id.
func (r *PlatformViewRegistry) CreateWithID(viewID int64, viewType string, params map[string]any) (PlatformView, error) {
	return r.create(viewType, viewID, params)
}

func (r *PlatformViewRegistry) create(viewType string, viewID int64, params map[string]any) (PlatformView, error) {
	r.mu.RLock()
	factory, ok := r.factories[viewType]
	_, exists := r.views[viewID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewTypeNotFound, viewType)
	}
	if exists {
		return nil, fmt.Errorf("%w: view %d already exists", ErrInvalidArguments, viewID)
	}

	view, err := factory.Create(viewID, params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.views[viewID] = view
	r.mu.Unlock()

	return view, nil
}

// allocateID returns the next id not held by a live view.
func (r *PlatformViewRegistry) allocateID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for {
		id := r.nextID.Add(1)
		if _, taken := r.views[id]; !taken {
			return id
		}
	}
}

// Dispose destroys a platform view. Unknown ids are ignored.
func (r *PlatformViewRegistry) Dispose(viewID int64) {
	r.mu.Lock()
	view, ok := r.views[viewID]
	if ok {
		delete(r.views, viewID)
	}
	r.mu.Unlock()

	if ok {
		view.Dispose()
	}
}

// DisposeAll destroys every live view in ascending id order.
func (r *PlatformViewRegistry) DisposeAll() {
	for _, id := range r.ViewIDs() {
		r.Dispose(id)
	}
}

// GetView returns a platform view by ID.
func (r *PlatformViewRegistry) GetView(viewID int64) PlatformView {
	r.mu.RLock()
	view := r.views[viewID]
	r.mu.RUnlock()
	return view
}

// ViewIDs returns the ids of live views in ascending order.
func (r *PlatformViewRegistry) ViewIDs() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close disposes every view and detaches the registry from its channel.
func (r *PlatformViewRegistry) Close() {
	r.DisposeAll()
	r.channel.Close()
}

// handleMethodCall processes create and dispose requests from the host.
func (r *PlatformViewRegistry) handleMethodCall(method string, args any) (any, error) {
	a, err := ParseArgs(args)
	if err != nil {
		return nil, err
	}

	switch method {
	case "create":
		viewType, ok := a.String("viewType")
		if !ok {
			return nil, fmt.Errorf("%w: viewType is required", ErrInvalidArguments)
		}
		params, _ := a.Map("params")

		var view PlatformView
		if a.Has("viewId") {
			viewID, ok := a.Int64("viewId")
			if !ok {
				return nil, fmt.Errorf("%w: viewId must be an integer", ErrInvalidArguments)
			}
			view, err = r.CreateWithID(viewID, viewType, params)
		} else {
			view, err = r.Create(viewType, params)
		}
		if err != nil {
			return nil, err
		}

		result := map[string]any{"viewId": view.ViewID()}
		if iv, ok := view.(InstanceView); ok {
			result["instanceId"] = iv.InstanceID()
		}
		return result, nil

	case "dispose":
		viewID, ok := a.Int64("viewId")
		if !ok {
			return nil, fmt.Errorf("%w: viewId is required", ErrInvalidArguments)
		}
		r.Dispose(viewID)
		return nil, nil

	default:
		return nil, ErrMethodNotFound
	}
}
