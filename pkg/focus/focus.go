// Package focus tracks which focusable node holds primary focus within a
// window. At most one node is focused at a time; moving focus notifies the
// node losing it before the node gaining it.
package focus

// FocusNode represents a focusable element.
type FocusNode struct {
	// CanRequestFocus gates RequestFocus. A node that cannot request focus
	// keeps focus it already holds until it is explicitly unfocused.
	CanRequestFocus bool
	// SkipTraversal excludes the node from MoveFocus.
	SkipTraversal bool
	DebugLabel    string

	OnFocusChange func(hasFocus bool)

	manager  *Manager
	hasFocus bool
}

// HasFocus reports whether this node is the primary focus.
func (n *FocusNode) HasFocus() bool {
	return n.hasFocus
}

// RequestFocus asks the owning manager for primary focus.
// It returns true if the node holds focus afterwards.
func (n *FocusNode) RequestFocus() bool {
	if n == nil || n.manager == nil || !n.CanRequestFocus {
		return n != nil && n.hasFocus
	}
	n.manager.setPrimaryFocus(n)
	return true
}

// Unfocus removes focus from this node if it has primary focus.
func (n *FocusNode) Unfocus() {
	if n == nil || n.manager == nil {
		return
	}
	if n.manager.primary == n {
		n.manager.setPrimaryFocus(nil)
	}
}

// setFocusState updates the focus flag and notifies the callback.
func (n *FocusNode) setFocusState(hasFocus bool) {
	n.hasFocus = hasFocus
	if n.OnFocusChange != nil {
		n.OnFocusChange(hasFocus)
	}
}

// Manager owns a set of nodes in traversal order.
type Manager struct {
	nodes   []*FocusNode
	primary *FocusNode
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// PrimaryFocus returns the focused node, or nil.
func (m *Manager) PrimaryFocus() *FocusNode {
	return m.primary
}

// Attach appends node to the traversal order.
func (m *Manager) Attach(node *FocusNode) {
	if node == nil || node.manager == m {
		return
	}
	node.manager = m
	m.nodes = append(m.nodes, node)
}

// Detach removes node. If it held focus, focus is cleared and the node is
// notified.
func (m *Manager) Detach(node *FocusNode) {
	if node == nil || node.manager != m {
		return
	}
	if m.primary == node {
		m.setPrimaryFocus(nil)
	}
	for i, n := range m.nodes {
		if n == node {
			m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
			break
		}
	}
	node.manager = nil
}

// MoveFocus moves focus by delta positions, wrapping around and skipping
// nodes that cannot take focus. Returns false if no node qualifies.
func (m *Manager) MoveFocus(delta int) bool {
	count := len(m.nodes)
	if count == 0 {
		return false
	}

	current := m.indexOf(m.primary)
	if current < 0 && delta < 0 {
		current = count
	}
	for step := 1; step <= count; step++ {
		candidate := m.nodes[wrapIndex(current+delta*step, count)]
		if candidate.CanRequestFocus && !candidate.SkipTraversal {
			m.setPrimaryFocus(candidate)
			return true
		}
	}
	return false
}

func (m *Manager) indexOf(node *FocusNode) int {
	for i, n := range m.nodes {
		if n == node {
			return i
		}
	}
	return -1
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

// setPrimaryFocus updates the primary focus to the given node.
func (m *Manager) setPrimaryFocus(node *FocusNode) {
	if m.primary == node {
		return
	}
	previous := m.primary
	m.primary = node
	if previous != nil {
		previous.setFocusState(false)
	}
	if node != nil {
		node.setFocusState(true)
	}
}
