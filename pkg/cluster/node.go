package cluster

import (
	"github.com/clusproject/clus/internal/wide"
	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// NodeState is the observable state of a cluster node. Values map directly
// onto CLUSTER_NODE_STATE, so an unrecognized native value is preserved
// rather than collapsed.
type NodeState int32

const (
	NodeUnknown NodeState = NodeState(winapi.NodeStateUnknown)
	NodeUp      NodeState = NodeState(winapi.NodeStateUp)
	NodeDown    NodeState = NodeState(winapi.NodeStateDown)
	NodePaused  NodeState = NodeState(winapi.NodeStatePaused)
	NodeJoining NodeState = NodeState(winapi.NodeStateJoining)
)

// String returns a human-readable state name.
func (s NodeState) String() string {
	switch s {
	case NodeUp:
		return "Up"
	case NodeDown:
		return "Down"
	case NodePaused:
		return "Paused"
	case NodeJoining:
		return "Joining"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name, so JSON and YAML encodings carry
// "Up"/"Down" instead of raw numbers.
func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Node wraps an open handle to one cluster member machine. It stays valid
// only while its parent Session is open.
type Node struct {
	session *Session
	h       *handle
	name    string
}

// OpenNode opens a node by name. A name the cluster does not know yields an
// ObjectNotFound error.
func (s *Session) OpenNode(name string) (*Node, error) {
	if err := s.guard("OpenClusterNode"); err != nil {
		return nil, err
	}

	wname, err := wide.FromString(name)
	if err != nil {
		return nil, clerr.NewInvalidUTF16("OpenClusterNode", err)
	}

	raw, st := s.calls.OpenClusterNode(s.h.raw, wname)
	if raw == 0 {
		return nil, openErr("OpenClusterNode", name, st)
	}

	h, err := newHandle("OpenClusterNode", "CloseClusterNode", raw, st, s.calls.CloseClusterNode)
	if err != nil {
		return nil, err
	}
	return &Node{session: s, h: h, name: name}, nil
}

// Name returns the node name. It is captured at open time and stable for the
// node's lifetime.
func (n *Node) Name() string {
	return n.name
}

// Close releases the node handle. Idempotent.
func (n *Node) Close() error {
	return n.h.Close()
}

func (n *Node) guard(op string) error {
	if n.session.Closed() || !n.h.ok() {
		return clerr.NewSessionClosed(op)
	}
	return nil
}

// State returns the node's current state. The native query reports failure
// by returning the unknown state, which is surfaced as NodeUnknown rather
// than an error.
func (n *Node) State() (NodeState, error) {
	if err := n.guard("GetClusterNodeState"); err != nil {
		return NodeUnknown, err
	}
	return NodeState(n.session.calls.GetClusterNodeState(n.h.raw)), nil
}

// Pause prevents resources from failing over to this node. Pausing an
// already-paused node is whatever the cluster service makes of it; the
// native result is passed through without special-casing.
func (n *Node) Pause() error {
	if err := n.guard("PauseClusterNode"); err != nil {
		return err
	}
	if st := n.session.calls.PauseClusterNode(n.h.raw); st != winapi.ErrorSuccess {
		return nativeErr("PauseClusterNode", n.name, st)
	}
	return nil
}

// Resume resumes a paused node, with the same pass-through contract as
// Pause.
func (n *Node) Resume() error {
	if err := n.guard("ResumeClusterNode"); err != nil {
		return err
	}
	if st := n.session.calls.ResumeClusterNode(n.h.raw); st != winapi.ErrorSuccess {
		return nativeErr("ResumeClusterNode", n.name, st)
	}
	return nil
}
