package cluster

import (
	"github.com/clusproject/clus/internal/wide"
	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// GroupState is the observable state of a cluster group (role), mapping
// directly onto CLUSTER_GROUP_STATE.
type GroupState int32

const (
	GroupUnknown       GroupState = GroupState(winapi.GroupStateUnknown)
	GroupOnline        GroupState = GroupState(winapi.GroupStateOnline)
	GroupOffline       GroupState = GroupState(winapi.GroupStateOffline)
	GroupFailed        GroupState = GroupState(winapi.GroupStateFailed)
	GroupPartialOnline GroupState = GroupState(winapi.GroupStatePartialOnline)
	GroupPending       GroupState = GroupState(winapi.GroupStatePending)
)

// String returns a human-readable state name.
func (s GroupState) String() string {
	switch s {
	case GroupOnline:
		return "Online"
	case GroupOffline:
		return "Offline"
	case GroupFailed:
		return "Failed"
	case GroupPartialOnline:
		return "PartialOnline"
	case GroupPending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name for JSON and YAML encodings.
func (s GroupState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Group wraps an open handle to one cluster group: a named collection of
// resources that fails over together. It stays valid only while its parent
// Session is open.
type Group struct {
	session *Session
	h       *handle
	name    string
}

// OpenGroup opens a group by name. A name the cluster does not know yields
// an ObjectNotFound error.
func (s *Session) OpenGroup(name string) (*Group, error) {
	if err := s.guard("OpenClusterGroup"); err != nil {
		return nil, err
	}

	wname, err := wide.FromString(name)
	if err != nil {
		return nil, clerr.NewInvalidUTF16("OpenClusterGroup", err)
	}

	raw, st := s.calls.OpenClusterGroup(s.h.raw, wname)
	if raw == 0 {
		return nil, openErr("OpenClusterGroup", name, st)
	}

	h, err := newHandle("OpenClusterGroup", "CloseClusterGroup", raw, st, s.calls.CloseClusterGroup)
	if err != nil {
		return nil, err
	}
	return &Group{session: s, h: h, name: name}, nil
}

// Name returns the group name, captured at open time.
func (g *Group) Name() string {
	return g.name
}

// Close releases the group handle. Idempotent.
func (g *Group) Close() error {
	return g.h.Close()
}

func (g *Group) guard(op string) error {
	if g.session.Closed() || !g.h.ok() {
		return clerr.NewSessionClosed(op)
	}
	return nil
}

// State returns the group's state and its owner node name (empty when the
// cluster reports none), both from one native query. The native query
// reports failure by returning the unknown state, surfaced as
// (GroupUnknown, "") rather than an error.
func (g *Group) State() (GroupState, string, error) {
	if err := g.guard("GetClusterGroupState"); err != nil {
		return GroupUnknown, "", err
	}

	buf := make([]uint16, ownerNameBuf)
	size := uint32(len(buf) - 1)
	st := g.session.calls.GetClusterGroupState(g.h.raw, buf, &size)
	if GroupState(st) == GroupUnknown {
		return GroupUnknown, "", nil
	}
	return GroupState(st), wide.ToString(buf), nil
}

// Online requests that the group be brought online on its current or best
// possible node. Fire-and-forget: completion must be observed via State.
func (g *Group) Online() error {
	if err := g.guard("OnlineClusterGroup"); err != nil {
		return err
	}
	st := g.session.calls.OnlineClusterGroup(g.h.raw, 0)
	if st != winapi.ErrorSuccess && st != winapi.ErrorIOPending {
		return nativeErr("OnlineClusterGroup", g.name, st)
	}
	return nil
}

// Offline requests that the group be taken offline, with the same
// fire-and-forget contract as Online.
func (g *Group) Offline() error {
	if err := g.guard("OfflineClusterGroup"); err != nil {
		return err
	}
	st := g.session.calls.OfflineClusterGroup(g.h.raw)
	if st != winapi.ErrorSuccess && st != winapi.ErrorIOPending {
		return nativeErr("OfflineClusterGroup", g.name, st)
	}
	return nil
}

// MoveTo requests that the group be moved to the given node. The native call
// may return before the move completes (ERROR_IO_PENDING counts as success),
// so a state read immediately afterwards can still show the previous owner.
func (g *Group) MoveTo(node *Node) error {
	if err := g.guard("MoveClusterGroup"); err != nil {
		return err
	}
	if err := node.guard("MoveClusterGroup"); err != nil {
		return err
	}
	st := g.session.calls.MoveClusterGroup(g.h.raw, node.h.raw)
	if st != winapi.ErrorSuccess && st != winapi.ErrorIOPending {
		return nativeErr("MoveClusterGroup", g.name, st)
	}
	return nil
}
