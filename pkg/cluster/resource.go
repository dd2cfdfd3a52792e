package cluster

import (
	"github.com/clusproject/clus/internal/wide"
	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// ResourceState is the observable state of a cluster resource, mapping
// directly onto CLUSTER_RESOURCE_STATE.
type ResourceState int32

const (
	ResourceUnknown        ResourceState = ResourceState(winapi.ResourceStateUnknown)
	ResourceInherited      ResourceState = ResourceState(winapi.ResourceStateInherited)
	ResourceInitializing   ResourceState = ResourceState(winapi.ResourceStateInitializing)
	ResourceOnline         ResourceState = ResourceState(winapi.ResourceStateOnline)
	ResourceOffline        ResourceState = ResourceState(winapi.ResourceStateOffline)
	ResourceFailed         ResourceState = ResourceState(winapi.ResourceStateFailed)
	ResourcePending        ResourceState = ResourceState(winapi.ResourceStatePending)
	ResourceOnlinePending  ResourceState = ResourceState(winapi.ResourceStateOnlinePending)
	ResourceOfflinePending ResourceState = ResourceState(winapi.ResourceStateOfflinePending)
)

// String returns a human-readable state name.
func (s ResourceState) String() string {
	switch s {
	case ResourceInherited:
		return "Inherited"
	case ResourceInitializing:
		return "Initializing"
	case ResourceOnline:
		return "Online"
	case ResourceOffline:
		return "Offline"
	case ResourceFailed:
		return "Failed"
	case ResourcePending:
		return "Pending"
	case ResourceOnlinePending:
		return "OnlinePending"
	case ResourceOfflinePending:
		return "OfflinePending"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name for JSON and YAML encodings.
func (s ResourceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resource wraps an open handle to one managed cluster entity (a disk, IP
// address, service, ...). It stays valid only while its parent Session is
// open.
type Resource struct {
	session *Session
	h       *handle
	name    string
}

// OpenResource opens a resource by name. A name the cluster does not know
// yields an ObjectNotFound error.
func (s *Session) OpenResource(name string) (*Resource, error) {
	if err := s.guard("OpenClusterResource"); err != nil {
		return nil, err
	}

	wname, err := wide.FromString(name)
	if err != nil {
		return nil, clerr.NewInvalidUTF16("OpenClusterResource", err)
	}

	raw, st := s.calls.OpenClusterResource(s.h.raw, wname)
	if raw == 0 {
		return nil, openErr("OpenClusterResource", name, st)
	}

	h, err := newHandle("OpenClusterResource", "CloseClusterResource", raw, st, s.calls.CloseClusterResource)
	if err != nil {
		return nil, err
	}
	return &Resource{session: s, h: h, name: name}, nil
}

// Name returns the resource name, captured at open time.
func (r *Resource) Name() string {
	return r.name
}

// Close releases the resource handle. Idempotent.
func (r *Resource) Close() error {
	return r.h.Close()
}

func (r *Resource) guard(op string) error {
	if r.session.Closed() || !r.h.ok() {
		return clerr.NewSessionClosed(op)
	}
	return nil
}

// State returns the resource's state and its owner node name (empty when the
// cluster reports none). Both come from one native query, so the pair can
// never mix two instants. The native query reports failure by returning the
// unknown state, surfaced as (ResourceUnknown, "") rather than an error.
func (r *Resource) State() (ResourceState, string, error) {
	if err := r.guard("GetClusterResourceState"); err != nil {
		return ResourceUnknown, "", err
	}

	buf := make([]uint16, ownerNameBuf)
	size := uint32(len(buf) - 1)
	st := r.session.calls.GetClusterResourceState(r.h.raw, buf, &size)
	if ResourceState(st) == ResourceUnknown {
		return ResourceUnknown, "", nil
	}
	return ResourceState(st), wide.ToString(buf), nil
}

// Online requests that the resource be brought online. The native call is a
// transition request, not a wait: callers that need to observe completion
// must poll State themselves.
func (r *Resource) Online() error {
	if err := r.guard("OnlineClusterResource"); err != nil {
		return err
	}
	st := r.session.calls.OnlineClusterResource(r.h.raw)
	if st != winapi.ErrorSuccess && st != winapi.ErrorIOPending {
		return nativeErr("OnlineClusterResource", r.name, st)
	}
	return nil
}

// Offline requests that the resource be taken offline, with the same
// fire-and-forget contract as Online.
func (r *Resource) Offline() error {
	if err := r.guard("OfflineClusterResource"); err != nil {
		return err
	}
	st := r.session.calls.OfflineClusterResource(r.h.raw)
	if st != winapi.ErrorSuccess && st != winapi.ErrorIOPending {
		return nativeErr("OfflineClusterResource", r.name, st)
	}
	return nil
}

// control issues a resource control and returns its status. The guard runs
// first so a stale handle never reaches native code.
func (r *Resource) control(code uint32, in, out []byte, returned *uint32) (uint32, error) {
	if err := r.guard("ClusterResourceControl"); err != nil {
		return 0, err
	}
	return r.session.calls.ClusterResourceControl(r.h.raw, code, in, out, returned), nil
}
