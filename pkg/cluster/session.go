// Package cluster provides client-side bindings for the Windows Failover
// Cluster API: opening a cluster, enumerating and controlling its nodes,
// resources and groups, and working with Cluster Shared Volumes.
//
// All operations are synchronous, blocking native calls. The package adds no
// serialization across concurrent callers: a Session and the wrappers
// derived from it should be confined to one logical owner at a time, or
// protected by caller-supplied mutual exclusion. Callers in asynchronous
// contexts must offload these calls onto worker goroutines themselves.
//
// On non-Windows hosts every operation fails immediately with an
// UnsupportedPlatform error instead of attempting a native call.
package cluster

import (
	"sync/atomic"

	"github.com/clusproject/clus/internal/wide"
	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// ownerNameBuf sizes the stack buffer for owner-node names returned by state
// queries. Node names are NetBIOS-bounded, far below this.
const ownerNameBuf = 256

// Session is an open connection to a failover cluster. It is the root of the
// handle ownership tree: every Node, Resource and Group is obtained through
// it and becomes unusable once the session closes.
//
// A Session has exactly two states, open and closed. Closed is terminal and
// entered once, by Close.
type Session struct {
	calls winapi.Calls
	h     *handle
	open  atomic.Bool
}

// Open connects to the named cluster through the platform's native API. An
// empty name opens the local cluster.
func Open(name string) (*Session, error) {
	return OpenWith(winapi.Native(), name)
}

// OpenWith is Open with an explicit native call surface. Tests substitute a
// scripted fake here; everything else should use Open.
func OpenWith(calls winapi.Calls, name string) (*Session, error) {
	var buf []uint16
	if name != "" {
		b, err := wide.FromString(name)
		if err != nil {
			return nil, clerr.NewInvalidUTF16("OpenCluster", err)
		}
		buf = b
	}

	raw, st := calls.OpenCluster(buf)
	if raw == 0 {
		if st == winapi.ErrorCallNotImplemented {
			return nil, clerr.NewUnsupportedPlatform("OpenCluster")
		}
		return nil, clerr.NewConnectionFailed(name, st)
	}

	h, err := newHandle("OpenCluster", "CloseCluster", raw, st, calls.CloseCluster)
	if err != nil {
		return nil, err
	}

	s := &Session{calls: calls, h: h}
	s.open.Store(true)
	return s, nil
}

// Close releases the cluster handle and moves the session to its terminal
// closed state. It is idempotent. Wrappers previously produced by this
// session stop working but remain individually closeable.
func (s *Session) Close() error {
	if !s.open.CompareAndSwap(true, false) {
		return nil
	}
	return s.h.Close()
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	return !s.open.Load()
}

// guard rejects operations on a closed session before any native code runs.
func (s *Session) guard(op string) error {
	if !s.open.Load() {
		return clerr.NewSessionClosed(op)
	}
	return nil
}

// nativeErr maps a non-success status from a control or query call into the
// taxonomy. The unsupported-platform sentinel keeps its own code; everything
// else is a native call failure carrying the raw status.
func nativeErr(op, object string, status uint32) error {
	if status == winapi.ErrorCallNotImplemented {
		return clerr.NewUnsupportedPlatform(op)
	}
	return clerr.NewNativeCallFailed(op, object, status)
}

// openErr maps the status of a failed open-by-name. Only the codes that
// unambiguously mean "no such object" become ObjectNotFound; anything
// ambiguous stays a NativeCallFailed so a real error is never masked as
// simple absence.
func openErr(op, name string, status uint32) error {
	switch status {
	case winapi.ErrorSuccess, winapi.ErrorFileNotFound,
		winapi.ErrorNodeNotFound, winapi.ErrorResourceNotFound, winapi.ErrorGroupNotFound:
		return clerr.NewObjectNotFound(op, name)
	case winapi.ErrorCallNotImplemented:
		return clerr.NewUnsupportedPlatform(op)
	}
	return clerr.NewNativeCallFailed(op, name, status)
}

// Name queries the cluster's name from the cluster itself.
func (s *Session) Name() (string, error) {
	if err := s.guard("GetClusterInformation"); err != nil {
		return "", err
	}

	var size uint32
	st := s.calls.GetClusterInformation(s.h.raw, nil, &size)
	if st != winapi.ErrorSuccess && st != winapi.ErrorMoreData {
		return "", nativeErr("GetClusterInformation", "", st)
	}

	// The probe reports the length without the terminator; the fill call
	// takes the buffer capacity with it.
	size++
	buf := make([]uint16, size)
	st = s.calls.GetClusterInformation(s.h.raw, buf, &size)
	if st != winapi.ErrorSuccess {
		return "", nativeErr("GetClusterInformation", "", st)
	}
	return wide.ToString(buf), nil
}

// enumNames drives a native enumeration cursor to exhaustion and returns the
// collected names. The cursor handle is released on every path.
func (s *Session) enumNames(objectType uint32) ([]string, error) {
	raw, st := s.calls.ClusterOpenEnum(s.h.raw, objectType)
	eh, err := newHandle("ClusterOpenEnum", "ClusterCloseEnum", raw, st, s.calls.ClusterCloseEnum)
	if err != nil {
		return nil, err
	}
	defer eh.Close()

	var names []string
	for index := uint32(0); ; index++ {
		var objType, size uint32

		st := s.calls.ClusterEnum(eh.raw, index, &objType, nil, &size)
		if st == winapi.ErrorNoMoreItems {
			break
		}
		if st != winapi.ErrorSuccess && st != winapi.ErrorMoreData {
			return nil, nativeErr("ClusterEnum", "", st)
		}

		size++
		buf := make([]uint16, size)
		st = s.calls.ClusterEnum(eh.raw, index, &objType, buf, &size)
		if st != winapi.ErrorSuccess {
			return nil, nativeErr("ClusterEnum", "", st)
		}
		names = append(names, wide.ToString(buf))
	}
	return names, nil
}

// Nodes enumerates all cluster nodes eagerly and returns an open Node for
// each. On any mid-enumeration failure the error is returned with nothing
// leaked: the cursor and every node already opened are released, and no
// partial result escapes. An empty cluster yields an empty slice.
func (s *Session) Nodes() ([]*Node, error) {
	if err := s.guard("Nodes"); err != nil {
		return nil, err
	}

	names, err := s.enumNames(winapi.EnumNode)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		n, err := s.OpenNode(name)
		if err != nil {
			closeAll(nodes)
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Resources enumerates all cluster resources with the same eager-collect,
// fail-fast contract as Nodes.
func (s *Session) Resources() ([]*Resource, error) {
	if err := s.guard("Resources"); err != nil {
		return nil, err
	}

	names, err := s.enumNames(winapi.EnumResource)
	if err != nil {
		return nil, err
	}

	resources := make([]*Resource, 0, len(names))
	for _, name := range names {
		r, err := s.OpenResource(name)
		if err != nil {
			closeAll(resources)
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}

// Groups enumerates all cluster groups with the same eager-collect,
// fail-fast contract as Nodes.
func (s *Session) Groups() ([]*Group, error) {
	if err := s.guard("Groups"); err != nil {
		return nil, err
	}

	names, err := s.enumNames(winapi.EnumGroup)
	if err != nil {
		return nil, err
	}

	groups := make([]*Group, 0, len(names))
	for _, name := range names {
		g, err := s.OpenGroup(name)
		if err != nil {
			closeAll(groups)
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// closeAll releases a partially collected batch of wrappers after a
// mid-enumeration failure. Close errors are ignored: the enumeration error
// is the one the caller needs.
func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
