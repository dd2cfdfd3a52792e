package cluster

import (
	"sync/atomic"

	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// handle owns exactly one native handle and guarantees exactly-once release.
// It is the foundation every wrapper in this package builds on: sessions,
// nodes, resources, groups and enumeration cursors all hold their raw handle
// through it.
//
// A handle is never copied; wrappers hold it behind a pointer and there is
// deliberately no duplication primitive.
type handle struct {
	raw     winapi.Handle
	closeOp string
	release func(winapi.Handle) uint32
	closed  atomic.Bool
}

// newHandle wraps a raw handle produced by the named native call. A zero
// handle is rejected here so an invalid value can never be stored, let alone
// released.
func newHandle(op, closeOp string, raw winapi.Handle, status uint32, release func(winapi.Handle) uint32) (*handle, error) {
	if raw == 0 {
		if status == winapi.ErrorCallNotImplemented {
			return nil, clerr.NewUnsupportedPlatform(op)
		}
		return nil, clerr.NewHandleAcquisitionFailed(op, status)
	}
	return &handle{raw: raw, closeOp: closeOp, release: release}, nil
}

// Close releases the native handle. Only the first call performs the native
// release; every later call is a no-op returning nil. There are no retries:
// if the native close reports a failure the handle is still considered
// released, since retrying a close on the cluster API is undefined.
func (h *handle) Close() error {
	if h == nil || !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	if st := h.release(h.raw); st != winapi.ErrorSuccess {
		return clerr.NewNativeCallFailed(h.closeOp, "", st)
	}
	return nil
}

// ok reports whether the handle is still open.
func (h *handle) ok() bool {
	return h != nil && !h.closed.Load()
}
