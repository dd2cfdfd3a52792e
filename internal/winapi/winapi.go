// Package winapi is the only package that touches the Windows Failover
// Cluster native API. Every operation the bindings need is declared on the
// Calls interface; the bindings never invoke a native entry point directly.
//
// Three implementations exist:
//   - the windows implementation (winapi_windows.go), lazy-loading
//     clusapi.dll and resutils.dll
//   - the unsupported stub (winapi_stub.go) for every other platform,
//     whose calls fail immediately without attempting anything native
//   - the scripted Fake (fake.go) used by tests on all platforms
//
// The interface keeps win32 shape: handles are opaque integers, failures are
// raw status codes, and string buffers are NUL-terminated UTF-16. Mapping
// those into Go errors and strings is the binding layer's job, not this
// package's.
package winapi

// Handle is an opaque native handle. Zero is never a valid handle.
type Handle uintptr

// GUID mirrors the win32 GUID layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Win32 status codes the bindings interpret.
const (
	ErrorSuccess            uint32 = 0
	ErrorInvalidFunction    uint32 = 1
	ErrorFileNotFound       uint32 = 2
	ErrorGenFailure         uint32 = 31
	ErrorCallNotImplemented uint32 = 120
	ErrorMoreData           uint32 = 234
	ErrorNoMoreItems        uint32 = 259
	ErrorIOPending          uint32 = 997
	ErrorResourceNotFound   uint32 = 5007
	ErrorGroupNotFound      uint32 = 5013
	ErrorNodeNotFound       uint32 = 5042
)

// ClusterOpenEnum object types (CLUSTER_ENUM_* in clusapi.h).
const (
	EnumNode     uint32 = 0x00000001
	EnumResType  uint32 = 0x00000002
	EnumResource uint32 = 0x00000004
	EnumGroup    uint32 = 0x00000008
)

// Node states (CLUSTER_NODE_STATE).
const (
	NodeStateUnknown int32 = -1
	NodeStateUp      int32 = 0
	NodeStateDown    int32 = 1
	NodeStatePaused  int32 = 2
	NodeStateJoining int32 = 3
)

// Resource states (CLUSTER_RESOURCE_STATE).
const (
	ResourceStateUnknown        int32 = -1
	ResourceStateInherited      int32 = 0
	ResourceStateInitializing   int32 = 1
	ResourceStateOnline         int32 = 2
	ResourceStateOffline        int32 = 3
	ResourceStateFailed         int32 = 4
	ResourceStatePending        int32 = 128
	ResourceStateOnlinePending  int32 = 129
	ResourceStateOfflinePending int32 = 130
)

// Group states (CLUSTER_GROUP_STATE).
const (
	GroupStateUnknown       int32 = -1
	GroupStateOnline        int32 = 0
	GroupStateOffline       int32 = 1
	GroupStateFailed        int32 = 2
	GroupStatePartialOnline int32 = 3
	GroupStatePending       int32 = 4
)

// Resource control codes (CLUSCTL_RESOURCE_* in clusapi.h).
const (
	ControlStorageIsSharedVolume      uint32 = 0x01000000 | 0x2b9
	ControlStorageGetSharedVolumeInfo uint32 = 0x01000000 | 0x319
	ControlSetCSVMaintenanceMode      uint32 = 0x01000000 | 0x2d9
)

// CSV snapshot states (CLUSTER_SHARED_VOLUME_SNAPSHOT_STATE).
const (
	SnapshotStateInitializedAndPersisted uint32 = 1
	SnapshotStateDeleted                 uint32 = 2
)

// Calls enumerates every native cluster API operation the bindings use.
//
// Open calls return the handle and, when the handle is zero, the status code
// reported by the platform. Query and control calls return their status
// directly. String buffers follow the native probe/fill protocol: on input
// *size is the buffer capacity in wide characters, terminator included; a
// call with a nil or too-small buffer sets *size to the required length
// (excluding the terminator) and returns ErrorMoreData.
//
// All calls block until the platform returns; nothing here is asynchronous
// or cancellable.
type Calls interface {
	OpenCluster(name []uint16) (Handle, uint32)
	CloseCluster(h Handle) uint32
	GetClusterInformation(h Handle, name []uint16, size *uint32) uint32
	ClusterOpenEnum(h Handle, objectType uint32) (Handle, uint32)
	ClusterEnum(enum Handle, index uint32, objectType *uint32, name []uint16, size *uint32) uint32
	ClusterCloseEnum(enum Handle) uint32

	OpenClusterNode(h Handle, name []uint16) (Handle, uint32)
	CloseClusterNode(node Handle) uint32
	GetClusterNodeState(node Handle) int32
	PauseClusterNode(node Handle) uint32
	ResumeClusterNode(node Handle) uint32

	OpenClusterResource(h Handle, name []uint16) (Handle, uint32)
	CloseClusterResource(res Handle) uint32
	GetClusterResourceState(res Handle, ownerNode []uint16, size *uint32) int32
	OnlineClusterResource(res Handle) uint32
	OfflineClusterResource(res Handle) uint32
	ClusterResourceControl(res Handle, code uint32, in []byte, out []byte, returned *uint32) uint32

	OpenClusterGroup(h Handle, name []uint16) (Handle, uint32)
	CloseClusterGroup(group Handle) uint32
	GetClusterGroupState(group Handle, ownerNode []uint16, size *uint32) int32
	OnlineClusterGroup(group Handle, node Handle) uint32
	OfflineClusterGroup(group Handle) uint32
	MoveClusterGroup(group Handle, node Handle) uint32

	ClusterIsPathOnSharedVolume(path []uint16) bool
	ClusterGetVolumePathName(path []uint16, volumePath []uint16) uint32
	ClusterGetVolumeNameForVolumeMountPoint(mountPoint []uint16, volumeName []uint16) uint32
	ClusterSharedVolumeSetSnapshotState(guid GUID, volumeName []uint16, state uint32) uint32

	GetDiskFreeSpace(path []uint16, freeBytes, totalBytes *uint64) uint32
}
