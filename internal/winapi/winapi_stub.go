//go:build !windows

package winapi

// Native returns the platform implementation of Calls. On non-Windows hosts
// there is no cluster API to call: every operation fails immediately with
// ErrorCallNotImplemented and no handle is ever produced. This keeps the
// bindings buildable and their callers testable everywhere while making the
// platform boundary explicit at run time.
func Native() Calls {
	return unsupported{}
}

type unsupported struct{}

func (unsupported) OpenCluster([]uint16) (Handle, uint32) {
	return 0, ErrorCallNotImplemented
}

func (unsupported) CloseCluster(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) GetClusterInformation(Handle, []uint16, *uint32) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) ClusterOpenEnum(Handle, uint32) (Handle, uint32) {
	return 0, ErrorCallNotImplemented
}

func (unsupported) ClusterEnum(Handle, uint32, *uint32, []uint16, *uint32) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) ClusterCloseEnum(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) OpenClusterNode(Handle, []uint16) (Handle, uint32) {
	return 0, ErrorCallNotImplemented
}

func (unsupported) CloseClusterNode(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) GetClusterNodeState(Handle) int32 { return NodeStateUnknown }

func (unsupported) PauseClusterNode(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) ResumeClusterNode(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) OpenClusterResource(Handle, []uint16) (Handle, uint32) {
	return 0, ErrorCallNotImplemented
}

func (unsupported) CloseClusterResource(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) GetClusterResourceState(Handle, []uint16, *uint32) int32 {
	return ResourceStateUnknown
}

func (unsupported) OnlineClusterResource(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) OfflineClusterResource(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) ClusterResourceControl(Handle, uint32, []byte, []byte, *uint32) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) OpenClusterGroup(Handle, []uint16) (Handle, uint32) {
	return 0, ErrorCallNotImplemented
}

func (unsupported) CloseClusterGroup(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) GetClusterGroupState(Handle, []uint16, *uint32) int32 {
	return GroupStateUnknown
}

func (unsupported) OnlineClusterGroup(Handle, Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) OfflineClusterGroup(Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) MoveClusterGroup(Handle, Handle) uint32 { return ErrorCallNotImplemented }

func (unsupported) ClusterIsPathOnSharedVolume([]uint16) bool { return false }

func (unsupported) ClusterGetVolumePathName([]uint16, []uint16) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) ClusterGetVolumeNameForVolumeMountPoint([]uint16, []uint16) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) ClusterSharedVolumeSetSnapshotState(GUID, []uint16, uint32) uint32 {
	return ErrorCallNotImplemented
}

func (unsupported) GetDiskFreeSpace([]uint16, *uint64, *uint64) uint32 {
	return ErrorCallNotImplemented
}
