//go:build windows

package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// The cluster management entry points live in clusapi.dll; the CSV path
// helpers live in resutils.dll. Both ship with the Failover Clustering
// feature, not with base Windows, so they are loaded lazily and a missing
// DLL surfaces as a call failure instead of a process-start failure.
var (
	modclusapi  = windows.NewLazySystemDLL("clusapi.dll")
	modresutils = windows.NewLazySystemDLL("resutils.dll")

	procOpenClusterW          = modclusapi.NewProc("OpenClusterW")
	procCloseCluster          = modclusapi.NewProc("CloseCluster")
	procGetClusterInformation = modclusapi.NewProc("GetClusterInformation")
	procClusterOpenEnum       = modclusapi.NewProc("ClusterOpenEnum")
	procClusterEnum           = modclusapi.NewProc("ClusterEnum")
	procClusterCloseEnum      = modclusapi.NewProc("ClusterCloseEnum")

	procOpenClusterNode     = modclusapi.NewProc("OpenClusterNode")
	procCloseClusterNode    = modclusapi.NewProc("CloseClusterNode")
	procGetClusterNodeState = modclusapi.NewProc("GetClusterNodeState")
	procPauseClusterNode    = modclusapi.NewProc("PauseClusterNode")
	procResumeClusterNode   = modclusapi.NewProc("ResumeClusterNode")

	procOpenClusterResourceW    = modclusapi.NewProc("OpenClusterResourceW")
	procCloseClusterResource    = modclusapi.NewProc("CloseClusterResource")
	procGetClusterResourceState = modclusapi.NewProc("GetClusterResourceState")
	procOnlineClusterResource   = modclusapi.NewProc("OnlineClusterResource")
	procOfflineClusterResource  = modclusapi.NewProc("OfflineClusterResource")
	procClusterResourceControl  = modclusapi.NewProc("ClusterResourceControl")

	procOpenClusterGroup     = modclusapi.NewProc("OpenClusterGroup")
	procCloseClusterGroup    = modclusapi.NewProc("CloseClusterGroup")
	procGetClusterGroupState = modclusapi.NewProc("GetClusterGroupState")
	procOnlineClusterGroup   = modclusapi.NewProc("OnlineClusterGroup")
	procOfflineClusterGroup  = modclusapi.NewProc("OfflineClusterGroup")
	procMoveClusterGroup     = modclusapi.NewProc("MoveClusterGroup")

	procClusterSharedVolumeSetSnapshotState = modclusapi.NewProc("ClusterSharedVolumeSetSnapshotState")

	modkernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procGetDiskFreeSpaceExW  = modkernel32.NewProc("GetDiskFreeSpaceExW")

	procClusterIsPathOnSharedVolume             = modresutils.NewProc("ClusterIsPathOnSharedVolume")
	procClusterGetVolumePathName                = modresutils.NewProc("ClusterGetVolumePathName")
	procClusterGetVolumeNameForVolumeMountPoint = modresutils.NewProc("ClusterGetVolumeNameForVolumeMountPoint")
)

// Native returns the platform implementation of Calls.
func Native() Calls {
	return native{}
}

type native struct{}

func wptr(buf []uint16) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

func bptr(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

// status converts the error LazyProc.Call always returns into a win32
// status code, for the entry points that report failure via GetLastError.
func status(err error) uint32 {
	if errno, ok := err.(windows.Errno); ok {
		return uint32(errno)
	}
	return ErrorCallNotImplemented
}

func (native) OpenCluster(name []uint16) (Handle, uint32) {
	h, _, err := procOpenClusterW.Call(wptr(name))
	if h == 0 {
		return 0, status(err)
	}
	return Handle(h), ErrorSuccess
}

func (native) CloseCluster(h Handle) uint32 {
	ok, _, err := procCloseCluster.Call(uintptr(h))
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) GetClusterInformation(h Handle, name []uint16, size *uint32) uint32 {
	r, _, _ := procGetClusterInformation.Call(
		uintptr(h),
		wptr(name),
		uintptr(unsafe.Pointer(size)),
		0,
	)
	return uint32(r)
}

func (native) ClusterOpenEnum(h Handle, objectType uint32) (Handle, uint32) {
	e, _, err := procClusterOpenEnum.Call(uintptr(h), uintptr(objectType))
	if e == 0 {
		return 0, status(err)
	}
	return Handle(e), ErrorSuccess
}

func (native) ClusterEnum(enum Handle, index uint32, objectType *uint32, name []uint16, size *uint32) uint32 {
	r, _, _ := procClusterEnum.Call(
		uintptr(enum),
		uintptr(index),
		uintptr(unsafe.Pointer(objectType)),
		wptr(name),
		uintptr(unsafe.Pointer(size)),
	)
	return uint32(r)
}

func (native) ClusterCloseEnum(enum Handle) uint32 {
	r, _, _ := procClusterCloseEnum.Call(uintptr(enum))
	return uint32(r)
}

func (native) OpenClusterNode(h Handle, name []uint16) (Handle, uint32) {
	n, _, err := procOpenClusterNode.Call(uintptr(h), wptr(name))
	if n == 0 {
		return 0, status(err)
	}
	return Handle(n), ErrorSuccess
}

func (native) CloseClusterNode(node Handle) uint32 {
	ok, _, err := procCloseClusterNode.Call(uintptr(node))
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) GetClusterNodeState(node Handle) int32 {
	r, _, _ := procGetClusterNodeState.Call(uintptr(node))
	return int32(r)
}

func (native) PauseClusterNode(node Handle) uint32 {
	r, _, _ := procPauseClusterNode.Call(uintptr(node))
	return uint32(r)
}

func (native) ResumeClusterNode(node Handle) uint32 {
	r, _, _ := procResumeClusterNode.Call(uintptr(node))
	return uint32(r)
}

func (native) OpenClusterResource(h Handle, name []uint16) (Handle, uint32) {
	r, _, err := procOpenClusterResourceW.Call(uintptr(h), wptr(name))
	if r == 0 {
		return 0, status(err)
	}
	return Handle(r), ErrorSuccess
}

func (native) CloseClusterResource(res Handle) uint32 {
	ok, _, err := procCloseClusterResource.Call(uintptr(res))
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) GetClusterResourceState(res Handle, ownerNode []uint16, size *uint32) int32 {
	r, _, _ := procGetClusterResourceState.Call(
		uintptr(res),
		wptr(ownerNode),
		uintptr(unsafe.Pointer(size)),
		0,
		0,
	)
	return int32(r)
}

func (native) OnlineClusterResource(res Handle) uint32 {
	r, _, _ := procOnlineClusterResource.Call(uintptr(res))
	return uint32(r)
}

func (native) OfflineClusterResource(res Handle) uint32 {
	r, _, _ := procOfflineClusterResource.Call(uintptr(res))
	return uint32(r)
}

func (native) ClusterResourceControl(res Handle, code uint32, in []byte, out []byte, returned *uint32) uint32 {
	r, _, _ := procClusterResourceControl.Call(
		uintptr(res),
		0,
		uintptr(code),
		bptr(in),
		uintptr(len(in)),
		bptr(out),
		uintptr(len(out)),
		uintptr(unsafe.Pointer(returned)),
	)
	return uint32(r)
}

func (native) OpenClusterGroup(h Handle, name []uint16) (Handle, uint32) {
	g, _, err := procOpenClusterGroup.Call(uintptr(h), wptr(name))
	if g == 0 {
		return 0, status(err)
	}
	return Handle(g), ErrorSuccess
}

func (native) CloseClusterGroup(group Handle) uint32 {
	ok, _, err := procCloseClusterGroup.Call(uintptr(group))
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) GetClusterGroupState(group Handle, ownerNode []uint16, size *uint32) int32 {
	r, _, _ := procGetClusterGroupState.Call(
		uintptr(group),
		wptr(ownerNode),
		uintptr(unsafe.Pointer(size)),
	)
	return int32(r)
}

func (native) OnlineClusterGroup(group Handle, node Handle) uint32 {
	r, _, _ := procOnlineClusterGroup.Call(uintptr(group), uintptr(node))
	return uint32(r)
}

func (native) OfflineClusterGroup(group Handle) uint32 {
	r, _, _ := procOfflineClusterGroup.Call(uintptr(group))
	return uint32(r)
}

func (native) MoveClusterGroup(group Handle, node Handle) uint32 {
	r, _, _ := procMoveClusterGroup.Call(uintptr(group), uintptr(node))
	return uint32(r)
}

func (native) ClusterIsPathOnSharedVolume(path []uint16) bool {
	r, _, _ := procClusterIsPathOnSharedVolume.Call(wptr(path))
	return r != 0
}

func (native) ClusterGetVolumePathName(path []uint16, volumePath []uint16) uint32 {
	ok, _, err := procClusterGetVolumePathName.Call(
		wptr(path),
		wptr(volumePath),
		uintptr(len(volumePath)),
	)
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) ClusterGetVolumeNameForVolumeMountPoint(mountPoint []uint16, volumeName []uint16) uint32 {
	ok, _, err := procClusterGetVolumeNameForVolumeMountPoint.Call(
		wptr(mountPoint),
		wptr(volumeName),
		uintptr(len(volumeName)),
	)
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}

func (native) ClusterSharedVolumeSetSnapshotState(guid GUID, volumeName []uint16, state uint32) uint32 {
	r, _, _ := procClusterSharedVolumeSetSnapshotState.Call(
		uintptr(unsafe.Pointer(&guid)),
		wptr(volumeName),
		uintptr(state),
	)
	return uint32(r)
}

func (native) GetDiskFreeSpace(path []uint16, freeBytes, totalBytes *uint64) uint32 {
	ok, _, err := procGetDiskFreeSpaceExW.Call(
		wptr(path),
		0,
		uintptr(unsafe.Pointer(totalBytes)),
		uintptr(unsafe.Pointer(freeBytes)),
	)
	if ok == 0 {
		return status(err)
	}
	return ErrorSuccess
}
