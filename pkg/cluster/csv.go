package cluster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clusproject/clus/internal/wide"
	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

// csvMountRoot is where the cluster service surfaces CSV mount points.
const csvMountRoot = `C:\ClusterStorage\`

// CSVState is the access state of a Cluster Shared Volume.
type CSVState int

const (
	CSVUnknown CSVState = iota
	CSVOnline
	CSVPaused
	CSVDraining
	CSVRedirected
)

// String returns a human-readable state name.
func (s CSVState) String() string {
	switch s {
	case CSVOnline:
		return "Online"
	case CSVPaused:
		return "Paused"
	case CSVDraining:
		return "Draining"
	case CSVRedirected:
		return "Redirected"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name for JSON and YAML encodings.
func (s CSVState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CSVFaultState reports whether a shared volume has faulted.
type CSVFaultState uint32

const (
	CSVNoFault CSVFaultState = 0
	CSVFaulted CSVFaultState = 1
)

func (s CSVFaultState) String() string {
	switch s {
	case CSVNoFault:
		return "NoFault"
	case CSVFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name for JSON and YAML encodings.
func (s CSVFaultState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CSVBackupState reports whether a backup is in progress on a shared volume.
type CSVBackupState uint32

const (
	CSVBackupNone       CSVBackupState = 0
	CSVBackupInProgress CSVBackupState = 1
)

func (s CSVBackupState) String() string {
	switch s {
	case CSVBackupNone:
		return "None"
	case CSVBackupInProgress:
		return "InProgress"
	default:
		return "Unknown"
	}
}

// MarshalText renders the state name for JSON and YAML encodings.
func (s CSVBackupState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RedirectedIOReason explains why I/O to a shared volume is being redirected
// through the coordinator node. The values are the native bit flags.
type RedirectedIOReason uint64

const (
	RedirectedNone               RedirectedIOReason = 0
	RedirectedUserRequest        RedirectedIOReason = 1
	RedirectedIncompatibleFS     RedirectedIOReason = 2
	RedirectedIncompatibleFilter RedirectedIOReason = 4
	RedirectedDataVerification   RedirectedIOReason = 8
)

func (r RedirectedIOReason) String() string {
	switch r {
	case RedirectedNone:
		return "None"
	case RedirectedUserRequest:
		return "UserRequest"
	case RedirectedIncompatibleFS:
		return "FileSystemIncompatibility"
	case RedirectedIncompatibleFilter:
		return "IncompatibleFileSystemFilter"
	case RedirectedDataVerification:
		return "DataVerification"
	default:
		return fmt.Sprintf("Unknown(%d)", uint64(r))
	}
}

// MarshalText renders the reason name for JSON and YAML encodings.
func (r RedirectedIOReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CSVInfo aggregates everything this module knows about one Cluster Shared
// Volume into a single read.
type CSVInfo struct {
	// VolumeName is the volume GUID path, e.g. `\\?\Volume{guid}\`.
	VolumeName string `json:"volume_name" yaml:"volume_name"`
	// FriendlyName is the volume's display name, e.g. "Volume1".
	FriendlyName string `json:"friendly_name" yaml:"friendly_name"`
	// MountPoint is the shared mount path, e.g. `C:\ClusterStorage\Volume1`.
	MountPoint string `json:"mount_point" yaml:"mount_point"`

	State         CSVState           `json:"state" yaml:"state"`
	FaultState    CSVFaultState      `json:"fault_state" yaml:"fault_state"`
	BackupState   CSVBackupState     `json:"backup_state" yaml:"backup_state"`
	OwnerNode     string             `json:"owner_node,omitempty" yaml:"owner_node,omitempty"`
	RedirectedIO  RedirectedIOReason `json:"redirected_io_reason" yaml:"redirected_io_reason"`
	InMaintenance bool               `json:"in_maintenance" yaml:"in_maintenance"`

	FreeBytes  uint64 `json:"free_bytes" yaml:"free_bytes"`
	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
}

// IsPathOnCSV reports whether the path resides on a Cluster Shared Volume.
func IsPathOnCSV(path string) bool {
	return isPathOnCSV(winapi.Native(), path)
}

func isPathOnCSV(calls winapi.Calls, path string) bool {
	wpath, err := wide.FromString(path)
	if err != nil {
		return false
	}
	return calls.ClusterIsPathOnSharedVolume(wpath)
}

// CSVVolumePath resolves the CSV mount point a path resides under. A path
// not under any CSV mount yields an ObjectNotFound error.
func CSVVolumePath(path string) (string, error) {
	return csvVolumePath(winapi.Native(), path)
}

func csvVolumePath(calls winapi.Calls, path string) (string, error) {
	wpath, err := wide.FromString(path)
	if err != nil {
		return "", clerr.NewInvalidUTF16("ClusterGetVolumePathName", err)
	}

	buf := make([]uint16, 260)
	switch st := calls.ClusterGetVolumePathName(wpath, buf); st {
	case winapi.ErrorSuccess:
		return wide.ToString(buf), nil
	case winapi.ErrorFileNotFound:
		return "", clerr.NewObjectNotFound("ClusterGetVolumePathName", path)
	case winapi.ErrorCallNotImplemented:
		return "", clerr.NewUnsupportedPlatform("ClusterGetVolumePathName")
	default:
		return "", clerr.NewNativeCallFailed("ClusterGetVolumePathName", path, st)
	}
}

// CSVVolumeName resolves the volume GUID path for a CSV mount point.
func CSVVolumeName(mountPoint string) (string, error) {
	return csvVolumeName(winapi.Native(), mountPoint)
}

func csvVolumeName(calls winapi.Calls, mountPoint string) (string, error) {
	wmount, err := wide.FromString(mountPoint)
	if err != nil {
		return "", clerr.NewInvalidUTF16("ClusterGetVolumeNameForVolumeMountPoint", err)
	}

	buf := make([]uint16, 64)
	switch st := calls.ClusterGetVolumeNameForVolumeMountPoint(wmount, buf); st {
	case winapi.ErrorSuccess:
		return wide.ToString(buf), nil
	case winapi.ErrorFileNotFound:
		return "", clerr.NewObjectNotFound("ClusterGetVolumeNameForVolumeMountPoint", mountPoint)
	case winapi.ErrorCallNotImplemented:
		return "", clerr.NewUnsupportedPlatform("ClusterGetVolumeNameForVolumeMountPoint")
	default:
		return "", clerr.NewNativeCallFailed("ClusterGetVolumeNameForVolumeMountPoint", mountPoint, st)
	}
}

// IsSharedVolume reports whether the resource backs a Cluster Shared
// Volume. The probe control succeeds only for CSV resources; any
// non-success status means "not a CSV".
func (r *Resource) IsSharedVolume() (bool, error) {
	var returned uint32
	st, err := r.control(winapi.ControlStorageIsSharedVolume, nil, nil, &returned)
	if err != nil {
		return false, err
	}
	if st == winapi.ErrorCallNotImplemented {
		return false, clerr.NewUnsupportedPlatform("ClusterResourceControl")
	}
	return st == winapi.ErrorSuccess, nil
}

// SetMaintenanceMode toggles maintenance mode on a CSV resource. While in
// maintenance, I/O to the volume is redirected through the coordinator
// node. Setting the already-current value is passed through to the cluster
// service untouched; whatever it reports is the result.
func (r *Resource) SetMaintenanceMode(enable bool) error {
	in := winapi.EncodeMaintenanceModeInfo(enable, r.name)
	st, err := r.control(winapi.ControlSetCSVMaintenanceMode, in, nil, nil)
	if err != nil {
		return err
	}
	if st != winapi.ErrorSuccess {
		return nativeErr("ClusterResourceControl", r.name, st)
	}
	return nil
}

// VolumeInfo aggregates the volume's state, identity, maintenance flag and
// capacity into one CSVInfo. It composes several native queries; if any of
// them fails the whole read fails and no partial CSVInfo is returned.
func (r *Resource) VolumeInfo() (*CSVInfo, error) {
	state, owner, err := r.State()
	if err != nil {
		return nil, err
	}

	out := make([]byte, winapi.SharedVolumeInfoSize)
	var returned uint32
	st, err := r.control(winapi.ControlStorageGetSharedVolumeInfo, nil, out, &returned)
	if err != nil {
		return nil, err
	}
	if st != winapi.ErrorSuccess {
		return nil, nativeErr("ClusterResourceControl", r.name, st)
	}
	info, ok := winapi.DecodeSharedVolumeInfo(out[:returned])
	if !ok {
		return nil, clerr.NewNativeCallFailed("ClusterResourceControl", r.name, winapi.ErrorMoreData)
	}

	mountPoint := csvMountRoot + info.FriendlyName

	wmount, werr := wide.FromString(mountPoint)
	if werr != nil {
		return nil, clerr.NewInvalidUTF16("GetDiskFreeSpace", werr)
	}
	var free, total uint64
	if st := r.session.calls.GetDiskFreeSpace(wmount, &free, &total); st != winapi.ErrorSuccess {
		return nil, nativeErr("GetDiskFreeSpace", mountPoint, st)
	}

	return &CSVInfo{
		VolumeName:    info.VolumeName,
		FriendlyName:  info.FriendlyName,
		MountPoint:    mountPoint,
		State:         csvStateFrom(state, RedirectedIOReason(info.RedirectedIOReason)),
		FaultState:    CSVFaultState(info.FaultState),
		BackupState:   CSVBackupState(info.BackupState),
		OwnerNode:     owner,
		RedirectedIO:  RedirectedIOReason(info.RedirectedIOReason),
		InMaintenance: info.InMaintenance,
		FreeBytes:     free,
		TotalBytes:    total,
	}, nil
}

// csvStateFrom maps the backing resource state onto the volume's access
// state.
func csvStateFrom(state ResourceState, redirect RedirectedIOReason) CSVState {
	if redirect != RedirectedNone {
		return CSVRedirected
	}
	switch state {
	case ResourceOnline:
		return CSVOnline
	case ResourceOffline:
		return CSVPaused
	case ResourceOnlinePending, ResourceOfflinePending:
		return CSVDraining
	default:
		return CSVUnknown
	}
}

// CSVVolumes enumerates the resources that back Cluster Shared Volumes.
// Non-CSV resources are closed as they are filtered out; a failing probe
// aborts the whole enumeration and releases everything, keeping the
// fail-fast, no-partial-results contract of Resources.
func (s *Session) CSVVolumes() ([]*Resource, error) {
	resources, err := s.Resources()
	if err != nil {
		return nil, err
	}

	csvs := resources[:0]
	for i, r := range resources {
		isCSV, err := r.IsSharedVolume()
		if err != nil {
			closeAll(resources[i:])
			closeAll(csvs)
			return nil, err
		}
		if isCSV {
			csvs = append(csvs, r)
		} else {
			_ = r.Close()
		}
	}
	return csvs, nil
}

// CSVInfo reads a CSVInfo for every shared volume in the cluster, with the
// same fail-fast contract as CSVVolumes. The resource handles are released
// before returning; only the aggregated reads escape.
func (s *Session) CSVInfo() ([]*CSVInfo, error) {
	csvs, err := s.CSVVolumes()
	if err != nil {
		return nil, err
	}
	defer closeAll(csvs)

	infos := make([]*CSVInfo, 0, len(csvs))
	for _, r := range csvs {
		info, err := r.VolumeInfo()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CSVSnapshotState is the VSS snapshot state of a shared volume.
type CSVSnapshotState uint32

const (
	SnapshotInitializedAndPersisted CSVSnapshotState = CSVSnapshotState(winapi.SnapshotStateInitializedAndPersisted)
	SnapshotDeleted                 CSVSnapshotState = CSVSnapshotState(winapi.SnapshotStateDeleted)
)

// GUID identifies a VSS snapshot set.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// ParseGUID parses a textual GUID, with or without braces.
func ParseGUID(s string) (GUID, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	parts := strings.Split(trimmed, "-")
	if len(parts) != 5 ||
		len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return GUID{}, fmt.Errorf("invalid GUID format: %q", s)
	}

	fields := make([]uint64, 5)
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 64)
		if err != nil {
			return GUID{}, fmt.Errorf("invalid GUID format: %q", s)
		}
		fields[i] = v
	}

	g := GUID{
		Data1: uint32(fields[0]),
		Data2: uint16(fields[1]),
		Data3: uint16(fields[2]),
	}
	g.Data4[0] = byte(fields[3] >> 8)
	g.Data4[1] = byte(fields[3])
	for i := 0; i < 6; i++ {
		g.Data4[2+i] = byte(fields[4] >> (40 - 8*i))
	}
	return g, nil
}

// String renders the GUID in its canonical braced form.
func (g GUID) String() string {
	return fmt.Sprintf("{%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x}",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// SetCSVSnapshotState sets the VSS snapshot state for a shared volume. Used
// by backup tooling during shadow-copy operations.
func SetCSVSnapshotState(guid GUID, volumeName string, state CSVSnapshotState) error {
	return setCSVSnapshotState(winapi.Native(), guid, volumeName, state)
}

func setCSVSnapshotState(calls winapi.Calls, guid GUID, volumeName string, state CSVSnapshotState) error {
	wvol, err := wide.FromString(volumeName)
	if err != nil {
		return clerr.NewInvalidUTF16("ClusterSharedVolumeSetSnapshotState", err)
	}
	st := calls.ClusterSharedVolumeSetSnapshotState(winapi.GUID(guid), wvol, uint32(state))
	if st != winapi.ErrorSuccess {
		return nativeErr("ClusterSharedVolumeSetSnapshotState", volumeName, st)
	}
	return nil
}
