package winapi

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"
)

// Fake is a scripted, in-memory implementation of Calls for tests. It keeps
// the native probe/fill buffer protocol so the bindings exercise the same
// code paths they run against the real DLLs, and it accounts for every
// handle it hands out so tests can assert exactly-once release and
// leak-freedom.
//
// All methods are safe for concurrent use. The zero value is not usable;
// construct with NewFake.
type Fake struct {
	mu sync.Mutex

	ClusterName string
	Nodes       []*FakeNode
	Resources   []*FakeResource
	Groups      []*FakeGroup

	// CSVMounts maps a CSV mount point (e.g. `C:\ClusterStorage\Volume1`)
	// to its volume GUID path. Path queries resolve against it by prefix.
	CSVMounts map[string]string

	// Space maps a mount point to its free/total byte counts for
	// GetDiskFreeSpace.
	Space map[string]SpaceInfo

	// FailOps forces the named operation (e.g. "OpenCluster",
	// "ClusterOpenEnum") to fail with the given status.
	FailOps map[string]uint32

	// FailEnumAt, when non-negative, makes ClusterEnum fail at that index
	// with ErrorGenFailure.
	FailEnumAt int

	// SnapshotCalls records every ClusterSharedVolumeSetSnapshotState call.
	SnapshotCalls []SnapshotCall

	handles      map[Handle]*fakeHandle
	next         Handle
	totalOpens   int
	totalCloses  int
	doubleCloses int
	callCounts   map[string]int
}

// SpaceInfo holds the free/total byte counts for one mount point.
type SpaceInfo struct {
	Free  uint64
	Total uint64
}

// SnapshotCall records one VSS snapshot-state call.
type SnapshotCall struct {
	GUID   GUID
	Volume string
	State  uint32
}

// StateOwner is one (state, owner) pair served atomically by a single state
// query.
type StateOwner struct {
	State int32
	Owner string
}

// FakeNode scripts one cluster node.
type FakeNode struct {
	Name         string
	State        int32
	PauseStatus  uint32
	ResumeStatus uint32
	PauseCalls   int
	ResumeCalls  int
}

// FakeResource scripts one cluster resource.
type FakeResource struct {
	Name          string
	State         int32
	OwnerNode     string
	SharedVolume  bool
	InMaintenance bool
	VolumeName    string
	MountPoint    string
	FaultState    uint32
	BackupState   uint32
	RedirectedIO  uint64

	// StateSeq, when non-empty, is consumed one pair per state query.
	// Scripting inconsistent pairs across entries lets tests prove the
	// bindings issue exactly one query per state read.
	StateSeq []StateOwner

	OnlineStatus  uint32
	OfflineStatus uint32

	// ControlStatus forces a status per resource-control code.
	ControlStatus map[uint32]uint32

	// MaintenanceSets records the values passed to the maintenance-mode
	// control, in order.
	MaintenanceSets []bool
}

// FakeGroup scripts one cluster group.
type FakeGroup struct {
	Name      string
	State     int32
	OwnerNode string
	StateSeq  []StateOwner

	OnlineStatus  uint32
	OfflineStatus uint32
	MoveStatus    uint32

	// MovedTo records the node names passed to MoveClusterGroup, in order.
	MovedTo []string
}

type fakeHandle struct {
	kind string
	node *FakeNode
	res  *FakeResource
	grp  *FakeGroup

	// enumeration cursor state
	enumType uint32
	names    []string
}

// NewFake returns an empty, usable Fake.
func NewFake() *Fake {
	return &Fake{
		CSVMounts:  map[string]string{},
		Space:      map[string]SpaceInfo{},
		FailOps:    map[string]uint32{},
		FailEnumAt: -1,
		handles:    map[Handle]*fakeHandle{},
		callCounts: map[string]int{},
	}
}

// AddNode appends a scripted node and returns it for further tweaking.
func (f *Fake) AddNode(name string, state int32) *FakeNode {
	n := &FakeNode{Name: name, State: state}
	f.Nodes = append(f.Nodes, n)
	return n
}

// AddResource appends a scripted resource.
func (f *Fake) AddResource(name string, state int32, owner string) *FakeResource {
	r := &FakeResource{Name: name, State: state, OwnerNode: owner, ControlStatus: map[uint32]uint32{}}
	f.Resources = append(f.Resources, r)
	return r
}

// AddGroup appends a scripted group.
func (f *Fake) AddGroup(name string, state int32, owner string) *FakeGroup {
	g := &FakeGroup{Name: name, State: state, OwnerNode: owner}
	f.Groups = append(f.Groups, g)
	return g
}

// OpenHandleCount returns the number of handles currently open. Zero after
// teardown means nothing leaked.
func (f *Fake) OpenHandleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// DoubleCloses returns how many close calls targeted a handle that was not
// open. Any value above zero is a release-discipline violation.
func (f *Fake) DoubleCloses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doubleCloses
}

// TotalOpens returns how many handles were ever handed out.
func (f *Fake) TotalOpens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalOpens
}

// TotalCloses returns how many valid close calls were made.
func (f *Fake) TotalCloses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalCloses
}

// CallCount returns how many times the named operation was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCounts[op]
}

// ----------------------------------------------------------------------------
// internal helpers (mu held)
// ----------------------------------------------------------------------------

func (f *Fake) record(op string) {
	f.callCounts[op]++
}

func (f *Fake) alloc(h *fakeHandle) Handle {
	f.next++
	f.handles[f.next] = h
	f.totalOpens++
	return f.next
}

func (f *Fake) close(op string, h Handle, kind string) uint32 {
	f.record(op)
	fh, ok := f.handles[h]
	if !ok || fh.kind != kind {
		f.doubleCloses++
		return ErrorGenFailure
	}
	delete(f.handles, h)
	f.totalCloses++
	return ErrorSuccess
}

func (f *Fake) lookup(h Handle, kind string) *fakeHandle {
	fh, ok := f.handles[h]
	if !ok || fh.kind != kind {
		return nil
	}
	return fh
}

func decodeName(name []uint16) string {
	for i, c := range name {
		if c == 0 {
			name = name[:i]
			break
		}
	}
	return string(utf16.Decode(name))
}

// fillWide implements the probe/fill protocol: it reports the required
// length through size and copies the value only when the declared capacity
// fits it and its terminator. When size is non-nil its incoming value is the
// capacity in wide characters, terminator included; a caller that forwards
// the probe's count unchanged is one character short and gets ErrorMoreData,
// exactly like the real DLLs.
func fillWide(s string, buf []uint16, size *uint32) uint32 {
	enc := utf16.Encode([]rune(s))
	capacity := len(buf)
	if size != nil {
		if int(*size) < capacity {
			capacity = int(*size)
		}
		*size = uint32(len(enc))
	}
	if capacity < len(enc)+1 {
		return ErrorMoreData
	}
	copy(buf, enc)
	buf[len(enc)] = 0
	return ErrorSuccess
}

// ----------------------------------------------------------------------------
// Calls implementation
// ----------------------------------------------------------------------------

// OpenCluster ignores the name: the fake models a single cluster that is
// both "local" and addressable by any name, unless OpenCluster is forced to
// fail.
func (f *Fake) OpenCluster(name []uint16) (Handle, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OpenCluster")
	if st, ok := f.FailOps["OpenCluster"]; ok {
		return 0, st
	}
	return f.alloc(&fakeHandle{kind: "cluster"}), ErrorSuccess
}

func (f *Fake) CloseCluster(h Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close("CloseCluster", h, "cluster")
}

func (f *Fake) GetClusterInformation(h Handle, name []uint16, size *uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetClusterInformation")
	if st, ok := f.FailOps["GetClusterInformation"]; ok {
		return st
	}
	if f.lookup(h, "cluster") == nil {
		return ErrorGenFailure
	}
	return fillWide(f.ClusterName, name, size)
}

func (f *Fake) ClusterOpenEnum(h Handle, objectType uint32) (Handle, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterOpenEnum")
	if st, ok := f.FailOps["ClusterOpenEnum"]; ok {
		return 0, st
	}
	if f.lookup(h, "cluster") == nil {
		return 0, ErrorGenFailure
	}
	var names []string
	switch objectType {
	case EnumNode:
		for _, n := range f.Nodes {
			names = append(names, n.Name)
		}
	case EnumResource:
		for _, r := range f.Resources {
			names = append(names, r.Name)
		}
	case EnumGroup:
		for _, g := range f.Groups {
			names = append(names, g.Name)
		}
	default:
		return 0, ErrorInvalidFunction
	}
	return f.alloc(&fakeHandle{kind: "enum", enumType: objectType, names: names}), ErrorSuccess
}

func (f *Fake) ClusterEnum(enum Handle, index uint32, objectType *uint32, name []uint16, size *uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterEnum")
	fh := f.lookup(enum, "enum")
	if fh == nil {
		return ErrorGenFailure
	}
	if f.FailEnumAt >= 0 && index == uint32(f.FailEnumAt) {
		return ErrorGenFailure
	}
	if index >= uint32(len(fh.names)) {
		return ErrorNoMoreItems
	}
	if objectType != nil {
		*objectType = fh.enumType
	}
	return fillWide(fh.names[index], name, size)
}

func (f *Fake) ClusterCloseEnum(enum Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close("ClusterCloseEnum", enum, "enum")
}

func (f *Fake) OpenClusterNode(h Handle, name []uint16) (Handle, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OpenClusterNode")
	if st, ok := f.FailOps["OpenClusterNode"]; ok {
		return 0, st
	}
	if f.lookup(h, "cluster") == nil {
		return 0, ErrorGenFailure
	}
	want := decodeName(name)
	for _, n := range f.Nodes {
		if n.Name == want {
			return f.alloc(&fakeHandle{kind: "node", node: n}), ErrorSuccess
		}
	}
	return 0, ErrorNodeNotFound
}

func (f *Fake) CloseClusterNode(node Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close("CloseClusterNode", node, "node")
}

func (f *Fake) GetClusterNodeState(node Handle) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetClusterNodeState")
	fh := f.lookup(node, "node")
	if fh == nil {
		return NodeStateUnknown
	}
	return fh.node.State
}

func (f *Fake) PauseClusterNode(node Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("PauseClusterNode")
	fh := f.lookup(node, "node")
	if fh == nil {
		return ErrorGenFailure
	}
	fh.node.PauseCalls++
	if fh.node.PauseStatus != ErrorSuccess {
		return fh.node.PauseStatus
	}
	fh.node.State = NodeStatePaused
	return ErrorSuccess
}

func (f *Fake) ResumeClusterNode(node Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResumeClusterNode")
	fh := f.lookup(node, "node")
	if fh == nil {
		return ErrorGenFailure
	}
	fh.node.ResumeCalls++
	if fh.node.ResumeStatus != ErrorSuccess {
		return fh.node.ResumeStatus
	}
	fh.node.State = NodeStateUp
	return ErrorSuccess
}

func (f *Fake) OpenClusterResource(h Handle, name []uint16) (Handle, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OpenClusterResource")
	if st, ok := f.FailOps["OpenClusterResource"]; ok {
		return 0, st
	}
	if f.lookup(h, "cluster") == nil {
		return 0, ErrorGenFailure
	}
	want := decodeName(name)
	for _, r := range f.Resources {
		if r.Name == want {
			return f.alloc(&fakeHandle{kind: "resource", res: r}), ErrorSuccess
		}
	}
	return 0, ErrorResourceNotFound
}

func (f *Fake) CloseClusterResource(res Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close("CloseClusterResource", res, "resource")
}

func (f *Fake) GetClusterResourceState(res Handle, ownerNode []uint16, size *uint32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetClusterResourceState")
	fh := f.lookup(res, "resource")
	if fh == nil {
		return ResourceStateUnknown
	}
	pair := StateOwner{State: fh.res.State, Owner: fh.res.OwnerNode}
	if len(fh.res.StateSeq) > 0 {
		pair = fh.res.StateSeq[0]
		fh.res.StateSeq = fh.res.StateSeq[1:]
	}
	fillWide(pair.Owner, ownerNode, size)
	return pair.State
}

func (f *Fake) OnlineClusterResource(res Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OnlineClusterResource")
	fh := f.lookup(res, "resource")
	if fh == nil {
		return ErrorGenFailure
	}
	return fh.res.OnlineStatus
}

func (f *Fake) OfflineClusterResource(res Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OfflineClusterResource")
	fh := f.lookup(res, "resource")
	if fh == nil {
		return ErrorGenFailure
	}
	return fh.res.OfflineStatus
}

func (f *Fake) ClusterResourceControl(res Handle, code uint32, in []byte, out []byte, returned *uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("ClusterResourceControl:%#x", code))
	fh := f.lookup(res, "resource")
	if fh == nil {
		return ErrorGenFailure
	}
	r := fh.res
	if st, ok := r.ControlStatus[code]; ok {
		return st
	}
	switch code {
	case ControlStorageIsSharedVolume:
		if r.SharedVolume {
			return ErrorSuccess
		}
		return ErrorInvalidFunction
	case ControlSetCSVMaintenanceMode:
		enable, _, ok := DecodeMaintenanceModeInfo(in)
		if !ok {
			return ErrorGenFailure
		}
		r.InMaintenance = enable
		r.MaintenanceSets = append(r.MaintenanceSets, enable)
		return ErrorSuccess
	case ControlStorageGetSharedVolumeInfo:
		if !r.SharedVolume {
			return ErrorInvalidFunction
		}
		info := SharedVolumeInfo{
			FaultState:         r.FaultState,
			BackupState:        r.BackupState,
			InMaintenance:      r.InMaintenance,
			RedirectedIOReason: r.RedirectedIO,
			FriendlyName:       r.Name,
			VolumeName:         r.VolumeName,
		}
		data := info.Encode()
		if returned != nil {
			*returned = uint32(len(data))
		}
		if len(out) < len(data) {
			return ErrorMoreData
		}
		copy(out, data)
		return ErrorSuccess
	default:
		return ErrorInvalidFunction
	}
}

func (f *Fake) OpenClusterGroup(h Handle, name []uint16) (Handle, uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OpenClusterGroup")
	if st, ok := f.FailOps["OpenClusterGroup"]; ok {
		return 0, st
	}
	if f.lookup(h, "cluster") == nil {
		return 0, ErrorGenFailure
	}
	want := decodeName(name)
	for _, g := range f.Groups {
		if g.Name == want {
			return f.alloc(&fakeHandle{kind: "group", grp: g}), ErrorSuccess
		}
	}
	return 0, ErrorGroupNotFound
}

func (f *Fake) CloseClusterGroup(group Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close("CloseClusterGroup", group, "group")
}

func (f *Fake) GetClusterGroupState(group Handle, ownerNode []uint16, size *uint32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetClusterGroupState")
	fh := f.lookup(group, "group")
	if fh == nil {
		return GroupStateUnknown
	}
	pair := StateOwner{State: fh.grp.State, Owner: fh.grp.OwnerNode}
	if len(fh.grp.StateSeq) > 0 {
		pair = fh.grp.StateSeq[0]
		fh.grp.StateSeq = fh.grp.StateSeq[1:]
	}
	fillWide(pair.Owner, ownerNode, size)
	return pair.State
}

func (f *Fake) OnlineClusterGroup(group Handle, node Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OnlineClusterGroup")
	fh := f.lookup(group, "group")
	if fh == nil {
		return ErrorGenFailure
	}
	return fh.grp.OnlineStatus
}

func (f *Fake) OfflineClusterGroup(group Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OfflineClusterGroup")
	fh := f.lookup(group, "group")
	if fh == nil {
		return ErrorGenFailure
	}
	return fh.grp.OfflineStatus
}

// MoveClusterGroup records the requested destination and returns the
// scripted status. The fake deliberately does NOT update the group's owner:
// the move is asynchronous at the native level and a state read immediately
// after a successful request may still see the previous owner.
func (f *Fake) MoveClusterGroup(group Handle, node Handle) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("MoveClusterGroup")
	fh := f.lookup(group, "group")
	if fh == nil {
		return ErrorGenFailure
	}
	nh := f.lookup(node, "node")
	if nh == nil {
		return ErrorGenFailure
	}
	if fh.grp.MoveStatus != ErrorSuccess {
		return fh.grp.MoveStatus
	}
	fh.grp.MovedTo = append(fh.grp.MovedTo, nh.node.Name)
	return ErrorSuccess
}

func (f *Fake) ClusterIsPathOnSharedVolume(path []uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterIsPathOnSharedVolume")
	p := decodeName(path)
	for mount := range f.CSVMounts {
		if strings.HasPrefix(p, mount) {
			return true
		}
	}
	return false
}

func (f *Fake) ClusterGetVolumePathName(path []uint16, volumePath []uint16) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterGetVolumePathName")
	if st, ok := f.FailOps["ClusterGetVolumePathName"]; ok {
		return st
	}
	p := decodeName(path)
	best := ""
	for mount := range f.CSVMounts {
		if strings.HasPrefix(p, mount) && len(mount) > len(best) {
			best = mount
		}
	}
	if best == "" {
		return ErrorFileNotFound
	}
	return fillWide(best, volumePath, nil)
}

func (f *Fake) ClusterGetVolumeNameForVolumeMountPoint(mountPoint []uint16, volumeName []uint16) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterGetVolumeNameForVolumeMountPoint")
	if st, ok := f.FailOps["ClusterGetVolumeNameForVolumeMountPoint"]; ok {
		return st
	}
	guid, ok := f.CSVMounts[strings.TrimSuffix(decodeName(mountPoint), `\`)]
	if !ok {
		return ErrorFileNotFound
	}
	return fillWide(guid, volumeName, nil)
}

func (f *Fake) ClusterSharedVolumeSetSnapshotState(guid GUID, volumeName []uint16, state uint32) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ClusterSharedVolumeSetSnapshotState")
	if st, ok := f.FailOps["ClusterSharedVolumeSetSnapshotState"]; ok {
		return st
	}
	f.SnapshotCalls = append(f.SnapshotCalls, SnapshotCall{
		GUID:   guid,
		Volume: decodeName(volumeName),
		State:  state,
	})
	return ErrorSuccess
}

func (f *Fake) GetDiskFreeSpace(path []uint16, freeBytes, totalBytes *uint64) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetDiskFreeSpace")
	if st, ok := f.FailOps["GetDiskFreeSpace"]; ok {
		return st
	}
	space, ok := f.Space[strings.TrimSuffix(decodeName(path), `\`)]
	if !ok {
		return ErrorFileNotFound
	}
	if freeBytes != nil {
		*freeBytes = space.Free
	}
	if totalBytes != nil {
		*totalBytes = space.Total
	}
	return ErrorSuccess
}

var _ Calls = (*Fake)(nil)
