package winapi

import (
	"encoding/binary"
	"unicode/utf16"
)

// Wire codecs for the resource-control payloads the CSV helper exchanges
// with the cluster service. Layouts are little-endian with fixed-size wide
// string fields, matching the structures in clusapi.h.

const (
	maxPath          = 260
	maxVolumeGUIDLen = 50

	// MaintenanceModeInfoSize is the encoded size of
	// CLUS_CSV_MAINTENANCE_MODE_INFO: a 4-byte flag plus a MAX_PATH wide
	// volume name.
	MaintenanceModeInfoSize = 4 + 2*maxPath

	// SharedVolumeInfoSize is the encoded size of the shared-volume-info
	// control output consumed by this module.
	SharedVolumeInfoSize = 8 + 4 + 4 + 4 + 4 + 8 + 2*maxPath + 2*maxVolumeGUIDLen
)

// SharedVolumeInfo is the decoded CLCTL_STORAGE_GET_SHARED_VOLUME_INFO
// payload.
type SharedVolumeInfo struct {
	VolumeOffset       uint64
	PartitionNumber    uint32
	FaultState         uint32
	BackupState        uint32
	InMaintenance      bool
	RedirectedIOReason uint64
	FriendlyName       string
	VolumeName         string
}

func putWide(buf []byte, s string, chars int) {
	enc := utf16.Encode([]rune(s))
	if len(enc) > chars-1 {
		enc = enc[:chars-1]
	}
	for i, c := range enc {
		binary.LittleEndian.PutUint16(buf[2*i:], c)
	}
}

func getWide(buf []byte, chars int) string {
	dec := make([]uint16, 0, chars)
	for i := 0; i < chars; i++ {
		c := binary.LittleEndian.Uint16(buf[2*i:])
		if c == 0 {
			break
		}
		dec = append(dec, c)
	}
	return string(utf16.Decode(dec))
}

// Encode serializes the payload into its wire form.
func (v *SharedVolumeInfo) Encode() []byte {
	buf := make([]byte, SharedVolumeInfoSize)
	binary.LittleEndian.PutUint64(buf[0:], v.VolumeOffset)
	binary.LittleEndian.PutUint32(buf[8:], v.PartitionNumber)
	binary.LittleEndian.PutUint32(buf[12:], v.FaultState)
	binary.LittleEndian.PutUint32(buf[16:], v.BackupState)
	if v.InMaintenance {
		binary.LittleEndian.PutUint32(buf[20:], 1)
	}
	binary.LittleEndian.PutUint64(buf[24:], v.RedirectedIOReason)
	putWide(buf[32:], v.FriendlyName, maxPath)
	putWide(buf[32+2*maxPath:], v.VolumeName, maxVolumeGUIDLen)
	return buf
}

// DecodeSharedVolumeInfo parses the control output buffer. The buffer must
// hold at least SharedVolumeInfoSize bytes.
func DecodeSharedVolumeInfo(buf []byte) (SharedVolumeInfo, bool) {
	if len(buf) < SharedVolumeInfoSize {
		return SharedVolumeInfo{}, false
	}
	return SharedVolumeInfo{
		VolumeOffset:       binary.LittleEndian.Uint64(buf[0:]),
		PartitionNumber:    binary.LittleEndian.Uint32(buf[8:]),
		FaultState:         binary.LittleEndian.Uint32(buf[12:]),
		BackupState:        binary.LittleEndian.Uint32(buf[16:]),
		InMaintenance:      binary.LittleEndian.Uint32(buf[20:]) != 0,
		RedirectedIOReason: binary.LittleEndian.Uint64(buf[24:]),
		FriendlyName:       getWide(buf[32:], maxPath),
		VolumeName:         getWide(buf[32+2*maxPath:], maxVolumeGUIDLen),
	}, true
}

// EncodeMaintenanceModeInfo serializes a CLUS_CSV_MAINTENANCE_MODE_INFO
// input buffer. Volume names longer than MAX_PATH-1 are truncated, as the
// fixed-size native field would truncate them.
func EncodeMaintenanceModeInfo(enable bool, volumeName string) []byte {
	buf := make([]byte, MaintenanceModeInfoSize)
	if enable {
		binary.LittleEndian.PutUint32(buf[0:], 1)
	}
	putWide(buf[4:], volumeName, maxPath)
	return buf
}

// DecodeMaintenanceModeInfo parses a maintenance-mode input buffer.
func DecodeMaintenanceModeInfo(buf []byte) (enable bool, volumeName string, ok bool) {
	if len(buf) < MaintenanceModeInfoSize {
		return false, "", false
	}
	return binary.LittleEndian.Uint32(buf[0:]) != 0, getWide(buf[4:], maxPath), true
}
