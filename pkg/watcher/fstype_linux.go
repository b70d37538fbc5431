//go:build linux

package watcher

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Magic numbers from statfs(2).
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	cifsMagic      = 0xff534d42
	smb2Magic      = 0xfe534d42
	fuseSuperMagic = 0x65735546
)

// DetectFilesystemType classifies the filesystem holding path, falling back
// to its parent directory when path does not exist yet.
func DetectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		if err := unix.Statfs(filepath.Dir(path), &st); err != nil {
			return FSTypeUnknown
		}
	}
	return classifyMagic(int64(st.Type))
}

func classifyMagic(magic int64) FilesystemType {
	switch uint32(magic) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsMagic, smb2Magic:
		return FSTypeSMB
	case fuseSuperMagic:
		return FSTypeFUSE
	}
	return FSTypeLocal
}
