package watcher

// FilesystemType is a coarse classification of the filesystem holding the
// watched path.
type FilesystemType string

const (
	FSTypeUnknown FilesystemType = "unknown"
	FSTypeLocal   FilesystemType = "local"
	FSTypeNFS     FilesystemType = "nfs"
	FSTypeSMB     FilesystemType = "smb"
	FSTypeFUSE    FilesystemType = "fuse"
)

// isRemoteFilesystem reports whether inotify-style events are unreliable.
func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeFUSE:
		return true
	}
	return false
}
