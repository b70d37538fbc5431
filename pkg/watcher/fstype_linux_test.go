//go:build linux

package watcher

import "testing"

func TestClassifyMagic(t *testing.T) {
	tests := map[int64]FilesystemType{
		0x6969:     FSTypeNFS,
		0xff534d42: FSTypeSMB,
		0x65735546: FSTypeFUSE,
		0xef53:     FSTypeLocal, // ext4
	}
	for magic, want := range tests {
		if got := classifyMagic(magic); got != want {
			t.Errorf("classifyMagic(%#x) = %s, want %s", magic, got, want)
		}
	}
}

func TestDetectFilesystemType_TempDir(t *testing.T) {
	if got := DetectFilesystemType(t.TempDir()); got == FSTypeUnknown {
		t.Errorf("expected temp dir to be classified, got %s", got)
	}
}
