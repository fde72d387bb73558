//go:build windows

package fs

import "os"

// provides a Windows stub for inode extraction.
// Windows does not expose POSIX inodes, so this implementation returns zero
// and change detection falls back to mtime/size.

func inodeOf(info os.FileInfo) uint64 {
	_ = info
	return 0
}
