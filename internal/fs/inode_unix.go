//go:build unix

package fs

import (
	"os"
	"syscall"
)

// extracts inode information from syscall.Stat_t on Unix systems.
// Inode values distinguish a replaced source file from an in-place update.

func inodeOf(info os.FileInfo) uint64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0
	}
	return st.Ino
}
