// Package fs defines the filesystem abstraction used by db-archiver.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import "time"

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Inode uint64
}

// Changed reports whether two stats of the same path describe
// different underlying file states. Inodes distinguish a replaced file
// from an updated one; zero inodes (windows) fall back to mtime/size.
func (fi FileInfo) Changed(other FileInfo) bool {
	if fi.Inode != 0 && other.Inode != 0 && fi.Inode != other.Inode {
		return true
	}
	if other.MTime.After(fi.MTime) {
		return true
	}
	return fi.Size != other.Size
}

type FS interface {
	Stat(path string) (FileInfo, error)
	MkdirAll(path string) error
	Remove(path string) error
}
