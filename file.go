package fatshell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"

	"github.com/admgrn/fatshell/checkpoint"
)

// These errors may occur while processing a file through the fs.FS
// view.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// File is a read-only handle onto one directory entry, backing the
// fs.FS view of a mounted volume. The mutating surface of the shell is
// deliberately not reachable through it.
type File struct {
	fs    *Fs
	entry *FileEntry
	name  string

	offset int64
}

// Stat returns the file information of the entry.
func (f *File) Stat() (fs.FileInfo, error) {
	return f.entry.FileInfo(), nil
}

// Read reads from the current offset and advances it.
func (f *File) Read(p []byte) (int, error) {
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	size := int64(f.entry.FileSize)
	if size <= f.offset {
		return 0, io.EOF
	}

	length := int64(len(p))
	if length > size-f.offset {
		length = size - f.offset
	}

	data, err := f.fs.readFileAt(f.entry, uint32(f.offset), uint32(length))
	copy(p, data)
	f.offset += int64(len(data))

	if err != nil {
		return len(data), checkpoint.Wrap(err, ErrReadFile)
	}
	return len(data), nil
}

// Seek jumps to a specific offset in the file. This affects following
// Read calls. May return a syscall.EINVAL error if the whence value is
// invalid or the resulting offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = int64(f.entry.FileSize) + offset
	default:
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	if offset < 0 || offset > int64(f.entry.FileSize) {
		return 0, checkpoint.Wrap(ErrSeekFile, fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence))
	}

	f.offset = offset
	return offset, nil
}

// ReadDir reads the contents of a directory entry. May return
// syscall.ENOTDIR if the File is no directory.
func (f *File) ReadDir(count int) ([]fs.DirEntry, error) {
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	cluster := f.entry.Clus
	if cluster == 0 {
		cluster = f.fs.info.RootClus
	}

	content, err := f.fs.readDir(cluster, false)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	// The "." and ".." entries are not part of an fs.FS listing.
	trimmed := content[:0]
	for _, e := range content {
		if name := e.ShortName(); name != "." && name != ".." {
			trimmed = append(trimmed, e)
		}
	}
	content = trimmed

	end := len(content)
	if count >= 0 {
		if int(f.offset)+count > len(content) {
			err = io.EOF
		} else {
			end = int(f.offset) + count
		}
	}

	if int(f.offset) > end {
		return nil, io.EOF
	}
	window := content[f.offset:end]
	f.offset = int64(end)

	result := make([]fs.DirEntry, len(window))
	for i, e := range window {
		result[i] = dirEntry{e.FileInfo()}
	}

	return result, err
}

// Close detaches the handle from the volume.
func (f *File) Close() error {
	f.fs = nil
	f.entry = nil
	f.name = ""
	f.offset = 0

	return nil
}

type dirEntry struct {
	fs.FileInfo
}

func (d dirEntry) Type() fs.FileMode {
	return d.FileInfo.Mode().Type()
}

func (d dirEntry) Info() (fs.FileInfo, error) {
	return d.FileInfo, nil
}
