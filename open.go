package fatshell

import (
	"github.com/admgrn/fatshell/checkpoint"
)

// The open-file table is an insertion-ordered list of entry snapshots.
// A short name can be present at most once.

// checkNotOpen enforces by-name uniqueness in the open table.
func (fs *Fs) checkNotOpen(name string) error {
	if fs.findOpen(name) != nil {
		return checkpoint.From(ErrAlreadyOpen)
	}
	return nil
}

// lookupOpen returns the open-table entry for name, requiring the given
// mode bits. It fails with ErrNotOpen or ErrPermission.
func (fs *Fs) lookupOpen(name string, mode uint32) (*FileEntry, error) {
	entry := fs.findOpen(name)
	if entry == nil {
		return nil, checkpoint.From(ErrNotOpen)
	}
	if entry.openMode&mode != mode {
		return nil, checkpoint.From(ErrPermission)
	}
	return entry, nil
}

// findOpen returns the open-table entry with the given display name, or
// nil when the name is not open.
func (fs *Fs) findOpen(name string) *FileEntry {
	for _, e := range fs.openTable {
		if e.ShortName() == name {
			return e
		}
	}
	return nil
}

// closeOpen removes the first open-table entry with the given display
// name and reports whether one was found.
func (fs *Fs) closeOpen(name string) bool {
	for i, e := range fs.openTable {
		if e.ShortName() == name {
			fs.openTable = append(fs.openTable[:i], fs.openTable[i+1:]...)
			return true
		}
	}
	return false
}
