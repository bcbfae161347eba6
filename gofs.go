package fatshell

import (
	"io/fs"

	"github.com/admgrn/fatshell/checkpoint"
)

// FS is a read-only io/fs.FS view of a mounted volume. Paths are
// resolved from the root, independent of the shell's current working
// directory.
type FS struct {
	fs *Fs
}

// FS returns the read-only filesystem view of the volume.
func (fsys *Fs) FS() *FS {
	return &FS{fs: fsys}
}

// Open opens the named file or directory for reading.
func (g *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		root := &FileEntry{Clus: g.fs.info.RootClus}
		root.Attribute = AttrDirectory
		for i := range root.Name {
			root.Name[i] = ' '
		}
		return &File{fs: g.fs, entry: root, name: "."}, nil
	}

	list := append([]string{"/"}, parsePath(name)...)

	cluster, err := g.fs.navigate(list, 0, len(list)-1)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	final := list[len(list)-1]

	entries, err := g.fs.readDir(cluster, false)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: checkpoint.From(err)}
	}

	for _, e := range entries {
		if e.ShortName() == final {
			return &File{fs: g.fs, entry: e, name: final}, nil
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
