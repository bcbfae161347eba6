package fatshell

import (
	"github.com/admgrn/fatshell/checkpoint"
)

// seekCluster walks the chain from head to the cluster containing byte
// offset start and returns that cluster plus the offset inside it.
func (fs *Fs) seekCluster(head, start uint32) (uint32, uint32, error) {
	if head < 2 {
		return 0, 0, checkpoint.From(ErrOutOfBounds)
	}

	clusterBytes := fs.info.ClusterBytes()
	current := head

	for i := uint32(0); i < start/clusterBytes; i++ {
		entry, err := fs.nextCluster(current)
		if err != nil {
			return 0, 0, err
		}
		if entry.IsEOF() {
			return 0, 0, checkpoint.From(ErrOutOfBounds)
		}
		current = entry.Value()
	}

	return current, start % clusterBytes, nil
}

// readFileAt reads up to length bytes starting at byte offset start of
// the entry's cluster chain, crossing cluster boundaries as needed. The
// read is cut short when the chain ends.
func (fs *Fs) readFileAt(entry *FileEntry, start, length uint32) ([]byte, error) {
	current, offset, err := fs.seekCluster(entry.Clus, start)
	if err != nil {
		return nil, err
	}

	clusterBytes := fs.info.ClusterBytes()
	out := make([]byte, 0, length)

	for uint32(len(out)) < length {
		span := length - uint32(len(out))
		if remaining := clusterBytes - offset; span > remaining {
			span = remaining
		}

		data, err := fs.image.ReadBytes(fs.info.clusterPos(current)+int64(offset), int(span))
		if err != nil {
			return out, err
		}
		out = append(out, data...)

		next, err := fs.nextCluster(current)
		if err != nil {
			return out, err
		}
		if next.IsEOF() {
			break
		}
		current = next.Value()
		offset = 0
	}

	return out, nil
}

// writeFileAt writes data starting at byte offset start of the entry's
// cluster chain and returns the number of bytes written. The write is
// cut short when the chain ends; callers extend the chain first.
func (fs *Fs) writeFileAt(entry *FileEntry, start uint32, data []byte) (uint32, error) {
	current, offset, err := fs.seekCluster(entry.Clus, start)
	if err != nil {
		return 0, err
	}

	clusterBytes := fs.info.ClusterBytes()
	var written uint32

	for written < uint32(len(data)) {
		span := uint32(len(data)) - written
		if remaining := clusterBytes - offset; span > remaining {
			span = remaining
		}

		if err := fs.image.WriteBytes(fs.info.clusterPos(current)+int64(offset), data[written:written+span]); err != nil {
			return written, err
		}
		written += span

		next, err := fs.nextCluster(current)
		if err != nil {
			return written, err
		}
		if next.IsEOF() {
			break
		}
		current = next.Value()
		offset = 0
	}

	return written, nil
}
