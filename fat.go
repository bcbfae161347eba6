package fatshell

import (
	"github.com/admgrn/fatshell/checkpoint"
)

// fatEntry is one raw 32-bit File Allocation Table slot. Only the low
// 28 bits carry the cluster pointer.
type fatEntry uint32

// Value returns the cluster pointer, the low 28 bits of the slot.
func (e fatEntry) Value() uint32 {
	return uint32(e) & fatMask
}

// IsFree reports whether the slot marks a free cluster.
func (e fatEntry) IsFree() bool {
	return e.Value() == 0
}

// IsEOF reports whether the slot marks the end of a cluster chain.
func (e fatEntry) IsEOF() bool {
	return e.Value() >= fatEOC
}

// IsNextCluster reports whether the slot points at a valid next cluster.
func (e fatEntry) IsNextCluster() bool {
	v := e.Value()
	return v >= 2 && v < fatEOC
}

// nextCluster reads cluster n's entry from FAT #0.
func (fs *Fs) nextCluster(n uint32) (fatEntry, error) {
	value, err := fs.image.ReadLE(fs.info.fatEntryPos(n, 0), 4)
	if err != nil {
		return 0, err
	}
	return fatEntry(value), nil
}

// setNextCluster writes value as cluster n's entry into every FAT copy,
// replacing only the low 28 bits so the reserved upper nibble survives.
func (fs *Fs) setNextCluster(n, value uint32) error {
	for i := uint32(0); i < fs.info.NumFATs; i++ {
		pos := fs.info.fatEntryPos(n, i)

		current, err := fs.image.ReadLE(pos, 4)
		if err != nil {
			return err
		}

		if err := fs.image.WriteLE(pos, 4, current&^fatMask|value&fatMask); err != nil {
			return err
		}
	}
	return nil
}

func (fs *Fs) fsInfoPos(off int64) int64 {
	return int64(fs.info.FsInfo)*int64(fs.info.BytesPerSec) + off
}

// freeCount reads the last known free-cluster count from the FS
// Information Sector.
func (fs *Fs) freeCount() (uint32, error) {
	return fs.image.ReadLE(fs.fsInfoPos(fsInfoFreeCount), 4)
}

func (fs *Fs) setFreeCount(value uint32) error {
	return fs.image.WriteLE(fs.fsInfoPos(fsInfoFreeCount), 4, value)
}

// nextFreeHint reads the cluster number at which the next free-cluster
// scan should start. 0xFFFFFFFF means unknown.
func (fs *Fs) nextFreeHint() (uint32, error) {
	return fs.image.ReadLE(fs.fsInfoPos(fsInfoNextFree), 4)
}

func (fs *Fs) setNextFreeHint(cluster uint32) error {
	return fs.image.WriteLE(fs.fsInfoPos(fsInfoNextFree), 4, cluster)
}

// updateFreeCount adjusts the free-cluster count by delta, exactly once
// per cluster change.
func (fs *Fs) updateFreeCount(delta int32) error {
	count, err := fs.freeCount()
	if err != nil {
		return err
	}
	return fs.setFreeCount(uint32(int32(count) + delta))
}

// allocateCluster finds a free cluster, zeroes its data, marks it
// end-of-chain and accounts for it in the FS Information Sector. When
// appendTo is non-zero the new cluster is also linked to the end of
// that chain. The link is written last so a reader never sees a chain
// pointing at stale data.
func (fs *Fs) allocateCluster(appendTo uint32) (uint32, error) {
	position, err := fs.nextFreeHint()
	if err != nil {
		return 0, err
	}

	endOfFat := fs.info.EndOfFat()
	restarts := 0
	if position == fsInfoUnknown {
		position = 2
		restarts = 1
	}

	found := false
	for {
		for position < endOfFat {
			entry, err := fs.nextCluster(position)
			if err != nil {
				return 0, err
			}
			if entry.IsFree() {
				found = true
				break
			}
			position++
		}

		restarts++
		if found || restarts >= 2 {
			break
		}
		position = 2
	}

	if !found {
		return 0, checkpoint.From(ErrOutOfSpace)
	}

	if err := fs.zeroCluster(position); err != nil {
		return 0, err
	}
	if err := fs.setNextCluster(position, fatMask); err != nil {
		return 0, err
	}
	if err := fs.setNextFreeHint(position); err != nil {
		return 0, err
	}
	if err := fs.updateFreeCount(-1); err != nil {
		return 0, err
	}

	if appendTo != 0 {
		last := appendTo
		for {
			entry, err := fs.nextCluster(last)
			if err != nil {
				return 0, err
			}
			if entry.IsEOF() {
				break
			}
			last = entry.Value()
		}
		if err := fs.setNextCluster(last, position); err != nil {
			return 0, err
		}
	}

	fs.log.Debugw("allocated cluster", "cluster", position, "appendTo", appendTo)

	return position, nil
}

// freeChain frees every cluster of the chain starting at head and
// returns how many clusters were released.
func (fs *Fs) freeChain(head uint32) (uint32, error) {
	var count uint32
	current := head

	for {
		entry, err := fs.nextCluster(current)
		if err != nil {
			return count, err
		}
		if err := fs.setNextCluster(current, 0); err != nil {
			return count, err
		}
		if err := fs.updateFreeCount(1); err != nil {
			return count, err
		}
		count++

		if entry.IsEOF() {
			break
		}
		current = entry.Value()
	}

	fs.log.Debugw("freed chain", "head", head, "clusters", count)

	return count, nil
}

// zeroCluster clears the whole data region of the cluster.
func (fs *Fs) zeroCluster(cluster uint32) error {
	return fs.image.WriteBytes(fs.info.clusterPos(cluster), make([]byte, fs.info.ClusterBytes()))
}

// chainLength walks the chain from head and returns the cluster count
// and the last cluster of the chain.
func (fs *Fs) chainLength(head uint32) (uint32, uint32, error) {
	var count uint32
	current := head
	last := head

	for {
		count++
		last = current

		entry, err := fs.nextCluster(current)
		if err != nil {
			return count, last, err
		}
		if entry.IsEOF() {
			break
		}
		current = entry.Value()
	}

	return count, last, nil
}
