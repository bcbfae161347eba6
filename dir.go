package fatshell

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/admgrn/fatshell/checkpoint"
)

// Raw 11-byte names of the two entries every directory starts with.
var (
	dotName    = [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	dotDotName = [11]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
)

// FileEntry is the in-memory view of one 32-byte directory entry: the
// decoded header, the combined first cluster, the absolute byte offset
// the entry lives at, and the open mode while it sits in the open-file
// table.
type FileEntry struct {
	EntryHeader
	Clus     uint32
	EntryLoc int64
	openMode uint32
}

// ShortName returns the display form of the 8.3 name: trailing pad
// spaces trimmed, base and extension joined with a dot, lowercased.
func (e *FileEntry) ShortName() string {
	return displayName(e.Name)
}

// IsDir reports whether the entry describes a directory.
func (e *FileEntry) IsDir() bool {
	return e.Attribute&AttrDirectory == AttrDirectory
}

// SetClus stores cluster in the entry, keeping the split high and low
// halves in sync with the combined value.
func (e *FileEntry) SetClus(cluster uint32) {
	e.Clus = cluster
	e.FirstClusterHI = uint16(cluster >> 16)
	e.FirstClusterLO = uint16(cluster & 0xFFFF)
}

func displayName(raw [11]byte) string {
	name := strings.TrimRight(string(raw[:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")

	if ext != "" {
		name += "." + ext
	}

	return strings.ToLower(name)
}

// shortNameInvalid are the characters rejected in user-supplied names,
// besides spaces.
const shortNameInvalid = "/\\\"*+`-;:<>=?"

// encodeShortName validates a user-supplied name and turns it into the
// on-disk 11-byte form: at most 8 base and 3 extension characters
// around a single interior dot, uppercased and right-padded.
func encodeShortName(name string) ([11]byte, error) {
	var raw [11]byte

	if name == "" || strings.ContainsAny(name, shortNameInvalid+" ") {
		return raw, checkpoint.From(ErrNameInvalid)
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x21 || name[i] > 0x7E {
			return raw, checkpoint.From(ErrNameInvalid)
		}
	}

	base, ext := name, ""
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		if dot == 0 || dot == len(name)-1 || strings.Count(name, ".") > 1 {
			return raw, checkpoint.From(ErrNameInvalid)
		}
		base, ext = name[:dot], name[dot+1:]
	}

	if len(base) > 8 || len(ext) > 3 {
		return raw, checkpoint.From(ErrNameInvalid)
	}

	for i := range raw {
		raw[i] = ' '
	}
	copy(raw[:8], strings.ToUpper(base))
	copy(raw[8:], strings.ToUpper(ext))

	return raw, nil
}

// readDir walks the cluster chain of a directory and decodes its
// 32-byte slots in cluster order, slot order. Long-filename entries are
// skipped entirely. With includeFree false only live entries are
// returned; with includeFree true only tombstoned slots (first name
// byte 0x00 or 0xE5) are.
func (fs *Fs) readDir(cluster uint32, includeFree bool) ([]*FileEntry, error) {
	slots := int(fs.info.ClusterBytes() / entrySize)
	current := cluster

	var list []*FileEntry

	for {
		base := fs.info.clusterPos(current)

		for i := 0; i < slots; i++ {
			loc := base + int64(i)*entrySize

			raw, err := fs.image.ReadBytes(loc, entrySize)
			if err != nil {
				return nil, err
			}

			var header EntryHeader
			if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header); err != nil {
				return nil, checkpoint.From(err)
			}

			if header.Attribute&attrLongName == attrLongName {
				continue
			}

			free := raw[0] == 0x00 || raw[0] == slotDeleted
			if free != includeFree {
				continue
			}

			list = append(list, &FileEntry{
				EntryHeader: header,
				Clus:        uint32(header.FirstClusterHI)<<16 | uint32(header.FirstClusterLO),
				EntryLoc:    loc,
			})
		}

		entry, err := fs.nextCluster(current)
		if err != nil {
			return nil, err
		}
		if !entry.IsNextCluster() {
			break
		}
		current = entry.Value()
	}

	return list, nil
}

// saveEntry pushes the entry back to the image at its slot. The create
// time and access date fields are zeroed and the write time and date
// are stamped from the current local time.
func (fs *Fs) saveEntry(entry *FileEntry) error {
	entry.NTReserved = 0
	entry.CreateTimeTenth = 0
	entry.CreateTime = 0
	entry.CreateDate = 0
	entry.LastAccessDate = 0

	now := time.Now()
	entry.WriteDate = EncodeDate(now)
	entry.WriteTime = EncodeTime(now)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, entry.EntryHeader); err != nil {
		return checkpoint.From(err)
	}

	return fs.image.WriteBytes(entry.EntryLoc, buf.Bytes())
}

// checkEmpty fails with ErrNotEmpty unless the directory at cluster
// holds nothing besides its "." and ".." entries.
func (fs *Fs) checkEmpty(cluster uint32) error {
	contents, err := fs.readDir(cluster, false)
	if err != nil {
		return err
	}
	if len(contents) > 2 {
		return checkpoint.From(ErrNotEmpty)
	}
	return nil
}

// addEntry claims a free slot in the directory at dirCluster for a new
// entry with the given raw name and attribute. The directory chain is
// extended by one cluster when no slot is free. The entry is returned
// unsaved with cluster 0 and size 0; the caller adjusts and saves it.
func (fs *Fs) addEntry(dirCluster uint32, raw [11]byte, attr byte) (*FileEntry, error) {
	display := displayName(raw)

	existing, err := fs.readDir(dirCluster, false)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.ShortName() == display {
			return nil, checkpoint.From(ErrAlreadyExist)
		}
	}

	free, err := fs.readDir(dirCluster, true)
	if err != nil {
		return nil, err
	}

	if len(free) == 0 {
		if _, err := fs.allocateCluster(dirCluster); err != nil {
			return nil, err
		}
		if free, err = fs.readDir(dirCluster, true); err != nil {
			return nil, err
		}
		if len(free) == 0 {
			return nil, checkpoint.From(ErrOutOfSpace)
		}
	}

	entry := &FileEntry{EntryLoc: free[0].EntryLoc}
	entry.Name = raw
	entry.Attribute = attr
	entry.SetClus(0)
	entry.FileSize = 0

	return entry, nil
}
