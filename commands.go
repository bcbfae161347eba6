package fatshell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/admgrn/fatshell/checkpoint"
)

// register builds the command dispatch table. The names are the words
// the user types at the prompt.
func (fs *Fs) register() {
	fs.commands = map[string]func([]string) error{
		"fsinfo":   fs.Fsinfo,
		"ls":       fs.Ls,
		"cd":       fs.Cd,
		"size":     fs.Size,
		"open":     fs.Open,
		"close":    fs.CloseFile,
		"read":     fs.Read,
		"write":    fs.Write,
		"mkdir":    fs.Mkdir,
		"create":   fs.Create,
		"rm":       fs.Rm,
		"rmdir":    fs.Rmdir,
		"undelete": fs.Undelete,
		"help":     fs.Help,
	}
}

// Dispatch runs the named command. ErrUnknownCommand is returned for a
// name outside the table so the caller can tell a typo from a command
// that failed internally; everything user-correctable is printed by the
// command itself and is not an error.
func (fs *Fs) Dispatch(name string, argv []string) error {
	command, ok := fs.commands[name]
	if !ok {
		return checkpoint.From(ErrUnknownCommand)
	}
	return command(argv)
}

// Fsinfo prints the volume geometry and the free space derived from the
// FS Information Sector.
func (fs *Fs) Fsinfo(argv []string) error {
	if len(argv) != 0 {
		fmt.Fprintln(fs.out, "usage: fsinfo")
		return nil
	}

	free, err := fs.freeCount()
	if err != nil {
		return err
	}

	fmt.Fprintf(fs.out, "  Bytes Per Sector:       %d\n", fs.info.BytesPerSec)
	fmt.Fprintf(fs.out, "  Sectors Per Cluster:    %d\n", fs.info.SecPerClus)
	fmt.Fprintf(fs.out, "  Total Sectors:          %d\n", fs.info.TotSec)
	fmt.Fprintf(fs.out, "  Number of FATs:         %d\n", fs.info.NumFATs)
	fmt.Fprintf(fs.out, "  Sectors Per Fat:        %d\n", fs.info.FATSz)
	fmt.Fprintf(fs.out, "  Number of Free Sectors: %d\n", free*fs.info.SecPerClus)

	return nil
}

// Ls lists the display names of the allocated entries of a directory,
// the current one unless a path is given.
func (fs *Fs) Ls(argv []string) error {
	target := "."
	switch len(argv) {
	case 0:
	case 1:
		target = argv[0]
	default:
		fmt.Fprintln(fs.out, "usage: ls [directory_name]")
		return nil
	}

	list := parsePath(target)

	cluster, err := fs.navigate(list, 0, len(list))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintln(fs.out, "Error: Invalid Directory")
			return nil
		}
		return err
	}

	if cluster == 0 {
		return nil
	}

	entries, err := fs.readDir(cluster, false)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(fs.out, "%s ", e.ShortName())
	}
	if len(entries) > 0 {
		fmt.Fprintln(fs.out)
	}

	return nil
}

// Cd changes the current working directory, to the root unless a path
// is given, and recomputes the cached location string.
func (fs *Fs) Cd(argv []string) error {
	target := "/"
	switch len(argv) {
	case 0:
	case 1:
		target = argv[0]
	default:
		fmt.Fprintln(fs.out, "usage: cd [directory_name]")
		return nil
	}

	list := parsePath(target)

	cluster, err := fs.navigate(list, 0, len(list))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintln(fs.out, "Error: Invalid Directory")
			return nil
		}
		return err
	}

	location, err := fs.pathName(cluster)
	if err != nil {
		return err
	}

	fs.cwd = cluster
	fs.location = location

	return nil
}

// Size prints the allocated size of an entry: the length of its cluster
// chain times the cluster size. This deliberately reports allocation,
// not the byte count recorded in the directory entry.
func (fs *Fs) Size(argv []string) error {
	if len(argv) != 1 {
		fmt.Fprintln(fs.out, "usage: size <entry_name>")
		return nil
	}

	address := parsePath(argv[0])
	if len(address) == 0 {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	cluster, err := fs.navigate(address, 0, len(address)-1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintln(fs.out, "Invalid directory")
			return nil
		}
		return err
	}

	name := address[len(address)-1]

	entries, err := fs.readDir(cluster, false)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.ShortName() != name {
			continue
		}

		count, _, err := fs.chainLength(e.Clus)
		if err != nil {
			return err
		}

		fmt.Fprintln(fs.out, count*fs.info.ClusterBytes())
		return nil
	}

	fmt.Fprintln(fs.out, "Invalid Filename")
	return nil
}

// Open puts a file of the current directory into the open-file table
// with the requested mode, one of "r", "w" and "rw".
func (fs *Fs) Open(argv []string) error {
	if len(argv) != 2 {
		fmt.Fprintln(fs.out, "usage: open <file_name> <mode>")
		return nil
	}

	name := strings.ToLower(argv[0])

	var mode uint32
	switch argv[1] {
	case "r":
		mode = openRead
	case "w":
		mode = openWrite
	case "rw":
		mode = openRead | openWrite
	default:
		fmt.Fprintln(fs.out, "Invalid Permission")
		return nil
	}

	if err := fs.checkNotOpen(name); err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			fmt.Fprintln(fs.out, "File Already Open")
			return nil
		}
		return err
	}

	entries, err := fs.readDir(fs.cwd, false)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.ShortName() != name {
			continue
		}

		if e.IsDir() {
			fmt.Fprintln(fs.out, "Error: Cannot Open Directory")
			return nil
		}

		e.openMode = mode
		fs.openTable = append(fs.openTable, e)
		return nil
	}

	fmt.Fprintln(fs.out, "Invalid Filename")
	return nil
}

// CloseFile removes a file from the open-file table.
func (fs *Fs) CloseFile(argv []string) error {
	if len(argv) != 1 {
		fmt.Fprintln(fs.out, "Usage: Close <file_name>")
		return nil
	}

	if !fs.closeOpen(strings.ToLower(argv[0])) {
		fmt.Fprintln(fs.out, "File not open")
	}

	return nil
}

// Read prints n bytes of an open file starting at the given offset.
func (fs *Fs) Read(argv []string) error {
	if len(argv) != 3 {
		fmt.Fprintln(fs.out, "Usage: Read <file_name> <start> <num_bytes>")
		return nil
	}

	entry, err := fs.lookupOpen(strings.ToLower(argv[0]), openRead)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOpen):
			fmt.Fprintln(fs.out, "Error: File not open")
		case errors.Is(err, ErrPermission):
			fmt.Fprintln(fs.out, "Error: File not open for reading")
		default:
			return err
		}
		return nil
	}

	start, err1 := strconv.ParseUint(argv[1], 10, 32)
	length, err2 := strconv.ParseUint(argv[2], 10, 32)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(fs.out, "Usage: Read <file_name> <start> <num_bytes>")
		return nil
	}

	data, err := fs.readFileAt(entry, uint32(start), uint32(length))
	if err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			fmt.Fprintln(fs.out, "Error: Start Parameter out of bounds")
			return nil
		}
		return err
	}

	fs.out.Write(data)

	return nil
}

// Write writes the quoted data into an open file at the given offset,
// allocating a chain for an empty file and growing the chain and the
// recorded size as needed.
func (fs *Fs) Write(argv []string) error {
	if len(argv) != 3 {
		fmt.Fprintln(fs.out, "Usage: Write <file_name> <start> <quoted_data>")
		return nil
	}

	entry, err := fs.lookupOpen(strings.ToLower(argv[0]), openWrite)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotOpen):
			fmt.Fprintln(fs.out, "Error: File not open")
		case errors.Is(err, ErrPermission):
			fmt.Fprintln(fs.out, "Error: File not open for writing")
		default:
			return err
		}
		return nil
	}

	start64, err := strconv.ParseUint(argv[1], 10, 32)
	if err != nil {
		fmt.Fprintln(fs.out, "Usage: Write <file_name> <start> <quoted_data>")
		return nil
	}
	start := uint32(start64)
	data := []byte(argv[2])

	total := start + uint32(len(data))
	clusterBytes := fs.info.ClusterBytes()

	var allocated, tail uint32
	if entry.Clus == 0 {
		cluster, err := fs.allocateCluster(0)
		if err != nil {
			if errors.Is(err, ErrOutOfSpace) {
				fmt.Fprintln(fs.out, "Filesystem out of space")
				return nil
			}
			return err
		}

		entry.SetClus(cluster)
		entry.FileSize = total
		if err := fs.saveEntry(entry); err != nil {
			return err
		}

		allocated = clusterBytes
		tail = cluster
	} else {
		count, last, err := fs.chainLength(entry.Clus)
		if err != nil {
			return err
		}
		allocated = count * clusterBytes
		tail = last
	}

	if total > allocated {
		needed := (total - allocated + clusterBytes - 1) / clusterBytes

		for i := uint32(0); i < needed; i++ {
			cluster, err := fs.allocateCluster(tail)
			if err != nil {
				if errors.Is(err, ErrOutOfSpace) {
					fmt.Fprintln(fs.out, "Filesystem out of space")
					return nil
				}
				return err
			}
			tail = cluster
		}
	}

	if entry.FileSize < total {
		entry.FileSize = total
		if err := fs.saveEntry(entry); err != nil {
			return err
		}
	}

	if _, err := fs.writeFileAt(entry, start, data); err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			fmt.Fprintln(fs.out, "Error: Start Parameter out of bounds")
			return nil
		}
		return err
	}

	return nil
}

// Mkdir creates a directory with its "." and ".." entries. The ".."
// entry stores cluster 0 when the parent is the root.
func (fs *Fs) Mkdir(argv []string) error {
	if len(argv) != 1 {
		fmt.Fprintln(fs.out, "Usage: mkdir <dir_name>")
		return nil
	}

	address := parsePath(argv[0])
	if len(address) == 0 {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	parent, err := fs.navigate(address, 0, len(address)-1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintln(fs.out, "Invalid location")
			return nil
		}
		return err
	}

	raw, err := encodeShortName(address[len(address)-1])
	if err != nil {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	entry, err := fs.addEntry(parent, raw, AttrDirectory)
	if err != nil {
		return fs.reportAddEntry(err)
	}

	cluster, err := fs.allocateCluster(0)
	if err != nil {
		if errors.Is(err, ErrOutOfSpace) {
			fmt.Fprintln(fs.out, "Filesystem out of space")
			return nil
		}
		return err
	}
	entry.SetClus(cluster)

	dot, err := fs.addEntry(cluster, dotName, AttrDirectory)
	if err != nil {
		return fs.reportAddEntry(err)
	}
	dot.SetClus(cluster)
	if err := fs.saveEntry(dot); err != nil {
		return err
	}

	dotDot, err := fs.addEntry(cluster, dotDotName, AttrDirectory)
	if err != nil {
		return fs.reportAddEntry(err)
	}
	if parent != fs.info.RootClus {
		dotDot.SetClus(parent)
	}
	if err := fs.saveEntry(dotDot); err != nil {
		return err
	}

	return fs.saveEntry(entry)
}

// Create adds an empty file entry with no cluster chain.
func (fs *Fs) Create(argv []string) error {
	if len(argv) != 1 {
		fmt.Fprintln(fs.out, "Usage: create <file_name>")
		return nil
	}

	address := parsePath(argv[0])
	if len(address) == 0 {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	parent, err := fs.navigate(address, 0, len(address)-1)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			fmt.Fprintln(fs.out, "Invalid location")
			return nil
		}
		return err
	}

	raw, err := encodeShortName(address[len(address)-1])
	if err != nil {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	entry, err := fs.addEntry(parent, raw, 0)
	if err != nil {
		return fs.reportAddEntry(err)
	}

	return fs.saveEntry(entry)
}

// reportAddEntry prints the user-correctable addEntry failures and
// passes everything else through.
func (fs *Fs) reportAddEntry(err error) error {
	switch {
	case errors.Is(err, ErrAlreadyExist):
		fmt.Fprintln(fs.out, "File Already Exists")
		return nil
	case errors.Is(err, ErrOutOfSpace):
		fmt.Fprintln(fs.out, "Filesystem out of space")
		return nil
	}
	return err
}

// Rm removes each named file from the current directory: the file is
// closed if open, its chain is freed and the entry is tombstoned by
// setting the first name byte to 0xE5.
func (fs *Fs) Rm(argv []string) error {
	if len(argv) == 0 {
		fmt.Fprintln(fs.out, "Usage: rm <file_name>")
		return nil
	}

	for _, arg := range argv {
		name := strings.ToLower(arg)

		if fs.findOpen(name) != nil {
			fs.closeOpen(name)
		}

		entries, err := fs.readDir(fs.cwd, false)
		if err != nil {
			return err
		}

		found := false
		for _, e := range entries {
			if e.ShortName() != name || e.IsDir() {
				continue
			}
			found = true

			if e.Clus != 0 {
				if _, err := fs.freeChain(e.Clus); err != nil {
					return err
				}
			}

			e.Name[0] = slotDeleted
			if err := fs.saveEntry(e); err != nil {
				return err
			}
			break
		}

		if !found {
			fmt.Fprintf(fs.out, "File %s not found!\n", name)
			return nil
		}
	}

	return nil
}

// Rmdir removes an empty directory from the current directory. A
// directory holding anything besides "." and ".." is refused.
func (fs *Fs) Rmdir(argv []string) error {
	if len(argv) != 1 {
		fmt.Fprintln(fs.out, "usage: rmdir <dir_name>")
		return nil
	}

	name := strings.ToLower(argv[0])

	var entry *FileEntry
	if !strings.HasPrefix(name, ".") {
		entries, err := fs.readDir(fs.cwd, false)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.ShortName() == name {
				if e.IsDir() {
					entry = e
				}
				break
			}
		}
	}

	if entry == nil {
		fmt.Fprintln(fs.out, "Invalid Filename")
		return nil
	}

	if err := fs.checkEmpty(entry.Clus); err != nil {
		if errors.Is(err, ErrNotEmpty) {
			fmt.Fprintln(fs.out, "Directory must be empty")
			return nil
		}
		return err
	}

	entry.Name[0] = slotDeleted
	if err := fs.saveEntry(entry); err != nil {
		return err
	}

	if entry.Clus != 0 {
		if _, err := fs.freeChain(entry.Clus); err != nil {
			return err
		}
	}

	return nil
}

// maxRecovered bounds the RECVD_<k> counter of undelete: nothing is
// recovered in a directory already holding more than maxRecovered
// recvd_ entries, and a run stops after the first name whose k is
// maxRecovered or higher.
const maxRecovered = 99

// Undelete attempts to restore the tombstoned entries of the current
// directory. For an entry that had a chain, the FAT is scanned forward
// from the stored head for free clusters, which are relinked into a new
// chain of the original length. The original chain is unknown, so the
// recovered data is best-effort; anything overwritten since the delete
// stays lost. Recovered entries are renamed RECVD_<k>.
func (fs *Fs) Undelete(argv []string) error {
	endOfFat := fs.info.EndOfFat()
	clusterBytes := fs.info.ClusterBytes()

	allocated, err := fs.readDir(fs.cwd, false)
	if err != nil {
		return err
	}

	count := 0
	for _, e := range allocated {
		if strings.HasPrefix(e.ShortName(), "recvd_") {
			count++
		}
	}
	if count > maxRecovered {
		return nil
	}

	deleted, err := fs.readDir(fs.cwd, true)
	if err != nil {
		return err
	}

	for _, e := range deleted {
		if e.Name[0] != slotDeleted {
			continue
		}

		clusterCount := uint32(1)
		if !e.IsDir() {
			clusterCount = (e.FileSize + clusterBytes - 1) / clusterBytes
		}

		if e.Clus != 0 {
			current, ok, err := fs.scanFree(e.Clus, endOfFat)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			e.SetClus(current)

			next := current + 1
			aborted := false

			for i := uint32(0); i < clusterCount; i++ {
				if i == clusterCount-1 {
					if err := fs.setNextCluster(current, fatMask); err != nil {
						return err
					}
					if err := fs.updateFreeCount(-1); err != nil {
						return err
					}
					continue
				}

				found, ok, err := fs.scanFree(next, endOfFat)
				if err != nil {
					return err
				}
				if !ok {
					aborted = true
					break
				}

				if err := fs.setNextCluster(current, found); err != nil {
					return err
				}
				if err := fs.updateFreeCount(-1); err != nil {
					return err
				}
				current = found
				next = found + 1
			}

			if aborted {
				continue
			}
		}

		count++

		name := fmt.Sprintf("RECVD_%d", count)
		for i := range e.Name {
			e.Name[i] = ' '
		}
		copy(e.Name[:], name)

		if err := fs.saveEntry(e); err != nil {
			return err
		}

		if count >= maxRecovered {
			break
		}
	}

	return nil
}

// scanFree walks the FAT upward from start looking for a free entry.
// The bool result is false when the scan ran past endOfFat.
func (fs *Fs) scanFree(start, endOfFat uint32) (uint32, bool, error) {
	current := start
	for {
		entry, err := fs.nextCluster(current)
		if err != nil {
			return 0, false, err
		}
		if entry.IsFree() {
			return current, true, nil
		}
		current++
		if current > endOfFat {
			return 0, false, nil
		}
	}
}

// Help lists the available commands.
func (fs *Fs) Help(argv []string) error {
	fmt.Fprintln(fs.out, " Enter any of the following commands:")

	names := make([]string, 0, len(fs.commands))
	for name := range fs.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(fs.out, "   %s\n", name)
	}

	return nil
}
