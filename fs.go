package fatshell

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/admgrn/fatshell/checkpoint"
	"github.com/admgrn/fatshell/internal/logger"
)

// Fs is a mounted FAT32 volume. It owns the image device, the parsed
// geometry, the current working directory and the open-file table, and
// implements the command surface of the shell. It is not safe for
// concurrent use; the whole design assumes a single exclusive session.
type Fs struct {
	image     imageIO
	info      Fat32Info
	cwd       uint32
	location  string
	openTable []*FileEntry
	commands  map[string]func([]string) error
	out       io.Writer
	log       *zap.SugaredLogger
}

// Mount opens the image at path through the given filesystem, validates
// the boot sector and derives the volume geometry. The returned Fs
// writes command output to os.Stdout until SetOutput is called.
func Mount(fsys afero.Fs, path string) (*Fs, error) {
	device, err := OpenDevice(fsys, path)
	if err != nil {
		return nil, err
	}

	fs := &Fs{
		image: device,
		out:   os.Stdout,
		log:   logger.Logger(),
	}

	if err := fs.validate(); err != nil {
		device.Close()
		return nil, err
	}

	fs.register()

	fs.log.Debugw("mounted volume",
		"path", path,
		"bytesPerSec", fs.info.BytesPerSec,
		"secPerClus", fs.info.SecPerClus,
		"numFATs", fs.info.NumFATs,
		"fatSize", fs.info.FATSz,
		"totalSectors", fs.info.TotSec,
		"rootCluster", fs.info.RootClus,
		"endOfFat", fs.info.EndOfFat())

	return fs, nil
}

// validate reads the boot sector fields at their standard offsets and
// refuses everything that is not a plausible FAT32 volume.
func (fs *Fs) validate() error {
	sig0, err := fs.image.ReadLE(offBootSig, 1)
	if err != nil {
		return checkpoint.Wrap(err, ErrInvalidImage)
	}
	sig1, err := fs.image.ReadLE(offBootSig+1, 1)
	if err != nil {
		return checkpoint.Wrap(err, ErrInvalidImage)
	}
	if sig0 != 0x55 || sig1 != 0xAA {
		return checkpoint.From(ErrInvalidImage)
	}

	fields := []struct {
		value *uint32
		pos   int64
		width int
	}{
		{&fs.info.BytesPerSec, offBytesPerSec, 2},
		{&fs.info.SecPerClus, offSecPerClus, 1},
		{&fs.info.RsvdSecCnt, offRsvdSecCnt, 2},
		{&fs.info.NumFATs, offNumFATs, 1},
		{&fs.info.RootEntCnt, offRootEntCnt, 2},
		{&fs.info.FATSz16, offFATSz16, 2},
		{&fs.info.TotSec, offTotSec32, 4},
		{&fs.info.FATSz, offFATSz32, 4},
		{&fs.info.RootClus, offRootClus, 4},
		{&fs.info.FsInfo, offFsInfo, 2},
	}
	for _, f := range fields {
		v, err := fs.image.ReadLE(f.pos, f.width)
		if err != nil {
			return checkpoint.Wrap(err, ErrInvalidImage)
		}
		*f.value = v
	}

	switch fs.info.BytesPerSec {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.From(ErrInvalidImage)
	}

	switch fs.info.SecPerClus {
	case 1, 2, 4, 8, 16, 32, 64, 128:
	default:
		return checkpoint.From(ErrInvalidImage)
	}

	// A FAT32 volume stores no fixed root directory and no 16-bit FAT
	// size. Either one being set means FAT12/FAT16, which is refused.
	if fs.info.RootEntCnt != 0 || fs.info.FATSz16 != 0 {
		return checkpoint.From(ErrInvalidImage)
	}

	if fs.info.TotSec == 0 {
		return checkpoint.From(ErrInvalidImage)
	}

	fs.info.FirstDataSec = fs.info.RsvdSecCnt + fs.info.NumFATs*fs.info.FATSz

	fs.cwd = fs.info.RootClus
	fs.location = "/"

	return nil
}

// Close releases the image. Safe to call on every exit path.
func (fs *Fs) Close() error {
	if closer, ok := fs.image.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Location returns the human path of the current working directory.
func (fs *Fs) Location() string {
	return fs.location
}

// Info returns the parsed volume geometry.
func (fs *Fs) Info() Fat32Info {
	return fs.info
}

// SetOutput redirects command output, which defaults to os.Stdout.
func (fs *Fs) SetOutput(w io.Writer) {
	fs.out = w
}
