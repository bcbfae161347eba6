package fatshell

import (
	"errors"
	"os"

	"github.com/spf13/afero"

	"github.com/admgrn/fatshell/checkpoint"
)

// These errors may occur while mounting or operating on an image.
var (
	ErrImageFile    = errors.New("could not open the image file")
	ErrInvalidImage = errors.New("not a valid FAT32 image")
	ErrOutOfRange   = errors.New("access beyond the end of the image")
	ErrNotFound     = errors.New("no such file or directory")
	ErrNameInvalid  = errors.New("invalid file name")
	ErrAlreadyExist = errors.New("file already exists")
	ErrAlreadyOpen  = errors.New("file already open")
	ErrNotOpen      = errors.New("file not open")
	ErrPermission   = errors.New("file not open for that access")
	ErrOutOfSpace   = errors.New("filesystem out of space")
	ErrNotEmpty     = errors.New("directory not empty")
	ErrOutOfBounds  = errors.New("start beyond the end of the cluster chain")

	ErrUnknownCommand = errors.New("unknown command")
	ErrUnclosedQuote  = errors.New("unclosed quote")
)

// imageIO provides all methods the engine needs from the mapped image.
// It mainly exists to be able to mock the device in tests.
// Generated mock using mockgen:
//  mockgen -source=device.go -destination=device_mock.go -package fatshell
type imageIO interface {
	ReadLE(pos int64, width int) (uint32, error)
	WriteLE(pos int64, width int, value uint32) error
	ReadBytes(pos int64, n int) ([]byte, error)
	WriteBytes(pos int64, p []byte) error
	Size() int64
}

// Device owns the opened image file and its size. All access is through
// positioned reads and writes, so the image behaves like a mutable byte
// array without ever being loaded whole.
type Device struct {
	file afero.File
	size int64
}

// OpenDevice opens the image at path read-write through the given
// filesystem and stats it for the image size.
func OpenDevice(fsys afero.Fs, path string) (*Device, error) {
	file, err := fsys.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrImageFile)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, checkpoint.Wrap(err, ErrImageFile)
	}

	return &Device{file: file, size: stat.Size()}, nil
}

// Size returns the image size in bytes.
func (d *Device) Size() int64 {
	return d.size
}

// Close closes the underlying image file.
func (d *Device) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func (d *Device) check(pos int64, n int) error {
	if pos < 0 || pos+int64(n) > d.size {
		return checkpoint.From(ErrOutOfRange)
	}
	return nil
}

// ReadLE reads a little-endian integer of the given width (1, 2 or 4
// bytes) at pos.
func (d *Device) ReadLE(pos int64, width int) (uint32, error) {
	if err := d.check(pos, width); err != nil {
		return 0, err
	}

	buf := make([]byte, width)
	if _, err := d.file.ReadAt(buf, pos); err != nil {
		return 0, checkpoint.From(err)
	}

	var value uint32
	for i := width - 1; i >= 0; i-- {
		value = value<<8 | uint32(buf[i])
	}
	return value, nil
}

// WriteLE writes a little-endian integer of the given width (1, 2 or 4
// bytes) at pos.
func (d *Device) WriteLE(pos int64, width int, value uint32) error {
	if err := d.check(pos, width); err != nil {
		return err
	}

	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		buf[i] = byte(value)
		value >>= 8
	}

	_, err := d.file.WriteAt(buf, pos)
	return checkpoint.From(err)
}

// ReadBytes reads n raw bytes at pos.
func (d *Device) ReadBytes(pos int64, n int) ([]byte, error) {
	if err := d.check(pos, n); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if _, err := d.file.ReadAt(buf, pos); err != nil {
		return nil, checkpoint.From(err)
	}
	return buf, nil
}

// WriteBytes writes raw bytes at pos.
func (d *Device) WriteBytes(pos int64, p []byte) error {
	if err := d.check(pos, len(p)); err != nil {
		return err
	}

	_, err := d.file.WriteAt(p, pos)
	return checkpoint.From(err)
}
