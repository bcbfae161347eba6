package fatshell

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func testingDevice(t *testing.T, size int) *Device {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "dev.img", make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}

	device, err := OpenDevice(fsys, "dev.img")
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	t.Cleanup(func() { device.Close() })

	return device
}

func TestDevice_ReadWriteLE(t *testing.T) {
	device := testingDevice(t, 64)

	tests := []struct {
		name  string
		pos   int64
		width int
		value uint32
		raw   []byte
	}{
		{name: "byte", pos: 0, width: 1, value: 0xAB, raw: []byte{0xAB}},
		{name: "word", pos: 10, width: 2, value: 0x1234, raw: []byte{0x34, 0x12}},
		{name: "dword", pos: 20, width: 4, value: 0xDEADBEEF, raw: []byte{0xEF, 0xBE, 0xAD, 0xDE}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := device.WriteLE(tt.pos, tt.width, tt.value); err != nil {
				t.Fatalf("WriteLE() error = %v", err)
			}

			got, err := device.ReadLE(tt.pos, tt.width)
			if err != nil {
				t.Fatalf("ReadLE() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("ReadLE() = %#x, want %#x", got, tt.value)
			}

			// The bytes on disk must be little-endian.
			raw, err := device.ReadBytes(tt.pos, tt.width)
			if err != nil {
				t.Fatalf("ReadBytes() error = %v", err)
			}
			if !bytes.Equal(raw, tt.raw) {
				t.Errorf("on-disk bytes = %#v, want %#v", raw, tt.raw)
			}
		})
	}
}

func TestDevice_outOfRange(t *testing.T) {
	device := testingDevice(t, 16)

	if _, err := device.ReadLE(14, 4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadLE() past end error = %v, want ErrOutOfRange", err)
	}
	if err := device.WriteLE(16, 1, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteLE() past end error = %v, want ErrOutOfRange", err)
	}
	if _, err := device.ReadBytes(8, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadBytes() past end error = %v, want ErrOutOfRange", err)
	}
	if err := device.WriteBytes(15, []byte{1, 2}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteBytes() past end error = %v, want ErrOutOfRange", err)
	}
	if _, err := device.ReadLE(-1, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadLE() negative error = %v, want ErrOutOfRange", err)
	}

	// Ending exactly at the image size is fine.
	if _, err := device.ReadLE(12, 4); err != nil {
		t.Errorf("ReadLE() at the edge error = %v", err)
	}

	if device.Size() != 16 {
		t.Errorf("Size() = %d, want 16", device.Size())
	}
}
