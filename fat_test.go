package fatshell

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/admgrn/fatshell/internal/logger"
)

func Test_fatEntry_Value(t *testing.T) {
	tests := []struct {
		name string
		e    fatEntry
		want uint32
	}{
		{name: "zero", e: 0, want: 0},
		{name: "pointer", e: 0x00000042, want: 0x42},
		{name: "reserved bits stripped", e: 0xF0000042, want: 0x42},
		{name: "end of chain", e: 0xFFFFFFFF, want: 0x0FFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Value(); got != tt.want {
				t.Errorf("fatEntry.Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fatEntry_IsFree(t *testing.T) {
	tests := []struct {
		name string
		e    fatEntry
		want bool
	}{
		{name: "free", e: 0, want: true},
		{name: "free with reserved bits", e: 0xA0000000, want: true},
		{name: "allocated", e: 3, want: false},
		{name: "end of chain", e: 0x0FFFFFFF, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.IsFree(); got != tt.want {
				t.Errorf("fatEntry.IsFree() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fatEntry_IsEOF(t *testing.T) {
	tests := []struct {
		name string
		e    fatEntry
		want bool
	}{
		{name: "free", e: 0, want: false},
		{name: "pointer", e: 0x42, want: false},
		{name: "first end of chain value", e: 0x0FFFFFF8, want: true},
		{name: "canonical end of chain", e: 0x0FFFFFFF, want: true},
		{name: "end of chain with reserved bits", e: 0xFFFFFFFF, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.IsEOF(); got != tt.want {
				t.Errorf("fatEntry.IsEOF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fatEntry_IsNextCluster(t *testing.T) {
	tests := []struct {
		name string
		e    fatEntry
		want bool
	}{
		{name: "free", e: 0, want: false},
		{name: "reserved cluster one", e: 1, want: false},
		{name: "pointer", e: 2, want: true},
		{name: "end of chain", e: 0x0FFFFFF8, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.IsNextCluster(); got != tt.want {
				t.Errorf("fatEntry.IsNextCluster() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Test_setNextCluster_mirrors verifies on the call level that a FAT
// write touches every copy and preserves the reserved upper nibble.
func Test_setNextCluster_mirrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockimageIO(ctrl)
	fs := &Fs{
		image: mock,
		info: Fat32Info{
			BytesPerSec:  testBytesPerSec,
			SecPerClus:   testSecPerClus,
			RsvdSecCnt:   testRsvdSecCnt,
			NumFATs:      testNumFATs,
			FATSz:        testFATSz,
			TotSec:       testTotSec,
			RootClus:     testRootClus,
			FirstDataSec: testFirstDataSec,
		},
		log: logger.Logger(),
	}

	pos0 := int64(testRsvdSecCnt*testBytesPerSec + 5*4)
	pos1 := pos0 + testFATSz*testBytesPerSec

	gomock.InOrder(
		mock.EXPECT().ReadLE(pos0, 4).Return(uint32(0xA0000003), nil),
		mock.EXPECT().WriteLE(pos0, 4, uint32(0xA0000007)).Return(nil),
		mock.EXPECT().ReadLE(pos1, 4).Return(uint32(0x50000003), nil),
		mock.EXPECT().WriteLE(pos1, 4, uint32(0x50000007)).Return(nil),
	)

	if err := fs.setNextCluster(5, 7); err != nil {
		t.Fatalf("setNextCluster() error = %v", err)
	}
}

// Test_setNextCluster_masksValue verifies that reserved bits in the new
// value never reach the image.
func Test_setNextCluster_masksValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockimageIO(ctrl)
	fs := &Fs{
		image: mock,
		info:  Fat32Info{BytesPerSec: testBytesPerSec, RsvdSecCnt: testRsvdSecCnt, NumFATs: 1, FATSz: testFATSz},
		log:   logger.Logger(),
	}

	pos := int64(testRsvdSecCnt*testBytesPerSec + 9*4)
	mock.EXPECT().ReadLE(pos, 4).Return(uint32(0x30000000), nil)
	mock.EXPECT().WriteLE(pos, 4, uint32(0x3FFFFFFF)).Return(nil)

	if err := fs.setNextCluster(9, 0xFFFFFFFF); err != nil {
		t.Fatalf("setNextCluster() error = %v", err)
	}
}

func Test_allocateCluster(t *testing.T) {
	fs := testingMount(t, buildTestImage())

	freeBefore, err := fs.freeCount()
	if err != nil {
		t.Fatal(err)
	}

	cluster, err := fs.allocateCluster(0)
	if err != nil {
		t.Fatalf("allocateCluster() error = %v", err)
	}
	if cluster != 3 {
		t.Errorf("allocateCluster() = %d, want 3 (the hint)", cluster)
	}

	entry, err := fs.nextCluster(cluster)
	if err != nil {
		t.Fatal(err)
	}
	if !entry.IsEOF() {
		t.Errorf("new cluster entry = %#x, want end of chain", uint32(entry))
	}

	data, err := fs.image.ReadBytes(fs.info.clusterPos(cluster), int(fs.info.ClusterBytes()))
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("new cluster byte %d = %#x, want 0", i, b)
		}
	}

	freeAfter, err := fs.freeCount()
	if err != nil {
		t.Fatal(err)
	}
	if freeAfter != freeBefore-1 {
		t.Errorf("free count = %d, want %d", freeAfter, freeBefore-1)
	}

	hint, err := fs.nextFreeHint()
	if err != nil {
		t.Fatal(err)
	}
	if hint != cluster {
		t.Errorf("next free hint = %d, want %d", hint, cluster)
	}

	assertFreeCount(t, fs)
	assertMirrors(t, fs)
}

func Test_allocateCluster_append(t *testing.T) {
	fs := testingMount(t, buildTestImage())

	head, err := fs.allocateCluster(0)
	if err != nil {
		t.Fatal(err)
	}

	second, err := fs.allocateCluster(head)
	if err != nil {
		t.Fatal(err)
	}

	entry, err := fs.nextCluster(head)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Value() != second {
		t.Errorf("chain after head = %d, want %d", entry.Value(), second)
	}

	tail, err := fs.nextCluster(second)
	if err != nil {
		t.Fatal(err)
	}
	if !tail.IsEOF() {
		t.Errorf("chain tail entry = %#x, want end of chain", uint32(tail))
	}

	assertFreeCount(t, fs)
	assertMirrors(t, fs)
}

func Test_allocateCluster_outOfSpace(t *testing.T) {
	img := buildTestImage()

	// Mark every data cluster allocated in both FAT copies.
	for copyIdx := 0; copyIdx < testNumFATs; copyIdx++ {
		base := (testRsvdSecCnt + copyIdx*testFATSz) * testBytesPerSec
		for n := 3; n < testEndOfFat; n++ {
			putLE(img, base+n*4, 4, 0x0FFFFFFF)
		}
	}
	fsInfo := testFsInfoSec * testBytesPerSec
	putLE(img, fsInfo+fsInfoFreeCount, 4, 0)

	fs := testingMount(t, img)

	if _, err := fs.allocateCluster(0); !errors.Is(err, ErrOutOfSpace) {
		t.Errorf("allocateCluster() error = %v, want ErrOutOfSpace", err)
	}
}

func Test_allocateCluster_unknownHint(t *testing.T) {
	img := buildTestImage()
	fsInfo := testFsInfoSec * testBytesPerSec
	putLE(img, fsInfo+fsInfoNextFree, 4, fsInfoUnknown)

	fs := testingMount(t, img)

	cluster, err := fs.allocateCluster(0)
	if err != nil {
		t.Fatalf("allocateCluster() error = %v", err)
	}
	if cluster != 3 {
		t.Errorf("allocateCluster() = %d, want 3 (first free from cluster 2)", cluster)
	}
}

func Test_freeChain(t *testing.T) {
	fs := testingMount(t, buildTestImage())

	head, err := fs.allocateCluster(0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.allocateCluster(head); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.allocateCluster(head); err != nil {
		t.Fatal(err)
	}

	freeBefore, err := fs.freeCount()
	if err != nil {
		t.Fatal(err)
	}

	count, err := fs.freeChain(head)
	if err != nil {
		t.Fatalf("freeChain() error = %v", err)
	}
	if count != 3 {
		t.Errorf("freeChain() = %d clusters, want 3", count)
	}

	freeAfter, err := fs.freeCount()
	if err != nil {
		t.Fatal(err)
	}
	if freeAfter != freeBefore+3 {
		t.Errorf("free count = %d, want %d", freeAfter, freeBefore+3)
	}

	entry, err := fs.nextCluster(head)
	if err != nil {
		t.Fatal(err)
	}
	if !entry.IsFree() {
		t.Errorf("freed head entry = %#x, want 0", uint32(entry))
	}

	assertFreeCount(t, fs)
	assertMirrors(t, fs)
}
