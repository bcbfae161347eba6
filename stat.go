package fatshell

import (
	"os"
	"time"
)

// FileInfo returns an os.FileInfo view of the entry.
func (e *FileEntry) FileInfo() os.FileInfo {
	return fileEntryInfo{*e}
}

type fileEntryInfo struct {
	entry FileEntry
}

func (e fileEntryInfo) Name() string {
	return e.entry.ShortName()
}

func (e fileEntryInfo) Size() int64 {
	return int64(e.entry.FileSize)
}

func (e fileEntryInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	return 0
}

func (e fileEntryInfo) ModTime() time.Time {
	writeDate := ParseDate(e.entry.WriteDate)
	writeTime := ParseTime(e.entry.WriteTime)

	// A zero date means the field held an invalid value. For the time
	// part that check is impossible because 00:00:00 is valid.
	if writeDate.IsZero() {
		return time.Time{}
	}

	return time.Date(writeDate.Year(), writeDate.Month(), writeDate.Day(),
		writeTime.Hour(), writeTime.Minute(), writeTime.Second(), 0, time.UTC)
}

func (e fileEntryInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e fileEntryInfo) Sys() interface{} {
	return e.entry.EntryHeader
}
