package fatshell

import (
	"time"
)

// ParseDate reads a 16-bit directory entry date stamp: bits 0-4 day of
// month, bits 5-8 month, bits 9-15 years since 1980. The result always
// has a time of 00:00:00 UTC.
//
// Day or month 0 is unspecified in the FAT specification, so time.Time{}
// is returned for those to stay compatible with time.Time.IsZero().
func ParseDate(input uint16) time.Time {
	dayOfMonth := input & 0x1F
	monthOfYear := input & 0x1E0 >> 5
	yearSince1980 := input & 0xFE00 >> 9

	if dayOfMonth == 0 || monthOfYear == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(yearSince1980), time.Month(monthOfYear), int(dayOfMonth), 0, 0, 0, 0, time.UTC)
}

// ParseTime reads a 16-bit directory entry time stamp with its 2-second
// granularity: bits 0-4 half-seconds, bits 5-10 minutes, bits 11-15
// hours. The result always has a date of January 1, year 1.
//
// Out-of-range values are added onto the time but capped at 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)

	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// EncodeDate packs t into the 16-bit directory entry date format.
func EncodeDate(t time.Time) uint16 {
	return uint16(t.Day()) | uint16(t.Month())<<5 | uint16(t.Year()-1980)<<9
}

// EncodeTime packs t into the 16-bit directory entry time format. The
// two-second count is capped at 29 like the on-disk field requires.
func EncodeTime(t time.Time) uint16 {
	halfSeconds := t.Second() / 2
	if halfSeconds > 29 {
		halfSeconds = 29
	}
	return uint16(halfSeconds) | uint16(t.Minute())<<5 | uint16(t.Hour())<<11
}
