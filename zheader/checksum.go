package zheader

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// ComputeChecksum sums every byte from the end of the header to the end of the file, modulo 2^16.
// If the header claims a larger file than memory holds, the sum stops at the end of memory.
func ComputeChecksum(m *zmem.Memory) (uint16, error) {
	fileSize, err := ReadFileSize(m)
	if err != nil {
		return 0, err
	}
	end := min(fileSize, m.Size())
	if end <= checksumStart {
		return 0, nil
	}
	var sum uint16
	for _, b := range m.Bytes()[checksumStart:end] {
		sum += uint16(b)
	}
	return sum, nil
}

// ErrChecksumMismatch is reported when the computed checksum differs from the header.
type ErrChecksumMismatch struct {
	Stored, Computed uint16
}

func (e ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("zheader: checksum mismatch. header=%#04x computed=%#04x", e.Stored, e.Computed)
}

// VerifyChecksum returns nil if the stored checksum matches, and ErrChecksumMismatch if not.
func VerifyChecksum(m *zmem.Memory) error {
	stored, err := ReadChecksum(m)
	if err != nil {
		return err
	}
	computed, err := ComputeChecksum(m)
	if err != nil {
		return err
	}
	if stored != computed {
		return ErrChecksumMismatch{Stored: stored, Computed: computed}
	}
	return nil
}
