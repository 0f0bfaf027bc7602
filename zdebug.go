// package zdebug is a Z-machine interpreter core.
//
// The packages under this module load story files (zmem, zheader), model their object
// tables (zobj) and text (ztext, zdict), decode instructions (zop, zinstr), and execute them (zvm).
package zdebug

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

const (
	// MaxStorySize is the largest story file of any version.
	MaxStorySize = 512 * 1024

	// MinStorySize is the size of the header, which every story must have.
	MinStorySize = 0x40
)

// ID identifies a story file by its contents.
type ID [32]byte

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// StoryID calculates the ID of a story file as it was loaded, before any execution.
func StoryID(story []byte) (ret ID) {
	h := blake3.New(32, nil)
	h.Write(story)
	h.Sum(ret[:0])
	return ret
}
