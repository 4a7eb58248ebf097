package scan

import (
	"encoding/binary"

	"github.com/cnf/structhash"
)

// State images are versioned so that hosts can persist them across releases.
//
//    byte 0      format version
//    byte 1      number of stack entries stored (uint8)
//    bytes 2..3  pending-dedent marker, int16 little-endian, -1 = none
//    then        one uint16 little-endian per stack entry, bottom first
const (
	FormatVersion = 1    // leading byte of every state image
	MaxImageSize  = 1024 // upper bound for the size of a state image in bytes
)

// MarshalBinary serializes the state into a binary image of at most
// MaxImageSize bytes. It implements encoding.BinaryMarshaler and never fails.
func (st *State) MarshalBinary() ([]byte, error) {
	n := len(st.indents)
	if max := (MaxImageSize - 4) / 2; n > max {
		n = max // drop innermost levels rather than exceed the image bound
	}
	buf := make([]byte, 4, 4+2*n)
	buf[0] = FormatVersion
	buf[1] = byte(n)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(st.pending))
	for _, width := range st.indents[:n] {
		buf = append(buf, byte(width), byte(width>>8))
	}
	return buf, nil
}

// UnmarshalBinary restores a state from a binary image. It implements
// encoding.BinaryUnmarshaler and never fails: restoring degrades gracefully
// instead. An empty image or one with an unknown version byte restores to a
// fresh state. A depth byte claiming more entries than the image holds is
// clamped to what is actually there. Whatever the image says, the restored
// state has the base level of width 0 open and at least depth 1.
func (st *State) UnmarshalBinary(data []byte) error {
	st.indents = st.indents[:0]
	st.pending = -1
	if len(data) == 0 || data[0] != FormatVersion {
		st.indents = append(st.indents, 0)
		return nil
	}
	depth := 0
	if len(data) > 1 {
		depth = int(data[1])
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	if len(data) >= 4 {
		st.pending = int16(binary.LittleEndian.Uint16(data[2:4]))
	}
	if st.pending < 0 {
		st.pending = -1 // owed dedents are either armed or not, normalize
	}
	var entries []byte
	if len(data) > 4 {
		entries = data[4:]
	}
	for i := 0; i < depth && (i+1)*2 <= len(entries); i++ {
		st.indents = append(st.indents, binary.LittleEndian.Uint16(entries[i*2:]))
	}
	if len(st.indents) == 0 {
		st.indents = append(st.indents, 0)
	}
	st.indents[0] = 0
	return nil
}

// stateImage mirrors State with exported fields for content hashing.
type stateImage struct {
	Indents []uint16
	Pending int16
}

// Fingerprint returns a stable content hash of the state, for hosts that key
// caches on tokenizer state. Equal states yield equal fingerprints, and a
// MarshalBinary/UnmarshalBinary roundtrip preserves the fingerprint.
func (st *State) Fingerprint() string {
	img := stateImage{Indents: st.indents, Pending: st.pending}
	hash, err := structhash.Hash(img, FormatVersion)
	if err != nil {
		return ""
	}
	return hash
}
