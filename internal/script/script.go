// internal/script/script.go
// Package script decodes and plays the tiny animation bytecode.
//
// A script is a sequence of 16-bit instructions. One instruction sets a
// region, a consecutive run of triplets, to one color:
//
//	+----+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
//	| 15 | 14| 13| 12| 11| 10| 9 | 8 | 7 | 6 | 5 | 4 | 3 | 2 | 1 | 0 |
//	+----+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
//	|with| start of  |  end of   |    red    |   green   |   blue    |
//	|prev|  region   |  region   | brightness| brightness| brightness|
//	+----+-----------+-----------+-----------+-----------+-----------+
//
// Scripts are meant to fit a 256-byte EEPROM, so everything is tiny:
// 8 brightness levels and 8 regions. Regions are spread linearly over
// the actual chain length at decode time; brightness levels are scaled
// exponentially. Consecutive instructions with the with-previous flag
// form one displayed frame. An instruction whose region start exceeds
// its region end is the end-of-script marker.
//
// Every field is 3 bits, so instructions read best in octal:
// 0o007007 paints the whole chain (regions 0..7) brightest blue.
package script

import (
	"fmt"

	"github.com/ospkit/chainctl/internal/topo"
)

// Brightness maps a 3-bit level from an instruction to the abstract
// brightness range of the color driver. Exponential with base 1.8:
// for i in range(8): hex(int(0x3C0 * 1.8**i)).
var Brightness = [8]uint16{
	0x0000,
	0x03C0,
	0x06C0,
	0x0C26,
	0x15DE,
	0x275D,
	0x46DB,
	0x7F8B,
}

// MaxFrameLen bounds the instructions per frame: more than 8 regions
// cannot be glued together because there are only 8 of them.
const MaxFrameLen = 8

// Instruction is one decoded script instruction. Region bounds are
// already mapped to real triplet indices and brightness levels to the
// real color range; Code keeps the raw word for diagnostics.
type Instruction struct {
	Cursor   int    // index into the script
	Code     uint16 // raw instruction word
	AtEnd    bool   // end-of-script marker
	WithPrev bool   // belongs to the same frame as the previous instruction
	Tix0     int    // start of the region (inclusive)
	Tix1     int    // end of the region (exclusive)
	Color    topo.RGB
}

func bits(v uint16, lo, hi int) uint16 { // including lo, excluding hi
	return (v >> lo) & (1<<(hi-lo) - 1)
}

// Decode dissects a 16-bit instruction for a chain of numTriplets. The
// region indices 0..7 map to lower bound (s*N+4)/8 inclusive and upper
// bound ((e+1)*N+4)/8 exclusive, clamped to N.
func Decode(code uint16, cursor, numTriplets int) Instruction {
	s := bits(code, 12, 15)
	e := bits(code, 9, 12)

	inst := Instruction{
		Cursor:   cursor,
		Code:     code,
		AtEnd:    s > e,
		WithPrev: bits(code, 15, 16) != 0,
		Tix0:     (int(s)*numTriplets + 4) / 8,
		Tix1:     ((int(e)+1)*numTriplets + 4) / 8,
		Color: topo.RGB{
			R: Brightness[bits(code, 6, 9)],
			G: Brightness[bits(code, 3, 6)],
			B: Brightness[bits(code, 0, 3)],
		},
	}
	if inst.Tix1 > numTriplets {
		inst.Tix1 = numTriplets
	}
	return inst
}

// Encode packs the fields of an instruction into its 16-bit word.
// start, end and the color levels must be 0..7.
func Encode(withPrev bool, start, end, r, g, b uint8) uint16 {
	var code uint16
	if withPrev {
		code = 1 << 15
	}
	code |= uint16(start&7) << 12
	code |= uint16(end&7) << 9
	code |= uint16(r&7) << 6
	code |= uint16(g&7) << 3
	code |= uint16(b & 7)
	return code
}

// EndMarker is a canonical end-of-script instruction (start 7, end 0).
const EndMarker uint16 = 0o070000

// Parse converts a script blob (as stored in an EEPROM) into
// instruction words. Words are two bytes, most significant byte first.
func Parse(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("script: odd blob length %d", len(data))
	}
	insts := make([]uint16, len(data)/2)
	for i := range insts {
		insts[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return insts, nil
}

// Bytes converts instruction words into the blob form read by Parse.
func Bytes(insts []uint16) []byte {
	data := make([]byte, 2*len(insts))
	for i, code := range insts {
		data[2*i] = byte(code >> 8)
		data[2*i+1] = byte(code)
	}
	return data
}

// Terminated reports whether insts contains an end-of-script marker.
func Terminated(insts []uint16) bool {
	for i, code := range insts {
		if Decode(code, i, 0).AtEnd {
			return true
		}
	}
	return false
}
