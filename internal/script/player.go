// internal/script/player.go
package script

import "github.com/ospkit/chainctl/internal/topo"

// Setter applies a color to one triplet of the chain. *topo.Driver
// satisfies it.
type Setter interface {
	SetTriplet(tix int, c topo.RGB) error
}

// Player holds one installed script and one cursor over it. The cursor
// is moved with the iterator protocol (GotoFirst, GotoNext, AtEnd);
// Current returns the decoded instruction under it. Single writer, no
// locking; playback is driven entirely by the caller, typically one
// PlayFrame call per animation tick.
type Player struct {
	insts       []uint16
	numTriplets int
	out         Setter

	cursor int
	inst   Instruction
}

// NewPlayer installs a script over a chain of numTriplets triplets and
// sets the cursor to the first instruction. The script may be
// arbitrarily long but must contain an end-of-script marker; playing
// past an unterminated script panics.
func NewPlayer(insts []uint16, numTriplets int, out Setter) *Player {
	p := &Player{insts: insts, numTriplets: numTriplets, out: out}
	p.GotoFirst()
	return p
}

func (p *Player) decode() {
	if p.cursor >= len(p.insts) {
		panic("script: cursor ran past unterminated script")
	}
	p.inst = Decode(p.insts[p.cursor], p.cursor, p.numTriplets)
}

// GotoFirst sets the cursor to the first instruction.
func (p *Player) GotoFirst() {
	p.cursor = 0
	p.decode()
}

// GotoNext moves the cursor to the next instruction. When AtEnd holds
// the cursor does not move; check before relying on advancement.
func (p *Player) GotoNext() {
	if !p.AtEnd() {
		p.cursor++
		p.decode()
	}
}

// AtEnd reports whether the cursor is at the end-of-script marker.
func (p *Player) AtEnd() bool { return p.inst.AtEnd }

// Current returns the decoded instruction under the cursor.
func (p *Player) Current() Instruction { return p.inst }

// PlayInstruction applies the instruction under the cursor: every
// triplet in its region is set to its color, in ascending order,
// stopping at the first failure. The cursor does not move. Should not
// be called when AtEnd holds.
func (p *Player) PlayInstruction() error {
	for tix := p.inst.Tix0; tix < p.inst.Tix1; tix++ {
		if err := p.out.SetTriplet(tix, p.inst.Color); err != nil {
			return err
		}
	}
	return nil
}

// PlayFrame plays the instruction under the cursor, advances, and
// keeps playing while the newly current instruction carries the
// with-previous flag. When called with the cursor at the end marker it
// first wraps to the first instruction, so scripts loop automatically;
// the wrap happens before playing, leaving AtEnd observable to the
// caller beforehand.
func (p *Player) PlayFrame() error {
	if p.AtEnd() {
		p.GotoFirst()
	}
	n := 1
	for {
		if n > MaxFrameLen {
			panic("script: frame longer than 8 instructions")
		}
		if err := p.PlayInstruction(); err != nil {
			return err
		}
		p.GotoNext()
		n++
		if !p.Current().WithPrev {
			return nil
		}
	}
}
