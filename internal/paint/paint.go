// Package paint draws flag patterns spread out over an entire chain,
// using the topology map to work in the triplet domain.
//
// Demo boards carry a few triplets on the controller board itself, at
// the start of the chain and, when the chain loops back, also at the
// end. Band division treats those edge triplets specially so the flag
// proper lands on the attached strips.
package paint

import "github.com/ospkit/chainctl/internal/topo"

// Painter draws one flag over all triplets of the driver's map.
type Painter func(d *topo.Driver) error

// edges returns the triplet counts on the controller board at the
// start and (for a looped chain) the end of the chain.
func edges(m *topo.Map) (start, end int) {
	start = m.NodeNumTriplets(1)
	if m.Loop() {
		end = m.NodeNumTriplets(uint16(m.NumNodes()))
	}
	return start, end
}

// fill paints count triplets starting at *tix and advances the cursor.
func fill(d *topo.Driver, tix *int, count int, c topo.RGB) error {
	for i := 0; i < count; i++ {
		if err := d.SetTriplet(*tix, c); err != nil {
			return err
		}
		*tix++
	}
	return nil
}

// threeBands divides the chain in three color bands. A single leftover
// triplet goes to the middle band, two leftovers go to the side bands.
// When the strips besides the controller board carry at least three
// triplets, the controller's edge triplets are absorbed into the outer
// bands so the flag is centered on the strips.
func threeBands(d *topo.Driver, band1, band2, band3 topo.RGB) error {
	m := d.Map()
	numTot := m.NumTriplets()
	numStart, numEnd := edges(m)
	numPCB := numTot - numStart - numEnd
	numFlag := numTot
	if numPCB >= 3 {
		numFlag = numPCB
	}

	div := numFlag / 3
	mod := numFlag % 3
	num1 := div
	num2 := div
	num3 := div
	switch mod {
	case 1:
		num2++
	case 2:
		num1++
		num3++
	}
	if numPCB >= 3 {
		num1 += numStart
		num3 += numEnd
	}

	tix := 0
	if err := fill(d, &tix, num1, band1); err != nil {
		return err
	}
	if err := fill(d, &tix, num2, band2); err != nil {
		return err
	}
	return fill(d, &tix, num3, band3)
}

// Dutch paints red-white-blue. The Netherlands, France and Luxembourg
// use these colors.
func Dutch(d *topo.Driver) error {
	return threeBands(d, topo.Red, topo.White, topo.Blue)
}

// Columbia paints yellow-blue-red. Columbia, Ecuador and Venezuela use
// these colors.
func Columbia(d *topo.Driver) error {
	return threeBands(d, topo.Yellow, topo.Blue, topo.Red)
}

// Japan paints white-red-white, an abstraction of the Japanese flag.
func Japan(d *topo.Driver) error {
	return threeBands(d, topo.White, topo.Red, topo.White)
}

// Mali paints green-yellow-red. Mali, Benin, Cameroon, Ghana and
// Senegal use these colors.
func Mali(d *topo.Driver) error {
	return threeBands(d, topo.Green, topo.Yellow, topo.Red)
}

// Italy paints green-white-red.
func Italy(d *topo.Driver) error {
	return threeBands(d, topo.Green, topo.White, topo.Red)
}

// Europe paints three blue bands separated by two single yellow
// triplets (the "stars"), an abstraction of the European Union flag.
// Chains too short for stars come out all blue.
func Europe(d *topo.Driver) error {
	m := d.Map()
	numTot := m.NumTriplets()
	numStart, numEnd := edges(m)
	numPCB := numTot - numStart - numEnd
	numStars := 0
	if numPCB >= 5 {
		numStars = 2
	}
	numBlue := numPCB - numStars

	div := numBlue / 3
	mod := numBlue % 3
	num1 := div
	num3 := div
	num5 := div
	switch mod {
	case 1:
		num3++
	case 2:
		num1++
		num5++
	}
	num1 += numStart
	num5 += numEnd

	tix := 0
	if err := fill(d, &tix, num1, topo.Blue); err != nil {
		return err
	}
	if err := fill(d, &tix, numStars/2, topo.Yellow); err != nil {
		return err
	}
	if err := fill(d, &tix, num3, topo.Blue); err != nil {
		return err
	}
	if err := fill(d, &tix, numStars/2, topo.Yellow); err != nil {
		return err
	}
	return fill(d, &tix, num5, topo.Blue)
}

// USA paints a blue corner followed by white/blue pairs, then red with
// white/red pairs to the end, an abstraction of the USA flag.
func USA(d *topo.Driver) error {
	m := d.Map()
	numTot := m.NumTriplets()
	numStart, _ := edges(m)
	// One blue at the start and one red at the end frame the pairs.
	numMain := numTot - 2 - numStart
	numCorner := numMain / 2 / 3 // white/blue share of the pairs

	tix := 0
	if err := fill(d, &tix, min(numStart+1, numTot), topo.Blue); err != nil {
		return err
	}
	for pairs := 0; pairs < numCorner && tix < numTot; pairs++ {
		if err := fill(d, &tix, 1, topo.White); err != nil {
			return err
		}
		if tix < numTot {
			if err := fill(d, &tix, 1, topo.Blue); err != nil {
				return err
			}
		}
	}
	if tix < numTot {
		if err := fill(d, &tix, 1, topo.Red); err != nil {
			return err
		}
	}
	for tix < numTot {
		if err := fill(d, &tix, 1, topo.White); err != nil {
			return err
		}
		if tix < numTot {
			if err := fill(d, &tix, 1, topo.Red); err != nil {
				return err
			}
		}
	}
	return nil
}

// China paints red with a double and a single yellow star near the
// start, an abstraction of the Chinese flag. Chains too short for
// stars come out all red.
func China(d *topo.Driver) error {
	m := d.Map()
	numTot := m.NumTriplets()
	numStart, numEnd := edges(m)
	numPCB := numTot - numStart - numEnd
	numStars := 0
	if numPCB >= 7 {
		numStars = 3
	}
	numRed := numPCB - numStars

	num1 := 0
	if numRed > 1 {
		num1 = 1
	}
	num3 := 0
	if numRed > 2 {
		num3 = 1
	}
	num5 := numRed - num1 - num3
	num1 += numStart
	num5 += numEnd

	tix := 0
	if err := fill(d, &tix, num1, topo.Red); err != nil {
		return err
	}
	if err := fill(d, &tix, (numStars+1)/2, topo.Yellow); err != nil {
		return err
	}
	if err := fill(d, &tix, num3, topo.Red); err != nil {
		return err
	}
	if err := fill(d, &tix, numStars/2, topo.Yellow); err != nil {
		return err
	}
	return fill(d, &tix, num5, topo.Red)
}

// flags couples names to painters, for lookups by index or name.
var flags = []struct {
	name    string
	painter Painter
}{
	{"dutch", Dutch},
	{"columbia", Columbia},
	{"japan", Japan},
	{"mali", Mali},
	{"italy", Italy},
	{"europe", Europe},
	{"usa", USA},
	{"china", China},
}

// Count returns the number of flag painters.
func Count() int { return len(flags) }

// Name returns the name of flag pix; 0 <= pix < Count.
func Name(pix int) string { return flags[pix].name }

// At returns the painter of flag pix; 0 <= pix < Count.
func At(pix int) Painter { return flags[pix].painter }

// Find returns the painter registered under name, or nil.
func Find(name string) Painter {
	for _, f := range flags {
		if f.name == name {
			return f.painter
		}
	}
	return nil
}
