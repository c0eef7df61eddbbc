// internal/script/stock.go
package script

// Stock animation scripts. Each is a ready-to-install instruction
// slice; each also fits the 256-byte EEPROM the format was sized for.
// Field order in the octal literals: withprev, start, end, r, g, b.

// Rainbow dims the whole strip from black up to white, then colors the
// segments one by one (red, yellow, green, cyan, blue, purple), then
// dims the segments back down to black one by one.
var Rainbow = []uint16{
	// From all black to all white
	0o007000,
	0o007111,
	0o007222,
	0o007333,
	0o007444,
	0o007555,
	0o007666,
	0o007777,

	// All bands up
	// Segment 1 from white to red
	0o011766,
	0o011755,
	0o011744,
	0o011733,
	0o011722,
	0o011711,
	0o011700,
	// Segment 2 from white to yellow
	0o022776,
	0o022775,
	0o022774,
	0o022773,
	0o022772,
	0o022771,
	0o022770,
	// Segment 3 from white to green
	0o033676,
	0o033575,
	0o033474,
	0o033373,
	0o033272,
	0o033171,
	0o033070,
	// Segment 4 from white to cyan
	0o044677,
	0o044577,
	0o044477,
	0o044377,
	0o044277,
	0o044177,
	0o044077,
	// Segment 5 from white to blue
	0o055667,
	0o055557,
	0o055447,
	0o055337,
	0o055227,
	0o055117,
	0o055007,
	// Segment 6 from white to purple
	0o066767,
	0o066757,
	0o066747,
	0o066737,
	0o066727,
	0o066717,
	0o066707,

	// All bands down
	// Segment 0 from white to black
	0o000666,
	0o000555,
	0o000444,
	0o000333,
	0o000222,
	0o000111,
	0o000000,
	// Segment 1 from red to black
	0o011600,
	0o011500,
	0o011400,
	0o011300,
	0o011200,
	0o011100,
	0o011000,
	// Segment 2 from yellow to black
	0o022660,
	0o022550,
	0o022440,
	0o022330,
	0o022220,
	0o022110,
	0o022000,
	// Segment 3 from green to black
	0o033060,
	0o033050,
	0o033040,
	0o033030,
	0o033020,
	0o033010,
	0o033000,
	// Segment 4 from cyan to black
	0o044066,
	0o044055,
	0o044044,
	0o044033,
	0o044022,
	0o044011,
	0o044000,
	// Segment 5 from blue to black
	0o055006,
	0o055005,
	0o055004,
	0o055003,
	0o055002,
	0o055001,
	0o055000,
	// Segment 6 from purple to black
	0o066606,
	0o066505,
	0o066404,
	0o066303,
	0o066202,
	0o066101,
	0o066000,
	// Segment 7 from white to black
	0o077666,
	0o077555,
	0o077444,
	0o077333,
	0o077222,
	0o077111,
	0o077000,

	// End
	0o070000,
}

// BouncingBlock moves a red block (one segment) back and forth over a
// blue background; each pass the blue dims down and the red dims up.
var BouncingBlock = []uint16{
	// Red block moving left to right (1) on blue background (7)
	0o007007,
	0o177100,

	0o007007,
	0o166100,

	0o007007,
	0o155100,

	0o007007,
	0o144100,

	0o007007,
	0o133100,

	0o007007,
	0o122100,

	0o007007,
	0o111100,

	0o007007,
	0o100100,

	// Red block moving left to right (3) on blue background (5)
	0o007005,
	0o100300,

	0o007005,
	0o111300,

	0o007005,
	0o122300,

	0o007005,
	0o133300,

	0o007005,
	0o144300,

	0o007005,
	0o155300,

	0o007005,
	0o166300,

	0o007005,
	0o177300,

	// Red block moving back, more red (4), less blue (4)
	0o007004,
	0o177400,

	0o007004,
	0o166400,

	0o007004,
	0o155400,

	0o007004,
	0o144400,

	0o007004,
	0o133400,

	0o007004,
	0o122400,

	0o007004,
	0o111400,

	0o007004,
	0o100400,

	// Red block moving left to right (5) on blue background (3)
	0o007003,
	0o100500,

	0o007003,
	0o111500,

	0o007003,
	0o122500,

	0o007003,
	0o133500,

	0o007003,
	0o144500,

	0o007003,
	0o155500,

	0o007003,
	0o166500,

	0o007003,
	0o177500,

	// Red block moving back, more red (6), less blue (2)
	0o007002,
	0o177600,

	0o007002,
	0o166600,

	0o007002,
	0o155600,

	0o007002,
	0o144600,

	0o007002,
	0o133600,

	0o007002,
	0o122600,

	0o007002,
	0o111600,

	0o007002,
	0o100600,

	// Red block moving left to right (7) on blue background (1)
	0o007001,
	0o100700,

	0o007001,
	0o111700,

	0o007001,
	0o122700,

	0o007001,
	0o133700,

	0o007001,
	0o144700,

	0o007001,
	0o155700,

	0o007001,
	0o166700,

	0o007001,
	0o177700,

	// Red block moving back, more red (7) erasing blue
	0o007000,
	0o177700,

	0o007000,
	0o166700,

	0o007000,
	0o155700,

	0o007000,
	0o144700,

	0o007000,
	0o133700,

	0o007000,
	0o122700,

	0o007000,
	0o111700,

	0o007000,
	0o100700,

	// End
	0o070000,
}

// ColorMix approaches a red block and a green block over a white
// background; where they overlap the color is yellow.
var ColorMix = []uint16{
	// white bg, red from left, green from right
	0o007777, // 01234567
	0o100700, // r-------

	0o007777,
	0o100700, // 01234567
	0o177070, // r------g

	0o007777,
	0o101700, // 01234567
	0o177070, // rr-----g

	0o007777,
	0o101700, // 01234567
	0o167070, // rr----gg

	0o007777,
	0o112700, // 01234567
	0o167070, // -rr---gg

	0o007777,
	0o112700, // 01234567
	0o156070, // -rr--gg-

	0o007777,
	0o123700, // 01234567
	0o156070, // --rr-gg-

	0o007777,
	0o123700, // 01234567
	0o145070, // --rrgg--

	0o007777,
	0o133700, // 01234567
	0o144770, // ---ryg--
	0o155070,

	0o007777, // 01234567
	0o134770, // ---yy---

	0o007777,
	0o155700, // 01234567
	0o144770, // ---gyr--
	0o133070,

	0o007777,
	0o145700, // 01234567
	0o123070, // --ggrr--

	0o007777,
	0o156700, // 01234567
	0o123070, // --gg-rr-

	0o007777,
	0o156700, // 01234567
	0o112070, // -gg--rr-

	0o007777,
	0o167700, // 01234567
	0o112070, // -gg---rr

	0o007777,
	0o167700, // 01234567
	0o101070, // gg----rr

	0o007777,
	0o177700, // 01234567
	0o101070, // gg-----r

	0o007777,
	0o177700, // 01234567
	0o100070, // g------r

	0o007777, // 01234567
	0o100070, // g-------

	0o007777, // 01234567

	// back
	0o007777, // 01234567
	0o100070, // g-------

	0o007777,
	0o177700, // 01234567
	0o100070, // g------r

	0o007777,
	0o177700, // 01234567
	0o101070, // gg-----r

	0o007777,
	0o167700, // 01234567
	0o101070, // gg----rr

	0o007777,
	0o167700, // 01234567
	0o112070, // -gg---rr

	0o007777,
	0o156700, // 01234567
	0o112070, // -gg--rr-

	0o007777,
	0o156700, // 01234567
	0o123070, // --gg-rr-

	0o007777,
	0o145700, // 01234567
	0o123070, // --ggrr--

	0o007777,
	0o155700, // 01234567
	0o144770, // ---gyr--
	0o133070,

	0o007777, // 01234567
	0o134770, // ---yy---

	0o007777,
	0o133700, // 01234567
	0o144770, // ---ryg--
	0o155070,

	0o007777,
	0o123700, // 01234567
	0o145070, // --rrgg--

	0o007777,
	0o123700, // 01234567
	0o156070, // --rr-gg-

	0o007777,
	0o112700, // 01234567
	0o156070, // -rr--gg-

	0o007777,
	0o112700, // 01234567
	0o167070, // -rr---gg

	0o007777,
	0o101700, // 01234567
	0o167070, // rr----gg

	0o007777,
	0o101700, // 01234567
	0o177070, // rr-----g

	0o007777,
	0o100700, // 01234567
	0o177070, // r------g

	0o007777, // 01234567
	0o100700, // r-------

	0o007777, // 01234567

	// End
	0o070000,
}

// Heartbeat dims red up then down over the full strip, twice, followed
// by a long pause in dim green.
var Heartbeat = []uint16{
	// first heart beat
	0o007100,
	0o007100,
	0o007100,
	0o007300,
	0o007500,
	0o007700,
	0o007700,
	0o007500,
	0o007300,
	0o007100,
	// second heart beat
	0o007100,
	0o007300,
	0o007500,
	0o007700,
	0o007700,
	0o007700,
	0o007700,
	0o007700,
	0o007700,
	0o007500,
	0o007300,
	0o007100,

	// fade
	0o007100,
	0o007100,
	// long pause
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	0o007010,
	// fade
	0o007100,
	0o007100,

	// End
	0o070000,
}

// stock maps script names to their instructions, for lookups from the
// console and the config loader.
var stock = []struct {
	name  string
	insts []uint16
}{
	{"rainbow", Rainbow},
	{"bouncingblock", BouncingBlock},
	{"colormix", ColorMix},
	{"heartbeat", Heartbeat},
}

// Stock returns the named stock script.
func Stock(name string) ([]uint16, bool) {
	for _, s := range stock {
		if s.name == name {
			return s.insts, true
		}
	}
	return nil, false
}

// StockNames lists the stock script names in registration order.
func StockNames() []string {
	names := make([]string, len(stock))
	for i, s := range stock {
		names[i] = s.name
	}
	return names
}
