// internal/osp/constants.go
package osp

// Setup register flags (SetSetup). These values define the protocol
// and MUST NOT be configurable.
const (
	// SetupCRCEnable turns on telegram integrity checking.
	SetupCRCEnable uint8 = 0x08

	// SetupDefaultRGBI / SetupDefaultSAID are the kind-specific
	// power-on defaults the builder re-asserts during configuration.
	SetupDefaultRGBI uint8 = 0x50
	SetupDefaultSAID uint8 = 0x31
)

// Current register flags (SetCurrent).
const (
	CurrentFlagDefault uint8 = 0x00

	// CurrentFlagDither enables LSB dithering of the PWM output.
	CurrentFlagDither uint8 = 0x01
)

// Current levels per channel (SetCurrent rcur/gcur/bcur):
//
//	level  0      1      2      3      4
//	chn0   3mA    6mA    12mA   24mA   48mA
//	chn1+  1.5mA  3mA    6mA    12mA   24mA
//
// The builder drives every channel at a 12mA base current so all
// triplets have the same brightness.
const (
	CurrentLevelChn0   uint8 = 2 // high power channel, 12mA
	CurrentLevelChnLow uint8 = 3 // low power channels, 12mA

	// CurrentLevelBridge supplies the I2C pads of a bridge channel.
	CurrentLevelBridge uint8 = 4
)

// PWM daytime bits (SetPWM). A clear bit selects the reduced-power
// night profile (~10mA) for that color.
const (
	PWMNighttimeAll uint8 = 0b000
	PWMDaytimeAll   uint8 = 0b111
)
