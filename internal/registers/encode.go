// internal/registers/encode.go
package registers

import "math"

// Encode converts a Snapshot into the live part of the block
// (slots 0 .. LiveSlots-1). Values above 0xFFFF saturate.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, LiveSlots)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotRecordsLo] = uint16(s.Records)
	regs[SlotRecordsHi] = uint16(s.Records >> 16)

	r := s.Reading
	regs[SlotFlowRate] = sat16(r.FlowRate)
	for i, v := range r.Bins {
		regs[SlotBinsStart+i] = sat16(v)
	}
	regs[SlotCalibration] = sat16(r.Calibration)
	for i, v := range r.Analog {
		regs[SlotAnalogStart+i] = sat16(v)
	}

	return regs
}

// EncodeFull returns the whole block including the device name.
// Reserved slots are left as zero.
func EncodeFull(s Snapshot, name []uint16) []uint16 {
	regs := make([]uint16, BlockSize)
	copy(regs, Encode(s))
	for i := 0; i < SlotDeviceNameSlots && i < len(name); i++ {
		regs[SlotDeviceNameStart+i] = name[i]
	}
	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}

func sat16(v uint32) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
