// internal/protocol/reading.go
package protocol

import "time"

// Reading is one parsed instrument answer.
// Arrays keep it a plain value: copies never share storage.
type Reading struct {
	Timestamp   time.Time
	FlowRate    uint32
	Bins        [BinCount]uint32
	Calibration uint32
	Analog      [AnalogCount]uint32
}

// AnalogInRange reports whether every analog sample fits the 12-bit ADC range.
// Parse does not enforce this; out-of-range values pass through.
func (r Reading) AnalogInRange() bool {
	for _, v := range r.Analog {
		if v > AnalogMax {
			return false
		}
	}
	return true
}

// Values returns the numeric fields in log column order
// (flow, bins, calibration, analog).
func (r Reading) Values() []uint32 {
	out := make([]uint32, 0, TokenCount)
	out = append(out, r.FlowRate)
	out = append(out, r.Bins[:]...)
	out = append(out, r.Calibration)
	out = append(out, r.Analog[:]...)
	return out
}

// FromValues is the inverse of Values.
func FromValues(ts time.Time, v []uint32) (Reading, bool) {
	if len(v) != TokenCount {
		return Reading{}, false
	}
	r := Reading{
		Timestamp:   ts,
		FlowRate:    v[idxFlow],
		Calibration: v[idxCalibration],
	}
	copy(r.Bins[:], v[idxBinsStart:idxCalibration])
	copy(r.Analog[:], v[idxAnalogStart:])
	return r, true
}
