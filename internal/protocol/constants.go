// internal/protocol/constants.go
package protocol

// Instrument wire protocol constants.
// These values are fixed by the instrument firmware and MUST NOT be configurable.

// Prompt is the poll command sent once per cycle.
const Prompt = "S\r\n"

// Delimiter separates the echoed prompt from the answer.
const Delimiter = '='

// ---- ANSWER GEOMETRY ----

// BinCount is the number of particle-size bins.
const BinCount = 8

// AnalogCount is the number of 4-20mA analog channels.
const AnalogCount = 3

// TokenCount is the number of hex tokens after the delimiter:
// flow + bins + calibration + analog.
const TokenCount = 1 + BinCount + 1 + AnalogCount

// Token positions.
const (
	idxFlow        = 0
	idxBinsStart   = 1
	idxCalibration = idxBinsStart + BinCount
	idxAnalogStart = idxCalibration + 1
)

// ---- NOMINAL VALUES ----

// NominalFlowRate is the fixed pump flow rate in ml/min.
const NominalFlowRate = 60

// NominalCalibration is the fixed calibration byte (80H).
const NominalCalibration = 0x80

// AnalogMax is the largest 12-bit ADC sample.
const AnalogMax = 4095

// BinLabels name the bins in answer order.
var BinLabels = [BinCount]string{">2um", ">3um", ">5um", ">7um", ">10um", ">15um", ">20um", ">200um"}
