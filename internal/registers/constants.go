// internal/registers/constants.go
package registers

import "github.com/tamzrod/part-count-logger/internal/protocol"

// Reading mirror block layout constants.
// These values define the register map and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// BlockSize is the fixed number of holding registers in the mirror block.
const BlockSize = 28

// ---- STATUS SLOTS ----

// SlotHealthCode holds the logger health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the code of the error that ended the run.
const SlotLastErrorCode = 1

// SlotRecordsLo and SlotRecordsHi hold the rows written (32-bit, low word first).
const SlotRecordsLo = 2
const SlotRecordsHi = 3

// ---- READING SLOTS ----

const SlotFlowRate = 4

// SlotBinsStart is the first of BinCount bin slots.
const SlotBinsStart = 5

const SlotCalibration = SlotBinsStart + protocol.BinCount

// SlotAnalogStart is the first of AnalogCount analog slots.
const SlotAnalogStart = SlotCalibration + 1

// ---- RESERVED RANGE ----

// Slots 17–19 are reserved for future use.
const SlotReservedStart = SlotAnalogStart + protocol.AnalogCount
const SlotReservedEnd = 19

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the block.
const SlotDeviceNameStart = 20

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// LiveSlots is the number of leading slots rewritten on every reading.
const LiveSlots = SlotReservedStart

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before the first reading.
const HealthUnknown uint16 = 0

// HealthOK represents a logger writing rows.
const HealthOK uint16 = 1

// HealthError represents a run ended by a fatal error.
const HealthError uint16 = 2

// HealthStopped represents normal termination.
const HealthStopped uint16 = 3

// ---- ERROR CODES ----

const (
	ErrorNone       uint16 = 0
	ErrorConfig     uint16 = 1
	ErrorTransport  uint16 = 2
	ErrorNoResponse uint16 = 3
	ErrorProtocol   uint16 = 4
	ErrorLogFile    uint16 = 5
	ErrorOther      uint16 = 255
)
