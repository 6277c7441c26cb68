// internal/registers/snapshot.go
package registers

import "github.com/tamzrod/part-count-logger/internal/protocol"

// Snapshot is exactly what the mirror is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health        uint16
	LastErrorCode uint16
	Records       uint32
	Reading       protocol.Reading
}
