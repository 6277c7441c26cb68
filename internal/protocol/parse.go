// internal/protocol/parse.go
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrProtocol marks a malformed or incomplete instrument answer.
var ErrProtocol = errors.New("protocol")

// Parse turns one raw answer into a Reading.
//
// Everything up to and including the first '=' is the echoed prompt.
// The rest must be exactly TokenCount whitespace-separated hex tokens.
// No IO. No range validation.
func Parse(raw string, capturedAt time.Time) (Reading, error) {
	i := strings.IndexByte(raw, Delimiter)
	if i < 0 {
		return Reading{}, fmt.Errorf("%w: no %q in answer, instrument did not answer the prompt (%d bytes: %q)",
			ErrProtocol, Delimiter, len(raw), raw)
	}

	tokens := strings.Fields(raw[i+1:])
	if len(tokens) != TokenCount {
		return Reading{}, fmt.Errorf("%w: expected %d hex values, got %d (%q)",
			ErrProtocol, TokenCount, len(tokens), raw[i+1:])
	}

	values := make([]uint32, TokenCount)
	for n, tok := range tokens {
		v, err := strconv.ParseUint(tok, 16, 32)
		if err != nil {
			return Reading{}, fmt.Errorf("%w: value %d (%q) is not hexadecimal", ErrProtocol, n, tok)
		}
		values[n] = uint32(v)
	}

	r, _ := FromValues(capturedAt, values)
	return r, nil
}
