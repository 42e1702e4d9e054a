package topology

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrParserState is returned when the parser reaches a mode it has no rule
// for. The two-mode state machine cannot reach this in practice; the error
// guards the invariant instead of silently defaulting.
var ErrParserState = errors.New("topology parser entered an unknown state")

// parseMode tracks which block of the topology file is being collected.
type parseMode int

const (
	collectingMasters parseMode = iota
	collectingSlaves
)

// Parse reads a topology description from reader.
//
// Comment-only lines are discarded wherever they appear. A blank line is a
// no-op until at least one master has been recorded; the first blank line
// after that switches collection to the slave block, and further blank lines
// change nothing. Data lines are split on whitespace: in the master block
// field one is the external address and field two (possibly absent) the
// internal address, in the slave block field one is the slave address.
//
// Trailing tokens on data lines are not treated as comments: a master line
// "10.0.0.1 192.168.0.1 # note" parses to external "10.0.0.1" and internal
// "192.168.0.1" with the remainder ignored, but "10.0.0.1 # note" parses to
// internal "#". Inline comments are simply not part of the format.
func Parse(reader io.Reader) (*Topology, error) {
	topo := &Topology{}
	mode := collectingMasters
	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		if trimmed == "" {
			if len(topo.Masters) > 0 {
				mode = collectingSlaves
			}

			continue
		}

		fields := strings.Fields(line)

		switch mode {
		case collectingMasters:
			entry := MasterEntry{External: fields[0]}
			if len(fields) > 1 {
				entry.Internal = fields[1]
			}

			topo.Masters = append(topo.Masters, entry)
		case collectingSlaves:
			topo.Slaves = append(topo.Slaves, fields[0])
		default:
			return nil, fmt.Errorf("%w: mode %d", ErrParserState, mode)
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("read topology: %w", scanErr)
	}

	return topo, nil
}
