// Package exposition implements the reduced exposition-format grammar the
// validator needs: `name value` and `name{label="value",...} value` lines.
// HELP/TYPE lines, histograms and exemplars are out of scope; anything that
// does not fit the reduced grammar is skipped, never fatal.
package exposition

import (
	"strconv"
	"strings"
)

// Key identifies a series by metric name and the label block exactly as it
// was written. Equality is exact string equality on the raw label
// rendering; Snapshot.Lookup compensates for label ordering differences.
type Key struct {
	Name   string
	Labels string // raw "{...}" block, empty for unlabeled series
}

// Snapshot is a point-in-time mapping from series to value. It is built
// once per fetch and treated as immutable afterwards; later fetches
// supersede it rather than edit it.
type Snapshot map[Key]float64

// Parse converts exposition text into a Snapshot. Blank lines and comment
// lines are skipped, malformed lines are dropped silently, and a series
// that appears twice keeps the last value.
func Parse(text string) Snapshot {
	snap := make(Snapshot)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "{") {
			parts := strings.Split(line, "}")
			if len(parts) != 2 {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err != nil {
				continue
			}
			name, labels, ok := strings.Cut(parts[0], "{")
			if !ok {
				continue
			}
			snap[Key{Name: name, Labels: "{" + labels + "}"}] = value
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		snap[Key{Name: fields[0]}] = value
	}
	return snap
}
