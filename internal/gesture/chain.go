package gesture

import "strings"

const (
	// SequentialOp separates groups that fire one interval apart.
	SequentialOp = ">"
	// SimultaneousOp separates gestures that fire together.
	SimultaneousOp = "+"
)

// ParseChain splits a chain definition into ordered groups of gesture
// names. Without a sequential operator the whole definition is one group.
// Surrounding whitespace is ignored and empty names are dropped, as are
// groups left empty.
func ParseChain(def string) [][]string {
	var groups [][]string
	for _, part := range strings.Split(def, SequentialOp) {
		var g []string
		for _, name := range strings.Split(part, SimultaneousOp) {
			if name = strings.TrimSpace(name); name != "" {
				g = append(g, name)
			}
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
