package question

import (
	"strconv"
	"strings"
)

// Delimiter separates a parent question identifier from its sub-item
// index in composite identifiers, e.g. "Q5_2".
const Delimiter = "_"

// Ident is the tagged result of parsing a question identifier against
// the sub-item naming convention. Either Matched is true and Parent and
// Index are set, or the identifier does not follow the convention.
// There is deliberately no best-effort middle ground.
type Ident struct {
	Parent  string
	Index   int
	Matched bool
}

// ParseIdent decomposes an identifier of the form "<parent>_<digits>".
// The split is on the last delimiter, so parents containing the
// delimiter ("Q5_grid") still decompose unambiguously. Identifiers with
// an empty parent, a non-numeric suffix, or no delimiter are Unmatched.
func ParseIdent(id string) Ident {
	i := strings.LastIndex(id, Delimiter)
	if i <= 0 || i == len(id)-1 {
		return Ident{}
	}

	index, err := strconv.Atoi(id[i+1:])
	if err != nil || index < 0 {
		return Ident{}
	}

	return Ident{Parent: id[:i], Index: index, Matched: true}
}
