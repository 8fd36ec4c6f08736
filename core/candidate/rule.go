package candidate

import (
	"fmt"
	"strings"

	"deepfold-core/seq"
)

// Rule decides whether bases a (5' side) and b (3' side) may form a pair.
type Rule int

const (
	// RuleLegacy is the predicate the reference 2D models were trained
	// against: A-U, A-T, C-G, G-C, G-U and U-G only. U/T followed by A is
	// never proposed, and the T wobble pairs G-T and T-G are excluded.
	RuleLegacy Rule = iota
	// RuleSymmetric admits every Watson-Crick and wobble pair in either order.
	RuleSymmetric
)

func (r Rule) String() string {
	switch r {
	case RuleLegacy:
		return "legacy"
	case RuleSymmetric:
		return "symmetric"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule accepts "legacy" or "symmetric" ("" means legacy).
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return RuleLegacy, nil
	case "symmetric":
		return RuleSymmetric, nil
	}
	return 0, fmt.Errorf("unknown candidate rule %q (want legacy|symmetric)", s)
}

// Allows reports whether a at the lower position may pair with b.
func (r Rule) Allows(a, b byte) bool {
	if r == RuleSymmetric {
		return seq.Complements(a, b)
	}
	switch a {
	case 'A':
		return b == 'U' || b == 'T'
	case 'C':
		return b == 'G'
	case 'G':
		return b == 'C' || b == 'U'
	case 'U':
		return b == 'G'
	}
	return false
}
