package dictionary

import "slices"

// TIMIT39 folds the 61 TIMIT phones onto the 39-phone evaluation set.
//
// Keys are aliased onto their values. The glottal stop "q" is deleted by the
// standard recipe rather than folded, so it is not part of the table.
var TIMIT39 = map[string]string{
	"ao":   "aa",
	"ax":   "ah",
	"ax-h": "ah",
	"axr":  "er",
	"hv":   "hh",
	"ix":   "ih",
	"el":   "l",
	"em":   "m",
	"en":   "n",
	"nx":   "n",
	"eng":  "ng",
	"zh":   "sh",
	"ux":   "uw",
	"pcl":  "h#",
	"tcl":  "h#",
	"kcl":  "h#",
	"bcl":  "h#",
	"dcl":  "h#",
	"gcl":  "h#",
	"pau":  "h#",
	"epi":  "h#",
}

// Collapse returns a new dictionary where every token that is a key of table
// shares the index of its canonical token table[key].
//
// Canonical tokens keep their indices and are inserted first, in index order.
// Aliases are resolved only after all canonical tokens are present. Chains
// such as a -> b, b -> c resolve to the end of the chain; a cycle is a
// *CollapseCycleError.
func (d *Dictionary) Collapse(table map[string]string) (*Dictionary, error) {
	ordered := slices.Clone(d.entries)
	slices.SortStableFunc(ordered, func(a, b entry) int { return a.index - b.index })

	out := New()
	for _, e := range ordered {
		if target, aliased := table[e.token]; aliased && target != e.token {
			continue
		}
		if _, seen := out.token[e.index]; seen {
			// Already an alias in d; keep it aliased.
			if err := out.alias(e.token, e.index); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := out.add(e.token, e.index, 0); err != nil {
			return nil, err
		}
	}

	for _, e := range ordered {
		target, aliased := table[e.token]
		if !aliased || target == e.token {
			continue
		}
		canonical, err := resolveAlias(table, e.token)
		if err != nil {
			return nil, err
		}
		idx, err := out.Index(canonical)
		if err != nil {
			return nil, err
		}
		if err := out.alias(e.token, idx); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// resolveAlias follows table from token until it reaches a token that is not
// aliased to another one.
func resolveAlias(table map[string]string, token string) (string, error) {
	seen := map[string]struct{}{token: {}}
	t := token
	for {
		next, ok := table[t]
		if !ok || next == t {
			return t, nil
		}
		if _, loop := seen[next]; loop {
			return "", &CollapseCycleError{Token: token}
		}
		seen[next] = struct{}{}
		t = next
	}
}
