package grammar

import "github.com/dekarrin/minic/internal/util"

// realSymbols filters out action-only markers, which carry no terminal or
// nonterminal meaning and must never contribute to FIRST/FOLLOW/predict
// computation.
func realSymbols(rhs []Symbol) []Symbol {
	var out []Symbol
	for _, s := range rhs {
		if !s.IsActionOnly() {
			out = append(out, s)
		}
	}
	return out
}

// Analysis holds the FIRST/FOLLOW/emptiness/predict sets computed for one
// Grammar. It is immutable once built; rebuild it if the grammar changes.
type Analysis struct {
	g         Grammar
	nullable  util.StringSet
	first     map[string]util.StringSet
	follow    map[string]util.StringSet
}

// Analyze computes emptiness, FIRST, and FOLLOW for every nonterminal in g as
// a fixed point (spec.md §4.C): each set is recomputed by applying the
// defining rule to the current approximation, repeating until a full pass
// makes no further change. The order productions are visited in does not
// affect the fixed point reached.
func Analyze(g Grammar) *Analysis {
	a := &Analysis{
		g:        g,
		nullable: util.NewStringSet(),
		first:    map[string]util.StringSet{},
		follow:   map[string]util.StringSet{},
	}

	nts := g.NonTerminals()
	for _, nt := range nts {
		a.first[nt] = util.NewStringSet()
		a.follow[nt] = util.NewStringSet()
	}

	a.computeNullable(nts)
	a.computeFirst(nts)
	a.computeFollow(nts)

	return a
}

func (a *Analysis) computeNullable(nts []string) {
	for {
		changed := false
		for _, nt := range nts {
			if a.nullable.Has(nt) {
				continue
			}
			for _, p := range a.g.ProductionsFor(nt) {
				if p.IsEpsilon() {
					a.nullable.Add(nt)
					changed = true
					break
				}
				rhs := realSymbols(p.RHS)
				allNullableNonterms := true
				for _, s := range rhs {
					if s.Kind != Nonterminal || !a.nullable.Has(s.Text) {
						allNullableNonterms = false
						break
					}
				}
				if len(rhs) > 0 && allNullableNonterms {
					a.nullable.Add(nt)
					changed = true
					break
				}
			}
		}
		if !changed {
			return
		}
	}
}

// Nullable reports whether nonterminal nt can derive the empty string.
func (a *Analysis) Nullable(nt string) bool {
	return a.nullable.Has(nt)
}

func (a *Analysis) computeFirst(nts []string) {
	for {
		changed := false
		for _, nt := range nts {
			for _, p := range a.g.ProductionsFor(nt) {
				if p.IsEpsilon() {
					continue
				}
				if a.addFirstOfSequence(a.first[nt], realSymbols(p.RHS)) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// addFirstOfSequence adds FIRST(seq) into dest, returning whether dest grew.
// It walks seq left to right: terminals contribute themselves and stop;
// nonterminals contribute their current FIRST approximation and the walk
// continues only while each consumed nonterminal is nullable.
func (a *Analysis) addFirstOfSequence(dest util.StringSet, seq []Symbol) bool {
	changed := false
	for _, s := range seq {
		switch s.Kind {
		case Terminal:
			if !dest.Has(s.Text) {
				dest.Add(s.Text)
				changed = true
			}
			return changed
		case Nonterminal:
			for _, t := range a.first[s.Text].Elements() {
				if !dest.Has(t) {
					dest.Add(t)
					changed = true
				}
			}
			if !a.nullable.Has(s.Text) {
				return changed
			}
		case EpsilonKind:
			// epsilon alone is handled by the IsEpsilon() check in the
			// caller; a sequence never legitimately contains epsilon plus
			// other symbols (the loader forbids it).
			return changed
		}
	}
	return changed
}

// First returns FIRST(nt).
func (a *Analysis) First(nt string) util.StringSet {
	return a.first[nt]
}

// FirstOfSequence returns FIRST(seq) for an arbitrary RHS-style sequence,
// including FOLLOW(owner) if the whole sequence is nullable and owner != "".
func (a *Analysis) FirstOfSequence(seq []Symbol, owner string) util.StringSet {
	result := util.NewStringSet()
	real := realSymbols(seq)
	a.addFirstOfSequence(result, real)
	if a.sequenceNullable(real) && owner != "" {
		result.AddAll(a.follow[owner])
	}
	return result
}

func (a *Analysis) sequenceNullable(seq []Symbol) bool {
	for _, s := range seq {
		switch s.Kind {
		case Terminal:
			return false
		case Nonterminal:
			if !a.nullable.Has(s.Text) {
				return false
			}
		}
	}
	return true
}

func (a *Analysis) computeFollow(nts []string) {
	start := a.g.StartSymbol()
	end := a.g.EndTerminal()
	if start != "" {
		a.follow[start].Add(end)
	}

	for {
		changed := false
		for _, p := range a.g.Productions {
			rhs := realSymbols(p.RHS)
			for i, s := range rhs {
				if s.Kind != Nonterminal {
					continue
				}
				beta := rhs[i+1:]
				betaFirst := a.FirstOfSequence(beta, "")
				for _, t := range betaFirst.Elements() {
					if !a.follow[s.Text].Has(t) {
						a.follow[s.Text].Add(t)
						changed = true
					}
				}
				if a.sequenceNullable(beta) {
					for _, t := range a.follow[p.LHS].Elements() {
						if !a.follow[s.Text].Has(t) {
							a.follow[s.Text].Add(t)
							changed = true
						}
					}
				}
			}
		}
		if !changed {
			return
		}
	}
}

// Follow returns FOLLOW(nt).
func (a *Analysis) Follow(nt string) util.StringSet {
	return a.follow[nt]
}

// Predict returns the predict (director) set of production p: FIRST(RHS) of
// p, unioned with FOLLOW(p.LHS) when RHS is nullable.
func (a *Analysis) Predict(p Production) util.StringSet {
	if p.IsEpsilon() {
		return a.follow[p.LHS].Copy().(util.StringSet)
	}
	return a.FirstOfSequence(p.RHS, p.LHS)
}

// IsLL1 reports whether predict sets of every pair of productions sharing an
// LHS are pairwise disjoint, i.e. the grammar is LL(1) as computed. This is
// diagnostic only (spec.md §4.C): it is not enforced by Analyze itself.
func (a *Analysis) IsLL1() (ok bool, conflicts []string) {
	for _, nt := range a.g.NonTerminals() {
		prods := a.g.ProductionsFor(nt)
		for i := 0; i < len(prods); i++ {
			for j := i + 1; j < len(prods); j++ {
				pi := a.Predict(prods[i])
				pj := a.Predict(prods[j])
				for _, t := range pi.Elements() {
					if pj.Has(t) {
						ok = false
						conflicts = append(conflicts, "predict conflict on <"+nt+"> for terminal "+t)
					}
				}
			}
		}
	}
	return len(conflicts) == 0, conflicts
}
