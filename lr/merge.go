package lr

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// === LALR(1) Merge =========================================================

// A kernel is the set of (rule, dot) pairs of a state, lookaheads dropped.
// Kernel keys are sorted, as they are derived from sorted item sets.
type kernelGroup struct {
	kernel  []kernelKey
	members []int // canonical state IDs, ascending
}

func kernelOf(S *treeset.Set) []kernelKey {
	var kernel []kernelKey
	for _, x := range S.Values() {
		i := x.(Item)
		k := kernelKey{Rule: i.rule.Serial, Dot: i.dot}
		if n := len(kernel); n > 0 && kernel[n-1] == k {
			continue // same core, other lookahead
		}
		kernel = append(kernel, k)
	}
	return kernel
}

func equalKernels(k1, k2 []kernelKey) bool {
	if len(k1) != len(k2) {
		return false
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			return false
		}
	}
	return true
}

func kernelKeyComparator(k1, k2 interface{}) int {
	a, b := k1.(kernelKey), k2.(kernelKey)
	if c := utils.IntComparator(a.Rule, b.Rule); c != 0 {
		return c
	}
	return utils.IntComparator(a.Dot, b.Dot)
}

// groupByKernel partitions the states of c by kernel equality. Groups are
// ordered by their lowest member ID.
func groupByKernel(c *CFSM) []*kernelGroup {
	var groups []*kernelGroup
	byHash := make(map[string][]*kernelGroup)
	for _, s := range c.states {
		kernel := kernelOf(s.items)
		h := hashOf(struct{ Kernel []kernelKey }{Kernel: kernel})
		var group *kernelGroup
		for _, grp := range byHash[h] {
			if equalKernels(grp.kernel, kernel) {
				group = grp
				break
			}
		}
		if group == nil {
			group = &kernelGroup{kernel: kernel}
			byHash[h] = append(byHash[h], group)
			groups = append(groups, group)
		}
		group.members = append(group.members, s.ID)
	}
	return groups
}

// Merge creates the LALR(1) automaton from a canonical LR(1) automaton.
// States sharing a kernel are merged into one state, carrying the union of
// the lookaheads for every (rule, dot) pair. Transitions are remapped onto
// the merged states. The canonical automaton is left untouched.
//
// The result has at most as many states as c.
func Merge(c *CFSM) *CFSM {
	tracer().Debugf("=== merge CFSM ==================================================")
	m := emptyCFSM(c.g, c.augmented, c.record)
	m.merged = make([]int, len(c.states))
	for _, group := range groupByKernel(c) {
		lookaheads := treemap.NewWith(kernelKeyComparator) // kernelKey → set of lookaheads
		rules := make(map[kernelKey]*Rule)
		for _, id := range group.members {
			for _, x := range c.states[id].items.Values() {
				i := x.(Item)
				k := kernelKey{Rule: i.rule.Serial, Dot: i.dot}
				las, found := lookaheads.Get(k)
				if !found {
					las = treeset.NewWith(symbolComparator)
					lookaheads.Put(k, las)
					rules[k] = i.rule
				}
				las.(*treeset.Set).Add(i.la)
			}
		}
		items := newItemSet()
		it := lookaheads.Iterator()
		for it.Next() {
			k := it.Key().(kernelKey)
			for _, la := range it.Value().(*treeset.Set).Values() {
				items.Add(NewItem(rules[k], k.Dot, la.(Symbol)))
			}
		}
		s, _ := m.addState(items)
		for _, id := range group.members {
			m.merged[id] = s.ID
		}
		if len(group.members) > 1 {
			tracer().Debugf("merged states %v into LALR state %d", group.members, s.ID)
		}
		m.emit(Event{Kind: StatesMerged, State: s.ID, Members: append([]int(nil), group.members...)})
	}
	m.S0 = m.states[m.merged[c.S0.ID]]
	c.EachTransition(func(from int, A Symbol, to int) {
		if err := m.addEdge(m.merged[from], A, m.merged[to]); err != nil {
			// not LALR(1)-safe; surfaces as inconsistent table entries at most
			tracer().Errorf("LALR merge: %v", err)
		}
	})
	tracer().Infof("LALR(1) automaton for %s has %d states (canonical: %d)", c.g.Name, m.Size(), c.Size())
	return m
}
