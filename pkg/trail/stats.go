package trail

// Stats gathers per-round, per-bit node counts during a search, the runtime
// equivalent of diffsearch/defs.h's STATS-gated global counter arrays. It is
// only populated when Config.Stats is set.
type Stats struct {
	// NodesPerRoundPerBit[i][b] counts the search nodes visited at bit b of
	// round i (by exploreFirstRound for round 0, by searchBit for later
	// rounds; searchBit does not count a node whose subtree completes the
	// trail).
	NodesPerRoundPerBit [][]uint64
	// DeadEndsPerRoundPerBit[i][b] counts how many of those visits found no
	// surviving child (every candidate value pruned).
	DeadEndsPerRoundPerBit [][]uint64
}

func newStats(nRounds int) *Stats {
	s := &Stats{
		NodesPerRoundPerBit:    make([][]uint64, nRounds),
		DeadEndsPerRoundPerBit: make([][]uint64, nRounds),
	}
	for i := range s.NodesPerRoundPerBit {
		s.NodesPerRoundPerBit[i] = make([]uint64, WordSize)
		s.DeadEndsPerRoundPerBit[i] = make([]uint64, WordSize)
	}
	return s
}

func (s *Stats) node(round, bit int) {
	s.NodesPerRoundPerBit[round][bit]++
}

func (s *Stats) deadEnd(round, bit int) {
	s.DeadEndsPerRoundPerBit[round][bit]++
}

// NodesPerRound sums NodesPerRoundPerBit across bits, giving the total
// number of search-tree nodes visited for each round.
func (s *Stats) NodesPerRound() []uint64 {
	out := make([]uint64, len(s.NodesPerRoundPerBit))
	for i, perBit := range s.NodesPerRoundPerBit {
		var total uint64
		for _, n := range perBit {
			total += n
		}
		out[i] = total
	}
	return out
}
