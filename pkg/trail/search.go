package trail

// Result is the outcome of a successful Search: the full per-round
// differential trail and the bound (g_Bn in the reference tool) under which
// it was found.
type Result struct {
	Trail []Differential
	GBn   int
}

// searchState carries one search attempt's mutable context, replacing the
// global g_Bn/trail/nNodes variables diffsearch/sparkle_best_trail_search.h
// declares with explicit fields so concurrent attempts (see ParallelSearch)
// don't share state.
type searchState struct {
	cfg    Config
	gBn    int
	trail  []Differential
	nNodes uint64
	stats  *Stats
}

// Search runs the branch-and-bound trail search for cfg, starting from the
// bound cfg.BestB seeds and lowering it one step at a time until a trail is
// found. Grounded on diffsearch/main_serial.cpp's outer g_Bn-decrementing
// driver loop.
func Search(cfg Config) (Result, bool) {
	if cfg.NRounds < 1 {
		return Result{}, false
	}
	if len(cfg.BestB) != cfg.NRounds-1 {
		panic("trail: len(Config.BestB) must equal NRounds-1")
	}

	gBn := 0
	if cfg.NRounds >= 2 {
		gBn = cfg.BestB[cfg.NRounds-2]
	}
	floor := -(WordSize * cfg.NRounds)
	for gBn > floor {
		if res, ok := searchAtBound(cfg, gBn); ok {
			return res, true
		}
		gBn--
	}
	return Result{}, false
}

// searchAtBound drives round 0's branch-and-bound descent at a fixed bound,
// stopping as soon as it yields a complete trail.
func searchAtBound(cfg Config, gBn int) (Result, bool) {
	st := newSearchState(cfg, gBn)
	if !st.searchFirstRound() {
		return Result{}, false
	}
	return Result{Trail: append([]Differential(nil), st.trail...), GBn: gBn}, true
}

func newSearchState(cfg Config, gBn int) *searchState {
	st := &searchState{cfg: cfg, gBn: gBn, trail: make([]Differential, cfg.NRounds)}
	for i := range st.trail {
		st.trail[i].P = LogZero
	}
	if cfg.Stats {
		st.stats = newStats(cfg.NRounds)
	}
	return st
}

// searchFirstRound drives round 0's joint (alpha, beta, gamma) descent (see
// exploreFirstRound) all the way to a complete round, accepting it and
// recursing into round 1 the same way acceptRound does for every later
// round.
func (st *searchState) searchFirstRound() bool {
	completed := exploreFirstRound(0, WordSize, 0, 0, 0, firstRoundBound(st.cfg), st.gBn, st.stats, func(seed firstRoundSeed) bool {
		p := XDPAddLMPartial(seed.Alpha, seed.Beta, seed.Gamma, WordSize)
		return !st.acceptRound(0, seed.Alpha, seed.Beta, seed.Gamma, p)
	})
	return !completed
}

// continueFirstRound resumes round 0's descent from a partial seed
// ParallelSearch generated, carrying it the rest of the way to a complete
// round exactly as searchFirstRound does from scratch.
func (st *searchState) continueFirstRound(seed firstRoundSeed) bool {
	completed := exploreFirstRound(seed.IBit, WordSize, seed.Alpha, seed.Beta, seed.Gamma, firstRoundBound(st.cfg), st.gBn, st.stats, func(s firstRoundSeed) bool {
		p := XDPAddLMPartial(s.Alpha, s.Beta, s.Gamma, WordSize)
		return !st.acceptRound(0, s.Alpha, s.Beta, s.Gamma, p)
	})
	return !completed
}

// searchRound explores round i of the trail, for i >= 1: round 0 is driven
// separately by searchFirstRound/continueFirstRound, since its operands
// aren't fixed by a previous round the way every later round's are. (alpha,
// beta) are this round's addition operands directly; it succeeds once every
// round has been assigned a transition.
func (st *searchState) searchRound(i int, alpha, beta uint32) bool {
	if i == st.cfg.NRounds {
		return true
	}

	prevCP := 0
	if i > 0 {
		prevCP = st.trail[i-1].CP
	}
	bound := 0
	if i < st.cfg.NRounds-1 {
		bound = st.cfg.BestB[st.cfg.NRounds-2-i]
	}

	return st.searchBit(i, 0, alpha, beta, 0, prevCP+bound)
}

// searchBit enumerates bit ibit of the current round's output difference,
// pruning any branch whose partial-probability estimate already falls
// below the active bound. Once every bit has been fixed it accepts the
// round and recurses to the next one. Grounded on the recursive shape
// analysis/diffsearch/sparkle_best_trail_search_ibit0.cpp specializes for
// ibit == 0 (read for the pruning discipline, not ported as an unrolled
// fast path).
func (st *searchState) searchBit(i int, ibit uint, alpha, beta, gamma uint32, pTrail int) bool {
	st.nNodes++
	gotChild := false

	for w := uint32(0); w < 2; w++ {
		gammaPart := gamma | (w << ibit)
		pPart := XDPAddLMPartial(alpha, beta, gammaPart, ibit+1)
		if pPart == LogZero {
			continue
		}
		pEst := pTrail + pPart
		if pEst < st.gBn {
			continue
		}
		gotChild = true

		if ibit+1 == WordSize {
			if st.acceptRound(i, alpha, beta, gammaPart, pPart) {
				return true
			}
			continue
		}
		if st.searchBit(i, ibit+1, alpha, beta, gammaPart, pTrail) {
			return true
		}
	}

	if st.stats != nil {
		st.stats.node(i, int(ibit))
		if !gotChild {
			st.stats.deadEnd(i, int(ibit))
		}
	}
	return false
}

// acceptRound records round i's completed transition and recurses into
// round i+1, undoing the assignment (diffsearch/trail.h's popTrail) if the
// rest of the trail can't be completed.
func (st *searchState) acceptRound(i int, alpha, beta, gamma uint32, p int) bool {
	cp := p
	if i > 0 {
		cp += st.trail[i-1].CP
	}
	st.trail[i] = Differential{DX: alpha, DY: beta, DZ: gamma, P: p, CP: cp}

	r, s := st.cfg.RoundConst(i)
	nextAlpha, nextBeta := nextRound(alpha, gamma, r, s)
	if st.searchRound(i+1, nextAlpha, nextBeta) {
		return true
	}
	st.trail[i].P = LogZero
	return false
}
