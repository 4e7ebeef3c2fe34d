package trail

import "testing"

// TestXDPAddLMPartialMatchesDirectCount cross-checks the closed-form
// xdp_add_lm against a brute-force count of (x, y) pairs whose modular sum
// realizes the claimed output difference, for every difference triple of a
// 4-bit word, where brute force is tractable.
func TestXDPAddLMPartialMatchesDirectCount(t *testing.T) {
	const w = 4
	mask := uint32(1)<<w - 1
	for da := uint32(0); da <= mask; da++ {
		for db := uint32(0); db <= mask; db++ {
			for dc := uint32(0); dc <= mask; dc++ {
				got := XDPAddLMPartial(da, db, dc, w)

				count := 0
				for x := uint32(0); x <= mask; x++ {
					for y := uint32(0); y <= mask; y++ {
						x2 := (x ^ da) & mask
						y2 := (y ^ db) & mask
						sum1 := (x + y) & mask
						sum2 := (x2 + y2) & mask
						if sum1^sum2 == dc {
							count++
						}
					}
				}

				if count == 0 {
					if got != LogZero {
						t.Fatalf("da=%#x db=%#x dc=%#x: brute force found no pairs but xdp_add_lm = %d", da, db, dc, got)
					}
					continue
				}
				total := float64(int(mask) + 1) * float64(int(mask)+1)
				wantLog := log2(float64(count) / total)
				if diff := float64(got) - wantLog; diff > 0.5 || diff < -0.5 {
					t.Fatalf("da=%#x db=%#x dc=%#x: xdp_add_lm = %d, brute force log2 = %.3f", da, db, dc, got, wantLog)
				}
			}
		}
	}
}

func log2(x float64) float64 {
	// Integer (floor) log2, exact for the powers of two the brute-force
	// ratios above produce; kept test-local instead of importing math.
	result := 0.0
	for x < 1 {
		x *= 2
		result--
	}
	for x >= 2 {
		x /= 2
		result++
	}
	return result
}

// TestXDPAddLMPartialMonotonicity covers the universal invariant that
// committing more bits of a transition can only lower (or leave unchanged)
// its probability estimate.
func TestXDPAddLMPartialMonotonicity(t *testing.T) {
	cases := []struct{ da, db, dc uint32 }{
		{0, 0, 0},
		{1, 1, 0},
		{0x12345678, 0x9abcdef0, 0x11111111},
		{0xffffffff, 0x00000001, 0xfffffffe},
	}
	for _, c := range cases {
		prev := 0
		for w := uint(1); w <= 31; w++ {
			got := XDPAddLMPartial(c.da, c.db, c.dc, w)
			if got == LogZero {
				prev = LogZero
				continue
			}
			if prev != LogZero && got > prev {
				t.Fatalf("da=%#x db=%#x dc=%#x: w=%d gave %d, w=%d gave %d (probability increased)", c.da, c.db, c.dc, w, got, w-1, prev)
			}
			prev = got
		}
	}
}

// TestXDPAddLMFullWordAgreesWithPartial checks that the full-word XDPAddLM
// matches XDPAddLMPartial at wordSize == 32.
func TestXDPAddLMFullWordAgreesWithPartial(t *testing.T) {
	cases := []struct{ da, db, dc uint32 }{
		{0, 0, 0},
		{1, 0, 1},
		{0x80000000, 0x80000000, 0},
		{0xdeadbeef, 0xcafebabe, 0x12345678},
	}
	for _, c := range cases {
		full := XDPAddLM(c.da, c.db, c.dc)
		partial := XDPAddLMPartial(c.da, c.db, c.dc, 32)
		if full != partial {
			t.Fatalf("da=%#x db=%#x dc=%#x: XDPAddLM=%d XDPAddLMPartial(32)=%d", c.da, c.db, c.dc, full, partial)
		}
	}
}

// TestXDPAddLMZeroIsAlwaysPossible covers that the all-zero transition is
// always possible with probability 1 (log2 probability 0).
func TestXDPAddLMZeroIsAlwaysPossible(t *testing.T) {
	if got := XDPAddLM(0, 0, 0); got != 0 {
		t.Fatalf("XDPAddLM(0,0,0) = %d, want 0", got)
	}
}

func alzetteConfig(nrounds int, bestB []int) Config {
	return Config{
		NRounds: nrounds,
		R:       [4]uint32{31, 17, 0, 24},
		S:       [4]uint32{24, 17, 31, 16},
		BestB:   bestB,
	}
}

func sumP(trail []Differential) int {
	total := 0
	for _, d := range trail {
		total += d.P
	}
	return total
}

// TestSearchS5 covers scenario S5: NROUNDS = 4 with the Alzette rotation
// schedule and seed best_B = [0, -1, -2] must find g_Bn = -6.
func TestSearchS5(t *testing.T) {
	cfg := alzetteConfig(4, []int{0, -1, -2})
	res, ok := Search(cfg)
	if !ok {
		t.Fatal("Search did not find a trail")
	}
	if res.GBn != -6 {
		t.Fatalf("GBn = %d, want -6", res.GBn)
	}
	if len(res.Trail) != 4 {
		t.Fatalf("len(Trail) = %d, want 4", len(res.Trail))
	}
	if got := sumP(res.Trail); got != -6 {
		t.Fatalf("sum of per-round P = %d, want -6", got)
	}
}

// TestSearchS6 covers scenario S6: NROUNDS = 7, same rotations,
// best_B = [0,-1,-2,-6,-10,-18] must find g_Bn = -18.
func TestSearchS6(t *testing.T) {
	cfg := alzetteConfig(7, []int{0, -1, -2, -6, -10, -18})
	res, ok := Search(cfg)
	if !ok {
		t.Fatal("Search did not find a trail")
	}
	if res.GBn != -18 {
		t.Fatalf("GBn = %d, want -18", res.GBn)
	}
	if len(res.Trail) != 7 {
		t.Fatalf("len(Trail) = %d, want 7", len(res.Trail))
	}
	if got := sumP(res.Trail); got != -18 {
		t.Fatalf("sum of per-round P = %d, want -18", got)
	}
}

// TestTrailRoundsAreConsistent checks that every round of a found trail
// chains correctly into the next via the round's linear schedule, and that
// every round's transition is itself admissible (non-LogZero).
func TestTrailRoundsAreConsistent(t *testing.T) {
	cfg := alzetteConfig(4, []int{0, -1, -2})
	res, ok := Search(cfg)
	if !ok {
		t.Fatal("Search did not find a trail")
	}

	cum := 0
	for i, d := range res.Trail {
		p := XDPAddLM(d.DX, d.DY, d.DZ)
		if p != d.P {
			t.Fatalf("round %d: recomputed XDPAddLM = %d, trail stored P = %d", i, p, d.P)
		}
		cum += d.P
		if d.CP != cum {
			t.Fatalf("round %d: CP = %d, want cumulative %d", i, d.CP, cum)
		}
		if i+1 < len(res.Trail) {
			r, s := cfg.RoundConst(i)
			nextAlpha, nextBeta := nextRound(d.DX, d.DZ, r, s)
			if nextAlpha != res.Trail[i+1].DX || nextBeta != res.Trail[i+1].DY {
				t.Fatalf("round %d -> %d: linear step produced (%#x,%#x), trail has (%#x,%#x)",
					i, i+1, nextAlpha, nextBeta, res.Trail[i+1].DX, res.Trail[i+1].DY)
			}
		}
	}
}

// TestParallelSearchAgreesWithSearch checks that ParallelSearch finds a
// trail with the same optimal bound as the serial Search (the trails
// themselves may differ if more than one achieves the optimum).
func TestParallelSearchAgreesWithSearch(t *testing.T) {
	cfg := alzetteConfig(4, []int{0, -1, -2})
	serial, ok := Search(cfg)
	if !ok {
		t.Fatal("Search did not find a trail")
	}
	parallel, ok := ParallelSearch(cfg, 4)
	if !ok {
		t.Fatal("ParallelSearch did not find a trail")
	}
	if parallel.GBn != serial.GBn {
		t.Fatalf("ParallelSearch GBn = %d, serial Search GBn = %d", parallel.GBn, serial.GBn)
	}
	if got := sumP(parallel.Trail); got != parallel.GBn {
		t.Fatalf("parallel trail sum P = %d, want %d", got, parallel.GBn)
	}
}

// TestSearchStatsCountsNodes checks that enabling Config.Stats produces
// non-zero node counts without changing the search result.
func TestSearchStatsCountsNodes(t *testing.T) {
	cfg := alzetteConfig(4, []int{0, -1, -2})
	cfg.Stats = true

	// Stats are only visible on a searchState, which Search doesn't expose;
	// drive a single bound level directly to inspect them.
	bound := cfg.BestB[cfg.NRounds-2] - 6
	st := newSearchState(cfg, bound)
	if !st.searchFirstRound() {
		t.Fatalf("search did not find a trail at bound %d", bound)
	}
	if got := sumP(st.trail); got != -6 {
		t.Fatalf("sum of per-round P = %d, want -6", got)
	}
	var nodes uint64
	for _, n := range st.stats.NodesPerRound() {
		nodes += n
	}
	if nodes == 0 {
		t.Fatal("Stats recorded no search nodes")
	}

	plain := cfg
	plain.Stats = false
	want, ok := searchAtBound(plain, bound)
	if !ok || sumP(want.Trail) != sumP(st.trail) {
		t.Fatalf("Stats changed the search result: with stats sum P = %d, without = %d (found %v)", sumP(st.trail), sumP(want.Trail), ok)
	}
}

// TestExploreFirstRoundExcludesAllZero checks that a full-depth descent
// never hands the all-zero (alpha, beta, gamma) assignment to leaf, even
// though it's individually the cheapest (probability 1) candidate at every
// prefix length and would otherwise survive every prune.
func TestExploreFirstRoundExcludesAllZero(t *testing.T) {
	sawZero := false
	visited := 0
	exploreFirstRound(0, WordSize, 0, 0, 0, 0, -4, nil, func(seed firstRoundSeed) bool {
		visited++
		if seed.Alpha == 0 && seed.Beta == 0 && seed.Gamma == 0 {
			sawZero = true
			return false
		}
		return true
	})
	if visited == 0 {
		t.Fatal("exploreFirstRound visited no leaves at a reachable bound")
	}
	if sawZero {
		t.Fatal("exploreFirstRound visited the all-zero (alpha, beta, gamma) assignment")
	}
}

// TestExploreFirstRoundPrunesInfeasibleBound checks that an unreachable
// bound (below what any trail could achieve) makes the descent terminate
// having visited no leaves at all, rather than exhausting the full
// (alpha, beta, gamma) space.
func TestExploreFirstRoundPrunesInfeasibleBound(t *testing.T) {
	count := 0
	completed := exploreFirstRound(0, WordSize, 0, 0, 0, 0, 1, nil, func(seed firstRoundSeed) bool {
		count++
		return true
	})
	if !completed {
		t.Fatal("exploreFirstRound reported an early stop, but leaf always returned true")
	}
	if count != 0 {
		t.Fatalf("exploreFirstRound visited %d leaves at an unreachable bound, want 0", count)
	}
}

// TestExploreFirstRoundStopsEarly checks that leaf returning false halts the
// descent immediately and is reflected in exploreFirstRound's own return
// value.
func TestExploreFirstRoundStopsEarly(t *testing.T) {
	count := 0
	completed := exploreFirstRound(0, WordSize, 0, 0, 0, 0, -1000, nil, func(seed firstRoundSeed) bool {
		count++
		return count < 5
	})
	if completed {
		t.Fatal("exploreFirstRound reported completion despite leaf stopping it early")
	}
	if count != 5 {
		t.Fatalf("descent ran %d times after being told to stop, want exactly 5", count)
	}
}

// TestExploreFirstRoundSeedsContinueToTheSameLeaves checks that sharding the
// descent at a shallow depth and resuming each seed afterward visits the
// same leaves a single full-depth descent would, which is what lets
// ParallelSearch shard correctly.
func TestExploreFirstRoundSeedsContinueToTheSameLeaves(t *testing.T) {
	const bound = -1000
	var direct []firstRoundSeed
	exploreFirstRound(0, WordSize, 0, 0, 0, 0, bound, nil, func(seed firstRoundSeed) bool {
		direct = append(direct, seed)
		return len(direct) < 25
	})
	if len(direct) == 0 {
		t.Fatal("direct descent produced no leaves to compare against")
	}

	var sharded []firstRoundSeed
	exploreFirstRound(0, 3, 0, 0, 0, 0, bound, nil, func(seed firstRoundSeed) bool {
		return exploreFirstRound(seed.IBit, WordSize, seed.Alpha, seed.Beta, seed.Gamma, 0, bound, nil, func(leaf firstRoundSeed) bool {
			sharded = append(sharded, leaf)
			return len(sharded) < 25
		})
	})

	if len(sharded) != len(direct) {
		t.Fatalf("sharded descent produced %d leaves, direct descent produced %d", len(sharded), len(direct))
	}
	for i := range direct {
		if sharded[i] != direct[i] {
			t.Fatalf("leaf %d: sharded = %+v, direct = %+v", i, sharded[i], direct[i])
		}
	}
}

func TestSearchPanicsOnMismatchedBestB(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for mismatched BestB length")
		}
	}()
	Search(Config{NRounds: 4, BestB: []int{0, -1}})
}
