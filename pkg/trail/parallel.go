package trail

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// shardDepth is the bit depth ParallelSearch fixes round 0's (alpha, beta,
// gamma) operands to before handing the remaining descent off to a worker:
// deep enough that a single bound level routinely produces far more shards
// than any reasonable worker count once infeasible branches are pruned, and
// shallow enough that generating the shards themselves (on one goroutine,
// same as the first few bits of the serial search) stays cheap.
const shardDepth = 6

// ParallelSearch runs Search's same bound-lowering strategy but shards each
// bound level's round-0 branch-and-bound descent across workers goroutines.
// Once any one of them completes a trail, no worker starts another seed; a
// seed already in progress runs to its end.
// Grounded on the teacher's pkg/search.WorkerPool: a task channel drained by
// a fixed worker pool, with shared progress tracked through sync/atomic
// rather than a mutex-protected result table, since here only the first hit
// matters. If workers <= 0, runtime.NumCPU() is used.
func ParallelSearch(cfg Config, workers int) (Result, bool) {
	if cfg.NRounds < 1 {
		return Result{}, false
	}
	if len(cfg.BestB) != cfg.NRounds-1 {
		panic("trail: len(Config.BestB) must equal NRounds-1")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	gBn := 0
	if cfg.NRounds >= 2 {
		gBn = cfg.BestB[cfg.NRounds-2]
	}
	floor := -(WordSize * cfg.NRounds)
	for gBn > floor {
		if res, ok := parallelSearchAtBound(cfg, gBn, workers); ok {
			return res, true
		}
		gBn--
	}
	return Result{}, false
}

// parallelSearchAtBound shards a fixed bound level's round-0 search space
// across a pool of workers; once any one completes a trail, the others skip
// every seed they have not yet started. Candidates stream to the worker pool through a channel
// as the pruned exploreFirstRound generator produces them, rather than
// being collected up front: a bound level with few or no surviving seeds
// (the common case once a bound is infeasible) lets the generator notice
// there's nothing left to do instead of forcing it to enumerate the whole
// space before any worker starts, and a found result stops the generator
// itself via exploreFirstRound's early-exit leaf contract.
func parallelSearchAtBound(cfg Config, gBn int, workers int) (Result, bool) {
	ch := make(chan firstRoundSeed, workers)
	var found atomic.Bool

	var genWG sync.WaitGroup
	genWG.Add(1)
	go func() {
		defer genWG.Done()
		defer close(ch)
		exploreFirstRound(0, shardDepth, 0, 0, 0, firstRoundBound(cfg), gBn, nil, func(seed firstRoundSeed) bool {
			if found.Load() {
				return false
			}
			ch <- seed
			return true
		})
	}()

	var mu sync.Mutex
	var result Result

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range ch {
				if found.Load() {
					continue
				}
				st := newSearchState(cfg, gBn)
				if st.continueFirstRound(seed) {
					if found.CompareAndSwap(false, true) {
						mu.Lock()
						result = Result{Trail: append([]Differential(nil), st.trail...), GBn: gBn}
						mu.Unlock()
					}
				}
			}
		}()
	}
	wg.Wait()
	genWG.Wait()

	if !found.Load() {
		return Result{}, false
	}
	mu.Lock()
	defer mu.Unlock()
	return result, true
}
