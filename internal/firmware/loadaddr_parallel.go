package firmware

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// match is a successful (i, j) pairing along with the load address it
// implies, used only by the parallel solver to pick the deterministic
// winner.
type match struct {
	i, j int
	l    uint32
}

// solveLoadAddressParallel shards the pool index i across
// runtime.GOMAXPROCS(0) goroutines. Every goroutine scans its shard to
// completion (no early goroutine termination), collecting the lowest-j
// match for each i in the shard; the caller then picks the lexicographically
// lowest (i, j) among every goroutine's matches, exactly reproducing the
// sequential scan's result (spec.md §5: "the first load address
// discovered (lowest (i, j) in lexicographic order) must be returned").
func solveLoadAddressParallel(table []record, pool []poolEntry) (uint32, bool) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(pool) {
		workers = len(pool)
	}
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var found []match

	g, _ := errgroup.WithContext(context.Background())
	shard := (len(pool) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * shard
		hi := lo + shard
		if hi > len(pool) {
			hi = len(pool)
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			var local []match
			for i := lo; i < hi; i++ {
				for j := range table {
					if !table[j].hasLenHint || pool[i].length != int(table[j].nameLenHint) {
						continue
					}
					if checkFix(table, pool, j, i) {
						local = append(local, match{i: i, j: j, l: table[j].namePtr - uint32(pool[i].offset)})
						break
					}
				}
			}
			if len(local) > 0 {
				mu.Lock()
				found = append(found, local...)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(found) == 0 {
		return 0, false
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a].i != found[b].i {
			return found[a].i < found[b].i
		}
		return found[a].j < found[b].j
	})
	return found[0].l, true
}
