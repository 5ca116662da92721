package batchgcd

import (
	"runtime"
	"sort"
	"sync"

	"github.com/ncw/gmp"
)

// Pairwise is the O(n^2) reference algorithm: every modulus against every
// other. Hopeless at audit scale, but exact, and the oracle the tree engine
// is tested against. Matches come back sorted by index; a modulus sharing
// factors with several others is reported once, with its distinct shared
// factors folded into a single divisor.
func Pairwise(moduli []*gmp.Int) []Match {
	var wg sync.WaitGroup
	nThreads := runtime.NumCPU()
	collisions := make(chan Match, 256)

	wg.Add(nThreads)
	for i := 0; i < nThreads; i++ {
		go pairwiseThread(i, nThreads, &wg, moduli, collisions)
	}
	go func() {
		wg.Wait()
		close(collisions)
	}()

	return collectMatches(collisions)
}

func pairwiseThread(start, step int, wg *sync.WaitGroup, moduli []*gmp.Int, collisions chan<- Match) {
	gcd := gmp.NewInt(0)

	for i := start; i < len(moduli); i += step {
		for j := i + 1; j < len(moduli); j++ {
			m1 := moduli[i]
			m2 := moduli[j]
			if m1.Cmp(m2) == 0 {
				collisions <- newMatch(i, m1, m1)
				collisions <- newMatch(j, m2, m2)
			} else if gcd.GCD(nil, nil, m1, m2).BitLen() != 1 { // There's only one number with a BitLen of 1
				collisions <- newMatch(i, m1, gcd)
				collisions <- newMatch(j, m2, gcd)
				gcd = gmp.NewInt(0) // Old gcd var can't be overwritten
			}
		}
	}
	wg.Done()
}

// collectMatches drains the channel, keeps one match per index (folding
// multiple collisions for the same modulus into the gcd of the modulus with
// the product of its partners' shared factors) and sorts by index.
func collectMatches(in <-chan Match) []Match {
	byIndex := make(map[int]Match)
	tmp := new(gmp.Int)
	for m := range in {
		prev, ok := byIndex[m.Index]
		if !ok {
			byIndex[m.Index] = m
			continue
		}
		if prev.Divisor.Cmp(m.Divisor) == 0 {
			continue
		}
		// Distinct shared factors with different partners: fold into one
		// divisor, capped at the modulus (the tree engine's view).
		tmp.Mul(prev.Divisor, m.Divisor)
		combined := new(gmp.Int).GCD(nil, nil, tmp, m.Modulus)
		byIndex[m.Index] = newMatch(m.Index, m.Modulus, combined)
	}

	matches := make([]Match, 0, len(byIndex))
	for _, m := range byIndex {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
	return matches
}
