package batchgcd

import (
	"runtime"
	"sync"

	"github.com/ncw/gmp"
)

type gcdTask struct {
	accum *gmp.Int
	i     int
}

// MulAccum computes the GCD of each modulus with the product of all moduli
// before it. Memory is roughly double the input, detection is O(n), but each
// hit costs another O(n) scan to find the partner, and with no hits at all
// the algorithm has no parallelism to speak of. Kept as the middle ground
// between Pairwise and the tree engine.
//
// A GCD equal to the modulus means either a duplicate modulus or both primes
// shared; a smaller GCD pins one prime immediately. Either way the earlier
// partners are recovered by rescanning the prefix.
func MulAccum(moduli []*gmp.Int) []Match {
	var wg sync.WaitGroup
	nThreads := runtime.NumCPU()
	collisions := make(chan Match, 256)

	gcdChan := make(chan gcdTask, nThreads*2)
	wg.Add(nThreads)
	for i := 0; i < nThreads; i++ {
		go gcdProc(gcdChan, moduli, collisions, &wg)
	}

	go func() {
		accum := gmp.NewInt(1)
		for i := 0; i < len(moduli); i++ {
			gcdChan <- gcdTask{accum, i}
			accum = gmp.NewInt(0).Mul(accum, moduli[i])
		}
		close(gcdChan)
		wg.Wait()
		close(collisions)
	}()

	return collectMatches(collisions)
}

func gcdProc(gcdChan <-chan gcdTask, moduli []*gmp.Int, collisions chan<- Match, wg *sync.WaitGroup) {
	gcd := gmp.NewInt(0)

	for task := range gcdChan {
		modulus := moduli[task.i]
		gcd.GCD(nil, nil, task.accum, modulus)
		if gcd.BitLen() == 1 {
			continue
		}
		wg.Add(1)
		if gcd.Cmp(modulus) == 0 {
			go findPartners(wg, moduli, task.i, collisions)
		} else {
			go findDivisors(wg, moduli, task.i, gcd, collisions)
			gcd = gmp.NewInt(0)
		}
	}
	wg.Done()
}

// findDivisors reports the candidate and every earlier modulus the recovered
// factor divides.
func findDivisors(wg *sync.WaitGroup, moduli []*gmp.Int, i int, gcd *gmp.Int, collisions chan<- Match) {
	r := gmp.NewInt(0)
	q := gmp.NewInt(0)

	collisions <- newMatch(i, moduli[i], gcd)

	for j := 0; j < i; j++ {
		n := moduli[j]
		q.QuoRem(n, gcd, r)
		if r.BitLen() == 0 {
			collisions <- newMatch(j, n, gcd)
		}
	}
	wg.Done()
}

// findPartners handles gcd == modulus: scan the prefix for duplicates or
// shared primes.
func findPartners(wg *sync.WaitGroup, moduli []*gmp.Int, i int, collisions chan<- Match) {
	m := moduli[i]
	gcd := gmp.NewInt(0)

	for j := 0; j < i; j++ {
		n := moduli[j]
		if m.Cmp(n) == 0 {
			collisions <- newMatch(i, m, m)
			collisions <- newMatch(j, n, n)
		} else if gcd.GCD(nil, nil, m, n).BitLen() != 1 {
			collisions <- newMatch(i, m, gcd)
			collisions <- newMatch(j, n, gcd)
			gcd = gmp.NewInt(0)
		}
	}
	wg.Done()
}
