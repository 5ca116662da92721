package main

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/big"
	"os"
	"runtime"
	"sync"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"
)

var (
	dupeprob  = 1000
	nummoduli = 100000
	bits      = 2048
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flaggy.SetName("mkmoduli")
	flaggy.SetDescription("Generate a test corpus of RSA moduli with seeded shared primes")
	flaggy.Int(&dupeprob, "p", "prob", "1/n integers will reuse a prime")
	flaggy.Int(&nummoduli, "n", "num", "How many moduli to generate")
	flaggy.Int(&bits, "b", "bits", "Bits per RSA modulus")
	flaggy.Parse()

	numModuli := nummoduli
	numThreads := runtime.NumCPU()
	perThread := (numModuli + numThreads - 1) / numThreads
	var wg sync.WaitGroup
	ch := make(chan *big.Int, numThreads)

	for numModuli > 0 {
		if perThread > numModuli {
			perThread = numModuli
		}
		wg.Add(1)
		go genModuli(log, perThread, ch, &wg)
		numModuli -= perThread
	}
	go func() {
		wg.Wait()
		close(ch)
	}()
	for modulus := range ch {
		fmt.Printf("%x\n", modulus)
	}
}

func genModuli(log *logrus.Logger, numModuli int, output chan<- *big.Int, wg *sync.WaitGroup) {
	dupChan := make(chan *big.Int, 1)
	var prime1, prime2 *big.Int
	var err error

	for i := 0; i < numModuli; i++ {
		prime1, err = cryptorand.Prime(cryptorand.Reader, (bits+1)/2)
		if err != nil {
			log.Fatal("Unable to generate random prime")
		}
		if (i % dupeprob) == 1 {
			select {
			case prime2 = <-dupChan:
				output <- new(big.Int).Mul(prime1, prime2)
				continue
			default:
				dupChan <- prime1
			}
		}
		prime2, err = cryptorand.Prime(cryptorand.Reader, bits/2)
		if err != nil {
			log.Fatal("Unable to generate random prime")
		}
		output <- new(big.Int).Mul(prime1, prime2)
	}
	wg.Done()
}
