package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/integrii/flaggy"
	"github.com/ncw/gmp"
	"github.com/sirupsen/logrus"

	"github.com/indutny/github-scan/batchgcd"
	"github.com/indutny/github-scan/moduli"
)

var (
	modulusList   string
	algorithmName = "batch"
	workers       int
	cpuprofile    string
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flaggy.SetName("audit")
	flaggy.SetDescription("Find shared prime factors across a modulus list")
	flaggy.AddPositionalValue(&modulusList, "modulus-list", 1, true, "Path to the modulus list (hex or packed)")
	flaggy.String(&algorithmName, "a", "algorithm", "batch|pairwise|mulaccum")
	flaggy.Int(&workers, "w", "workers", "Worker count for the batch engine (power of two; default: largest power of two within the CPU count)")
	flaggy.String(&cpuprofile, "", "cpuprofile", "Write a CPU profile to this file")
	flaggy.Parse()

	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Info("Loading moduli from ", modulusList)
	ms, err := moduli.Read(modulusList)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Loaded %d moduli", len(ms))

	log.Info("Executing...")
	matches, err := run(ms)
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range matches {
		if !m.Test() {
			log.Fatal("Self-check failed on ", m)
		}
		fmt.Println(m.Csv())
	}
	log.Infof("Finished: %d compromised moduli", len(matches))
}

func run(ms []*gmp.Int) ([]batchgcd.Match, error) {
	switch algorithmName {
	case "batch":
		if workers == 0 {
			workers = batchgcd.MaxWorkers(len(ms), runtime.NumCPU())
		}
		return batchgcd.Audit(ms, workers)
	case "pairwise":
		return batchgcd.Pairwise(ms), nil
	case "mulaccum":
		return batchgcd.MulAccum(ms), nil
	}
	return nil, fmt.Errorf("invalid algorithm: %s", algorithmName)
}
