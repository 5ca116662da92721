package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/integrii/flaggy"
	"github.com/ncw/gmp"
	"github.com/sirupsen/logrus"

	"github.com/indutny/github-scan/dedup"
	"github.com/indutny/github-scan/journal"
	"github.com/indutny/github-scan/sshkey"
)

var (
	keysDir string
	outPath string
	exact   bool
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flaggy.SetName("extract")
	flaggy.SetDescription("Extract unique RSA moduli from collected key journals")
	flaggy.AddPositionalValue(&keysDir, "keys-dir", 1, true, "Directory holding keys-NNNN.json[.xz] chunks")
	flaggy.AddPositionalValue(&outPath, "out-modulus-list", 2, true, "Output path for the hex modulus list")
	flaggy.Bool(&exact, "e", "exact", "Use the exact (map-backed) deduplicator")
	flaggy.Parse()

	if err := run(log); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)

	var filter *dedup.Filter
	if exact {
		filter = dedup.NewExact()
	} else {
		filter = dedup.New()
	}

	var users, keys, rsa, malformed, unique uint64
	lastChunk := ""

	m := new(gmp.Int)
	err = journal.Scan(keysDir, func(chunk string, rec *journal.Record) error {
		if chunk != lastChunk {
			log.Info("Loading keys from ", chunk)
			lastChunk = chunk
		}
		users++
		for _, line := range rec.Keys {
			keys++
			modulus, err := sshkey.ParseModulus(line)
			if errors.Is(err, sshkey.ErrNotRSA) {
				continue
			}
			if err != nil {
				malformed++
				log.Warnf("Skipping malformed key of user %s", rec.User.Login)
				continue
			}
			rsa++
			if filter.Seen(modulus) {
				continue
			}
			unique++
			if _, err := fmt.Fprintf(bw, "%x\n", m.SetBytes(modulus)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	log.Infof("Finished: %d users, %d keys, %d rsa (%d malformed), %d unique moduli",
		users, keys, rsa, malformed, unique)
	return nil
}
