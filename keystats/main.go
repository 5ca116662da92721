package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/integrii/flaggy"
	"github.com/jesseduffield/asciigraph"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/indutny/github-scan/journal"
	"github.com/indutny/github-scan/sshkey"
)

var keysDir string

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flaggy.SetName("keystats")
	flaggy.SetDescription("Summarize collected key journals")
	flaggy.AddPositionalValue(&keysDir, "keys-dir", 1, true, "Directory holding keys-NNNN.json[.xz] chunks")
	flaggy.Parse()

	if err := run(log); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger) error {
	byType := make(map[string]int)
	sizeBuckets := make(map[int]int)
	var perChunk []float64
	var chunkNames []string
	var users, keys int

	err := journal.Scan(keysDir, func(chunk string, rec *journal.Record) error {
		if len(chunkNames) == 0 || chunkNames[len(chunkNames)-1] != chunk {
			chunkNames = append(chunkNames, chunk)
			perChunk = append(perChunk, 0)
		}
		users++
		for _, line := range rec.Keys {
			keys++
			perChunk[len(perChunk)-1]++
			byType[keyType(line)]++

			modulus, err := sshkey.ParseModulus(line)
			if err != nil {
				continue
			}
			sizeBuckets[len(modulus)*8]++
		}
		return nil
	})
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Printf("%d users, %d keys across %d chunks\n\n", users, keys, len(chunkNames))

	bold.Println("Keys by algorithm:")
	for _, t := range sortedKeys(byType) {
		fmt.Printf("  %-20s %d\n", t, byType[t])
	}

	bold.Println("\nRSA modulus sizes (bits):")
	for _, bits := range sortedKeys(sizeBuckets) {
		fmt.Printf("  %-20d %d\n", bits, sizeBuckets[bits])
	}

	if len(perChunk) > 1 {
		bold.Println("\nKeys per chunk:")
		fmt.Println(asciigraph.Plot(perChunk, asciigraph.Height(10)))
	}
	return nil
}

// keyType classifies one authorized_keys line, preferring the full wire
// parse and falling back to the line's algorithm prefix.
func keyType(line string) string {
	if pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line)); err == nil {
		return pub.Type()
	}
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0] + " (unparsed)"
	}
	return "(empty)"
}

func sortedKeys[K int | string](m map[K]int) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
