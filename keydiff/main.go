package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/integrii/flaggy"
	"github.com/ncw/gmp"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/indutny/github-scan/moduli"
)

var (
	oldList string
	newList string
	quiet   bool
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	flaggy.SetName("keydiff")
	flaggy.SetDescription("Compare two modulus-list snapshots")
	flaggy.AddPositionalValue(&oldList, "old-list", 1, true, "Earlier snapshot")
	flaggy.AddPositionalValue(&newList, "new-list", 2, true, "Later snapshot")
	flaggy.Bool(&quiet, "q", "quiet", "Print counts only")
	flaggy.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	oldMs, err := moduli.Read(oldList)
	if err != nil {
		return err
	}
	newMs, err := moduli.Read(newList)
	if err != nil {
		return err
	}

	removed, added := lo.Difference(toHex(oldMs), toHex(newMs))

	if !quiet {
		red := color.New(color.FgRed)
		green := color.New(color.FgGreen)
		for _, m := range removed {
			red.Printf("-%s\n", m)
		}
		for _, m := range added {
			green.Printf("+%s\n", m)
		}
	}
	fmt.Printf("%d added, %d removed (%d -> %d)\n",
		len(added), len(removed), len(oldMs), len(newMs))
	return nil
}

func toHex(ms []*gmp.Int) []string {
	return lo.Map(ms, func(m *gmp.Int, _ int) string {
		return fmt.Sprintf("%x", m)
	})
}
