package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/replay"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sifra.db")
	last := flag.Int("last", 10, "number of most recent stored runs to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	tolerance := flag.Float64("tolerance", 1e-9, "absolute tolerance written into the fixture")
	desc := flag.String("desc", "", "fixture description")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/sifra.db --out path/to/fixture.json [--last N] [--tolerance T] [--desc text]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath, *tolerance, *desc); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath string, tolerance float64, desc string) error {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer s.Close()

	recs, err := s.List(last)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("no stored runs in %s", dbPath)
	}
	fmt.Printf("Found %d stored runs\n", len(recs))

	if desc == "" {
		desc = fmt.Sprintf("Stored run export: %d runs from %s", len(recs), dbPath)
	}
	fixture := replay.FixtureFromRecords(desc, tolerance, recs)
	if err := replay.WriteFixture(outPath, fixture); err != nil {
		return err
	}

	fmt.Printf("Wrote fixture to %s (%d cases)\n", outPath, len(fixture.Cases))
	return nil
}

// #endregion export
