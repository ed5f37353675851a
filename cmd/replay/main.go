package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/replay"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sifra.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	last := flag.Int("last", 0, "DB mode: replay only the N most recent runs (0 = all)")
	verbose := flag.Bool("v", false, "print every case, not only failures")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/sifra.db [--last N] [-v]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *verbose)
	} else {
		exitCode = runDBMode(*dbPath, *last, *verbose)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region modes

func runDBMode(dbPath string, last int, verbose bool) int {
	s, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer s.Close()

	limit := last
	if limit <= 0 {
		limit = -1
	}
	recs, err := s.List(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		return 2
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no stored runs found")
		return 2
	}

	// oldest first
	cases := make([]replay.Case, len(recs))
	for i, rec := range recs {
		cases[len(recs)-1-i] = replay.CaseFromRecord(rec)
	}

	results := replay.Replay(orchestrator.NewPipeline(nil), cases, replay.DefaultReplayConfig())
	return printResults(results, verbose)
}

func runFixtureMode(path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	cases, err := f.ToCases()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixture cases: %v\n", err)
		return 2
	}
	if f.Description != "" {
		fmt.Println(f.Description)
	}

	results := replay.Replay(orchestrator.NewPipeline(nil), cases, f.ToReplayConfig())
	return printResults(results, verbose)
}

// #endregion modes

// #region output

// printResults outputs a result table and returns the exit code.
func printResults(results []replay.ReplayResult, verbose bool) int {
	fmt.Printf("%-12s| %-10s| %-12s| %s\n", "Case", "Action", "Max Delta", "Reason")
	fmt.Printf("%-12s+%-11s+%-13s+%s\n", "------------", "-----------", "-------------", "------")

	for _, r := range results {
		if !verbose && r.Action == replay.ActionMatch {
			continue
		}
		fmt.Printf("%-12s| %-10s| %-12.3g| %s\n", shortID(r.CaseID), r.Action, r.MaxDelta, r.Reason)
	}

	sum := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d match, %d mismatch, %d drift, %d eval_fail, %d error (max delta %.3g)\n",
		sum.TotalCases, sum.Matches, sum.Mismatches, sum.Drifts, sum.EvalFails, sum.Errors, sum.MaxDelta)

	if !sum.OK() {
		return 1
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion output
