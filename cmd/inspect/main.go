package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/logging"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to sifra.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	near := flag.String("near", "", "list runs whose memory signature is closest to this value")
	k := flag.Int("k", 5, "neighbors to show with --near")
	showLog := flag.Bool("log", false, "show the run log instead of stored runs")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/sifra.db [--last N] [--run id] [--near sig [--k N]] [--log] [--json]")
		os.Exit(2)
	}

	s, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	switch {
	case *runID != "":
		err = runDetailMode(s, *runID, *jsonOut)
	case *near != "":
		var sig float64
		sig, err = strconv.ParseFloat(*near, 64)
		if err != nil {
			err = fmt.Errorf("--near: %w", err)
			break
		}
		err = runNearMode(s, sig, *k, *jsonOut)
	case *showLog:
		err = runLogMode(s, *last, *jsonOut)
	default:
		err = runListMode(s, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID       string   `json:"run_id"`
	Goal        string   `json:"goal"`
	Shape       string   `json:"shape"`
	Trend       float64  `json:"trend_score"`
	Correlation float64  `json:"correlation_score"`
	Variation   float64  `json:"variation_score"`
	Signature   float64  `json:"memory_signature"`
	Distance    *float64 `json:"distance,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

func toRow(rec store.RunRecord) listRow {
	return listRow{
		RunID:       rec.RunID,
		Goal:        rec.Goal,
		Shape:       shape(rec),
		Trend:       rec.Result.Analysis.Trend,
		Correlation: rec.Result.Analysis.Correlation,
		Variation:   rec.Result.Analysis.Variation,
		Signature:   rec.Signature(),
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func runListMode(s *store.Store, last int, jsonOut bool) error {
	recs, err := s.List(last)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	// store returns newest first, print chronologically
	rows := make([]listRow, len(recs))
	for i, rec := range recs {
		rows[len(recs)-1-i] = toRow(rec)
	}
	if jsonOut {
		return printJSON(rows)
	}
	printTable(rows, false)
	return nil
}

func runNearMode(s *store.Store, sig float64, k int, jsonOut bool) error {
	neighbors, err := s.Nearest(sig, k)
	if err != nil {
		return err
	}
	if len(neighbors) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(neighbors))
	for i, n := range neighbors {
		rows[i] = toRow(n.RunRecord)
		d := n.Distance
		rows[i].Distance = &d
	}
	if jsonOut {
		return printJSON(rows)
	}
	printTable(rows, true)
	return nil
}

func printTable(rows []listRow, withDistance bool) {
	header := fmt.Sprintf("%-8s  %-10s  %-7s  %10s  %8s  %10s  %14s", "Run", "Goal", "Shape", "Trend", "Corr", "Variation", "Signature")
	if withDistance {
		header += fmt.Sprintf("  %10s", "Distance")
	}
	fmt.Println(header + "  Time")
	fmt.Println("--------+-----------+--------+-----------+---------+-----------+---------------+------------------")

	for _, r := range rows {
		line := fmt.Sprintf("%-8s  %-10s  %-7s  %10.4f  %8.4f  %10.4f  %14.10f",
			shortID(r.RunID), r.Goal, r.Shape, r.Trend, r.Correlation, r.Variation, r.Signature)
		if withDistance {
			line += fmt.Sprintf("  %10.3g", *r.Distance)
		}
		fmt.Println(line + "  " + r.CreatedAt)
	}
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(s *store.Store, id string, jsonOut bool) error {
	rec, err := s.Get(id)
	if err != nil {
		return fmt.Errorf("get run %s: %w", id, err)
	}

	if jsonOut {
		return printJSON(struct {
			RunID     string      `json:"run_id"`
			Shape     string      `json:"shape"`
			Matrix    [][]float64 `json:"matrix"`
			CreatedAt string      `json:"created_at"`
			Result    any         `json:"result"`
		}{rec.RunID, shape(rec), dataset.Rows(rec.Matrix), rec.CreatedAt.Format("2006-01-02T15:04:05Z"), rec.Result})
	}

	res := rec.Result
	fmt.Printf("Run:         %s\n", rec.RunID)
	fmt.Printf("Created:     %s\n", rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("Goal:        %s (%s)\n", rec.Goal, res.Parsed())
	fmt.Printf("Shape:       %s\n", shape(rec))
	fmt.Printf("Intent:      %v\n", res.Intent)
	fmt.Printf("Context:     %v\n", res.Context)
	fmt.Printf("Emotion:     %.6f\n", res.Emotion)

	fmt.Printf("\nAnalysis:\n")
	fmt.Printf("  Trend:       %.6f\n", res.Analysis.Trend)
	fmt.Printf("  Correlation: %.6f\n", res.Analysis.Correlation)
	fmt.Printf("  Variation:   %.6f\n", res.Analysis.Variation)
	fmt.Printf("  Fusion:      %v\n", res.Analysis.Fusion)
	fmt.Printf("  Signature:   %.15f\n", res.Analysis.Signature)
	return nil
}

// #endregion detail-mode

// #region log-mode

func runLogMode(s *store.Store, last int, jsonOut bool) error {
	entries, err := logging.RecentRuns(s.DB(), last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	fmt.Printf("%-20s  %-14s  %-10s  %-6s  %-8s  %s\n", "Time", "Task", "Goal", "Status", "Run", "Message")
	for _, e := range entries {
		fmt.Printf("%-20s  %-14s  %-10s  %-6s  %-8s  %s\n",
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.Task, e.Goal, e.Status, shortID(e.RunID), e.Message)
	}
	return nil
}

// #endregion log-mode

// #region output

func shape(rec store.RunRecord) string {
	if rec.IsVector {
		return fmt.Sprintf("[%d]", rec.Rows)
	}
	return fmt.Sprintf("%dx%d", rec.Rows, rec.Cols)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
