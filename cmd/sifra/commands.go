package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/batch"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/tasks"
)

// #region dataset-input

type datasetFlags struct {
	data string
	file string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.data, "data", "", `dataset as JSON, e.g. '[[1,2,3],[4,5,6]]'`)
	cmd.Flags().StringVar(&f.file, "file", "", `JSON dataset file ("-" reads stdin)`)
}

func (f *datasetFlags) load(stdin io.Reader, opts dataset.CleanOptions) (mat.Matrix, error) {
	var raw []byte
	switch {
	case f.data != "" && f.file != "":
		return nil, errors.New("use either --data or --file, not both")
	case f.data != "":
		raw = []byte(f.data)
	case f.file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		raw = b
	case f.file != "":
		b, err := os.ReadFile(f.file)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("no dataset: pass --data or --file")
	}
	return parseDataset(raw, opts)
}

func parseDataset(b []byte, opts dataset.CleanOptions) (mat.Matrix, error) {
	r, err := dataset.Decode(b)
	if err != nil {
		return nil, err
	}
	return dataset.Clean(r, opts)
}

// #endregion

// #region run

var runFlags datasetFlags

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Run the full reasoning pipeline for any goal label",
	Long: `Runs every encoder and channel for the goal and prints the complete result.
Unrecognized goals still run, with an all-zero intent vector.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := runFlags.load(cmd.InOrStdin(), current.cfg.CleanOptions())
		if err != nil {
			return err
		}
		res, err := current.pipeline.Run(args[0], m)
		if current.store != nil {
			if _, recErr := current.store.Record("run", args[0], resultPtr(res, err), m, err); recErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "record run: %v\n", recErr)
			}
		}
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		renderResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	runFlags.register(runCmd)
}

// #endregion

// #region tasks

// taskCommands builds one subcommand per task; each routes through the runner.
func taskCommands() []*cobra.Command {
	specs := []struct {
		use, short string
	}{
		{"analyze", "Full channel analysis"},
		{"predict", "Next value: mean of row means plus one trend step"},
		{"forecast", "Continue the trend for several steps"},
		{"anomaly", "Cells far from the overall mean"},
		{"insights", "Plain-language summary of the dataset"},
		{"trend", "Trend score only"},
		{"eda", "Per-column statistics, IQR outliers and correlation matrix"},
		{"visualize", "Recommended chart type with the series to plot"},
	}

	cmds := make([]*cobra.Command, 0, len(specs))
	for _, s := range specs {
		var flags datasetFlags
		var steps int
		cmd := &cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := flags.load(cmd.InOrStdin(), current.cfg.CleanOptions())
				if err != nil {
					return err
				}
				var rep tasks.Report
				if s.use == "forecast" {
					rep, err = reportOf(current.runner.Forecast(m, steps))
				} else {
					rep, err = current.runner.Route(s.use, m)
				}
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), rep)
			},
		}
		flags.register(cmd)
		if s.use == "forecast" {
			cmd.Flags().IntVar(&steps, "steps", 0, "forecast horizon (0 uses forecast_steps)")
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func reportOf(rep tasks.ForecastReport, err error) (tasks.Report, error) {
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func printReport(w io.Writer, rep tasks.Report) error {
	if asJSON {
		return writeJSON(w, rep)
	}
	renderReport(w, rep)
	return nil
}

// #endregion

// #region batch

type jobResult struct {
	ID     string              `json:"id"`
	Result orchestrator.Result `json:"result"`
}

var (
	batchFile    string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many independent jobs concurrently",
	Long: `Reads a JSON array of jobs, each {"id": "...", "goal": "...", "data": <dataset>},
runs them with a bounded worker pool and prints the results in job order.
The first failing job stops the batch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchFile == "" {
			return errors.New("batch: --file is required")
		}
		b, err := os.ReadFile(batchFile)
		if err != nil {
			return fmt.Errorf("read jobs: %w", err)
		}
		jobs, err := batch.DecodeJobs(b, current.cfg.CleanOptions())
		if err != nil {
			return err
		}
		workers := batchWorkers
		if workers <= 0 {
			workers = current.cfg.BatchWorkers
		}

		results, err := batch.Run(cmd.Context(), current.pipeline, jobs, workers)
		if err != nil {
			return err
		}
		if current.store != nil {
			for i, res := range results {
				if _, err := current.store.Record("batch", jobs[i].Goal, &res, jobs[i].Matrix, nil); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "record %s: %v\n", jobs[i].ID, err)
				}
			}
		}

		if asJSON {
			out := make([]jobResult, len(results))
			for i, res := range results {
				out[i] = jobResult{ID: jobs[i].ID, Result: res}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}
		for i, res := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] ", jobs[i].ID)
			renderResult(cmd.OutOrStdout(), res)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "JSON jobs file")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent runs (0 uses batch_workers)")
}

// #endregion

// #region menu

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive numbered dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context(), current, cmd.OutOrStdout())
	},
}

// #endregion

// #region helpers

func resultPtr(res orchestrator.Result, err error) *orchestrator.Result {
	if err != nil {
		return nil
	}
	return &res
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion
