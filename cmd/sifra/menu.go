package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"gonum.org/v1/gonum/mat"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/dataset"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/tasks"
)

// #region session

var errExit = errors.New("exit")

// menu is one interactive dashboard session. ask reads one answer after
// showing prompt; loaded is the dataset from the last "Load Dataset".
type menu struct {
	a      *app
	w      io.Writer
	ask    func(prompt string) (string, error)
	loaded mat.Matrix
}

func runMenu(ctx context.Context, a *app, w io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          w,
	})
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	defer rl.Close()

	m := &menu{a: a, w: w, ask: func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return "", nil
		}
		return strings.TrimSpace(line), err
	}}

	fmt.Fprintln(w, "\n===============================")
	fmt.Fprintln(w, "     SIFRA AI - Autonomous")
	fmt.Fprintln(w, "    Data Scientist Engine")
	fmt.Fprintln(w, "===============================")
	return m.loop(ctx)
}

func (m *menu) loop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.show()
		choice, err := m.ask("\nEnter choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch err := m.handle(choice); {
		case errors.Is(err, errExit):
			fmt.Fprintln(m.w, "\n[EXIT] Shutting down Sifra AI. Goodbye!")
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintln(m.w, "[ERROR]", err)
		}
	}
}

func (m *menu) show() {
	fmt.Fprintln(m.w, "\n========== SIFRA AI DASHBOARD ==========")
	fmt.Fprintln(m.w, "1. Auto Analyze")
	fmt.Fprintln(m.w, "2. Auto Predict")
	fmt.Fprintln(m.w, "3. Auto Forecast")
	fmt.Fprintln(m.w, "4. Auto Anomaly Detection")
	fmt.Fprintln(m.w, "5. Auto Insights")
	fmt.Fprintln(m.w, "6. Trend Extraction")
	fmt.Fprintln(m.w, "7. Load Dataset")
	fmt.Fprintln(m.w, "8. Exit")
	fmt.Fprintln(m.w, rule)
}

// #endregion

// #region choices

var menuTasks = map[string]string{
	"1": "analyze",
	"2": "predict",
	"3": "forecast",
	"4": "anomaly",
	"5": "insights",
	"6": "trend",
}

func (m *menu) handle(choice string) error {
	switch choice {
	case "7":
		return m.load()
	case "8":
		return errExit
	}
	label, ok := menuTasks[choice]
	if !ok {
		return errors.New("invalid choice, try again")
	}

	data, err := m.dataset()
	if err != nil {
		return err
	}

	var rep tasks.Report
	if label == "forecast" {
		steps, err := m.steps()
		if err != nil {
			return err
		}
		rep, err = reportOf(m.a.runner.Forecast(data, steps))
		if err != nil {
			return err
		}
	} else {
		rep, err = m.a.runner.Route(label, data)
		if err != nil {
			return err
		}
	}
	renderReport(m.w, rep)
	return nil
}

// dataset asks for a JSON dataset; a blank answer reuses the loaded one.
func (m *menu) dataset() (mat.Matrix, error) {
	fmt.Fprintln(m.w, "\n[INPUT] Enter dataset as JSON (example: [[1,2,3],[4,5,6]])")
	if m.loaded != nil {
		fmt.Fprintln(m.w, "        or press Enter to use the loaded dataset")
	}
	line, err := m.ask("Dataset: ")
	if err != nil {
		return nil, err
	}
	if line == "" {
		if m.loaded == nil {
			return nil, errors.New("no dataset entered")
		}
		return m.loaded, nil
	}
	data, err := parseDataset([]byte(line), m.a.cfg.CleanOptions())
	if err != nil {
		return nil, fmt.Errorf("invalid dataset format: %w", err)
	}
	return data, nil
}

func (m *menu) steps() (int, error) {
	def := m.a.runner.Settings().ForecastSteps
	line, err := m.ask(fmt.Sprintf("How many steps to forecast (default=%d): ", def))
	if err != nil {
		return 0, err
	}
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("forecast steps must be a positive integer, got %q", line)
	}
	return n, nil
}

// load reads a JSON dataset file and keeps it for later choices.
func (m *menu) load() error {
	path, err := m.ask("Enter JSON file path: ")
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not load file: %w", err)
	}
	data, err := parseDataset(b, m.a.cfg.CleanOptions())
	if err != nil {
		return fmt.Errorf("could not load file: %w", err)
	}
	m.loaded = data
	r, c := data.Dims()
	fmt.Fprintf(m.w, "\n[RESULT] Loaded dataset (%dx%d):\n", r, c)
	renderRows(m.w, dataset.Rows(data))
	return nil
}

// #endregion
