package scenario

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/themizzi/storecheck/internal/config"
	"github.com/themizzi/storecheck/internal/verify"
	"go.uber.org/zap"
)

// Status is the outcome of one case
type Status string

const (
	StatusPassed Status = "passed"
	// StatusFailed means a page check did not pass
	StatusFailed Status = "failed"
	// StatusError means the case could not run: bad API data, network or browser errors
	StatusError Status = "error"
)

// Result is one case of a scenario: an item of an item scenario, or a whole
// cart scenario. Item is empty when the case is not about a single item.
type Result struct {
	Scenario string
	Kind     config.ScenarioKind
	Item     string
	Status   Status
	Err      error
	Duration time.Duration
}

func newResult(sc config.Scenario, item string, err error, d time.Duration) Result {
	res := Result{Scenario: sc.Name, Kind: sc.Kind, Item: item, Status: StatusPassed, Err: err, Duration: d}
	switch {
	case err == nil:
	case verify.IsAssertionFailure(err):
		res.Status = StatusFailed
	default:
		res.Status = StatusError
	}
	return res
}

func (r Result) log(logger *zap.Logger) {
	fields := []zap.Field{zap.String("item", r.Item), zap.Duration("duration", r.Duration)}
	switch r.Status {
	case StatusPassed:
		logger.Info("case passed", fields...)
	case StatusFailed:
		logger.Warn("case failed", append(fields, zap.Error(r.Err))...)
	default:
		logger.Error("case aborted", append(fields, zap.Error(r.Err))...)
	}
}

// Report collects the results of a run
type Report struct {
	Results []Result
}

// Count returns the number of results with status s
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether the run produced results and all of them passed
func (r Report) OK() bool {
	return len(r.Results) > 0 && r.Count(StatusPassed) == len(r.Results)
}

// Summary renders the counts on one line
func (r Report) Summary() string {
	return fmt.Sprintf("%d passed, %d failed, %d errors", r.Count(StatusPassed), r.Count(StatusFailed), r.Count(StatusError))
}

// WriteTable writes one aligned row per result followed by the summary
func (r Report) WriteTable(w io.Writer) error {
	rows := [][]string{{"SCENARIO", "ITEM", "STATUS", "TIME", "DETAIL"}}
	for _, res := range r.Results {
		detail := ""
		if res.Err != nil {
			detail = res.Err.Error()
		}
		rows = append(rows, []string{res.Scenario, res.Item, string(res.Status), res.Duration.Round(time.Millisecond).String(), detail})
	}

	if err := WriteColumns(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}

// WriteColumns writes rows as left aligned columns separated by two spaces.
// Widths are measured in terminal cells so wide characters line up.
func WriteColumns(w io.Writer, rows [][]string) error {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
