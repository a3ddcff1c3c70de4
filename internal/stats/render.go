package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/kinetype/internal/ledger"
	"github.com/verte-zerg/kinetype/internal/model"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"

	sparkLabelWidth = 10
	maxLedgerRows   = 15
	maxSessionRows  = 10
	curveWindow     = 3
)

var thresholdLengths = []int{3, 5, 8}

// RenderOptions controls report layout.
type RenderOptions struct {
	Width int
	Color bool
}

// Render writes the full progress report.
func Render(w io.Writer, r Report, opts RenderOptions) error {
	p := &printer{w: w, color: opts.Color}
	p.header(r)
	p.ledger(r.Progress.StruggleEntries)
	p.sessions(r.Sessions)
	p.curves(r.Sessions, opts.Width)
	return p.err
}

// printer remembers the first write error so sections stay linear.
type printer struct {
	w     io.Writer
	color bool
	err   error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + colorReset
}

func (p *printer) title(s string) {
	p.println(p.paint(colorBold, s))
}

func (p *printer) header(r Report) {
	p.title("Progress: " + r.Learner)
	placement := "not taken"
	if r.Progress.HasCompletedPlacement {
		placement = "done"
	}
	p.printf("Level: %.2f / %.0f (placement %s)\n", r.Progress.CurrentLevel, model.MaxLevel, placement)

	weak := r.Progress.WeakGroupList()
	if len(weak) == 0 {
		p.println("Weak groups: none")
	} else {
		names := make([]string, len(weak))
		for i, g := range weak {
			names[i] = string(g)
		}
		p.printf("Weak groups: %s\n", p.paint(colorRed, strings.Join(names, ", ")))
	}

	parts := make([]string, len(thresholdLengths))
	for i, n := range thresholdLengths {
		parts[i] = fmt.Sprintf("%d letters %.1fs", n, r.Params.Threshold(n))
	}
	source := "defaults"
	if r.Calibrated {
		source = fmt.Sprintf("%d samples", r.Params.SampleCount)
	}
	p.printf("Hesitation after: %s (%s)\n", strings.Join(parts, ", "), source)
	p.println()
}

func (p *printer) ledger(entries []model.StruggleEntry) {
	if len(entries) == 0 {
		p.println("Struggle ledger is empty.")
		p.println()
		return
	}
	sorted := append([]model.StruggleEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ConsecutiveCorrect != sorted[j].ConsecutiveCorrect {
			return sorted[i].ConsecutiveCorrect < sorted[j].ConsecutiveCorrect
		}
		return sorted[i].Word < sorted[j].Word
	})
	p.title(fmt.Sprintf("Struggle ledger (%d words)", len(sorted)))
	if len(sorted) > maxLedgerRows {
		sorted = sorted[:maxLedgerRows]
	}
	rows := make([][]string, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, []string{
			e.Word,
			string(e.Group),
			fmt.Sprintf("%d/%d", e.ConsecutiveCorrect, ledger.GraduationStreak),
			fmt.Sprintf("%d", e.TotalAttempts),
			formatDate(e.UpdatedAt),
		})
	}
	for _, line := range formatTable([]string{"Word", "Group", "Streak", "Attempts", "Updated"}, rows, map[int]bool{2: true, 3: true}) {
		p.println(line)
	}
	p.println()
}

func (p *printer) sessions(sessions []model.SessionSummary) {
	if len(sessions) == 0 {
		p.println("No sessions found.")
		return
	}
	totals := SessionTotals(sessions)
	p.title("Sessions")
	p.printf("Sessions: %d, words: %d, accuracy: %.1f%%, best: %.1f%%\n",
		totals.Sessions, totals.Words, totals.Accuracy*100, totals.BestAcc*100)

	recent := sessions
	if len(recent) > maxSessionRows {
		recent = recent[len(recent)-maxSessionRows:]
	}
	rows := make([][]string, 0, len(recent))
	for _, s := range recent {
		delta := s.LevelAfter - s.LevelBefore
		change := fmt.Sprintf("%+.2f", delta)
		switch {
		case delta > 0:
			change = p.paint(colorGreen, change)
		case delta < 0:
			change = p.paint(colorRed, change)
		}
		rows = append(rows, []string{
			formatDate(s.FinishedAt),
			fmt.Sprintf("%d", s.Words),
			fmt.Sprintf("%.1f%%", s.Accuracy*100),
			fmt.Sprintf("%.2f", s.AvgSeconds),
			fmt.Sprintf("%.2f", s.LevelAfter),
			change,
		})
	}
	for _, line := range formatTable([]string{"Finished", "Words", "Accuracy", "Avg s", "Level", "Change"}, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		p.println(line)
	}
	p.println()
}

func (p *printer) curves(sessions []model.SessionSummary, width int) {
	if len(sessions) < 2 {
		return
	}
	if width <= 0 {
		width = terminalWidthBackup
	}
	plotWidth := width - sparkLabelWidth - 1
	if plotWidth < 1 {
		plotWidth = 1
	}
	series := SessionSeries(sessions)
	p.printf("%-*s %s\n", sparkLabelWidth, "Level", Sparkline(series.Levels, model.MinLevel, model.MaxLevel, plotWidth))
	p.printf("%-*s %s\n", sparkLabelWidth, "Accuracy", Sparkline(MovingAverage(series.Accuracy, curveWindow), 0, 100, plotWidth))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
