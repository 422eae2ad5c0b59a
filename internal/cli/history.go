package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/slotsheet/internal/models"
)

// HistoryCmd lists the local journal of submission outcomes for a day
type HistoryCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	entries, err := ctx.Store.GetSubmissions(date)
	if err != nil {
		return fmt.Errorf("failed to read submission journal: %w", err)
	}

	printHistory(date, entries)
	return nil
}

func printHistory(date string, entries []models.SubmissionLogEntry) {
	if len(entries) == 0 {
		fmt.Printf("No submissions recorded for %s.\n", date)
		return
	}

	fmt.Fprintf(os.Stdout, "Submissions for %s:\n", date)
	batch := ""
	for _, e := range entries {
		if e.BatchID != batch {
			batch = e.BatchID
			fmt.Printf("\nBatch %s at %s\n", shortID(batch), e.SubmittedAt.Local().Format("15:04:05"))
		}
		mark := "✓"
		if !e.Success {
			mark = "✗"
		}
		line := fmt.Sprintf("  %s %s-%s %-8s", mark, e.StartTime, e.EndTime, e.Kind)
		if e.JobID != 0 {
			line += fmt.Sprintf(" job %d", e.JobID)
		}
		if e.Message != "" {
			line += "  " + e.Message
		}
		fmt.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
