package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/slotsheet/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	sess, _, err := ctx.Session(nil)
	if err != nil {
		return err
	}
	if _, err := sess.LoadCatalog(ctx.context()); err != nil {
		return err
	}
	if _, err := sess.SelectDate(ctx.context(), date); err != nil {
		return err
	}

	printDay(os.Stdout, date, sess.Slots(), sess.Catalog())
	return nil
}

func printDay(w io.Writer, date string, slots []models.Slot, catalog models.Catalog) {
	fmt.Fprintf(w, "Slots for %s (%d pending):\n", date, models.CountPending(slots))
	if len(slots) == 0 {
		fmt.Fprintln(w, "  No slots")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Time", "State", "Content", "Record").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, slot := range slots {
		record := ""
		if slot.IsPersisted() {
			record = strconv.FormatInt(slot.ExistingRecordID, 10)
		}
		t.Row(slot.StartTime+"-"+slot.EndTime, slotState(slot), slotContent(slot, catalog), record)
	}
	fmt.Fprintln(w, t.String())
}

func slotState(slot models.Slot) string {
	switch {
	case slot.IsPersisted():
		return "saved"
	case slot.IsPending():
		return "pending"
	default:
		return ""
	}
}

func slotContent(slot models.Slot, catalog models.Catalog) string {
	if slot.Kind() == models.SlotKindEmpty {
		return ""
	}
	text := slot.Description
	if slot.HasJob() {
		if job, ok := catalog.Find(slot.JobID); ok && text == "" {
			text = job.Name
		}
		text = fmt.Sprintf("%s [%d]", text, slot.JobID)
	}
	return text
}
