package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/slotsheet/internal/slotstate"
)

// ClearCmd empties one slot, deleting its saved record if it has one
type ClearCmd struct {
	Start string `arg:"" help:"Start time of the slot to clear (HH:MM)."`
	Date  string `help:"Date of the slot (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Yes   bool   `short:"y" help:"Delete a saved record without asking."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	sess, _, err := ctx.Session(confirmer(c.Yes))
	if err != nil {
		return err
	}
	if _, err := sess.SelectDate(ctx.context(), date); err != nil {
		return err
	}

	index, err := sess.IndexOf(c.Start)
	if err != nil {
		return err
	}
	slot := sess.Slots()[index]
	if slot.IsEmpty() {
		fmt.Printf("%s %s is already empty.\n", date, c.Start)
		return nil
	}
	if !slot.IsPersisted() {
		fmt.Printf("%s %s has nothing saved to delete.\n", date, c.Start)
		return nil
	}

	if err := sess.Clear(ctx.context(), index); err != nil {
		if errors.Is(err, slotstate.ErrNotConfirmed) {
			fmt.Println("Nothing deleted.")
			return nil
		}
		return err
	}
	fmt.Printf("✓ Deleted record %d (%s %s-%s)\n", slot.ExistingRecordID, date, slot.StartTime, slot.EndTime)
	return nil
}
