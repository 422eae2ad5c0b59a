package cli

import (
	"github.com/julianstephens/slotsheet/internal/slotstate"
	"github.com/julianstephens/slotsheet/internal/tui"
)

type TuiCmd struct {
	Date string `arg:"" optional:"" help:"Day to open (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}
	// The TUI asks before touching saved slots itself.
	sess, _, err := ctx.Session(slotstate.AlwaysConfirm)
	if err != nil {
		return err
	}
	return tui.Run(ctx.context(), sess, date)
}
