package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/motion"
)

// ShakeCmd replays recorded accelerometer samples and auto-fills the day
// once enough shakes are detected.
type ShakeCmd struct {
	Date     string        `arg:"" optional:"" help:"Date to fill (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Samples  string        `help:"CSV file of x,y,z samples in g, or - for stdin." default:"-"`
	Interval time.Duration `help:"Time between replayed samples. Zero replays without pausing." default:"100ms"`
	DryRun   bool          `name:"dry-run" help:"Show the resulting day without submitting."`
}

func (c *ShakeCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if c.Samples != "-" {
		f, err := os.Open(c.Samples)
		if err != nil {
			return fmt.Errorf("failed to open samples: %w", err)
		}
		defer f.Close()
		in = f
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

	fmt.Printf("Waiting for %d shake(s)...\n", constants.ShakeQuota)
	src := motion.NewReplaySource(in, c.Interval)
	outcome, result, err := sess.ShakeFill(ctx.context(), src, func(n int) {
		fmt.Printf("  shake %d/%d\n", n, constants.ShakeQuota)
	})
	if err != nil {
		return err
	}

	switch {
	case outcome == motion.OutcomeExhausted:
		fmt.Println("Samples ran out before the day was shaken enough. Nothing filled.")
		return nil
	case outcome == motion.OutcomeCancelled:
		fmt.Println("Cancelled. Nothing filled.")
		return nil
	case result.NothingToFill:
		fmt.Println("No empty slots to fill.")
		return nil
	}

	fmt.Printf("Auto-filled %d of %d empty slot(s).\n", result.Filled, result.Empty)
	printDay(os.Stdout, date, sess.Slots(), sess.Catalog())
	if c.DryRun {
		fmt.Println("Dry run, nothing submitted.")
		return nil
	}
	return submit(ctx, sess)
}
