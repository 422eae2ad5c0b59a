package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/slotsheet/internal/session"
	"github.com/julianstephens/slotsheet/internal/submission"
)

// RecordCmd applies edits to a day and submits them in one run
type RecordCmd struct {
	Date   string   `arg:"" optional:"" help:"Date to record (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	Job    []string `help:"Assign a job to a slot." placeholder:"HH:MM=JOB_ID"`
	Plan   []string `help:"Mark a slot as planned work, optionally for a job." placeholder:"HH:MM[=JOB_ID]"`
	DayOff []string `name:"dayoff" help:"Mark a slot as day off." placeholder:"HH:MM"`
	Fill   bool     `help:"Auto-fill a random share of the remaining empty slots."`
	DryRun bool     `name:"dry-run" help:"Show the resulting day without submitting."`
	Yes    bool     `short:"y" help:"Change saved slots without asking."`
}

// assignment is one HH:MM[=JOB_ID] argument
type assignment struct {
	Start string
	JobID int64
}

func parseAssignment(arg string, requireJob bool) (assignment, error) {
	start, id, hasID := strings.Cut(strings.TrimSpace(arg), "=")
	if len(start) != 5 || start[2] != ':' {
		return assignment{}, fmt.Errorf("invalid slot %q, use HH:MM", start)
	}
	if !hasID {
		if requireJob {
			return assignment{}, fmt.Errorf("missing job id in %q, use HH:MM=JOB_ID", arg)
		}
		return assignment{Start: start}, nil
	}
	jobID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || jobID <= 0 {
		return assignment{}, fmt.Errorf("invalid job id in %q", arg)
	}
	return assignment{Start: start, JobID: jobID}, nil
}

func (c *RecordCmd) Run(ctx *Context) error {
	date, err := ParseDate(c.Date, ctx.now())
	if err != nil {
		return err
	}

	jobs, err := parseAll(c.Job, true)
	if err != nil {
		return err
	}
	plans, err := parseAll(c.Plan, false)
	if err != nil {
		return err
	}
	dayOffs, err := parseAll(c.DayOff, false)
	if err != nil {
		return err
	}

	sess, _, err := ctx.Session(confirmer(c.Yes))
	if err != nil {
		return err
	}
	if _, err := sess.LoadCatalog(ctx.context()); err != nil {
		return err
	}
	if _, err := sess.SelectDate(ctx.context(), date); err != nil {
		return err
	}

	if err := c.applyEdits(ctx, sess, jobs, plans, dayOffs); err != nil {
		return err
	}
	if c.Fill {
		result, err := sess.AutoFill()
		if err != nil {
			return err
		}
		if result.NothingToFill {
			fmt.Println("No empty slots to fill.")
		} else {
			fmt.Printf("Auto-filled %d of %d empty slot(s).\n", result.Filled, result.Empty)
		}
	}

	printDay(os.Stdout, date, sess.Slots(), sess.Catalog())
	if c.DryRun {
		fmt.Println("Dry run, nothing submitted.")
		return nil
	}
	return submit(ctx, sess)
}

func parseAll(args []string, requireJob bool) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		a, err := parseAssignment(arg, requireJob)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *RecordCmd) applyEdits(ctx *Context, sess *session.Session, jobs, plans, dayOffs []assignment) error {
	for _, a := range jobs {
		index, err := sess.IndexOf(a.Start)
		if err != nil {
			return err
		}
		if err := sess.AssignJob(ctx.context(), index, a.JobID); err != nil {
			return fmt.Errorf("%s: %w", a.Start, err)
		}
	}
	for _, a := range plans {
		index, err := sess.IndexOf(a.Start)
		if err != nil {
			return err
		}
		if err := sess.AssignPlanned(ctx.context(), index, a.JobID); err != nil {
			return fmt.Errorf("%s: %w", a.Start, err)
		}
	}
	for _, a := range dayOffs {
		index, err := sess.IndexOf(a.Start)
		if err != nil {
			return err
		}
		if err := sess.MarkDayOff(ctx.context(), index); err != nil {
			return fmt.Errorf("%s: %w", a.Start, err)
		}
	}
	return nil
}

// submit sends the pending slots and reports per-slot failures
func submit(ctx *Context, sess *session.Session) error {
	result, err := sess.Submit(ctx.context())
	printResult(result)
	if err != nil {
		return err
	}
	if result.FailureCount > 0 {
		return fmt.Errorf("%d slot(s) failed to submit", result.FailureCount)
	}
	return nil
}

func printResult(result submission.Result) {
	fmt.Println(result.Summary())
	for _, o := range result.Failed() {
		fmt.Printf("  ✗ %s-%s %s: %v\n", o.Slot.StartTime, o.Slot.EndTime, o.Kind, o.Err)
	}
}
