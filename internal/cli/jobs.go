package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type JobsCmd struct{}

func (c *JobsCmd) Run(ctx *Context) error {
	sess, _, err := ctx.Session(nil)
	if err != nil {
		return err
	}
	catalog, err := sess.LoadCatalog(ctx.context())
	if err != nil {
		return err
	}

	fmt.Printf("%d job(s) from the %s catalog:\n", len(catalog), sess.CatalogSource())
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "Name").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, job := range catalog {
		t.Row(strconv.FormatInt(job.ID, 10), job.Name)
	}
	fmt.Println(t.String())
	return nil
}
