package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StatusRow is one line of the status table.
type StatusRow struct {
	State       string
	Source      string
	Destination string
	Note        string
}

// RenderStatus writes rows as a table followed by a summary line.
func RenderStatus(w io.Writer, rows []StatusRow) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"State", "Source", "Destination", "Note"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.State, row.Source, row.Destination, row.Note})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Summary(rows))
	return err
}

// Summary counts rows per state, e.g. "3 entries: ABSENT 1, LINKED 2".
func Summary(rows []StatusRow) string {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.State]++
	}
	states := make([]string, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Strings(states)

	parts := make([]string, 0, len(states))
	for _, state := range states {
		parts = append(parts, fmt.Sprintf("%s %d", state, counts[state]))
	}
	noun := "entries"
	if len(rows) == 1 {
		noun = "entry"
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0 %s", noun)
	}
	return fmt.Sprintf("%d %s: %s", len(rows), noun, strings.Join(parts, ", "))
}
