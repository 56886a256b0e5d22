package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

var flatten = strings.NewReplacer("\t", " ", "\n", " ")

const (
	formatTable = "table"
	formatTSV   = "tsv"
	formatJSON  = "json"
)

// render writes t to the command output in the selected format.
func render(cmd *cobra.Command, t *table.Table) error {
	switch outputFormat {
	case formatJSON:
		data, err := store.EncodeTable(t)
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	case formatTSV:
		return renderTSV(cmd, t)
	}
	return renderTable(cmd, t)
}

func renderTSV(cmd *cobra.Command, t *table.Table) error {
	w := bufio.NewWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, strings.Join(t.Schema().Names(), "\t"))
	t.Each(func(_ int, r table.Row) {
		vals := r.Values()
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = flatten.Replace(table.Format(v))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	})
	return w.Flush()
}

func renderTable(cmd *cobra.Command, t *table.Table) error {
	if t.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
		return nil
	}
	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader(t.Schema().Names())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorder(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	t.Each(func(_ int, r table.Row) {
		vals := r.Values()
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = cell(v)
		}
		tw.Append(cells)
	})
	tw.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%s rows\n", humanize.Comma(int64(t.Len())))
	return nil
}

func cell(v table.Value) string {
	switch x := v.(type) {
	case int64:
		return humanize.Comma(x)
	case float64:
		return humanize.FtoaWithDigits(x, 4)
	}
	return table.Format(v)
}
