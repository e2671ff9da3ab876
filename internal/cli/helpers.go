package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func seconds(ms float64) string {
	return fmt.Sprintf("%.2fs", ms/1000)
}
