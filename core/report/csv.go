package report

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes t as CSV: the header names joined by commas, then one line per row
// with every value double-quoted and embedded quotes doubled. Lines are separated by "\n",
// without a trailing newline.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Headers, ",")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, val := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(val)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func quote(val string) string {
	return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
}
