package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"smm-wrapper/lib/smm/view"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatTable    = "table"
	formatCsv      = "csv"
	formatMarkdown = "markdown"
	formatHtml     = "html"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatCsv, formatMarkdown, formatHtml:
		return nil
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func render(t table.Writer, f string) {
	switch f {
	case formatCsv:
		t.RenderCSV()
	case formatMarkdown:
		t.RenderMarkdown()
	case formatHtml:
		t.RenderHTML()
	default:
		t.Render()
	}
}

func formatCell(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case string, int64, float64, bool:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

func renderTable(w io.Writer, data view.Table, f string) {
	t := newTable(w)

	header := make(table.Row, len(data.Columns))
	for i, c := range data.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range data.Rows {
		cells := make(table.Row, len(row))
		for i, value := range row {
			cells[i] = formatCell(value)
		}
		t.AppendRow(cells)
	}
	render(t, f)
}

func renderRecord(w io.Writer, record view.Record, f string) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, field := range record {
		t.AppendRow(table.Row{field.Key, formatCell(field.Value)})
	}
	render(t, f)
}

func writeRaw(w io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
