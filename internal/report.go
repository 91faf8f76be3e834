package internal

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderInspection renders the --list-meta view of one file: the capture
// time that would be used followed by every tag.
func RenderInspection(in Inspection) string {
	var b strings.Builder
	b.WriteString(in.Path)
	b.WriteByte('\n')

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Tag", "Value"})

	used := in.Timestamp.String() + " (" + in.Timestamp.Key() + ", " + in.Timestamp.ZoneSource().String() + ")"
	if in.Err != nil {
		used = in.Err.Error()
	}
	tw.AppendRow(table.Row{"*Used creation time*", used})
	tw.AppendSeparator()

	if in.Metadata != nil {
		tw.AppendRow(table.Row{"media kind", in.Metadata.Kind.String()})
		for _, key := range in.Metadata.Keys() {
			v, _ := in.Metadata.Get(key)
			tw.AppendRow(table.Row{key, v.String()})
		}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	b.WriteString(tw.Render())
	b.WriteByte('\n')
	return b.String()
}
