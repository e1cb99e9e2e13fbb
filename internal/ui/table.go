package ui

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/vcfind/internal/core"
)

// RenderToolsets prints toolsets as a compact table, preferred first
func RenderToolsets(w io.Writer, toolsets []core.Toolset) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Toolset", "Visual Studio", "Architectures", "Options"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for i, ts := range toolsets {
		options := strings.Join(ts.VcvarsallOptions, " ")
		if options == "" {
			options = "-"
		}

		table.Append(
			strconv.Itoa(i+1),
			ColorizeToolsetVersion(string(ts.Version)),
			ts.VisualStudioRootPath,
			ArchNames(ts.SupportedArchitectures),
			options,
		)
	}

	table.Render()
}

// RenderInstances prints installation candidates in the order given
func RenderInstances(w io.Writer, instances []core.Instance) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Version", "Release", "Path"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for i, inst := range instances {
		table.Append(strconv.Itoa(i+1), inst.Version, string(inst.ReleaseType), inst.RootPath)
	}

	table.Render()
}

// ArchNames joins architecture option names, or "-" when there are none
func ArchNames(archs []core.ArchOption) string {
	if len(archs) == 0 {
		return "-"
	}
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
