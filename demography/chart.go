package demography

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/carbocation/hfedash/genotype"
)

// ErrNothingToPlot is returned when a chart would have no non-empty bars.
var ErrNothingToPlot = errors.New("no genotype calls to plot")

var labelColors = map[genotype.Label]drawing.Color{
	genotype.Normal:      drawing.ColorFromHex("4e79a7"),
	genotype.Heterozygot: drawing.ColorFromHex("f28e2b"),
	genotype.Mutant:      drawing.ColorFromHex("e15759"),
}

// RenderGenotypeChart draws a PNG bar chart of one locus' genotype counts.
func RenderGenotypeChart(w io.Writer, c genotype.Counts, title string) error {
	if c.Total == 0 {
		return ErrNothingToPlot
	}

	bars := make([]chart.Value, 0, len(genotype.Labels))
	max := 0
	for _, l := range genotype.Labels {
		if n := c.Of(l); n > max {
			max = n
		}
		bars = append(bars, chart.Value{
			Label: string(l),
			Value: float64(c.Of(l)),
			Style: chart.Style{FillColor: labelColors[l], StrokeColor: labelColors[l]},
		})
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      512,
		Height:     384,
		BarWidth:   80,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max)},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

// RenderTableChart draws a PNG stacked bar chart with one bar per group.
// Each bar shows the genotype composition of its group as proportions.
// Groups without any recognized genotype call are left out.
func RenderTableChart(w io.Writer, t Table, title string) error {
	bars := make([]chart.StackedBar, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Counts.Total == 0 {
			continue
		}

		values := make([]chart.Value, 0, len(genotype.Labels))
		for _, l := range genotype.Labels {
			values = append(values, chart.Value{
				Label: string(l),
				Value: float64(row.Counts.Of(l)),
				Style: chart.Style{FillColor: labelColors[l], StrokeColor: labelColors[l]},
			})
		}

		bars = append(bars, chart.StackedBar{
			Name:   fmt.Sprintf("%s (n=%d)", row.Group, row.Counts.Total),
			Values: values,
		})
	}

	if len(bars) == 0 {
		return ErrNothingToPlot
	}

	graph := chart.StackedBarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      96*len(bars) + 128,
		Height:     384,
		BarSpacing: 24,
		Bars:       bars,
	}

	return graph.Render(chart.PNG, w)
}
