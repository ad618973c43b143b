// Package charts renders ranked recommendations as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/moba-draft/internal/recommend"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title         string
	Subtitle      string
	Width         string // e.g. "900px"
	Height        string
	Theme         string
	ShowLabels    bool   // print the score above each bar
	PositiveColor string // bars with score >= 0
	NegativeColor string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:         "Recommended picks",
		Subtitle:      "Counter and synergy score per eligible character",
		Width:         "900px",
		Height:        "500px",
		Theme:         "light",
		ShowLabels:    true,
		PositiveColor: "#3BA272",
		NegativeColor: "#EE6666",
	}
}

// RenderScoreChart writes a bar chart of recs to w, one bar per character in
// ranked order.
func RenderScoreChart(recs []*recommend.Recommendation, config ChartConfig, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	)

	names := make([]string, 0, len(recs))
	data := make([]opts.BarData, 0, len(recs))
	for _, rec := range recs {
		if rec == nil || rec.Character == nil {
			continue
		}
		color := config.PositiveColor
		if rec.Score < 0 {
			color = config.NegativeColor
		}
		names = append(names, rec.Character.Name)
		data = append(data, opts.BarData{
			Name:      rec.Summary(80),
			Value:     rec.Score,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar.SetXAxis(names).
		AddSeries("Score", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(config.ShowLabels),
				Position: "top",
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderScoreChartFile renders the score chart into an HTML file at outputPath.
func RenderScoreChartFile(recs []*recommend.Recommendation, config ChartConfig, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}

	if err := RenderScoreChart(recs, config, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
