// Package report renders self-contained HTML charts over the reconciled
// order history.
package report

import (
	"fmt"
	"io"
	"strings"

	"tradepulse/internal/service"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/shopspring/decimal"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorProfit        = "#34d399"
	colorLoss          = "#f87171"
	colorCumulative    = "#22d3ee"

	chartWidthPx       = 1600
	cumulativeHeightPx = 600
	perTradeHeightPx   = 260
)

// RenderPnlHistory writes an HTML page with the cumulative realized PnL
// curve and the per-trade PnL bars for the given completed orders. Records
// must already be in chronological order.
func RenderPnlHistory(w io.Writer, records []service.OrderRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no completed orders to chart")
	}

	xAxis := make([]string, len(records))
	perTrade := make([]opts.BarData, len(records))
	cumulative := make([]opts.LineData, len(records))

	running := decimal.Zero
	for i, rec := range records {
		xAxis[i] = axisLabel(rec)
		pnl := decimal.Zero
		if rec.RealizedProfit != nil {
			pnl = *rec.RealizedProfit
		}
		running = running.Add(pnl)

		color := colorLoss
		if pnl.Sign() >= 0 {
			color = colorProfit
		}
		perTrade[i] = opts.BarData{
			Value:     pnl.InexactFloat64(),
			ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.7)},
		}
		cumulative[i] = opts.LineData{Value: running.InexactFloat64()}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", cumulativeHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         "Cumulative Realized PnL",
			Subtitle:      fmt.Sprintf("%d completed trades, net %s", len(records), running.StringFixed(2)),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("Cumulative PnL", cumulative,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorCumulative, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", chartWidthPx),
			Height:          fmt.Sprintf("%dpx", perTradeHeightPx),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{Title: "PnL Per Trade", Left: "left", TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)}}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("PnL", perTrade)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(line, bar)
	return page.Render(w)
}

func axisLabel(rec service.OrderRecord) string {
	sym := strings.ToUpper(rec.Symbol)
	if rec.Timestamp == nil {
		return sym
	}
	return fmt.Sprintf("%s %s", sym, rec.Timestamp.UTC().Format("01-02 15:04"))
}
