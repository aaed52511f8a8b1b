package timeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tkoehler/comunio-server/internal/models"
)

// RenderTimelineChart computes the member's timeline and renders it as a PNG
// line chart: total portfolio value against the cost basis of holdings.
func (s *Service) RenderTimelineChart(ctx context.Context, member, spielzeit string, today time.Time) ([]byte, error) {
	snapshots, err := s.GetTimeline(ctx, member, spielzeit, today)
	if err != nil {
		return nil, err
	}
	return RenderChart(member, snapshots)
}

// RenderChart renders snapshot rows as a PNG. Returns an error for fewer than
// two rows, since a line chart needs at least two points.
func RenderChart(member string, snapshots []models.DailySnapshot) ([]byte, error) {
	if len(snapshots) < 2 {
		return nil, fmt.Errorf("need at least 2 snapshots to chart, got %d", len(snapshots))
	}

	xValues := make([]time.Time, len(snapshots))
	totalY := make([]float64, len(snapshots))
	costY := make([]float64, len(snapshots))

	for i, snap := range snapshots {
		day, err := time.Parse(dateLayout, snap.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot date %q: %w", snap.Date, err)
		}
		xValues[i] = day
		totalY[i] = float64(snap.TotalValue)
		costY[i] = float64(snap.InvestmentCost)
	}

	totalSeries := chart.TimeSeries{
		Name: "Teamwert + Kontostand",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: totalY,
	}

	costSeries := chart.TimeSeries{
		Name: "Investiert",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: costY,
	}

	graph := chart.Chart{
		Title:  member,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02.01.06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fM €", f/1_000_000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			totalSeries,
			costSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
