package history

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/baldhumanity/dino-evo/evolution"
)

// PlotScores draws max, average and min score per generation and saves the
// chart to outPath. The image format follows the file extension.
func PlotScores(records []evolution.GenerationStats, title, outPath string) error {
	if len(records) == 0 {
		return errors.New("no generation records to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score"

	maxPts := make(plotter.XYs, len(records))
	avgPts := make(plotter.XYs, len(records))
	minPts := make(plotter.XYs, len(records))
	for i, r := range records {
		x := float64(r.Generation)
		maxPts[i] = plotter.XY{X: x, Y: float64(r.Max)}
		avgPts[i] = plotter.XY{X: x, Y: float64(r.Avg)}
		minPts[i] = plotter.XY{X: x, Y: float64(r.Min)}
	}

	names := []string{"max", "avg", "min"}
	for i, pts := range []plotter.XYs{maxPts, avgPts, minPts} {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}

// PlotDiversity draws the score standard deviation per generation, used as a
// rough measure of genetic diversity.
func PlotDiversity(records []evolution.GenerationStats, title, outPath string) error {
	if len(records) == 0 {
		return errors.New("no generation records to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Score stddev"

	pts := make(plotter.XYs, len(records))
	for i, r := range records {
		pts[i] = plotter.XY{X: float64(r.Generation), Y: r.StdDev}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, points)

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}
