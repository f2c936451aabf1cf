package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

var ErrNoData = errors.New("no rows to plot")

var (
	colorSuitable   = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	colorUnsuitable = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
)

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 5 * vg.Inch
)

func classColor(s models.Suitability) color.Color {
	if s == models.Suitable {
		return colorSuitable
	}
	return colorUnsuitable
}

// BinaryBar plots area per suitability class for one district.
func BinaryBar(district string, rows models.BinaryTable) (*plot.Plot, error) {
	values := make([]float64, len(rows))
	classes := make([]models.Suitability, len(rows))
	for i, r := range rows {
		values[i] = r.AreaHa
		classes[i] = r.Suitability
	}

	p, err := classBars(values, classes)
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("%s suitability", district)
	p.Y.Label.Text = "Area (ha)"
	p.Y.Min = 0
	return p, nil
}

// NdviBar plots the mean NDVI per suitability class.
func NdviBar(district string, rows models.NdviTable) (*plot.Plot, error) {
	values := make([]float64, len(rows))
	classes := make([]models.Suitability, len(rows))
	for i, r := range rows {
		values[i] = r.NdviMean
		classes[i] = r.Suitability
	}

	p, err := classBars(values, classes)
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("%s — Mean NDVI by suitability", district)
	p.Y.Label.Text = "Mean NDVI"
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	return p, nil
}

func classBars(values []float64, classes []models.Suitability) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.X.Label.Text = "Suitability"

	labels := make([]string, len(values))
	for i, v := range values {
		bars, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(60))
		if err != nil {
			return nil, fmt.Errorf("error building bar: %w", err)
		}
		bars.XMin = float64(i)
		bars.Color = classColor(classes[i])
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		labels[i] = classes[i].String()
	}

	p.NominalX(labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.Add(plotter.NewGrid())
	return p, nil
}

// NdviScatter plots NDVI against area, one glyph per class sized by area.
func NdviScatter(district string, rows models.NdviTable) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s — NDVI vs area", district)
	p.X.Label.Text = "Mean NDVI"
	p.Y.Label.Text = "Area (ha)"

	var maxArea float64
	for _, r := range rows {
		maxArea = max(maxArea, r.AreaHa)
	}

	for _, r := range rows {
		s, err := plotter.NewScatter(plotter.XYs{{X: r.NdviMean, Y: r.AreaHa}})
		if err != nil {
			return nil, fmt.Errorf("error building scatter: %w", err)
		}

		radius := vg.Points(6)
		if maxArea > 0 {
			radius = vg.Points(6 + 14*r.AreaHa/maxArea)
		}
		s.GlyphStyle.Color = classColor(r.Suitability)
		s.GlyphStyle.Radius = radius
		s.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(s)
		p.Legend.Add(r.Suitability.String(), s)
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

// Placeholder is shown in place of a missing map image.
func Placeholder(message string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Map unavailable"
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{message},
	})
	if err != nil {
		return nil, fmt.Errorf("error building placeholder: %w", err)
	}
	labels.TextStyle[0].XAlign = draw.XCenter
	p.Add(labels)
	return p, nil
}

// EncodePNG draws p at the default dashboard size.
func EncodePNG(p *plot.Plot) ([]byte, error) {
	w, err := p.WriterTo(defaultWidth, defaultHeight, "png")
	if err != nil {
		return nil, fmt.Errorf("error creating png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
