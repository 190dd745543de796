package pdf

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/careprint/careprint/internal/layout"
)

// Charts are drawn with vector primitives rather than a raster chart
// library so emission stays byte-deterministic. Values plot in the
// array order given; numeric arrays are never placeholder-resolved.

// slicePalette cycles through fills for pie slices and bars.
var slicePalette = [][3]int{
	{63, 81, 181},
	{0, 150, 136},
	{255, 152, 0},
	{156, 39, 176},
	{96, 125, 139},
	{233, 30, 99},
}

func (em *emitter) chart(data *layout.ChartData, w float64) error {
	if data == nil || len(data.Values) == 0 {
		return fmt.Errorf("chart has no values")
	}

	doc := em.doc
	x, y := doc.GetX(), doc.GetY()

	// Raw drawing does not trigger the auto page break, so start a new
	// page when the chart box would not fit.
	_, pageH := doc.GetPageSize()
	if y+chartHeight > pageH-em.margins.Bottom-footerReserve {
		doc.AddPage()
		x, y = em.margins.Left, doc.GetY()
	}

	var err error
	switch data.Type {
	case layout.ChartBar:
		err = em.barChart(data.Values, x, y, w)
	case layout.ChartLine:
		err = em.lineChart(data.Values, x, y, w)
	case layout.ChartPie:
		err = em.pieChart(data.Values, x, y, w)
	default:
		err = fmt.Errorf("unsupported chart type %q", data.Type)
	}
	if err != nil {
		return err
	}

	doc.SetXY(x, y+chartHeight+2)
	return nil
}

func (em *emitter) barChart(values []float64, x, y, w float64) error {
	doc := em.doc
	maxV := 0.0
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("bar chart value %v is negative", v)
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == 0 {
		maxV = 1
	}

	n := float64(len(values))
	slot := w / n
	barW := slot * 0.7

	em.chartFrame(x, y, w)
	for i, v := range values {
		h := (v / maxV) * (chartHeight - 4)
		c := slicePalette[i%len(slicePalette)]
		doc.SetFillColor(c[0], c[1], c[2])
		doc.Rect(x+float64(i)*slot+slot*0.15, y+chartHeight-2-h, barW, h, "F")
	}
	return nil
}

func (em *emitter) lineChart(values []float64, x, y, w float64) error {
	doc := em.doc
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	em.chartFrame(x, y, w)

	step := w
	if len(values) > 1 {
		step = w / float64(len(values)-1)
	}
	c := slicePalette[0]
	doc.SetDrawColor(c[0], c[1], c[2])
	doc.SetLineWidth(0.4)

	px, py := x, y+chartHeight-2-((values[0]-minV)/span)*(chartHeight-4)
	for i := 1; i < len(values); i++ {
		nx := x + float64(i)*step
		ny := y + chartHeight - 2 - ((values[i]-minV)/span)*(chartHeight-4)
		doc.Line(px, py, nx, ny)
		px, py = nx, ny
	}

	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.2)
	return nil
}

func (em *emitter) pieChart(values []float64, x, y, w float64) error {
	doc := em.doc
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("pie chart value %v is negative", v)
		}
		total += v
	}
	if total == 0 {
		return fmt.Errorf("pie chart values sum to zero")
	}

	cx := x + w/2
	cy := y + chartHeight/2
	r := chartHeight/2 - 2
	if w/2-2 < r {
		r = w/2 - 2
	}

	start := -math.Pi / 2
	for i, v := range values {
		sweep := (v / total) * 2 * math.Pi
		c := slicePalette[i%len(slicePalette)]
		doc.SetFillColor(c[0], c[1], c[2])
		doc.Polygon(slicePoints(cx, cy, r, start, start+sweep), "F")
		start += sweep
	}
	return nil
}

// slicePoints approximates a filled circle sector with a polygon,
// sampling the arc every ~5 degrees.
func slicePoints(cx, cy, r, from, to float64) []gofpdf.PointType {
	pts := []gofpdf.PointType{{X: cx, Y: cy}}
	steps := int(math.Ceil((to - from) / (math.Pi / 36)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, gofpdf.PointType{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}

func (em *emitter) chartFrame(x, y, w float64) {
	br, bg, bb := parseHexColor(em.styles.BorderColor)
	em.doc.SetDrawColor(br, bg, bb)
	em.doc.Rect(x, y, w, chartHeight, "D")
	em.doc.SetDrawColor(0, 0, 0)
}
