// Package pdf turns a composed document layout into paginated PDF
// bytes. Emission is deterministic for a fixed (layout, context) pair:
// document dates are zeroed and no clocks are read, so timestamps only
// appear when the caller puts them in the context (e.g. {{now}}).
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/careprint/careprint/internal/layout"
)

// EmitError is the one render failure class that aborts a document. It
// carries the offending block's position for diagnosis.
type EmitError struct {
	Section int
	Block   int
	Err     error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit section %d block %d: %v", e.Section, e.Block, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

const (
	footerReserve = 15.0 // mm reserved under the content box
	cellGutter    = 2.0  // mm between grid columns
	qrSizeMax     = 30.0 // mm
	chartHeight   = 40.0 // mm
	tableRowH     = 7.0  // mm
)

// emitEpoch pins the document dates so identical (layout, context)
// pairs produce byte-identical output. A zero time would make gofpdf
// substitute the wall clock.
var emitEpoch = time.Unix(0, 0).UTC()

// emitter holds the per-render drawing state. A fresh one is built for
// every Emit call, so concurrent renders never share anything mutable.
type emitter struct {
	doc     *gofpdf.Fpdf
	styles  layout.Styles
	margins layout.Margins
	lineH   float64
	qrSeq   int
}

// Emit renders a layout against a context and returns the PDF bytes.
// Sections render top-to-bottom; content exceeding the page box flows
// onto new pages; the footer, when enabled, repeats on every page.
// Unrenderable blocks degrade wherever the schema allows (blank
// placeholders, marker blocks); only true emission failures abort,
// surfaced as *EmitError with the offending block's position.
func Emit(l layout.Layout, ctx layout.Context) ([]byte, error) {
	l = normalize(l)

	orient := "P"
	if l.Orientation == layout.OrientationLandscape {
		orient = "L"
	}

	doc := gofpdf.New(orient, "mm", string(l.PageSize), "")
	// Font and image catalogs are map-ordered unless sorted; sorting
	// keeps the output byte-stable across runs.
	doc.SetCatalogSort(true)
	doc.SetCreationDate(emitEpoch)
	doc.SetModificationDate(emitEpoch)
	doc.SetMargins(l.Margins.Left, l.Margins.Top, l.Margins.Right)
	doc.SetAutoPageBreak(true, l.Margins.Bottom+footerReserve)

	em := &emitter{
		doc:     doc,
		styles:  *l.Styles,
		margins: *l.Margins,
		lineH:   lineHeight(l.Styles.FontSize, l.Styles.LineHeight),
	}

	if l.Footer != nil && l.Footer.Enabled {
		// Resolve once up front; the callback runs per page and must
		// not consult the context again.
		text := layout.Resolve(l.Footer.Text, ctx)
		align := footerAlign(l.Footer.Align)
		size := l.Footer.FontSize
		doc.SetFooterFunc(func() {
			doc.SetFont(em.styles.FontFamily, "", size)
			doc.SetTextColor(128, 128, 128)
			doc.SetY(-footerReserve)
			w, _ := doc.GetPageSize()
			doc.CellFormat(w-em.margins.Left-em.margins.Right, 10, text, "", 0, align, false, 0, "")
			em.resetTextColor()
		})
	}

	doc.AddPage()
	doc.SetFont(em.styles.FontFamily, "", em.styles.FontSize)
	em.resetTextColor()

	for si, sec := range l.Sections {
		laid := layout.ComposeSection(sec, ctx)
		if err := em.section(laid, si); err != nil {
			return nil, err
		}
	}

	if doc.Err() {
		return nil, fmt.Errorf("pdf: %w", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (em *emitter) section(sec layout.LaidOutSection, si int) error {
	doc := em.doc
	pageW, _ := doc.GetPageSize()
	contentW := pageW - em.margins.Left - em.margins.Right

	if sec.Title != "" {
		doc.SetFont(em.styles.FontFamily, "B", em.styles.FontSize+4)
		em.setTextColor(em.styles.HeaderColor)
		doc.Ln(em.lineH * 0.4)
		doc.MultiCell(contentW, em.lineH, sec.Title, "", "L", false)
		doc.Ln(em.lineH * 0.2)
		doc.SetFont(em.styles.FontFamily, "", em.styles.FontSize)
		em.resetTextColor()
	}

	cellW := (contentW - cellGutter*float64(sec.Columns-1)) / float64(sec.Columns)

	for ri, row := range sec.Rows {
		startPage := doc.PageNo()
		startY := doc.GetY()
		lowPage, lowY := startPage, startY

		for ci, node := range row {
			doc.SetPage(startPage)
			doc.SetXY(em.margins.Left+float64(ci)*(cellW+cellGutter), startY)
			if err := em.node(node, cellW); err != nil {
				return &EmitError{Section: si, Block: ri*sec.Columns + ci, Err: err}
			}
			if p, y := doc.PageNo(), doc.GetY(); p > lowPage || (p == lowPage && y > lowY) {
				lowPage, lowY = p, y
			}
		}

		doc.SetPage(lowPage)
		doc.SetXY(em.margins.Left, lowY)
		doc.Ln(em.lineH * 0.3)
	}
	return nil
}

func (em *emitter) node(n layout.Node, w float64) error {
	doc := em.doc
	switch n.Kind {
	case layout.NodeEmpty:
		return nil

	case layout.NodeText:
		doc.MultiCell(w, em.lineH, n.Text, "", "L", false)
		return nil

	case layout.NodeMarker:
		doc.SetFont(em.styles.FontFamily, "I", em.styles.FontSize-2)
		doc.SetTextColor(160, 160, 160)
		doc.MultiCell(w, em.lineH, fmt.Sprintf("[unsupported block: %s]", n.Text), "1", "C", false)
		doc.SetFont(em.styles.FontFamily, "", em.styles.FontSize)
		em.resetTextColor()
		return nil

	case layout.NodeQRCode:
		return em.qr(n.QRValue, w)

	case layout.NodeTable:
		return em.table(n, w)

	case layout.NodeChart:
		return em.chart(n.Chart, w)

	default:
		return nil
	}
}

func (em *emitter) qr(value string, w float64) error {
	if value == "" {
		// An unresolved payload degrades to nothing, matching blank
		// placeholder substitution.
		return nil
	}
	doc := em.doc
	png, err := qrcode.Encode(value, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qrcode encode: %w", err)
	}

	em.qrSeq++
	name := fmt.Sprintf("qr-%d", em.qrSeq)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if doc.Err() {
		return fmt.Errorf("qrcode image: %w", doc.Error())
	}

	size := qrSizeMax
	if w < size {
		size = w
	}
	x, y := doc.GetX(), doc.GetY()
	// Image placement does not trigger the auto page break, so start a
	// new page when the code box would cross into the footer reserve.
	_, pageH := doc.GetPageSize()
	if y+size > pageH-em.margins.Bottom-footerReserve {
		doc.AddPage()
		x, y = em.margins.Left, doc.GetY()
	}
	doc.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	doc.SetY(y + size + 2)
	return nil
}

func (em *emitter) table(n layout.Node, w float64) error {
	doc := em.doc
	cols := len(n.Columns)
	for _, row := range n.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}
	colW := w / float64(cols)

	br, bg, bb := parseHexColor(em.styles.BorderColor)
	doc.SetDrawColor(br, bg, bb)

	if len(n.Columns) > 0 {
		hr, hg, hb := parseHexColor(em.styles.HeaderColor)
		doc.SetFillColor(hr, hg, hb)
		doc.SetTextColor(255, 255, 255)
		doc.SetFont(em.styles.FontFamily, "B", em.styles.FontSize-1)
		em.tableRow(n.Columns, len(n.Columns), colW, true)
		doc.SetFont(em.styles.FontFamily, "", em.styles.FontSize-1)
		em.resetTextColor()
	}

	for _, row := range n.Rows {
		cells := make([]string, cols)
		copy(cells, row)
		em.tableRow(cells, cols, colW, false)
	}

	doc.SetFont(em.styles.FontFamily, "", em.styles.FontSize)
	doc.SetDrawColor(0, 0, 0)
	doc.Ln(1)
	return nil
}

// tableRow draws one fixed-height row of bordered cells and moves to
// the row below. The first cell auto-breaks when it would cross the
// footer reserve; the whole row then sits at the top of the new page,
// so the next position is re-read instead of carried over from before
// the break.
func (em *emitter) tableRow(cells []string, cols int, colW float64, fill bool) {
	doc := em.doc
	x, y := doc.GetX(), doc.GetY()
	page := doc.PageNo()
	for c := 0; c < cols; c++ {
		doc.CellFormat(colW, tableRowH, cells[c], "1", 0, "L", fill, 0, "")
	}
	if doc.PageNo() != page {
		y = doc.GetY()
	}
	doc.SetXY(x, y+tableRowH)
}

func (em *emitter) setTextColor(hex string) {
	r, g, b := parseHexColor(hex)
	em.doc.SetTextColor(r, g, b)
}

func (em *emitter) resetTextColor() {
	em.setTextColor(em.styles.TextColor)
}

func normalize(l layout.Layout) layout.Layout {
	if l.Orientation == "" {
		l.Orientation = layout.OrientationPortrait
	}
	if l.PageSize == "" {
		l.PageSize = layout.PageSizeA4
	}
	if l.Margins == nil {
		l.Margins = &layout.Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
	}
	if l.Styles == nil {
		l.Styles = layout.DefaultStyles()
	}
	return l
}

// lineHeight converts a point size and line-height multiplier into the
// MultiCell row height in millimetres (1 pt = 0.3528 mm).
func lineHeight(fontSize, multiplier float64) float64 {
	if fontSize <= 0 {
		fontSize = 12
	}
	if multiplier <= 0 {
		multiplier = 1.5
	}
	return fontSize * multiplier * 0.3528
}

func footerAlign(a layout.Alignment) string {
	switch a {
	case layout.AlignLeft:
		return "L"
	case layout.AlignRight:
		return "R"
	default:
		return "C"
	}
}

// parseHexColor decodes "#rrggbb"; malformed colors fall back to black.
func parseHexColor(s string) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(s[1:3], 16, 8)
	g, err2 := strconv.ParseUint(s[3:5], 16, 8)
	b, err3 := strconv.ParseUint(s[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
