package layout

// NodeKind discriminates rendered primitives.
type NodeKind string

const (
	NodeEmpty  NodeKind = "empty"
	NodeText   NodeKind = "text"
	NodeQRCode NodeKind = "qrcode"
	NodeTable  NodeKind = "table"
	NodeChart  NodeKind = "chart"
	NodeMarker NodeKind = "marker"
)

// Node is one printable primitive produced by rendering a block: a
// resolved paragraph, a table grid, a QR payload, a chart spec, a
// visible marker for unknown block types, or nothing (empty grid cell,
// closed conditional).
type Node struct {
	Kind NodeKind

	// NodeText: resolved paragraph text. NodeMarker: the literal
	// unrecognized type name.
	Text string

	// NodeQRCode: the resolved payload to encode.
	QRValue string

	// NodeTable
	Columns []string
	Rows    [][]string

	// NodeChart
	Chart *ChartData
}

// EmptyNode occupies a grid cell without drawing anything.
func EmptyNode() Node { return Node{Kind: NodeEmpty} }

// RenderBlock renders one block against ctx, resolving placeholders in
// its textual fields. It never fails: unknown types degrade to a
// visible marker and closed conditionals to an empty node.
func RenderBlock(b Block, ctx Context) Node {
	switch b.Type {
	case BlockText:
		if b.Text == nil {
			return EmptyNode()
		}
		return Node{Kind: NodeText, Text: Resolve(b.Text.Content, ctx)}

	case BlockQRCode:
		if b.QRCode == nil {
			return EmptyNode()
		}
		return Node{Kind: NodeQRCode, QRValue: Resolve(b.QRCode.Value, ctx)}

	case BlockTable:
		if b.Table == nil {
			return EmptyNode()
		}
		rows := make([][]string, len(b.Table.Rows))
		for i, row := range b.Table.Rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = Resolve(cell, ctx)
			}
			rows[i] = cells
		}
		return Node{Kind: NodeTable, Columns: b.Table.Columns, Rows: rows}

	case BlockChart:
		if b.Chart == nil {
			return EmptyNode()
		}
		data := b.Chart.Data
		return Node{Kind: NodeChart, Chart: &data}

	case BlockConditional:
		if b.Conditional == nil || b.Conditional.Block == nil {
			return EmptyNode()
		}
		if !Truthy(Resolve(b.Conditional.Condition, ctx)) {
			return EmptyNode()
		}
		return RenderBlock(*b.Conditional.Block, ctx)

	default:
		return Node{Kind: NodeMarker, Text: string(b.Type)}
	}
}
