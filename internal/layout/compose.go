package layout

// LaidOutSection is a section after grid composition: rendered nodes
// wrapped into rows of the grid's column width, in original item order.
type LaidOutSection struct {
	Title   string
	Columns int
	Rows    [][]Node
}

// ComposeSection arranges a section's blocks into column rows. Blocks
// are consumed in item order; the last row is padded with empty cells.
// Rendering of each item goes through RenderBlock; the composer itself
// resolves nothing, it only arranges.
func ComposeSection(s Section, ctx Context) LaidOutSection {
	cols := s.Grid.Columns
	if cols < 1 {
		cols = 1
	}
	if cols > 4 {
		cols = 4
	}

	out := LaidOutSection{Title: s.Title, Columns: cols}
	var row []Node
	for _, item := range s.Grid.Items {
		row = append(row, RenderBlock(item, ctx))
		if len(row) == cols {
			out.Rows = append(out.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < cols {
			row = append(row, EmptyNode())
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
