package layout

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the block union.
type BlockType string

const (
	BlockText        BlockType = "text"
	BlockQRCode      BlockType = "qrcode"
	BlockTable       BlockType = "table"
	BlockChart       BlockType = "chart"
	BlockConditional BlockType = "conditional"
)

// ChartKind is the plot style of a chart block.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// Block is one renderable unit within a section grid. Exactly one of
// the variant pointers matching Type is set. Unrecognized types survive
// deserialization with only Type populated and render as a visible
// marker rather than failing the document.
type Block struct {
	Type BlockType

	Text        *TextBlock
	QRCode      *QRCodeBlock
	Table       *TableBlock
	Chart       *ChartBlock
	Conditional *ConditionalBlock
}

// TextBlock emits a styled paragraph. Content may embed placeholders.
type TextBlock struct {
	Content string `json:"content"`
}

// QRCodeBlock emits a scannable code encoding the resolved value.
type QRCodeBlock struct {
	Value string `json:"value"`
}

// TableBlock emits a header row followed by data rows. Cells may embed
// placeholders and are resolved independently.
type TableBlock struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChartBlock plots numeric values in array order. Values are never
// placeholder-resolved.
type ChartBlock struct {
	Data ChartData `json:"data"`
}

// ChartData carries the plot style and series of a chart block.
type ChartData struct {
	Type   ChartKind `json:"type"`
	Values []float64 `json:"values"`
}

// ConditionalBlock wraps exactly one nested block, rendered only when
// the condition resolves truthy. The nesting forms a tree: a nested
// block never references an ancestor, so recursion is bounded by
// construction (and additionally capped by the validator).
type ConditionalBlock struct {
	Condition string `json:"condition"`
	Block     *Block `json:"block"`
}

// blockEnvelope is the flat wire form of a block. The discriminator
// lives beside the variant fields, matching the stored template JSON.
type blockEnvelope struct {
	Type BlockType `json:"type"`

	// text
	Content *string `json:"content,omitempty"`
	// qrcode
	Value *string `json:"value,omitempty"`
	// table
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	// chart
	Data *ChartData `json:"data,omitempty"`
	// conditional
	Condition *string          `json:"condition,omitempty"`
	Block     *json.RawMessage `json:"block,omitempty"`
}

// UnmarshalJSON decodes the flat wire form into the closed union. This
// is the single defensive boundary for untrusted template JSON: an
// unrecognized type yields a Block carrying only the type name.
func (b *Block) UnmarshalJSON(data []byte) error {
	var env blockEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	*b = Block{Type: env.Type}
	switch env.Type {
	case BlockText:
		tb := &TextBlock{}
		if env.Content != nil {
			tb.Content = *env.Content
		}
		b.Text = tb
	case BlockQRCode:
		qb := &QRCodeBlock{}
		if env.Value != nil {
			qb.Value = *env.Value
		}
		b.QRCode = qb
	case BlockTable:
		b.Table = &TableBlock{Columns: env.Columns, Rows: env.Rows}
	case BlockChart:
		cb := &ChartBlock{}
		if env.Data != nil {
			cb.Data = *env.Data
		}
		b.Chart = cb
	case BlockConditional:
		cond := &ConditionalBlock{}
		if env.Condition != nil {
			cond.Condition = *env.Condition
		}
		if env.Block != nil {
			var nested Block
			if err := json.Unmarshal(*env.Block, &nested); err != nil {
				return fmt.Errorf("decode conditional child: %w", err)
			}
			cond.Block = &nested
		}
		b.Conditional = cond
	default:
		// Unknown type: keep the name so the renderer can emit a
		// visible marker instead of dropping content silently.
	}
	return nil
}

// MarshalJSON re-emits the flat wire form.
func (b Block) MarshalJSON() ([]byte, error) {
	env := blockEnvelope{Type: b.Type}
	switch b.Type {
	case BlockText:
		if b.Text != nil {
			env.Content = &b.Text.Content
		}
	case BlockQRCode:
		if b.QRCode != nil {
			env.Value = &b.QRCode.Value
		}
	case BlockTable:
		if b.Table != nil {
			env.Columns = b.Table.Columns
			env.Rows = b.Table.Rows
		}
	case BlockChart:
		if b.Chart != nil {
			env.Data = &b.Chart.Data
		}
	case BlockConditional:
		if b.Conditional != nil {
			env.Condition = &b.Conditional.Condition
			if b.Conditional.Block != nil {
				raw, err := json.Marshal(*b.Conditional.Block)
				if err != nil {
					return nil, err
				}
				msg := json.RawMessage(raw)
				env.Block = &msg
			}
		}
	}
	return json.Marshal(env)
}
