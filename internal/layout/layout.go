// Package layout defines the JSON document layout schema used by clinic
// document templates, and the pure transformations over it: placeholder
// resolution, block rendering, grid composition, and structural
// validation. The package has no rendering backend of its own; the
// output of RenderBlock/ComposeSection is a tree of printable
// primitives that internal/platform/pdf turns into PDF bytes.
package layout

// Orientation is the page orientation of a document.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// PageSize is the named paper size of a document.
type PageSize string

const (
	PageSizeA4     PageSize = "A4"
	PageSizeA3     PageSize = "A3"
	PageSizeLetter PageSize = "Letter"
	PageSizeLegal  PageSize = "Legal"
)

// Alignment positions footer text horizontally.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Layout is the structural root of a template: page setup, ordered
// sections, footer, and document-wide styles. An optional MockSchema
// carries sample data used only for previews.
type Layout struct {
	Orientation Orientation `json:"orientation"`
	PageSize    PageSize    `json:"page_size"`
	Margins     *Margins    `json:"margins"`
	Sections    []Section   `json:"sections"`
	Footer      *Footer     `json:"footer,omitempty"`
	Styles      *Styles     `json:"styles,omitempty"`
	MockSchema  *MockSchema `json:"mock_schema,omitempty"`
}

// Margins are page margins in millimetres. All four sides must be in
// the range [0,100].
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Section owns an ordered sequence of blocks arranged in a column grid.
// Item order is render order.
type Section struct {
	Title string `json:"title,omitempty"`
	Grid  Grid   `json:"grid"`
}

// Grid wraps blocks into rows of Columns width (1-4).
type Grid struct {
	Columns int     `json:"columns"`
	Items   []Block `json:"items"`
}

// Footer is rendered on every page when enabled. Text may embed
// placeholders, commonly {{now}}.
type Footer struct {
	Text     string    `json:"text"`
	Enabled  bool      `json:"enabled"`
	Align    Alignment `json:"align"`
	FontSize float64   `json:"font_size"`
}

// Styles holds document-wide typography and colors. Colors are
// "#rrggbb" hex strings.
type Styles struct {
	FontFamily  string  `json:"font_family"`
	FontSize    float64 `json:"font_size"`
	LineHeight  float64 `json:"line_height"`
	HeaderColor string  `json:"header_color"`
	TextColor   string  `json:"text_color"`
	BorderColor string  `json:"border_color"`
}

// MockSchema is a sample context attached to a template for preview
// rendering. It never participates in real renders.
type MockSchema struct {
	Model  string                 `json:"model,omitempty"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// DefaultFooter is applied when a layout omits its footer.
func DefaultFooter() *Footer {
	return &Footer{
		Text:     "Generated on {{now}}",
		Enabled:  true,
		Align:    AlignCenter,
		FontSize: 10,
	}
}

// DefaultStyles is applied when a layout omits its styles.
func DefaultStyles() *Styles {
	return &Styles{
		FontFamily:  "Helvetica",
		FontSize:    12,
		LineHeight:  1.5,
		HeaderColor: "#1f2937",
		TextColor:   "#111111",
		BorderColor: "#d1d5db",
	}
}

// Empty returns the minimal layout used when a template has no stored
// layout and no registered default: portrait A4 with standard margins
// and no sections.
func Empty() Layout {
	return Layout{
		Orientation: OrientationPortrait,
		PageSize:    PageSizeA4,
		Margins:     &Margins{Top: 15, Right: 15, Bottom: 15, Left: 15},
		Sections:    []Section{},
		Footer:      DefaultFooter(),
		Styles:      DefaultStyles(),
	}
}

// IsZero reports whether the layout carries no structure at all, i.e.
// the template has no stored layout and resolution should fall back.
func (l Layout) IsZero() bool {
	return l.Orientation == "" && l.PageSize == "" && l.Margins == nil &&
		len(l.Sections) == 0 && l.Footer == nil && l.Styles == nil
}
