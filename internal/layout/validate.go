package layout

import (
	"fmt"
	"strings"
)

// MaxConditionalDepth caps conditional nesting so hostile template JSON
// cannot exhaust the stack at render time.
const MaxConditionalDepth = 32

// ValidationError is one per-field schema failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every failure found in one pass. A layout
// is applied all-or-nothing: any entry here means nothing was stored.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid layout: " + strings.Join(msgs, "; ")
}

// Validate checks a layout against the schema rules and fills optional
// parts with their defaults. All failures are collected and returned
// together rather than failing on the first. Validating an
// already-valid, already-defaulted layout returns it unchanged.
//
// Validation runs at template-save time only; rendering always proceeds
// against whatever layout was last stored.
func Validate(l Layout) (Layout, error) {
	var errs ValidationErrors

	switch l.Orientation {
	case OrientationPortrait, OrientationLandscape:
	default:
		errs = append(errs, ValidationError{
			Field:   "orientation",
			Message: fmt.Sprintf("must be %q or %q", OrientationPortrait, OrientationLandscape),
		})
	}

	switch l.PageSize {
	case PageSizeA4, PageSizeA3, PageSizeLetter, PageSizeLegal:
	default:
		errs = append(errs, ValidationError{
			Field:   "page_size",
			Message: "must be one of A4, A3, Letter, Legal",
		})
	}

	if l.Margins == nil {
		errs = append(errs, ValidationError{Field: "margins", Message: "required"})
	} else {
		checkMargin(&errs, "margins.top", l.Margins.Top)
		checkMargin(&errs, "margins.right", l.Margins.Right)
		checkMargin(&errs, "margins.bottom", l.Margins.Bottom)
		checkMargin(&errs, "margins.left", l.Margins.Left)
	}

	if l.Footer != nil {
		switch l.Footer.Align {
		case AlignLeft, AlignCenter, AlignRight:
		default:
			errs = append(errs, ValidationError{
				Field:   "footer.align",
				Message: "must be left, center, or right",
			})
		}
		if l.Footer.FontSize <= 0 {
			errs = append(errs, ValidationError{
				Field:   "footer.font_size",
				Message: "must be positive",
			})
		}
	}

	for i, sec := range l.Sections {
		field := fmt.Sprintf("sections.%d", i)
		if sec.Grid.Columns < 1 || sec.Grid.Columns > 4 {
			errs = append(errs, ValidationError{
				Field:   field + ".grid.columns",
				Message: "must be between 1 and 4",
			})
		}
		for j, blk := range sec.Grid.Items {
			validateBlock(&errs, fmt.Sprintf("%s.grid.items.%d", field, j), blk, 0)
		}
	}

	if len(errs) > 0 {
		return Layout{}, errs
	}

	// Defaults for the optional parts. Applied only on success so a
	// rejected layout is never partially normalized.
	if l.Sections == nil {
		l.Sections = []Section{}
	}
	if l.Footer == nil {
		l.Footer = DefaultFooter()
	}
	if l.Styles == nil {
		l.Styles = DefaultStyles()
	}
	return l, nil
}

func checkMargin(errs *ValidationErrors, field string, v float64) {
	if v < 0 || v > 100 {
		*errs = append(*errs, ValidationError{
			Field:   field,
			Message: "must be between 0 and 100",
		})
	}
}

// validateBlock checks per-variant structure. Unknown block types pass
// validation; the renderer emits a visible marker for them.
func validateBlock(errs *ValidationErrors, field string, b Block, depth int) {
	if depth > MaxConditionalDepth {
		*errs = append(*errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("conditional nesting exceeds %d levels", MaxConditionalDepth),
		})
		return
	}

	switch b.Type {
	case BlockChart:
		if b.Chart == nil {
			return
		}
		switch b.Chart.Data.Type {
		case ChartBar, ChartLine, ChartPie:
		default:
			*errs = append(*errs, ValidationError{
				Field:   field + ".data.type",
				Message: "must be bar, line, or pie",
			})
		}
	case BlockConditional:
		if b.Conditional == nil || b.Conditional.Block == nil {
			*errs = append(*errs, ValidationError{
				Field:   field + ".block",
				Message: "conditional requires exactly one nested block",
			})
			return
		}
		validateBlock(errs, field+".block", *b.Conditional.Block, depth+1)
	}
}
