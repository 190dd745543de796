// Package template is the document-template domain: the persisted
// Template record, its repository, and the service operations built on
// the layout engine (validate, resolve, render, preview, export and
// import). Tenancy is ambient: every repository call runs against the
// tenant schema selected by the request's database connection.
package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/careprint/careprint/internal/layout"
)

// Template maps to the document_template table. Code is unique within
// a tenant schema. Layout is stored as jsonb and is the single
// structural root; Version is an opaque free-form string. Templates are
// soft-deleted, never hard-purged.
type Template struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Code      string        `db:"code" json:"code"`
	Name      string        `db:"name" json:"name"`
	Version   string        `db:"version" json:"version"`
	Active    bool          `db:"active" json:"active"`
	Layout    layout.Layout `db:"layout" json:"layout"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Export is the portable interchange form of a template: exactly the
// identifying fields and the layout, plus export metadata. Importing an
// Export into a new template deep-copies the layout; the new template
// may carry a different code.
type Export struct {
	Name       string        `json:"name"`
	Code       string        `json:"code"`
	Version    string        `json:"version"`
	Layout     layout.Layout `json:"layout"`
	ExportedAt time.Time     `json:"exported_at"`
	Format     int           `json:"format"`
}

// ExportFormat versions the interchange shape.
const ExportFormat = 1

// SampleContext materializes a layout's mock schema into a render
// context for preview. The mock fields are used as-is; nothing outside
// preview ever reads them.
func SampleContext(l layout.Layout) layout.Context {
	ctx := layout.Context{}
	if l.MockSchema == nil {
		return ctx
	}
	for k, v := range l.MockSchema.Fields {
		ctx[k] = v
	}
	return ctx
}
