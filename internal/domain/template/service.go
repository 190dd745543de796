package template

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careprint/careprint/internal/layout"
	"github.com/careprint/careprint/internal/platform/db"
	"github.com/careprint/careprint/internal/platform/pdf"
)

// RenderCache stores emitted documents keyed on the full render
// identity. Misses and backend failures are equivalent: rendering
// proceeds and the result is re-stored best-effort.
type RenderCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, doc []byte)
}

// templateInvalidator is implemented by cache backends that can drop
// every cached render of a template. Invalidation is best-effort; a
// backend without it simply lets stale entries expire on TTL.
type templateInvalidator interface {
	InvalidateTemplate(ctx context.Context, tenant, code string)
}

type Service struct {
	repo     Repository
	defaults *DefaultLayouts
	cache    RenderCache // nil when no cache backend is configured
	now      func() time.Time
}

func NewService(repo Repository, defaults *DefaultLayouts) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		now:      time.Now,
	}
}

// WithCache attaches a render cache. Keys carry the tenant, template
// code and version, and the context digest, so one entry can never
// serve a different context or tenant.
func (s *Service) WithCache(c RenderCache) *Service {
	s.cache = c
	return s
}

// Create validates and stores a new template. A template supplied
// without a layout is seeded from the default layout registered for its
// code, if one exists; the copy happens once, at creation -- later edits
// to the default file never touch existing templates. A template may
// also be created with no layout at all, in which case resolution falls
// back at read time.
func (s *Service) Create(ctx context.Context, t *Template) error {
	if t.Code == "" {
		return fmt.Errorf("code is required")
	}
	if !codePattern.MatchString(t.Code) {
		return fmt.Errorf("invalid code %q: lowercase letters, digits, - and _ only", t.Code)
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}

	if t.Layout.IsZero() {
		if def, ok := s.defaults.Lookup(t.Code); ok {
			t.Layout = def
		}
	}
	if !t.Layout.IsZero() {
		validated, err := layout.Validate(t.Layout)
		if err != nil {
			return err
		}
		t.Layout = validated
	}

	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Template, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Template, int, error) {
	return s.repo.List(ctx, activeOnly, limit, offset)
}

// Update validates and replaces a template's mutable fields. Layout
// replacement is all-or-nothing; concurrent edits are last-write-wins.
func (s *Service) Update(ctx context.Context, t *Template) error {
	if !t.Layout.IsZero() {
		validated, err := layout.Validate(t.Layout)
		if err != nil {
			return err
		}
		t.Layout = validated
	}
	// Code never changes on update; recover it from the store when the
	// request body omitted it so invalidation targets the right keys.
	if t.Code == "" {
		if stored, err := s.repo.GetByID(ctx, t.ID); err == nil {
			t.Code = stored.Code
		}
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, t.Code)
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, t.Code)
	return nil
}

// invalidate drops cached renders for a template after it changes, when
// the cache backend supports it.
func (s *Service) invalidate(ctx context.Context, code string) {
	if inv, ok := s.cache.(templateInvalidator); ok {
		inv.InvalidateTemplate(ctx, db.TenantFromContext(ctx), code)
	}
}

// ResolveLayout returns a template's effective layout: the stored one
// when present, else the registered default for its code, else the
// minimal empty layout. This is the single fallback rule, shared by
// rendering, preview, and the layout endpoint.
func (s *Service) ResolveLayout(t *Template) layout.Layout {
	if !t.Layout.IsZero() {
		return t.Layout
	}
	if def, ok := s.defaults.Lookup(t.Code); ok {
		return def
	}
	return layout.Empty()
}

// Render emits a template against a caller-supplied context. The
// engine reads no clocks: values like {{now}} appear only if the
// caller put them in the context.
func (s *Service) Render(ctx context.Context, id uuid.UUID, renderCtx layout.Context) ([]byte, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l := s.ResolveLayout(t)

	var key string
	if s.cache != nil {
		key = renderKey(db.TenantFromContext(ctx), t.Code, t.Version, renderCtx)
		if doc, ok := s.cache.Get(ctx, key); ok {
			return doc, nil
		}
	}

	doc, err := pdf.Emit(l, renderCtx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, doc)
	}
	return doc, nil
}

// Preview renders a template against the sample context carried in its
// layout's mock schema. Preview output is never cached and never mixes
// with real renders.
func (s *Service) Preview(ctx context.Context, id uuid.UUID) ([]byte, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l := s.ResolveLayout(t)

	sample := SampleContext(l)
	if _, ok := sample["now"]; !ok {
		sample["now"] = s.now().Format("2006-01-02 15:04")
	}
	if _, ok := sample["uuid"]; !ok {
		sample["uuid"] = uuid.New().String()
	}

	return pdf.Emit(l, sample)
}

// Export serializes a template to its interchange form.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (*Export, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Export{
		Name:       t.Name,
		Code:       t.Code,
		Version:    t.Version,
		Layout:     t.Layout,
		ExportedAt: s.now().UTC(),
		Format:     ExportFormat,
	}, nil
}

// Import creates a new template from an exported document. When
// newCode is non-empty it overrides the exported code, allowing the
// same layout to exist under several codes. The layout round-trips
// structurally unchanged.
func (s *Service) Import(ctx context.Context, exp *Export, newCode string) (*Template, error) {
	if exp == nil {
		return nil, fmt.Errorf("export document is required")
	}
	code := exp.Code
	if newCode != "" {
		code = newCode
	}
	t := &Template{
		Code:    code,
		Name:    exp.Name,
		Version: exp.Version,
		Active:  true,
		Layout:  exp.Layout,
	}
	if err := s.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// renderKey digests the render identity. Context marshalling sorts map
// keys, so equal contexts always digest equally.
func renderKey(tenant, code, version string, renderCtx layout.Context) string {
	raw, err := json.Marshal(renderCtx)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", renderCtx))
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("render:%s:%s:%s:%s", tenant, code, version, hex.EncodeToString(sum[:]))
}
