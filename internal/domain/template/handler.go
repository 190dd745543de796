package template

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careprint/careprint/internal/layout"
	"github.com/careprint/careprint/internal/platform/pdf"
	"github.com/careprint/careprint/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/templates", h.List)
	api.POST("/templates", h.Create)
	api.GET("/templates/code/:code", h.GetByCode)
	api.GET("/templates/:id", h.Get)
	api.PUT("/templates/:id", h.Update)
	api.DELETE("/templates/:id", h.Delete)
	api.GET("/templates/:id/layout", h.GetLayout)
	api.POST("/templates/:id/render", h.Render)
	api.GET("/templates/:id/preview", h.Preview)
	api.GET("/templates/:id/export", h.Export)
	api.POST("/templates/import", h.Import)
}

// layoutError maps validation failures to a structured 400 body so the
// editor can highlight each offending field.
func layoutError(err error) error {
	var verrs layout.ValidationErrors
	if errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "layout validation failed",
			"errors":  verrs,
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// emitError maps a render abort to a 422 carrying the failing section
// and block indices.
func emitError(err error) error {
	var ee *pdf.EmitError
	if errors.As(err, &ee) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"message": ee.Error(),
			"section": ee.Section,
			"block":   ee.Block,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var t Template
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.Active = true
	if err := h.svc.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return layoutError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) GetByCode(c echo.Context) error {
	t, err := h.svc.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.List(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := pagination.NewResponse(items, total, pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL.Path, total)
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	}
	// Bind over the stored record so fields the body omits keep their
	// current values.
	if err := c.Bind(t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	if err := h.svc.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "template not found")
		}
		return layoutError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "template not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLayout returns the effective layout after default fallback, which
// may differ from the stored record for templates created layout-less.
func (h *Handler) GetLayout(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	}
	return c.JSON(http.StatusOK, h.svc.ResolveLayout(t))
}

func (h *Handler) Render(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	renderCtx := layout.Context{}
	if err := c.Bind(&renderCtx); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doc, err := h.svc.Render(c.Request().Context(), id, renderCtx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "template not found")
		}
		return emitError(err)
	}
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) Preview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.Preview(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "template not found")
		}
		return emitError(err)
	}
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) Export(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	exp, err := h.svc.Export(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "template not found")
	}
	return c.JSON(http.StatusOK, exp)
}

func (h *Handler) Import(c echo.Context) error {
	var exp Export
	if err := c.Bind(&exp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.Import(c.Request().Context(), &exp, c.QueryParam("code"))
	if err != nil {
		if errors.Is(err, ErrCodeTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return layoutError(err)
	}
	return c.JSON(http.StatusCreated, t)
}
