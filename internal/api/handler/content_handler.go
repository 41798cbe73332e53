package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/api/metrics"
	"github.com/guiatnn/portal/internal/api/middleware"
	"github.com/guiatnn/portal/internal/core/domain"
	"github.com/guiatnn/portal/internal/core/ports"
)

// payload is a validated request body that converts to a content record.
type payload[T any] interface {
	toDomain() T
}

// checker is implemented by payloads with cross-field rules.
type checker interface {
	check() error
}

// ContentHandler serves the CRUD endpoints of one content collection.
type ContentHandler[T any, R payload[T]] struct {
	resource domain.Resource
	svc      ports.ContentService[T]
}

func NewContentHandler[T any, R payload[T]](resource domain.Resource, svc ports.ContentService[T]) *ContentHandler[T, R] {
	return &ContentHandler[T, R]{resource: resource, svc: svc}
}

func NewEventHandler(svc ports.ContentService[domain.Event]) *ContentHandler[domain.Event, eventRequest] {
	return NewContentHandler[domain.Event, eventRequest](domain.ResourceEvents, svc)
}

func NewBusinessHandler(svc ports.ContentService[domain.Business]) *ContentHandler[domain.Business, businessRequest] {
	return NewContentHandler[domain.Business, businessRequest](domain.ResourceBusinesses, svc)
}

func NewPhotoHandler(svc ports.ContentService[domain.Photo]) *ContentHandler[domain.Photo, photoRequest] {
	return NewContentHandler[domain.Photo, photoRequest](domain.ResourceGallery, svc)
}

func NewAdHandler(svc ports.ContentService[domain.Ad]) *ContentHandler[domain.Ad, adRequest] {
	return NewContentHandler[domain.Ad, adRequest](domain.ResourceAds, svc)
}

type listQuery struct {
	Page  int    `query:"page" validate:"gte=0,lte=100000"`
	Limit int    `query:"limit" validate:"gte=0"`
	Query string `query:"q" validate:"max=100"`
}

type listResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// List returns a page of records. Anonymous callers only see publicly visible ones.
func (h *ContentHandler[T, R]) List(c echo.Context) error {
	var q listQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	_, authenticated := middleware.ClaimsFrom(c)
	page, err := h.svc.List(c.Request().Context(), ports.ListFilter{
		Page:       q.Page,
		Limit:      q.Limit,
		Search:     q.Query,
		PublicOnly: !authenticated,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse[T]{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

func (h *ContentHandler[T, R]) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ContentHandler[T, R]) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	item, err := h.decode(c)
	if err != nil {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), actor, item)
	if err != nil {
		return err
	}
	metrics.ContentWritesTotal.WithLabelValues(string(h.resource), domain.AuditCreate).Inc()
	return c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler[T, R]) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	item, err := h.decode(c)
	if err != nil {
		return err
	}

	updated, err := h.svc.Update(c.Request().Context(), actor, c.Param("id"), item)
	if err != nil {
		return err
	}
	metrics.ContentWritesTotal.WithLabelValues(string(h.resource), domain.AuditUpdate).Inc()
	return c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler[T, R]) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	metrics.ContentWritesTotal.WithLabelValues(string(h.resource), domain.AuditDelete).Inc()
	return c.NoContent(http.StatusNoContent)
}

// Register mounts the collection under g: reads are public, writes need a session.
func (h *ContentHandler[T, R]) Register(g *echo.Group, write ...echo.MiddlewareFunc) {
	base := "/" + string(h.resource)
	g.GET(base, h.List)
	g.GET(base+"/:id", h.Get)
	g.POST(base, h.Create, write...)
	g.PUT(base+"/:id", h.Update, write...)
	g.DELETE(base+"/:id", h.Delete, write...)
}

func (h *ContentHandler[T, R]) decode(c echo.Context) (*T, error) {
	var req R
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	if ck, ok := any(req).(checker); ok {
		if err := ck.check(); err != nil {
			return nil, err
		}
	}
	item := req.toDomain()
	return &item, nil
}
