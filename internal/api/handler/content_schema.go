package handler

import (
	"time"

	"github.com/guiatnn/portal/internal/core/domain"
)

type imageRequest struct {
	URL string `json:"url" validate:"required,url"`
	Key string `json:"key" validate:"max=512"`
}

func (r *imageRequest) toDomain() *domain.Image {
	if r == nil {
		return nil
	}
	return &domain.Image{URL: r.URL, Key: r.Key}
}

type eventRequest struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Description string        `json:"description" validate:"max=5000"`
	Location    string        `json:"location" validate:"max=300"`
	StartsAt    time.Time     `json:"starts_at" validate:"required"`
	EndsAt      *time.Time    `json:"ends_at"`
	Image       *imageRequest `json:"image" validate:"omitempty"`
}

func (r eventRequest) toDomain() domain.Event {
	return domain.Event{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt.UTC(),
		EndsAt:      utcPtr(r.EndsAt),
		Image:       r.Image.toDomain(),
	}
}

type businessRequest struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Category    string        `json:"category" validate:"required,max=100"`
	Description string        `json:"description" validate:"max=5000"`
	Address     string        `json:"address" validate:"max=300"`
	Phone       string        `json:"phone" validate:"max=40"`
	WhatsApp    string        `json:"whatsapp" validate:"max=40"`
	Website     string        `json:"website" validate:"omitempty,url"`
	Image       *imageRequest `json:"image" validate:"omitempty"`
}

func (r businessRequest) toDomain() domain.Business {
	return domain.Business{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		WhatsApp:    r.WhatsApp,
		Website:     r.Website,
		Image:       r.Image.toDomain(),
	}
}

type photoRequest struct {
	Title   string       `json:"title" validate:"required,max=200"`
	Caption string       `json:"caption" validate:"max=1000"`
	Image   imageRequest `json:"image"`
}

func (r photoRequest) toDomain() domain.Photo {
	return domain.Photo{
		Title:   r.Title,
		Caption: r.Caption,
		Image:   *r.Image.toDomain(),
	}
}

type adRequest struct {
	Title    string       `json:"title" validate:"required,max=200"`
	LinkURL  string       `json:"link_url" validate:"omitempty,url"`
	Image    imageRequest `json:"image"`
	Active   bool         `json:"active"`
	StartsAt *time.Time   `json:"starts_at"`
	EndsAt   *time.Time   `json:"ends_at"`
}

func (r adRequest) toDomain() domain.Ad {
	return domain.Ad{
		Title:    r.Title,
		LinkURL:  r.LinkURL,
		Image:    *r.Image.toDomain(),
		Active:   r.Active,
		StartsAt: utcPtr(r.StartsAt),
		EndsAt:   utcPtr(r.EndsAt),
	}
}

// checkWindow rejects a validity window that ends before it starts.
func checkWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return domain.NewValidationError("ends_at", "ends_at must not be before starts_at")
	}
	return nil
}

func (r eventRequest) check() error { return checkWindow(&r.StartsAt, r.EndsAt) }

func (r adRequest) check() error { return checkWindow(r.StartsAt, r.EndsAt) }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
