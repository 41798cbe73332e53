package domain

import "time"

// Resource names a public content collection. The value doubles as the
// URL segment under /api.
type Resource string

const (
	ResourceEvents     Resource = "eventos"
	ResourceBusinesses Resource = "comercios"
	ResourceGallery    Resource = "galeria"
	ResourceAds        Resource = "anuncios"
)

// Resources lists every content collection served by the portal.
var Resources = []Resource{ResourceEvents, ResourceBusinesses, ResourceGallery, ResourceAds}

func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

// Meta is the bookkeeping shared by every content record.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedBy string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Metadata exposes the embedded Meta so generic code can stamp records.
func (m *Meta) Metadata() *Meta { return m }

// Record is implemented by pointers to every content type.
type Record interface {
	Metadata() *Meta
	ImageKey() string
}

// Image references an object in the media bucket.
type Image struct {
	URL string `json:"url" bson:"url"`
	Key string `json:"key,omitempty" bson:"key,omitempty"`
}

// Event is a happening listed in the municipal agenda.
type Event struct {
	Meta        `bson:",inline"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Location    string     `json:"location" bson:"location"`
	StartsAt    time.Time  `json:"starts_at" bson:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
	Image       *Image     `json:"image,omitempty" bson:"image,omitempty"`
}

func (e *Event) ImageKey() string { return imageKey(e.Image) }

// Business is an entry of the commerce directory.
type Business struct {
	Meta        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Category    string `json:"category" bson:"category"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Website     string `json:"website,omitempty" bson:"website,omitempty"`
	Image       *Image `json:"image,omitempty" bson:"image,omitempty"`
}

func (b *Business) ImageKey() string { return imageKey(b.Image) }

// Photo is a gallery picture.
type Photo struct {
	Meta    `bson:",inline"`
	Title   string `json:"title" bson:"title"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
	Image   Image  `json:"image" bson:"image"`
}

func (p *Photo) ImageKey() string { return p.Image.Key }

// Ad is an advertisement banner. Only active ads inside their window are public.
type Ad struct {
	Meta     `bson:",inline"`
	Title    string     `json:"title" bson:"title"`
	LinkURL  string     `json:"link_url,omitempty" bson:"link_url,omitempty"`
	Image    Image      `json:"image" bson:"image"`
	Active   bool       `json:"active" bson:"active"`
	StartsAt *time.Time `json:"starts_at,omitempty" bson:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty" bson:"ends_at,omitempty"`
}

func (a *Ad) ImageKey() string { return a.Image.Key }

// VisibleAt reports whether the ad should be shown publicly at t.
func (a *Ad) VisibleAt(t time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartsAt != nil && t.Before(*a.StartsAt) {
		return false
	}
	if a.EndsAt != nil && t.After(*a.EndsAt) {
		return false
	}
	return true
}

func imageKey(img *Image) string {
	if img == nil {
		return ""
	}
	return img.Key
}
