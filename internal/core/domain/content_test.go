package domain

import (
	"testing"
	"time"
)

func TestAd_VisibleAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name string
		ad   Ad
		want bool
	}{
		{"inactive", Ad{Active: false}, false},
		{"active without window", Ad{Active: true}, true},
		{"not started", Ad{Active: true, StartsAt: &after}, false},
		{"expired", Ad{Active: true, EndsAt: &before}, false},
		{"inside window", Ad{Active: true, StartsAt: &before, EndsAt: &after}, true},
	}

	for _, tc := range cases {
		if got := tc.ad.VisibleAt(now); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestRecord_ImageKey(t *testing.T) {
	var r Record = &Event{}
	if r.ImageKey() != "" {
		t.Fatalf("expected empty key for event without image")
	}

	r = &Photo{Image: Image{URL: "https://cdn/x.png", Key: "galeria/x.png"}}
	if r.ImageKey() != "galeria/x.png" {
		t.Fatalf("unexpected key: %q", r.ImageKey())
	}

	b := &Business{}
	b.Metadata().ID = "b1"
	if b.ID != "b1" {
		t.Fatalf("Metadata must point at the embedded Meta")
	}
}

func TestResource_Valid(t *testing.T) {
	for _, r := range Resources {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Resource("noticias").Valid() {
		t.Errorf("unknown resource must be invalid")
	}
}
