package domain

import "time"

// Freshness classifies a cached snapshot relative to a freshness window.
type Freshness uint8

const (
	// Absent means there is no snapshot and a fetch is required.
	Absent Freshness = iota
	// Fresh means the snapshot may be served without contacting the network.
	Fresh
	// Stale means the snapshot may be served but a background refresh must be started.
	Stale
)

// String returns the lowercase name of the classification.
func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

const (
	// AvailabilityWindow suits fast-changing data such as stock status.
	AvailabilityWindow = 30 * time.Second
	// CatalogWindow suits slow-changing catalog data.
	CatalogWindow = 5 * time.Minute
)

// Classify decides whether a snapshot obtained at fetchedAt is fresh at now.
// A zero fetchedAt means no snapshot exists. An age equal to the window is stale.
func Classify(fetchedAt time.Time, window time.Duration, now time.Time) Freshness {
	if fetchedAt.IsZero() {
		return Absent
	}
	if now.Sub(fetchedAt) < window {
		return Fresh
	}
	return Stale
}

// MarshalText encodes the classification by name.
func (f Freshness) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a classification written by MarshalText. Unknown names are Absent.
func (f *Freshness) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fresh":
		*f = Fresh
	case "stale":
		*f = Stale
	default:
		*f = Absent
	}
	return nil
}
