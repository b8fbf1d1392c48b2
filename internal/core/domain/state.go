package domain

import "time"

// ConnectivityState is derived from a MenuState; it is never stored.
type ConnectivityState uint8

const (
	// Nominal means data is fresh and no refresh is pending.
	Nominal ConnectivityState = iota
	// Validating means a background refresh is in flight while cached data is shown.
	Validating
	// Offline means the last network attempt failed and cached or empty data is shown.
	Offline
)

// String returns the lowercase name of the state.
func (c ConnectivityState) String() string {
	switch c {
	case Validating:
		return "validating"
	case Offline:
		return "offline"
	default:
		return "nominal"
	}
}

// MenuState is what a view exposes to renderers.
type MenuState struct {
	// Key is the cache-key of the view's query shape.
	Key string `json:"key"`
	// Items is the displayed collection. It is empty, never nil, once a read has settled.
	Items []MenuItem `json:"items"`
	// Loading is true only while the view has never had anything to display.
	Loading bool `json:"loading"`
	// Error is a user-facing message, set only when no data could be obtained at all.
	Error string `json:"error,omitempty"`
	// IsOffline is true when the last network attempt failed.
	IsOffline bool `json:"is_offline"`
	// IsValidating is true while a background refresh is in flight.
	IsValidating bool `json:"is_validating"`
	// FetchedAt is when the displayed snapshot was obtained. Zero before any data.
	FetchedAt time.Time `json:"fetched_at,omitzero"`
	// Seq is the sequence number of the result that produced the displayed items.
	Seq uint64 `json:"-"`
}

// Connectivity derives the connectivity state.
func (s MenuState) Connectivity() ConnectivityState {
	switch {
	case s.IsOffline:
		return Offline
	case s.IsValidating:
		return Validating
	default:
		return Nominal
	}
}

// Clone returns a copy whose Items slice is not shared with s.
func (s MenuState) Clone() MenuState {
	s.Items = CloneItems(s.Items)
	return s
}
