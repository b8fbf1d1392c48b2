package ports

import (
	"context"

	"go.trai.ch/menucache/internal/core/domain"
)

// ChangeFeed is the realtime push source of menu changes.
//
//go:generate mockgen -source=feed.go -destination=mocks/mock_feed.go -package=mocks
type ChangeFeed interface {
	// Subscribe returns once the subscription is confirmed.
	// The channel delivers events in the order the source sent them and is
	// closed when the subscription drops or ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
