package ports

import (
	"context"

	"go.trai.ch/menucache/internal/core/domain"
)

// FetchOptions tunes one network fetch.
type FetchOptions struct {
	// NoCache asks intermediate HTTP caches to revalidate.
	NoCache bool
}

// FetchResult is a normalised menu response.
type FetchResult struct {
	Items []domain.MenuItem
	// Page and Total are copied from an envelope response; zero for bare arrays.
	Page  int
	Total int
	// Dropped counts items rejected by validation.
	Dropped int
}

// MenuFetcher retrieves the current menu from the remote API.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type MenuFetcher interface {
	// Fetch issues one request. Failures are domain.ErrNetwork,
	// domain.ErrNetworkTimeout or domain.ErrParse.
	Fetch(ctx context.Context, filter domain.Filter, opts FetchOptions) (FetchResult, error)
}
