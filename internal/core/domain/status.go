package domain

import "time"

// CacheStatus summarises the cache tiers and upstream endpoints.
type CacheStatus struct {
	CacheDir    string `json:"cache_dir"`
	APIURL      string `json:"api_url"`
	FeedAddress string `json:"feed_address,omitempty"`
	FeedTable   string `json:"feed_table,omitempty"`
	// StoreAvailable is false when the persistent tier cannot be opened.
	StoreAvailable bool          `json:"store_available"`
	HasSnapshot    bool          `json:"has_snapshot"`
	Items          int           `json:"items"`
	Categories     int           `json:"categories"`
	Age            time.Duration `json:"age_ns,omitempty"`
	Freshness      Freshness     `json:"freshness"`
	Window         time.Duration `json:"window_ns"`
}
