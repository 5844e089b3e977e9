// Package models holds the value objects exchanged between the Datasphere
// client, the profiling engine and the MCP tools. All types are
// request-scoped: constructed per call, never cached, never mutated after
// construction.
package models

// Space is a logical grouping of assets in the Datasphere catalog.
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Asset is an individual queryable dataset within a space.
type Asset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SpaceID     string `json:"space_id"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Column describes one column of an asset as reported by relational
// $metadata. Type, Nullable and IsKey are unknown (nil / false) when the
// column was inferred from a data sample instead.
type Column struct {
	Name     string  `json:"name"`
	Type     *string `json:"type"`
	Nullable *bool   `json:"nullable"`
	IsKey    bool    `json:"is_key"`
}

// AssetMetadata is the catalog record for a single asset, including the
// capability flags derived from its metadata URLs.
type AssetMetadata struct {
	SpaceID     string `json:"space_id"`
	AssetID     string `json:"asset_id"`
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`

	SupportsRelationalQueries bool `json:"supports_relational_queries"`
	SupportsAnalyticalQueries bool `json:"supports_analytical_queries"`

	// Raw preserves the unmodified catalog payload for advanced callers.
	Raw map[string]any `json:"raw,omitempty"`
}
