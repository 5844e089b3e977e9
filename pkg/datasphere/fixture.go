package datasphere

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// Fixture is an in-memory DataSource used for demos and tests. It replaces
// the real tenant when mock mode is selected at construction time, so the
// engine never consults a runtime flag. Read-only after construction and
// therefore safe for concurrent use.
type Fixture struct {
	spaces []models.Space
	assets map[string][]models.Asset
	tables map[string]*fixtureTable

	// failures maps "space/asset" to an error injected on GetSample and
	// GetRelationalMetadata. Used by tests to exercise per-asset skip
	// behavior in bounded searches.
	failures map[string]error
}

type fixtureTable struct {
	columns []string
	keys    []string
	rows    [][]any
}

// fixtureFile is the YAML schema for fixture datasets.
type fixtureFile struct {
	Spaces []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Assets      []struct {
			ID          string   `yaml:"id"`
			Name        string   `yaml:"name"`
			Type        string   `yaml:"type"`
			Description string   `yaml:"description"`
			Columns     []string `yaml:"columns"`
			Keys        []string `yaml:"keys"`
			Rows        [][]any  `yaml:"rows"`
		} `yaml:"assets"`
	} `yaml:"spaces"`
}

// NewFixtureFromYAML builds a fixture from a YAML dataset document.
func NewFixtureFromYAML(doc []byte) (*Fixture, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(doc, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture dataset: %w", err)
	}

	f := &Fixture{
		assets:   map[string][]models.Asset{},
		tables:   map[string]*fixtureTable{},
		failures: map[string]error{},
	}
	for _, space := range file.Spaces {
		f.spaces = append(f.spaces, models.Space{
			ID:          space.ID,
			Name:        space.Name,
			Description: space.Description,
		})
		for _, asset := range space.Assets {
			name := asset.Name
			if name == "" {
				name = asset.ID
			}
			f.assets[space.ID] = append(f.assets[space.ID], models.Asset{
				ID:          asset.ID,
				Name:        name,
				SpaceID:     space.ID,
				Type:        asset.Type,
				Description: asset.Description,
			})
			for _, row := range asset.Rows {
				if len(row) != len(asset.Columns) {
					return nil, fmt.Errorf("fixture asset %s/%s: row has %d values for %d columns",
						space.ID, asset.ID, len(row), len(asset.Columns))
				}
			}
			table := &fixtureTable{
				columns: asset.Columns,
				keys:    asset.Keys,
				rows:    asset.Rows,
			}
			// Indexed under both ID and name so that data fetches resolve
			// the asset the same way the catalog lookup does.
			f.tables[tableKey(space.ID, asset.ID)] = table
			f.tables[tableKey(space.ID, name)] = table
		}
	}
	return f, nil
}

// defaultFixtureYAML is the dataset served in mock mode when no fixture file
// is configured.
const defaultFixtureYAML = `
spaces:
  - id: MOCK_SALES
    name: Mock Sales
    description: Synthetic sales data for offline development.
    assets:
      - id: SALES_ORDERS
        name: SALES_ORDERS
        type: VIEW
        description: Order headers with status and amounts.
        columns: [ORDER_ID, CUSTOMER_ID, STATUS, AMOUNT, DISCOUNT_RATE]
        keys: [ORDER_ID]
        rows:
          - [1001, 1, OPEN, 250.0, 0.05]
          - [1002, 2, OPEN, 90.0, 0.0]
          - [1003, 2, CLOSED, 1480.0, 0.1]
          - [1004, 3, CLOSED, 310.0, 0.0]
          - [1005, 4, PENDING, 75.5, 0.02]
          - [1006, 5, OPEN, 220.0, 0.0]
      - id: CUSTOMERS
        name: CUSTOMERS
        type: TABLE
        description: Customer master data.
        columns: [CUSTOMER_ID, COUNTRY, SEGMENT]
        keys: [CUSTOMER_ID]
        rows:
          - [1, DE, ENTERPRISE]
          - [2, FR, SMB]
          - [3, DE, SMB]
          - [4, US, ENTERPRISE]
          - [5, JP, SMB]
  - id: MOCK_HR
    name: Mock HR
    description: Synthetic employee data for offline development.
    assets:
      - id: EMPLOYEES
        name: EMPLOYEES
        type: VIEW
        description: Employee roster with salaries.
        columns: [EMP_ID, DEPARTMENT, SALARY]
        keys: [EMP_ID]
        rows:
          - [1, SALES, 52000]
          - [2, SALES, 54000]
          - [3, ENGINEERING, 78000]
          - [4, ENGINEERING, 81000]
          - [5, FINANCE, 64000]
`

// DefaultFixture returns the built-in mock dataset.
func DefaultFixture() *Fixture {
	f, err := NewFixtureFromYAML([]byte(defaultFixtureYAML))
	if err != nil {
		// The embedded dataset is compile-time constant; a parse failure is
		// a programming error.
		panic(err)
	}
	return f
}

// WithFailure injects an error for one asset's data and metadata fetches.
func (f *Fixture) WithFailure(spaceID, assetID string, err error) *Fixture {
	f.failures[tableKey(spaceID, assetID)] = err
	return f
}

func tableKey(spaceID, assetID string) string {
	return spaceID + "/" + assetID
}

// Ping always succeeds.
func (f *Fixture) Ping(ctx context.Context) error { return nil }

// ListSpaces lists the fixture spaces in dataset order.
func (f *Fixture) ListSpaces(ctx context.Context) ([]models.Space, error) {
	return append([]models.Space(nil), f.spaces...), nil
}

// ListAssets lists a space's assets in dataset order.
func (f *Fixture) ListAssets(ctx context.Context, spaceID string) ([]models.Asset, error) {
	assets, ok := f.assets[spaceID]
	if !ok {
		return nil, &apperrors.NotFoundError{SpaceID: spaceID}
	}
	return append([]models.Asset(nil), assets...), nil
}

// GetAssetMetadata synthesizes a catalog record for a fixture asset. All
// fixture assets are relational-only.
func (f *Fixture) GetAssetMetadata(ctx context.Context, spaceID, assetID string) (*models.AssetMetadata, error) {
	asset, err := f.findAsset(spaceID, assetID)
	if err != nil {
		return nil, err
	}
	return &models.AssetMetadata{
		SpaceID:                   spaceID,
		AssetID:                   assetID,
		Name:                      asset.Name,
		Description:               asset.Description,
		Type:                      asset.Type,
		SupportsRelationalQueries: true,
	}, nil
}

// GetRelationalMetadata synthesizes an EDMX document from the fixture
// table's columns, so metadata-first flows exercise the same parse path as
// the real tenant.
func (f *Fixture) GetRelationalMetadata(ctx context.Context, spaceID, assetName string) (string, error) {
	key := tableKey(spaceID, assetName)
	if err := f.failures[key]; err != nil {
		return "", err
	}
	table, ok := f.tables[key]
	if !ok {
		return "", &apperrors.NotFoundError{SpaceID: spaceID, AssetID: assetName}
	}

	keys := map[string]bool{}
	for _, k := range table.keys {
		keys[k] = true
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<edmx:Edmx xmlns:edmx="http://docs.oasis-open.org/odata/ns/edmx"><edmx:DataServices>`)
	b.WriteString(`<Schema Namespace="Fixture" xmlns="http://docs.oasis-open.org/odata/ns/edm">`)
	fmt.Fprintf(&b, `<EntityType Name="%s">`, assetName)
	if len(table.keys) > 0 {
		b.WriteString(`<Key>`)
		for _, k := range table.keys {
			fmt.Fprintf(&b, `<PropertyRef Name="%s" />`, k)
		}
		b.WriteString(`</Key>`)
	}
	for _, col := range table.columns {
		nullable := "true"
		if keys[col] {
			nullable = "false"
		}
		fmt.Fprintf(&b, `<Property Name="%s" Type="Edm.String" Nullable="%s" />`, col, nullable)
	}
	b.WriteString(`</EntityType></Schema></edmx:DataServices></edmx:Edmx>`)
	return b.String(), nil
}

// GetSample serves a bounded slice of the fixture table. Select projects
// columns (unknown names are rejected like the real API rejects a bad
// $select); Filter and OrderBy are accepted but not evaluated, since the
// fixture exists to exercise sampling flows, not OData semantics.
func (f *Fixture) GetSample(ctx context.Context, spaceID, assetName string, q SampleQuery) (*models.Sample, error) {
	key := tableKey(spaceID, assetName)
	if err := f.failures[key]; err != nil {
		return nil, err
	}
	table, ok := f.tables[key]
	if !ok {
		return nil, &apperrors.NotFoundError{SpaceID: spaceID, AssetID: assetName}
	}

	columns := table.columns
	indices := make([]int, 0, len(columns))
	if len(q.Select) > 0 {
		columns = q.Select
		for _, sel := range q.Select {
			idx := -1
			for i, col := range table.columns {
				if col == sel {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, &apperrors.InvalidQueryError{
					SpaceID: spaceID,
					AssetID: assetName,
					Detail:  fmt.Sprintf("unknown column %q in $select", sel),
				}
			}
			indices = append(indices, idx)
		}
	}

	top := q.Top
	if top <= 0 {
		top = 20
	}
	// A negative skip is ignored, like the real client which only sends
	// $skip when positive.
	start := q.Skip
	if start < 0 {
		start = 0
	}
	if start > len(table.rows) {
		start = len(table.rows)
	}
	end := start + top
	if end > len(table.rows) {
		end = len(table.rows)
	}

	rows := make([][]any, 0, end-start)
	for _, src := range table.rows[start:end] {
		if len(indices) == 0 {
			rows = append(rows, append([]any(nil), src...))
			continue
		}
		row := make([]any, len(indices))
		for i, idx := range indices {
			row[i] = src[idx]
		}
		rows = append(rows, row)
	}

	return &models.Sample{
		Columns:   append([]string(nil), columns...),
		Rows:      rows,
		Truncated: end < len(table.rows),
	}, nil
}

func (f *Fixture) findAsset(spaceID, assetID string) (*models.Asset, error) {
	assets, ok := f.assets[spaceID]
	if !ok {
		return nil, &apperrors.NotFoundError{SpaceID: spaceID}
	}
	for i := range assets {
		if assets[i].ID == assetID || assets[i].Name == assetID {
			return &assets[i], nil
		}
	}
	return nil, &apperrors.NotFoundError{SpaceID: spaceID, AssetID: assetID}
}
