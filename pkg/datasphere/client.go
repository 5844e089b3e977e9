package datasphere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
	"github.com/spheresight/datasphere-mcp/pkg/logging"
	"github.com/spheresight/datasphere-mcp/pkg/models"
)

const defaultRequestTimeout = 30 * time.Second

// ClientConfig holds everything needed to reach one Datasphere tenant.
type ClientConfig struct {
	TenantURL    string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client talks to the Datasphere catalog and relational consumption APIs
// over HTTP with an OAuth2 client-credentials token source. Safe for
// concurrent use; the underlying token source caches and refreshes tokens.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds an authenticated Datasphere client. The token source is
// lazy: no token is fetched until the first API call.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if cfg.TenantURL == "" {
		return nil, fmt.Errorf("tenant URL is required")
	}
	if cfg.TokenURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("OAuth configuration is incomplete: token URL, client id and client secret are all required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	creds := clientcredentials.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}
	httpClient := creds.Client(context.Background())
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL: strings.TrimRight(cfg.TenantURL, "/"),
		http:    httpClient,
		logger:  logger.Named("datasphere-client"),
	}, nil
}

// Ping verifies the tenant is reachable and the credentials are accepted by
// listing spaces with a minimal page.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListSpaces(ctx)
	return err
}

type catalogSpace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type catalogEnvelope[T any] struct {
	Value []T `json:"value"`
}

// ListSpaces lists all spaces visible to the technical user.
func (c *Client) ListSpaces(ctx context.Context) ([]models.Space, error) {
	body, err := c.get(ctx, "/api/v1/dwc/catalog/spaces", nil, "list spaces", "", "")
	if err != nil {
		return nil, err
	}

	var envelope catalogEnvelope[catalogSpace]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode spaces response: %w", err)
	}

	spaces := make([]models.Space, 0, len(envelope.Value))
	for _, s := range envelope.Value {
		id := s.ID
		if id == "" {
			id = s.Name
		}
		name := s.Label
		if name == "" {
			name = s.Name
		}
		spaces = append(spaces, models.Space{ID: id, Name: name, Description: s.Description})
	}
	return spaces, nil
}

type catalogAsset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ListAssets lists the assets of one space.
func (c *Client) ListAssets(ctx context.Context, spaceID string) ([]models.Asset, error) {
	path := fmt.Sprintf("/api/v1/dwc/catalog/spaces('%s')/assets", url.PathEscape(spaceID))
	body, err := c.get(ctx, path, nil, "list assets", spaceID, "")
	if err != nil {
		return nil, err
	}

	var envelope catalogEnvelope[catalogAsset]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode assets response: %w", err)
	}

	assets := make([]models.Asset, 0, len(envelope.Value))
	for _, a := range envelope.Value {
		id := a.ID
		if id == "" {
			id = a.Name
		}
		name := a.Label
		if name == "" {
			name = a.Name
		}
		assets = append(assets, models.Asset{
			ID:          id,
			Name:        name,
			SpaceID:     spaceID,
			Type:        a.Type,
			Description: a.Description,
		})
	}
	return assets, nil
}

// GetAssetMetadata fetches the catalog record for one asset and derives its
// query capability flags from the metadata URLs present in the payload.
func (c *Client) GetAssetMetadata(ctx context.Context, spaceID, assetID string) (*models.AssetMetadata, error) {
	path := fmt.Sprintf("/api/v1/dwc/catalog/spaces('%s')/assets('%s')",
		url.PathEscape(spaceID), url.PathEscape(assetID))
	body, err := c.get(ctx, path, nil, "get asset metadata", spaceID, assetID)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode asset metadata: %w", err)
	}

	meta := &models.AssetMetadata{
		SpaceID:     spaceID,
		AssetID:     assetID,
		Name:        stringField(raw, "name"),
		Label:       stringField(raw, "label"),
		Description: stringField(raw, "description"),
		Type:        stringField(raw, "type"),

		SupportsRelationalQueries: stringField(raw, "assetRelationalDataUrl") != "" ||
			stringField(raw, "assetRelationalMetadataUrl") != "",
		SupportsAnalyticalQueries: stringField(raw, "assetAnalyticalDataUrl") != "" ||
			stringField(raw, "assetAnalyticalMetadataUrl") != "",

		Raw: raw,
	}
	if meta.Name == "" {
		meta.Name = assetID
	}
	return meta, nil
}

// GetRelationalMetadata fetches the EDMX $metadata document of an asset's
// relational consumption interface.
func (c *Client) GetRelationalMetadata(ctx context.Context, spaceID, assetName string) (string, error) {
	path := fmt.Sprintf("/api/v1/dwc/consumption/relational/%s/%s/$metadata",
		url.PathEscape(spaceID), url.PathEscape(assetName))
	body, err := c.get(ctx, path, nil, "get relational metadata", spaceID, assetName)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetSample runs a bounded relational query. OData query options are passed
// through as-is; the API validates filter and order_by syntax.
func (c *Client) GetSample(ctx context.Context, spaceID, assetName string, q SampleQuery) (*models.Sample, error) {
	if q.Top <= 0 {
		q.Top = 20
	}

	params := url.Values{}
	params.Set("$top", strconv.Itoa(q.Top))
	if q.Skip > 0 {
		params.Set("$skip", strconv.Itoa(q.Skip))
	}
	if len(q.Select) > 0 {
		params.Set("$select", strings.Join(q.Select, ","))
	}
	if q.Filter != "" {
		params.Set("$filter", q.Filter)
	}
	if q.OrderBy != "" {
		params.Set("$orderby", q.OrderBy)
	}

	path := fmt.Sprintf("/api/v1/dwc/consumption/relational/%s/%s/%s",
		url.PathEscape(spaceID), url.PathEscape(assetName), url.PathEscape(assetName))
	body, err := c.get(ctx, path, params, "get sample", spaceID, assetName)
	if err != nil {
		return nil, err
	}

	columns, rows, err := decodeOrderedRows(body, q.Select)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sample for %s/%s: %w", spaceID, assetName, err)
	}

	return &models.Sample{
		Columns:   columns,
		Rows:      rows,
		Truncated: len(rows) == q.Top,
	}, nil
}

// get issues one authenticated GET and classifies failures into the
// apperrors taxonomy. op/spaceID/assetID feed error context so failures are
// explainable without log access.
func (c *Client) get(ctx context.Context, path string, params url.Values, op, spaceID, assetID string) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json, application/xml;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Datasphere request failed",
			zap.String("op", op),
			zap.String("error", logging.SanitizeError(err)))
		return nil, &apperrors.ConnectivityError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ConnectivityError{Op: op, Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &apperrors.NotFoundError{SpaceID: spaceID, AssetID: assetID}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &apperrors.InvalidQueryError{
			SpaceID: spaceID,
			AssetID: assetID,
			Detail:  logging.TruncateString(string(body), 200),
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &apperrors.ConnectivityError{
			Op:    op,
			Cause: fmt.Errorf("authentication rejected (HTTP %d)", resp.StatusCode),
		}
	default:
		return nil, &apperrors.ConnectivityError{
			Op:    op,
			Cause: fmt.Errorf("unexpected HTTP %d: %s", resp.StatusCode, logging.TruncateString(string(body), 200)),
		}
	}
}

// decodeOrderedRows turns an OData {"value":[{...}]} payload into ordered
// columns and rows. JSON objects carry no order through map decoding, so the
// first row is walked token by token to recover the column order the service
// emitted; an explicit $select list takes precedence.
func decodeOrderedRows(body []byte, selected []string) ([]string, [][]any, error) {
	var envelope struct {
		Value []json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, err
	}

	var columns []string
	if len(selected) > 0 {
		columns = append(columns, selected...)
	} else if len(envelope.Value) > 0 {
		order, err := objectKeyOrder(envelope.Value[0])
		if err != nil {
			return nil, nil, err
		}
		columns = order
	}

	rows := make([][]any, 0, len(envelope.Value))
	for _, rawRow := range envelope.Value {
		var obj map[string]any
		if err := json.Unmarshal(rawRow, &obj); err != nil {
			return nil, nil, err
		}
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = obj[col]
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

// objectKeyOrder returns the top-level keys of one JSON object in document
// order, skipping OData annotations (@odata.context and friends).
func objectKeyOrder(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("row is not a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token in row object")
		}
		if !strings.HasPrefix(key, "@") {
			keys = append(keys, key)
		}
		// Skip the value belonging to this key.
		var discard any
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
