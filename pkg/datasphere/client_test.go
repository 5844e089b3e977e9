package datasphere

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spheresight/datasphere-mcp/pkg/apperrors"
)

// newTestClient points a Client at a stub tenant. The token endpoint lives on
// the same test server; the stub accepts any client credentials.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)) //nolint:errcheck
	})
	mux.HandleFunc("/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		TenantURL:    server.URL,
		TokenURL:     server.URL + "/oauth/token",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresConfiguration(t *testing.T) {
	_, err := NewClient(ClientConfig{}, nil)
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{TenantURL: "https://tenant.example"}, nil)
	assert.Error(t, err)
}

func TestClient_ListSpaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dwc/catalog/spaces", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"value":[{"name":"SALES","label":"Sales Space"},{"name":"HR"}]}`)) //nolint:errcheck
	})

	spaces, err := client.ListSpaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "SALES", spaces[0].ID)
	assert.Equal(t, "Sales Space", spaces[0].Name)
	assert.Equal(t, "HR", spaces[1].Name)
}

func TestClient_GetSample_PreservesColumnOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dwc/consumption/relational/SALES/ORDERS/ORDERS", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("$top"))
		// Deliberately non-alphabetical key order plus an OData annotation.
		w.Write([]byte(`{"value":[
			{"@odata.etag":"x","ZULU":1,"ALPHA":"a","MIKE":true},
			{"@odata.etag":"y","ZULU":2,"ALPHA":"b","MIKE":false}
		]}`)) //nolint:errcheck
	})

	sample, err := client.GetSample(context.Background(), "SALES", "ORDERS", SampleQuery{Top: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"ZULU", "ALPHA", "MIKE"}, sample.Columns)
	require.Len(t, sample.Rows, 2)
	assert.Equal(t, []any{float64(1), "a", true}, sample.Rows[0])
	assert.False(t, sample.Truncated)
}

func TestClient_GetSample_SelectOrderWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ALPHA,ZULU", r.URL.Query().Get("$select"))
		w.Write([]byte(`{"value":[{"ZULU":1,"ALPHA":"a"}]}`)) //nolint:errcheck
	})

	sample, err := client.GetSample(context.Background(), "SALES", "ORDERS", SampleQuery{
		Top:    5,
		Select: []string{"ALPHA", "ZULU"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ALPHA", "ZULU"}, sample.Columns)
	assert.Equal(t, []any{"a", float64(1)}, sample.Rows[0])
}

func TestClient_GetSample_TruncatedWhenPageFull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":[{"A":1},{"A":2}]}`)) //nolint:errcheck
	})

	sample, err := client.GetSample(context.Background(), "SALES", "ORDERS", SampleQuery{Top: 2})
	require.NoError(t, err)
	assert.True(t, sample.Truncated)
}

func TestClient_GetSample_QueryPassthrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "STATUS eq 'OPEN'", r.URL.Query().Get("$filter"))
		assert.Equal(t, "AMOUNT desc", r.URL.Query().Get("$orderby"))
		assert.Equal(t, "10", r.URL.Query().Get("$skip"))
		w.Write([]byte(`{"value":[]}`)) //nolint:errcheck
	})

	_, err := client.GetSample(context.Background(), "SALES", "ORDERS", SampleQuery{
		Top:     5,
		Skip:    10,
		Filter:  "STATUS eq 'OPEN'",
		OrderBy: "AMOUNT desc",
	})
	require.NoError(t, err)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"404 is not found", http.StatusNotFound, apperrors.ErrNotFound},
		{"400 is invalid query", http.StatusBadRequest, apperrors.ErrInvalidQuery},
		{"401 is connectivity", http.StatusUnauthorized, apperrors.ErrConnectivity},
		{"403 is connectivity", http.StatusForbidden, apperrors.ErrConnectivity},
		{"500 is connectivity", http.StatusInternalServerError, apperrors.ErrConnectivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := client.ListAssets(context.Background(), "SALES")
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestClient_GetRelationalMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dwc/consumption/relational/SALES/ORDERS/$metadata", r.URL.Path)
		w.Write([]byte(salesOrdersEDMX)) //nolint:errcheck
	})

	doc, err := client.GetRelationalMetadata(context.Background(), "SALES", "ORDERS")
	require.NoError(t, err)

	columns, err := ParseRelationalMetadata(doc)
	require.NoError(t, err)
	assert.Len(t, columns, 3)
}

func TestObjectKeyOrder(t *testing.T) {
	keys, err := objectKeyOrder([]byte(`{"b":{"nested":1},"a":[1,2],"@odata.context":"x","c":null}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, keys)

	_, err = objectKeyOrder([]byte(`[1,2]`))
	assert.Error(t, err)
}
