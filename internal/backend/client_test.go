package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/model"
)

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient("", "")
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewClient("ftp://example.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	c, err := NewClient("https://example.com/", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", c.baseURL)
}

func TestGetManufacturers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/manufacturers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Acme Co"},
			{"id": 2, "name": "Globex"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-token")
	require.NoError(t, err)

	manufacturers, err := c.GetManufacturers(context.Background())
	require.NoError(t, err)
	require.Len(t, manufacturers, 2)
	assert.Equal(t, model.Manufacturer{ID: 1, Name: "Acme Co"}, manufacturers[0])
}

func TestGetSeriesSendsManufacturerFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/series", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("manufacturer_id"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 10, "name": "Pro Line", "manufacturer_id": 7},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	series, err := c.GetSeries(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, model.Series{ID: 10, Name: "Pro Line", ManufacturerID: 7}, series[0])
}

func TestGetItemsFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 100, "name": "Widget", "sku": "W-100", "series_id": 10},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	items, err := c.GetItems(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "series_id=10", gotQuery)
	require.Len(t, items, 1)
	assert.Equal(t, model.CatalogItem{ID: 100, Name: "Widget", SKU: "W-100", SeriesID: 10}, items[0])

	_, err = c.GetItemsForManufacturer(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "manufacturer_id=7", gotQuery)
}

func TestFetchArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/export/xlsx", r.URL.Path)

		var req struct {
			ListingType string  `json:"listing_type"`
			ItemIDs     []int64 `json:"item_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int64{1, 2, 3}, req.ItemIDs)
		assert.Equal(t, "single-row", req.ListingType)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set(HeaderSignature, "abc123")
		w.Header().Set(HeaderTemplateVersion, "v2")
		_, _ = w.Write([]byte("workbook bytes"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	artifact, err := c.FetchArtifact(context.Background(), model.FormatXLSX, []int64{1, 2, 3}, model.ListingTypeSingleRow)
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook bytes"), artifact.Bytes)
	assert.Equal(t, "abc123", artifact.Signature)
	assert.Equal(t, "v2", artifact.TemplateVersion)
	assert.Contains(t, artifact.ContentType, "spreadsheetml")
}

func TestFetchArtifactRejectsUnknownFormatBeforeRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.FetchArtifact(context.Background(), model.ExportFormat("pdf"), []int64{1}, model.ListingTypeSingleRow)
	assert.ErrorIs(t, err, common.ErrUnknownFormat)

	_, err = c.FetchArtifact(context.Background(), model.FormatXLSX, nil, model.ListingTypeSingleRow)
	assert.ErrorIs(t, err, common.ErrNoSelection)

	assert.Zero(t, requests)
}

func TestFetchArtifactRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.FetchArtifact(context.Background(), model.FormatCSV, []int64{1}, model.ListingTypeSingleRow)
	assert.ErrorIs(t, err, common.ErrBackendRateLimit)
	assert.True(t, common.IsRetryable(err))
}

func TestFetchArtifactErrorIncludesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("no items selected"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.FetchArtifact(context.Background(), model.FormatXLS, []int64{9}, model.ListingTypeSingleRow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "no items selected")
}

func TestValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/validate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.ValidationReport{
			Status:     model.ReportErrors,
			ErrorCount: 1,
			Issues: []model.ValidationIssue{
				{ItemID: 5, Severity: model.SeverityError, Message: "missing EAN"},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	report, err := c.Validate(context.Background(), []int64{5}, model.ListingTypeParentChild)
	require.NoError(t, err)
	assert.Equal(t, model.ReportErrors, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "missing EAN", report.Issues[0].Message)
}

func TestGetJSONUnavailableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.GetManufacturers(context.Background())
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}
