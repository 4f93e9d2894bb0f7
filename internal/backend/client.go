// Package backend is the HTTP client for the console's backend API:
// catalog reads, export artifact generation, and pre-export validation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelderman/listforge/internal/common"
	"github.com/kelderman/listforge/internal/model"
	"github.com/kelderman/listforge/internal/service"
)

// Response headers attached to generated artifacts.
const (
	HeaderSignature       = "X-Export-Signature"
	HeaderTemplateVersion = "X-Export-Template-Version"
)

// Client talks to the backend API over HTTP. It implements
// service.CatalogReader, service.ArtifactFetcher, and service.Validator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a backend client for the given base URL. The token is
// optional; when set it is sent as a bearer token on every request.
func NewClient(baseURL, token string) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: backend.url", common.ErrMissingConfig)
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: backend.url must be an http(s) URL", common.ErrInvalidConfig)
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Wire types for catalog reads.
type manufacturerRecord struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

type seriesRecord struct {
	Name           string `json:"name"`
	ID             int64  `json:"id"`
	ManufacturerID int64  `json:"manufacturer_id"`
}

type itemRecord struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	ID       int64  `json:"id"`
	SeriesID int64  `json:"series_id"`
}

// GetManufacturers lists all manufacturers.
func (c *Client) GetManufacturers(ctx context.Context) ([]model.Manufacturer, error) {
	var records []manufacturerRecord
	if err := c.getJSON(ctx, "/api/manufacturers", nil, &records); err != nil {
		return nil, err
	}

	manufacturers := make([]model.Manufacturer, 0, len(records))
	for _, r := range records {
		manufacturers = append(manufacturers, model.Manufacturer{ID: r.ID, Name: r.Name})
	}
	return manufacturers, nil
}

// GetSeries lists the series belonging to a manufacturer.
func (c *Client) GetSeries(ctx context.Context, manufacturerID int64) ([]model.Series, error) {
	params := url.Values{}
	params.Set("manufacturer_id", strconv.FormatInt(manufacturerID, 10))

	var records []seriesRecord
	if err := c.getJSON(ctx, "/api/series", params, &records); err != nil {
		return nil, err
	}

	series := make([]model.Series, 0, len(records))
	for _, r := range records {
		series = append(series, model.Series{ID: r.ID, Name: r.Name, ManufacturerID: r.ManufacturerID})
	}
	return series, nil
}

// GetItems lists the catalog items in a series.
func (c *Client) GetItems(ctx context.Context, seriesID int64) ([]model.CatalogItem, error) {
	params := url.Values{}
	params.Set("series_id", strconv.FormatInt(seriesID, 10))
	return c.getItems(ctx, params)
}

// GetItemsForManufacturer lists every catalog item under a manufacturer,
// across all of its series.
func (c *Client) GetItemsForManufacturer(ctx context.Context, manufacturerID int64) ([]model.CatalogItem, error) {
	params := url.Values{}
	params.Set("manufacturer_id", strconv.FormatInt(manufacturerID, 10))
	return c.getItems(ctx, params)
}

func (c *Client) getItems(ctx context.Context, params url.Values) ([]model.CatalogItem, error) {
	var records []itemRecord
	if err := c.getJSON(ctx, "/api/items", params, &records); err != nil {
		return nil, err
	}

	items := make([]model.CatalogItem, 0, len(records))
	for _, r := range records {
		items = append(items, model.CatalogItem{ID: r.ID, Name: r.Name, SKU: r.SKU, SeriesID: r.SeriesID})
	}
	return items, nil
}

type exportRequest struct {
	ListingType model.ListingType `json:"listing_type"`
	ItemIDs     []int64           `json:"item_ids"`
}

// FetchArtifact requests one generated artifact for the given item set and
// listing type. Each format has its own endpoint; an unsupported format is
// rejected before any request is made. The response body and headers are
// surfaced untouched, and no retries happen here.
func (c *Client) FetchArtifact(ctx context.Context, format model.ExportFormat, itemIDs []int64, listingType model.ListingType) (*service.Artifact, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownFormat, format)
	}
	if len(itemIDs) == 0 {
		return nil, common.ErrNoSelection
	}

	body, err := json.Marshal(exportRequest{ItemIDs: itemIDs, ListingType: listingType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode export request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/export/"+string(format), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	slog.Debug("Requesting export artifact",
		"format", format,
		"listing_type", listingType,
		"item_count", len(itemIDs))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.ErrBackendRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("backend export error: %d - %s", resp.StatusCode, string(msg))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}

	return &service.Artifact{
		Bytes:           data,
		ContentType:     resp.Header.Get("Content-Type"),
		Signature:       resp.Header.Get(HeaderSignature),
		TemplateVersion: resp.Header.Get(HeaderTemplateVersion),
	}, nil
}

type validateRequest struct {
	ListingType model.ListingType `json:"listing_type"`
	ItemIDs     []int64           `json:"item_ids"`
}

// Validate runs the backend's readiness check for a selection.
func (c *Client) Validate(ctx context.Context, itemIDs []int64, listingType model.ListingType) (*model.ValidationReport, error) {
	body, err := json.Marshal(validateRequest{ItemIDs: itemIDs, ListingType: listingType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/validate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("backend validation error: %d - %s", resp.StatusCode, string(msg))
	}

	var report model.ValidationReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode validation report: %w", err)
	}

	return &report, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend API error: %d - %s", resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
