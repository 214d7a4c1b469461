// Package dell fetches warranty data from the Dell asset-warranty REST API.
package dell

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/device-ops/warranty-cache/internal/dateparse"
	"github.com/device-ops/warranty-cache/internal/model"
	"github.com/device-ops/warranty-cache/internal/upstream"
)

const defaultTimeout = 10 * time.Second

// epoch is the fallback end date when an asset carries no entitlement at
// all. Policy, not an error: such assets report 1970-01-01.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithHTTPClient(baseURL, apiKey, &http.Client{Timeout: defaultTimeout})
}

func NewClientWithHTTPClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = defaultTimeout
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

type assetResponse struct {
	AssetHeaderData struct {
		MachineDescription string `json:"MachineDescription"`
	} `json:"AssetHeaderData"`
	AssetEntitlementData []entitlement `json:"AssetEntitlementData"`
}

type entitlement struct {
	ServiceLevelDescription *string `json:"ServiceLevelDescription"`
	EndDate                 string  `json:"EndDate"`
}

// Fetch queries the asset API for one service tag. Among entitlements with
// a present ServiceLevelDescription the maximum end date wins, which is the
// longest-running warranty when several coverage periods exist.
func (c *Client) Fetch(ctx context.Context, serviceTag string) (model.WarrantyRecord, error) {
	endpoint := c.baseURL + serviceTag + "?apikey=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.WarrantyRecord{}, &upstream.UnavailableError{Source: upstream.SourceDell, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.WarrantyRecord{}, &upstream.UnavailableError{Source: upstream.SourceDell, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.WarrantyRecord{}, fmt.Errorf("%w: tag %s", upstream.ErrNoRecord, serviceTag)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return model.WarrantyRecord{}, &upstream.UnavailableError{
			Source: upstream.SourceDell,
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var payload []assetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.WarrantyRecord{}, &upstream.FormatError{
			Source: upstream.SourceDell,
			Reason: "invalid JSON body",
			Err:    err,
		}
	}
	if len(payload) == 0 {
		return model.WarrantyRecord{}, &upstream.FormatError{
			Source: upstream.SourceDell,
			Reason: "empty asset array",
		}
	}

	asset := payload[0]
	newest := epoch
	for _, ent := range asset.AssetEntitlementData {
		if ent.ServiceLevelDescription == nil {
			continue
		}
		endDate, err := dateparse.ParseDellTimestamp(ent.EndDate)
		if err != nil {
			return model.WarrantyRecord{}, &upstream.FormatError{
				Source: upstream.SourceDell,
				Reason: "entitlement end date",
				Err:    err,
			}
		}
		if endDate.After(newest) {
			newest = endDate
		}
	}

	return model.WarrantyRecord{
		ServiceTag: serviceTag,
		EndDate:    model.NewEndDate(newest),
		Model:      asset.AssetHeaderData.MachineDescription,
	}, nil
}
