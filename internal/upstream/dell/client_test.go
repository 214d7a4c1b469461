package dell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/device-ops/warranty-cache/internal/upstream"
)

func TestFetchSelectsMaxEndDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q, want test-key", got)
		}
		if r.URL.Path != "/assetwarranty/SN123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"AssetHeaderData": {"MachineDescription": "Latitude 7420"},
			"AssetEntitlementData": [
				{"ServiceLevelDescription": "ProSupport", "EndDate": "2023-06-01T00:00:00"},
				{"ServiceLevelDescription": "NBD Onsite", "EndDate": "2024-01-15T00:00:00"},
				{"ServiceLevelDescription": null, "EndDate": "2030-12-31T00:00:00"}
			]
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/assetwarranty/", "test-key")
	record, err := client.Fetch(context.Background(), "SN123")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if record.ServiceTag != "SN123" {
		t.Fatalf("service tag = %q", record.ServiceTag)
	}
	if record.Model != "Latitude 7420" {
		t.Fatalf("model = %q", record.Model)
	}
	if got := record.EndDate.String(); got != "2024-01-15" {
		t.Fatalf("end date = %s, want 2024-01-15 (max among described entitlements)", got)
	}
}

func TestFetchNoEntitlementsFallsBackToEpoch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{
			"AssetHeaderData": {"MachineDescription": "OptiPlex 7090"},
			"AssetEntitlementData": []
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "k")
	record, err := client.Fetch(context.Background(), "SN1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := record.EndDate.String(); got != "1970-01-01" {
		t.Fatalf("end date = %s, want epoch fallback 1970-01-01", got)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "k")
	_, err := client.Fetch(context.Background(), "MISSING")
	if !errors.Is(err, upstream.ErrNoRecord) {
		t.Fatalf("err = %v, want ErrNoRecord", err)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "k")
	_, err := client.Fetch(context.Background(), "SN1")
	var unavailable *upstream.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want *UnavailableError", err)
	}
}

func TestFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	client := NewClient(server.URL+"/", "k")
	_, err := client.Fetch(context.Background(), "SN1")
	var unavailable *upstream.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("err = %v, want *UnavailableError", err)
	}
}

func TestFetchBadShape(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>nope</html>"},
		{"empty array", "[]"},
		{"malformed end date", `[{
			"AssetHeaderData": {"MachineDescription": "X"},
			"AssetEntitlementData": [{"ServiceLevelDescription": "Basic", "EndDate": "bogus"}]
		}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL+"/", "k")
			_, err := client.Fetch(context.Background(), "SN1")
			var format *upstream.FormatError
			if !errors.As(err, &format) {
				t.Fatalf("err = %v, want *FormatError", err)
			}
		})
	}
}
