package countries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sampleCountries() []Country {
	return []Country{
		{
			Name:       Name{Common: "Ireland", Official: "Republic of Ireland"},
			Capital:    []string{"Dublin"},
			Population: 4994724,
			Languages:  map[string]string{"eng": "English", "gle": "Irish"},
			Flags:      Flags{SVG: "https://flagcdn.com/ie.svg", PNG: "https://flagcdn.com/w320/ie.png"},
			Flag:       "🇮🇪",
		},
		{
			Name:       Name{Common: "Iceland", Official: "Iceland"},
			Capital:    []string{"Reykjavik"},
			Population: 366425,
			Languages:  map[string]string{"isl": "Icelandic"},
			Flags:      Flags{SVG: "https://flagcdn.com/is.svg"},
		},
	}
}

func TestClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.1/name/land" {
			t.Errorf("Expected path '/v3.1/name/land', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got '%s'", r.Method)
		}
		if got := r.URL.Query().Get("fields"); got != lookupFields {
			t.Errorf("Expected fields '%s', got '%s'", lookupFields, got)
		}
		if got := r.Header.Get("User-Agent"); got != "countrylookup-test" {
			t.Errorf("Expected user agent 'countrylookup-test', got '%s'", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sampleCountries())
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL + "/v3.1", UserAgent: "countrylookup-test"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	result, err := client.Lookup(context.Background(), "land")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 countries, got %d", len(result))
	}
	if result[0].OfficialName() != "Republic of Ireland" {
		t.Errorf("Expected 'Republic of Ireland', got '%s'", result[0].OfficialName())
	}
	if result[0].Population != 4994724 {
		t.Errorf("Expected population 4994724, got %d", result[0].Population)
	}
	if result[0].Languages["gle"] != "Irish" {
		t.Errorf("Expected language gle=Irish, got %v", result[0].Languages)
	}
}

func TestClient_LookupEscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/name/united states" {
			t.Errorf("Expected decoded path '/name/united states', got '%s'", r.URL.Path)
		}
		if !strings.Contains(r.URL.EscapedPath(), "united%20states") {
			t.Errorf("Expected escaped path, got '%s'", r.URL.EscapedPath())
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if _, err := client.Lookup(context.Background(), "united states"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
}

func TestClient_LookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ErrorKind
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"status":404,"message":"Not Found"}`, wantKind: KindNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantKind: KindStatus},
		{name: "malformed body", status: http.StatusOK, body: "{not json", wantKind: KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(ClientConfig{BaseURL: server.URL})
			if err != nil {
				t.Fatalf("Failed to create client: %v", err)
			}

			_, err = client.Lookup(context.Background(), "xyz")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var lerr *LookupError
			if !errors.As(err, &lerr) {
				t.Fatalf("Expected *LookupError, got %T", err)
			}
			if lerr.Kind != tt.wantKind {
				t.Errorf("Expected kind %s, got %s", tt.wantKind, lerr.Kind)
			}
			if IsNotFound(err) != (tt.wantKind == KindNotFound) {
				t.Errorf("IsNotFound mismatch for kind %s", lerr.Kind)
			}
		})
	}
}

func TestClient_LookupNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Lookup(context.Background(), "land")
	var lerr *LookupError
	if !errors.As(err, &lerr) || lerr.Kind != KindNetwork {
		t.Fatalf("Expected network error, got %v", err)
	}
	if lerr.Unwrap() == nil {
		t.Error("Expected network error to carry a cause")
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "://bad"} {
		if _, err := NewClient(ClientConfig{BaseURL: raw}); err == nil {
			t.Errorf("Expected error for base URL %q", raw)
		}
	}

	client, err := NewClient(ClientConfig{})
	if err != nil {
		t.Fatalf("Expected default base URL to be valid: %v", err)
	}
	if client.baseURL.String() != DefaultBaseURL {
		t.Errorf("Expected default base URL %s, got %s", DefaultBaseURL, client.baseURL)
	}
}

func TestCountryHelpers(t *testing.T) {
	c := Country{
		Name:      Name{Common: "Switzerland", Official: "Swiss Confederation"},
		Capital:   []string{"Bern"},
		Languages: map[string]string{"roh": "Romansh", "fra": "French", "gsw": "Swiss German", "ita": "Italian"},
		Flags:     Flags{PNG: "https://flagcdn.com/w320/ch.png"},
	}

	if got := strings.Join(c.LanguageNames(), ", "); got != "French, Swiss German, Italian, Romansh" {
		t.Errorf("Unexpected language order: %s", got)
	}
	if c.FlagURL() != "https://flagcdn.com/w320/ch.png" {
		t.Errorf("Expected PNG fallback, got %s", c.FlagURL())
	}

	multi := Country{Capital: []string{"Pretoria", "Bloemfontein", "Cape Town"}}
	if multi.CapitalName() != "Pretoria, Bloemfontein, Cape Town" {
		t.Errorf("Unexpected capital join: %s", multi.CapitalName())
	}

	list := sampleCountries()
	found, ok := FindByOfficialName(list, "Iceland")
	if !ok || found.Capital[0] != "Reykjavik" {
		t.Errorf("Expected to find Iceland, got %+v ok=%v", found, ok)
	}
	if _, ok := FindByOfficialName(list, "Ireland"); ok {
		t.Error("Expected common name not to match official name lookup")
	}
}
