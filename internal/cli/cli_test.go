package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/countrylookup/internal/config"
	"github.com/yildizm/countrylookup/internal/emoji"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/server"
)

const countriesFixture = `{
  "iceland": [
    {"name": {"common": "Iceland", "official": "Iceland"}, "capital": ["Reykjavik"], "population": 366425,
     "languages": {"isl": "Icelandic"}, "flags": {"svg": "https://flagcdn.com/is.svg"}, "flag": "🇮🇸"}
  ],
  "land": [
    {"name": {"common": "Ireland", "official": "Republic of Ireland"}, "capital": ["Dublin"], "population": 4994724,
     "languages": {"eng": "English", "gle": "Irish"}, "flags": {"svg": "https://flagcdn.com/ie.svg"}},
    {"name": {"common": "Iceland", "official": "Iceland"}, "capital": ["Reykjavik"], "population": 366425,
     "languages": {"isl": "Icelandic"}, "flags": {"svg": "https://flagcdn.com/is.svg"}}
  ]
}`

// newAPIStub serves fixtures the way the REST Countries name endpoint does
func newAPIStub(t *testing.T) *httptest.Server {
	t.Helper()

	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(countriesFixture), &data); err != nil {
		t.Fatalf("Bad fixture: %v", err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/v3.1/name/"))
		body, ok := data[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: \"" + baseURL + "/v3.1\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.2.3", "abc123", "2026-01-01")

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-emoji"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "countrylookup 1.2.3 (abc123) built on 2026-01-01") {
		t.Errorf("Unexpected version output %q", out)
	}
}

func TestSearchCommandText(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{
			name:  "single match shows detail",
			args:  []string{"search", "iceland"},
			wants: []string{"Iceland", "Capital: Reykjavik", "Population: 366425", "Languages: Icelandic"},
		},
		{
			name:  "several matches show a list",
			args:  []string{"search", "land"},
			wants: []string{"2 matches:", "1. Republic of Ireland", "2. Iceland"},
		},
		{
			name:  "select opens a list entry",
			args:  []string{"search", "land", "--select", "Republic of Ireland"},
			wants: []string{"Republic of Ireland", "Capital: Dublin", "Languages: English, Irish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, append([]string{"--config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("Expected output to contain %q\n%s", want, out)
				}
			}
		})
	}
}

func TestSearchCommandNotFound(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	out, err := runCLI(t, "--config", cfg, "search", "atlantis")
	if err == nil || err.Error() != search.FailureText {
		t.Errorf("Expected failure error, got %v", err)
	}
	if !strings.Contains(out, emoji.Severity("error")+" "+search.FailureText) {
		t.Errorf("Expected failure notice, got %q", out)
	}
}

func TestSearchCommandUnknownSelection(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	_, err := runCLI(t, "--config", cfg, "search", "land", "--select", "Atlantis")
	if err == nil || !strings.Contains(err.Error(), "cannot select") {
		t.Errorf("Expected selection error, got %v", err)
	}
}

func TestSearchCommandJSON(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	out, err := runCLI(t, "--config", cfg, "--output", "json", "search", "land")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var report searchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Failed to decode JSON output: %v\n%s", err, out)
	}
	if report.Query != "land" || report.View != "list" || len(report.List) != 2 {
		t.Errorf("Unexpected report %+v", report)
	}
	if report.Detail != nil || report.Notice != nil {
		t.Errorf("Expected list only, got %+v", report)
	}
}

func TestSearchCommandHTML(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	out, err := runCLI(t, "--config", cfg, "--output", "html", "search", "iceland")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h2>Iceland</h2>") {
		t.Errorf("Expected detail fragment, got %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "countrylookup.yaml")

	out, err := runCLI(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, "Configuration file created at: "+path) {
		t.Errorf("Unexpected init output %q", out)
	}

	if _, err := runCLI(t, "config", "init", "--path", path); err == nil {
		t.Error("Expected init to refuse overwriting without --force")
	}
	if _, err := runCLI(t, "config", "init", "--path", path, "--force", "--minimal"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err = runCLI(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") || !strings.Contains(out, "Max matches: 10") {
		t.Errorf("Unexpected validate output %q", out)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("search:\n  max_matches: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", path, "config", "validate")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(out, "Configuration validation failed") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestConfigShowAppliesFlags(t *testing.T) {
	api := newAPIStub(t)
	cfg := writeConfig(t, api.URL)

	out, err := runCLI(t, "--config", cfg, "--verbose", "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}

	var shown struct {
		API    map[string]interface{} `json:"api"`
		Output map[string]interface{} `json:"output"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("Failed to decode config: %v\n%s", err, out)
	}
	if shown.API["base_url"] != api.URL+"/v3.1" {
		t.Errorf("Expected base URL from file, got %v", shown.API["base_url"])
	}
	if shown.Output["verbose"] != true {
		t.Errorf("Expected --verbose to apply, got %v", shown.Output["verbose"])
	}
}

func TestBuildLookuperWrapsCache(t *testing.T) {
	api := newAPIStub(t)
	cfgPath := writeConfig(t, api.URL)

	cfgFile = cfgPath
	defer func() { cfgFile = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	log := newLogger(cfg, &bytes.Buffer{})

	lookup, err := buildLookuper(cfg, log)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, cached := lookup.(interface{ Len() int }); cached {
		t.Error("Expected plain client when cache is disabled")
	}

	cfg.Cache.Size = 8
	lookup, err = buildLookuper(cfg, log)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, cached := lookup.(interface{ Len() int }); !cached {
		t.Error("Expected cached lookuper when cache size is set")
	}
}

func TestReloadServerKeepsFlagOverrides(t *testing.T) {
	api := newAPIStub(t)

	verbose, outputFmt = true, "json"
	defer func() { verbose, outputFmt = false, "" }()

	running := config.DefaultConfig()
	running.API.BaseURL = api.URL + "/v3.1"
	if err := applyFlagOverrides(running); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var logs bytes.Buffer
	log := newLogger(running, &logs)
	lookup, err := buildLookuper(running, log)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	srv, err := server.New(lookup, server.Options{Search: searchOptions(running, log)})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	changed := config.DefaultConfig()
	changed.API.BaseURL = running.API.BaseURL
	if err := reloadServer(srv, running, changed, log); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !changed.Output.Verbose || changed.Output.DefaultFormat != "json" {
		t.Errorf("Expected flag overrides on reloaded config, got %+v", changed.Output)
	}
	if strings.Contains(logs.String(), "restart") {
		t.Errorf("Expected no restart warning for unchanged server settings\n%s", logs.String())
	}

	moved := config.DefaultConfig()
	moved.API.BaseURL = running.API.BaseURL
	moved.Server.Addr = "127.0.0.1:9999"
	if err := reloadServer(srv, running, moved, log); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(logs.String(), "restart to apply them") {
		t.Errorf("Expected restart warning for changed server settings\n%s", logs.String())
	}
}
