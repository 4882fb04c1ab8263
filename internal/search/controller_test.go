package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yildizm/countrylookup/internal/countries"
)

type fakeLookuper struct {
	results map[string][]countries.Country
	calls   []string
}

func (f *fakeLookuper) Lookup(_ context.Context, name string) ([]countries.Country, error) {
	f.calls = append(f.calls, name)
	result, ok := f.results[name]
	if !ok {
		return nil, countries.ErrNotFound
	}
	return result, nil
}

func country(official, capital string, population int64, languages map[string]string) countries.Country {
	return countries.Country{
		Name:       countries.Name{Common: official, Official: official},
		Capital:    []string{capital},
		Population: population,
		Languages:  languages,
		Flags:      countries.Flags{SVG: "https://flagcdn.com/" + strings.ToLower(official[:2]) + ".svg"},
	}
}

func landResults() []countries.Country {
	return []countries.Country{
		country("Ireland", "Dublin", 4994724, map[string]string{"eng": "English", "gle": "Irish"}),
		country("Iceland", "Reykjavik", 366425, map[string]string{"isl": "Icelandic"}),
		country("Poland", "Warsaw", 37950802, map[string]string{"pol": "Polish"}),
	}
}

func manyResults(n int) []countries.Country {
	list := make([]countries.Country, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, country(fmt.Sprintf("Country %02d", i), "Capital", int64(i), nil))
	}
	return list
}

func newTestController() (*Controller, *fakeLookuper) {
	fake := &fakeLookuper{results: map[string][]countries.Country{
		"land":    landResults(),
		"poland":  landResults()[2:],
		"a":       manyResults(11),
		"ten":     manyResults(10),
		"nothing": {},
	}}
	return New(fake, Options{}), fake
}

func officialNames(list []countries.Country) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.OfficialName())
	}
	return names
}

func TestSearch_BlankInputIsNoop(t *testing.T) {
	c, fake := newTestController()
	c.Search(context.Background(), "land")
	before := c.State()

	for _, input := range []string{"", "   ", "\t\n"} {
		outcome := c.Search(context.Background(), input)
		if outcome.Changed || outcome.Notice != nil {
			t.Errorf("Expected no-op for %q, got %+v", input, outcome)
		}
	}

	if len(fake.calls) != 1 {
		t.Errorf("Expected exactly 1 lookup, got %d: %v", len(fake.calls), fake.calls)
	}
	after := c.State()
	if strings.Join(officialNames(after.List), ",") != strings.Join(officialNames(before.List), ",") {
		t.Error("Expected list pane unchanged after blank input")
	}
}

func TestSearch_TrimsInput(t *testing.T) {
	c, fake := newTestController()
	c.Search(context.Background(), "  land  ")

	if len(fake.calls) != 1 || fake.calls[0] != "land" {
		t.Errorf("Expected trimmed lookup 'land', got %v", fake.calls)
	}
}

func TestSearch_SingleResultShowsDetail(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "land")

	outcome := c.Search(context.Background(), "poland")
	if outcome.Notice != nil {
		t.Fatalf("Expected no notice, got %+v", outcome.Notice)
	}
	if outcome.View != ViewDetail {
		t.Errorf("Expected detail view, got %s", outcome.View)
	}

	state := c.State()
	if len(state.List) != 0 {
		t.Errorf("Expected empty list pane, got %v", officialNames(state.List))
	}
	if state.Detail == nil {
		t.Fatal("Expected detail pane to be set")
	}
	if state.Detail.OfficialName() != "Poland" || state.Detail.CapitalName() != "Warsaw" || state.Detail.Population != 37950802 {
		t.Errorf("Unexpected detail %+v", state.Detail)
	}
	if state.Mode != ModeIdle {
		t.Errorf("Expected idle mode after direct single match, got %s", state.Mode)
	}

	// Escape has no effect on a detail reached from a single-match search.
	if outcome := c.Escape(); outcome.Changed {
		t.Error("Expected Escape to be a no-op after single-match search")
	}
	if c.State().Detail == nil {
		t.Error("Expected detail to survive Escape")
	}
}

func TestSearch_ListResultsStoredInOrder(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "poland")

	outcome := c.Search(context.Background(), "land")
	if outcome.View != ViewList {
		t.Errorf("Expected list view, got %s", outcome.View)
	}

	state := c.State()
	if state.Detail != nil {
		t.Error("Expected detail pane cleared")
	}
	want := "Ireland,Iceland,Poland"
	if got := strings.Join(officialNames(state.List), ","); got != want {
		t.Errorf("Expected list %s, got %s", want, got)
	}
	if got := strings.Join(officialNames(c.Stored()), ","); got != want {
		t.Errorf("Expected stored %s, got %s", want, got)
	}
}

func TestSearch_TenResultsStillList(t *testing.T) {
	c, _ := newTestController()
	outcome := c.Search(context.Background(), "ten")

	if outcome.Notice != nil {
		t.Fatalf("Expected no notice for 10 results, got %+v", outcome.Notice)
	}
	if len(c.State().List) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(c.State().List))
	}
}

func TestSearch_TooManyResults(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "land")

	outcome := c.Search(context.Background(), "a")
	if outcome.Notice == nil || outcome.Notice.Kind != NoticeInfo || outcome.Notice.Text != TooManyText {
		t.Fatalf("Expected info notice %q, got %+v", TooManyText, outcome.Notice)
	}
	if outcome.View != ViewInfoNotice {
		t.Errorf("Expected info-notice view, got %s", outcome.View)
	}
	if outcome.Changed {
		t.Error("Expected too-many notice to leave the panes unchanged")
	}

	state := c.State()
	if got := strings.Join(officialNames(state.List), ","); got != "Ireland,Iceland,Poland" {
		t.Errorf("Expected list pane untouched, got %s", got)
	}
	if len(c.Stored()) != 3 {
		t.Errorf("Expected stored sequence unchanged, got %d entries", len(c.Stored()))
	}
}

func TestSearch_FailureNotice(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "poland")

	outcome := c.Search(context.Background(), "atlantis")
	if outcome.Notice == nil || outcome.Notice.Kind != NoticeFailure {
		t.Fatalf("Expected failure notice, got %+v", outcome.Notice)
	}
	if outcome.Notice.Text != "Oops, there is no country with that name" {
		t.Errorf("Unexpected failure text %q", outcome.Notice.Text)
	}
	if outcome.Changed {
		t.Error("Expected failure notice to leave the panes unchanged")
	}

	state := c.State()
	if state.Detail == nil || state.Detail.OfficialName() != "Poland" {
		t.Error("Expected detail pane untouched by failure")
	}
}

func TestSearch_TransportFailureUsesSameNotice(t *testing.T) {
	c := New(lookupFunc(func(context.Context, string) ([]countries.Country, error) {
		return nil, &countries.LookupError{Kind: countries.KindNetwork, Message: "dial tcp: refused"}
	}), Options{})

	outcome := c.Search(context.Background(), "land")
	if outcome.Notice == nil || outcome.Notice.Text != FailureText {
		t.Errorf("Expected failure notice for transport error, got %+v", outcome.Notice)
	}
}

func TestSearch_EmptySuccessClearsPanes(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "poland")

	outcome := c.Search(context.Background(), "nothing")
	if outcome.View != ViewEmpty {
		t.Errorf("Expected empty view, got %s", outcome.View)
	}
	if state := c.State(); state.Detail != nil || len(state.List) != 0 {
		t.Errorf("Expected both panes empty, got %+v", state)
	}
}

func TestEndToEnd_SelectAndEscape(t *testing.T) {
	c, fake := newTestController()

	c.Search(context.Background(), "land")
	if got := len(c.State().List); got != 3 {
		t.Fatalf("Expected 3 entries, got %d", got)
	}

	outcome, err := c.Select("Iceland")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if outcome.View != ViewDetail {
		t.Errorf("Expected detail view, got %s", outcome.View)
	}

	state := c.State()
	if len(state.List) != 0 {
		t.Error("Expected list pane empty after select")
	}
	if state.Detail == nil || state.Detail.OfficialName() != "Iceland" || state.Detail.CapitalName() != "Reykjavik" {
		t.Fatalf("Expected Iceland detail, got %+v", state.Detail)
	}
	if state.Mode != ModeClickedDetail {
		t.Errorf("Expected clicked-detail mode, got %s", state.Mode)
	}

	outcome = c.Escape()
	if !outcome.Changed || outcome.View != ViewList {
		t.Errorf("Expected Escape to restore list, got %+v", outcome)
	}

	state = c.State()
	if state.Detail != nil {
		t.Error("Expected detail pane empty after Escape")
	}
	if got := strings.Join(officialNames(state.List), ","); got != "Ireland,Iceland,Poland" {
		t.Errorf("Expected previous 3 entries, got %s", got)
	}
	if state.Mode != ModeIdle {
		t.Errorf("Expected idle mode after Escape, got %s", state.Mode)
	}

	// The listener is gone: a second Escape does nothing.
	if c.Escape().Changed {
		t.Error("Expected second Escape to be a no-op")
	}

	if len(fake.calls) != 1 {
		t.Errorf("Expected selection and Escape to reuse stored results, got %d lookups", len(fake.calls))
	}
}

func TestSelect_UnknownEntry(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "land")

	_, err := c.Select("Atlantis")
	if !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("Expected ErrUnknownEntry, got %v", err)
	}
	if len(c.State().List) != 3 {
		t.Error("Expected list pane untouched after unknown selection")
	}
	if c.Mode() != ModeIdle {
		t.Error("Expected mode unchanged after unknown selection")
	}
}

func TestSearch_LeavesClickedDetailMode(t *testing.T) {
	c, _ := newTestController()
	c.Search(context.Background(), "land")
	if _, err := c.Select("Poland"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	// Even a too-many outcome tears down the Escape transition.
	c.Search(context.Background(), "a")
	if c.Mode() != ModeIdle {
		t.Errorf("Expected idle mode after new render, got %s", c.Mode())
	}
	if c.Escape().Changed {
		t.Error("Expected Escape to be inactive after a new search")
	}
}

func TestApply_StaleResponses(t *testing.T) {
	tests := []struct {
		name      string
		dropStale bool
		wantList  string
	}{
		{name: "stale response overwrites by default", dropStale: false, wantList: "Ireland,Iceland,Poland"},
		{name: "stale response dropped when enabled", dropStale: true, wantList: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLookuper{results: map[string][]countries.Country{
				"land":   landResults(),
				"poland": landResults()[2:],
			}}
			c := New(fake, Options{DropStale: tt.dropStale})

			older, _ := c.Prepare("land")
			newer, _ := c.Prepare("poland")

			ctx := context.Background()
			c.Apply(Fetch(ctx, fake, newer))
			outcome := c.Apply(Fetch(ctx, fake, older))

			if got := strings.Join(officialNames(c.State().List), ","); got != tt.wantList {
				t.Errorf("Expected list %q, got %q", tt.wantList, got)
			}
			if tt.dropStale && outcome.Changed {
				t.Error("Expected stale outcome to report no change")
			}
			if tt.dropStale && c.State().Detail == nil {
				t.Error("Expected newer detail to survive")
			}
		})
	}
}

func TestNew_MaxMatches(t *testing.T) {
	fake := &fakeLookuper{results: map[string][]countries.Country{"land": landResults()}}
	c := New(fake, Options{MaxMatches: 2})

	outcome := c.Search(context.Background(), "land")
	if outcome.Notice == nil || outcome.Notice.Kind != NoticeInfo {
		t.Errorf("Expected info notice with MaxMatches=2, got %+v", outcome)
	}
	if New(fake, Options{}).MaxMatches() != DefaultMaxMatches {
		t.Error("Expected default max matches")
	}
}

type lookupFunc func(ctx context.Context, name string) ([]countries.Country, error)

func (f lookupFunc) Lookup(ctx context.Context, name string) ([]countries.Country, error) {
	return f(ctx, name)
}
