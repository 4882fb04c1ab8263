package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yildizm/countrylookup/internal/countries"
	"github.com/yildizm/countrylookup/internal/logger"
)

// ErrUnknownEntry is returned by Select when the name is not in the stored result set
var ErrUnknownEntry = errors.New("no stored country with that official name")

// Options configures a Controller
type Options struct {
	// MaxMatches is the largest result set rendered as a list. Zero means DefaultMaxMatches.
	MaxMatches int

	// DropStale discards responses to queries older than the latest one.
	// When false, a late response may overwrite fresher state.
	DropStale bool

	Logger *logger.Logger
}

// Request is one dispatched lookup
type Request struct {
	Name       string
	Generation uint64
}

// Response carries the result of a Request back to the controller
type Response struct {
	Request
	Countries []countries.Country
	Err       error
	Elapsed   time.Duration
}

// Controller turns search input into pane state. It owns the stored result
// set used to resolve list selections.
//
// A Controller is not safe for concurrent use. Front ends serialise calls;
// only Fetch may run on another goroutine.
type Controller struct {
	lookup countries.Lookuper
	opts   Options
	log    *logger.Logger

	list       []countries.Country
	detail     *countries.Country
	stored     []countries.Country
	mode       Mode
	view       View
	generation uint64
}

// New creates a controller backed by lookup
func New(lookup countries.Lookuper, opts Options) *Controller {
	if opts.MaxMatches <= 0 {
		opts.MaxMatches = DefaultMaxMatches
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Controller{
		lookup: lookup,
		opts:   opts,
		log:    log,
	}
}

// SetLookuper replaces the lookup backend for subsequent requests
func (c *Controller) SetLookuper(lookup countries.Lookuper) {
	c.lookup = lookup
}

// Lookuper returns the current lookup backend
func (c *Controller) Lookuper() countries.Lookuper {
	return c.lookup
}

// Prepare trims input and, when non-empty, records a new request.
// It returns false for blank input; nothing is dispatched and no state changes.
func (c *Controller) Prepare(input string) (Request, bool) {
	name := strings.TrimSpace(input)
	if name == "" {
		return Request{}, false
	}

	c.generation++
	return Request{Name: name, Generation: c.generation}, true
}

// Fetch performs the lookup for req. It touches no controller state and may
// run on any goroutine.
func Fetch(ctx context.Context, lookup countries.Lookuper, req Request) Response {
	start := time.Now()
	result, err := lookup.Lookup(ctx, req.Name)
	return Response{
		Request:   req,
		Countries: result,
		Err:       err,
		Elapsed:   time.Since(start),
	}
}

// Apply classifies a lookup response into pane state. Failures only
// produce a notice and leave the panes as they were.
func (c *Controller) Apply(resp Response) Outcome {
	if c.opts.DropStale && resp.Generation != c.generation {
		c.log.DebugWithFields("dropping stale response", []logger.Field{
			logger.F("query", resp.Name),
			logger.F("generation", resp.Generation),
			logger.F("latest", c.generation),
		})
		return Outcome{View: c.view}
	}

	if resp.Err != nil {
		c.log.DebugWithFields("lookup failed", []logger.Field{
			logger.F("query", resp.Name),
			logger.Error(resp.Err),
			logger.Duration(resp.Elapsed),
		})
		c.view = ViewErrorNotice
		return Outcome{
			Notice: &Notice{Kind: NoticeFailure, Text: FailureText},
			View:   c.view,
		}
	}

	c.log.DebugWithFields("lookup succeeded", []logger.Field{
		logger.F("query", resp.Name),
		logger.Count(len(resp.Countries)),
		logger.Duration(resp.Elapsed),
	})
	return c.Render(resp.Countries)
}

// Search runs Prepare, Fetch and Apply synchronously
func (c *Controller) Search(ctx context.Context, input string) Outcome {
	req, ok := c.Prepare(input)
	if !ok {
		return Outcome{View: c.view}
	}
	return c.Apply(Fetch(ctx, c.lookup, req))
}

// Render applies the result policy to list. It always leaves ModeClickedDetail first.
func (c *Controller) Render(list []countries.Country) Outcome {
	c.mode = ModeIdle

	switch {
	case len(list) > c.opts.MaxMatches:
		c.view = ViewInfoNotice
		return Outcome{
			Notice: &Notice{Kind: NoticeInfo, Text: TooManyText},
			View:   c.view,
		}

	case len(list) == 1:
		only := list[0]
		c.list = nil
		c.detail = &only
		c.view = ViewDetail

	default:
		c.detail = nil
		c.list = list
		c.stored = list
		c.view = ViewList
		if len(list) == 0 {
			c.view = ViewEmpty
		}
	}

	return Outcome{Changed: true, View: c.view}
}

// Select shows the detail of a stored list entry and enters ModeClickedDetail.
// Unknown names return ErrUnknownEntry and change nothing.
func (c *Controller) Select(officialName string) (Outcome, error) {
	found, ok := countries.FindByOfficialName(c.stored, officialName)
	if !ok {
		return Outcome{View: c.view}, ErrUnknownEntry
	}

	c.list = nil
	c.detail = &found
	c.mode = ModeClickedDetail
	c.view = ViewDetail
	return Outcome{Changed: true, View: c.view}, nil
}

// Escape returns from a selected detail to the stored list. Outside
// ModeClickedDetail it does nothing.
func (c *Controller) Escape() Outcome {
	if c.mode != ModeClickedDetail {
		return Outcome{View: c.view}
	}
	return c.Render(c.stored)
}

// State returns a snapshot of the panes
func (c *Controller) State() State {
	s := State{Mode: c.mode}
	if c.list != nil {
		s.List = append([]countries.Country(nil), c.list...)
	}
	if c.detail != nil {
		d := *c.detail
		s.Detail = &d
	}
	return s
}

// Stored returns the result set used to resolve selections
func (c *Controller) Stored() []countries.Country {
	if c.stored == nil {
		return nil
	}
	return append([]countries.Country(nil), c.stored...)
}

// Mode returns the current modal state
func (c *Controller) Mode() Mode {
	return c.mode
}

// View returns the UI state of the most recent outcome
func (c *Controller) View() View {
	return c.view
}

// MaxMatches returns the effective list limit
func (c *Controller) MaxMatches() int {
	return c.opts.MaxMatches
}
