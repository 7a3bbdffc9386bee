package browse

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/orderdeck/orderdeck/internal/models"
)

// FullScopeLimit is the page size used to approximate "fetch the whole
// scope" for client-side search mode. The backend has no unpaginated
// endpoint, so one oversized page stands in for it.
const FullScopeLimit = 10000

// ErrSuperseded is returned by Refresh when a newer refresh started while
// this one was in flight. Callers drop the result silently; the newer cycle
// owns the display.
var ErrSuperseded = errors.New("refresh superseded by a newer one")

// Lister is the slice of the remote orders API the orchestrator consumes.
type Lister interface {
	ListOrders(q models.OrderQuery) (*models.ListResult, error)
}

// View is the view-model produced by every orchestration cycle. It is
// always well-formed: Records is non-nil, TotalPages at least 1.
type View struct {
	Records     []models.Order
	CurrentPage int
	TotalPages  int
	Summary     models.OrderSummary
	FromNetwork bool // true when this cycle hit the network
}

// Orchestrator decides, for every query change, whether to hit the network
// or serve from the cached full result set, and reconciles server-side and
// client-side pagination behind one consistent page and summary.
//
// Refresh runs inside tea.Cmd goroutines, so the cache and the generation
// counter are mutex-guarded; only the most recently started refresh may
// commit.
type Orchestrator struct {
	mu       sync.Mutex
	client   Lister
	cache    *ResultCache
	pageSize int
	gen      int
	logger   *log.Logger
}

// NewOrchestrator creates an orchestrator over the given API client and
// cache slot. Pass a nil logger to silence it.
func NewOrchestrator(client Lister, cache *ResultCache, pageSize int, logger *log.Logger) *Orchestrator {
	if cache == nil {
		cache = NewResultCache()
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &Orchestrator{
		client:   client,
		cache:    cache,
		pageSize: pageSize,
		logger:   logger,
	}
}

// PageSize returns the fixed page size applied in both modes.
func (o *Orchestrator) PageSize() int {
	return o.pageSize
}

// WillFetch reports whether the next Refresh for this query would hit the
// network. The UI uses it to decide up front whether to show a loading
// state: a cache-hit search refinement must not flash a spinner.
func (o *Orchestrator) WillFetch(scope models.OrderScope, search string) bool {
	if !IsSearching(search) {
		return true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.cache.Valid(ScopeKey(scope))
}

// Refresh runs one orchestration cycle for the given scope, settled search
// text, and page. It returns (nil, err) when a server-paginated fetch fails
// (caller keeps its prior data) and (view, err) on a search-mode cache-miss
// failure, where view is the degraded empty result set that replaces the
// display. A stale cycle returns ErrSuperseded.
func (o *Orchestrator) Refresh(scope models.OrderScope, search string, page int) (*View, error) {
	gen := o.begin()
	if page < 1 {
		page = 1
	}
	scopeKey := ScopeKey(scope)

	if !IsSearching(search) {
		return o.refreshServerPaginated(gen, scope, scopeKey, page)
	}
	return o.refreshSearch(gen, scope, scopeKey, search, page)
}

// refreshServerPaginated fetches exactly the requested page and trusts the
// server's pagination and summary verbatim.
func (o *Orchestrator) refreshServerPaginated(gen int, scope models.OrderScope, scopeKey string, page int) (*View, error) {
	res, err := o.client.ListOrders(models.OrderQuery{
		OrderScope: scope,
		Page:       page,
		Limit:      o.pageSize,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("order page fetch failed", "scope", scopeKey, "page", page, "err", err)
		}
		return nil, err
	}

	// Data fetched under server pagination must never seed a later search;
	// remember the scope key but drop any cached full set.
	o.cache.Clear(scopeKey)

	view := &View{
		Records:     res.Items,
		CurrentPage: page,
		TotalPages:  res.TotalPages,
		FromNetwork: true,
	}
	if view.Records == nil {
		view.Records = []models.Order{}
	}
	if view.TotalPages < 1 {
		view.TotalPages = 1
	}
	if res.Summary != nil {
		view.Summary = *res.Summary
	}
	return view, nil
}

// refreshSearch serves from the cached full scope, fetching it first on a
// cache miss, then filters, paginates, and summarizes client-side.
func (o *Orchestrator) refreshSearch(gen int, scope models.OrderScope, scopeKey, search string, page int) (*View, error) {
	o.mu.Lock()
	needFetch := !o.cache.Valid(scopeKey)
	o.mu.Unlock()

	var fetchErr error
	if needFetch {
		res, err := o.client.ListOrders(models.OrderQuery{
			OrderScope: scope,
			Page:       1,
			Limit:      FullScopeLimit,
		})

		o.mu.Lock()
		if gen != o.gen {
			o.mu.Unlock()
			return nil, ErrSuperseded
		}
		if err != nil {
			// Degrade to "no results" rather than blocking search or
			// serving a stale scope.
			o.cache.Put(scopeKey, []models.Order{})
			fetchErr = err
			if o.logger != nil {
				o.logger.Warn("full scope fetch failed", "scope", scopeKey, "err", err)
			}
		} else {
			o.cache.Put(scopeKey, res.Items)
			if o.logger != nil {
				o.logger.Info("full scope cached", "scope", scopeKey, "records", len(res.Items))
			}
		}
		o.mu.Unlock()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return nil, ErrSuperseded
	}

	filtered := FilterOrders(o.cache.Records(), search)
	view := &View{
		Records:     Paginate(filtered, page, o.pageSize),
		CurrentPage: page,
		TotalPages:  TotalPages(len(filtered), o.pageSize),
		Summary:     Summarize(filtered),
		FromNetwork: needFetch,
	}
	return view, fetchErr
}

// begin starts a new cycle and returns its generation token.
func (o *Orchestrator) begin() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	return o.gen
}
