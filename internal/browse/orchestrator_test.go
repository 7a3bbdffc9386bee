package browse

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/orderdeck/orderdeck/internal/models"
)

// fakeLister records queries and answers them through a configurable handler.
type fakeLister struct {
	mu      sync.Mutex
	calls   []models.OrderQuery
	respond func(q models.OrderQuery) (*models.ListResult, error)
}

func (f *fakeLister) ListOrders(q models.OrderQuery) (*models.ListResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	respond := f.respond
	f.mu.Unlock()
	return respond(q)
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLister) lastCall() models.OrderQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func fullSet() []models.Order {
	return []models.Order{
		{ID: "1", OrderNumber: "ORD-001", CustomerName: "Alice Santos", TotalValue: 10},
		{ID: "2", OrderNumber: "ORD-002", CustomerName: "Bruno Lima", TotalValue: 20},
		{ID: "3", OrderNumber: "ORD-003", CustomerName: "Alice Prado", TotalValue: 30},
		{ID: "4", OrderNumber: "ORD-004", CustomerName: "Carla Reis", TotalValue: 40},
		{ID: "5", OrderNumber: "ORD-005", CustomerName: "alice mota", TotalValue: 50},
	}
}

// TestServerPaginationTrustsServer verifies the non-search path returns the
// server's page and summary verbatim.
func TestServerPaginationTrustsServer(t *testing.T) {
	serverSummary := models.OrderSummary{TotalValue: 150, TotalCount: 5, AverageValue: 30}
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{
				Items:      fullSet()[2:4],
				TotalPages: 3,
				Summary:    &serverSummary,
			}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)

	view, err := o.Refresh(models.OrderScope{Status: "all"}, "", 2)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	q := lister.lastCall()
	if q.Page != 2 || q.Limit != 2 {
		t.Errorf("query page/limit = %d/%d, want 2/2", q.Page, q.Limit)
	}
	if len(view.Records) != 2 || view.Records[0].ID != "3" {
		t.Errorf("unexpected page records: %+v", view.Records)
	}
	if view.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", view.TotalPages)
	}
	if view.Summary != serverSummary {
		t.Errorf("Summary = %+v, want server summary %+v", view.Summary, serverSummary)
	}
	if !view.FromNetwork {
		t.Error("server-paginated refresh must report a network fetch")
	}
}

// TestServerPaginationDefaults verifies missing pagination/summary blocks
// degrade to a well-formed view.
func TestServerPaginationDefaults(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)

	view, err := o.Refresh(models.OrderScope{Status: "all"}, "", 1)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if view.Records == nil {
		t.Error("Records must never be nil")
	}
	if view.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", view.TotalPages)
	}
	if view.Summary != (models.OrderSummary{}) {
		t.Errorf("Summary = %+v, want zero", view.Summary)
	}
}

// TestSearchFetchesFullScopeOnce verifies a search fetches the whole scope
// once and refinements are served from the cache.
func TestSearchFetchesFullScopeOnce(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{Items: fullSet()}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)
	scope := models.OrderScope{Status: "all"}

	view, err := o.Refresh(scope, "al", 1)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := lister.lastCall(); got.Page != 1 || got.Limit != FullScopeLimit {
		t.Errorf("full-scope query page/limit = %d/%d, want 1/%d", got.Page, got.Limit, FullScopeLimit)
	}
	if !view.FromNetwork {
		t.Error("cache miss must report a network fetch")
	}

	// Refinement: more text, same scope, no new network call
	view, err = o.Refresh(scope, "alice", 1)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if lister.callCount() != 1 {
		t.Errorf("refinement hit the network: %d calls", lister.callCount())
	}
	if view.FromNetwork {
		t.Error("cache hit must not report a network fetch")
	}
	if o.WillFetch(scope, "alice x") {
		t.Error("WillFetch = true for a cached scope")
	}
}

// TestSearchScenario runs the reference scenario: five cached orders with
// values 10..50, page size 2, a term matching three of them.
func TestSearchScenario(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{Items: fullSet()}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)
	scope := models.OrderScope{Status: "all"}

	// "alice" matches orders 1, 3, 5 with values 10, 30, 50
	view, err := o.Refresh(scope, "alice", 1)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if len(view.Records) != 2 || view.Records[0].ID != "1" || view.Records[1].ID != "3" {
		t.Errorf("page 1 = %+v, want orders 1 and 3 in original order", view.Records)
	}
	if view.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", view.TotalPages)
	}
	want := models.OrderSummary{TotalValue: 90, TotalCount: 3, AverageValue: 30}
	if view.Summary != want {
		t.Errorf("Summary = %+v, want %+v (reduced over the whole filtered set)", view.Summary, want)
	}

	// Page 2 holds the remaining match
	view, err = o.Refresh(scope, "alice", 2)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(view.Records) != 1 || view.Records[0].ID != "5" {
		t.Errorf("page 2 = %+v, want order 5", view.Records)
	}
	if view.Summary != want {
		t.Errorf("page 2 Summary = %+v, want unchanged %+v", view.Summary, want)
	}
}

// TestScopeChangeInvalidatesCache verifies changing any scope field while
// searching forces a fresh full-scope fetch.
func TestScopeChangeInvalidatesCache(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{Items: fullSet()}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)

	if _, err := o.Refresh(models.OrderScope{Status: "all"}, "alice", 1); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := o.Refresh(models.OrderScope{Status: "paid"}, "alice", 1); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if lister.callCount() != 2 {
		t.Errorf("scope change made %d network calls, want 2 (cache must not survive)", lister.callCount())
	}
}

// TestServerModeClearsCache verifies data fetched under server pagination
// never seeds a later search, even for the same scope.
func TestServerModeClearsCache(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{Items: fullSet(), TotalPages: 1}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 10, nil)
	scope := models.OrderScope{Status: "all"}

	if _, err := o.Refresh(scope, "alice", 1); err != nil {
		t.Fatalf("search Refresh() error = %v", err)
	}
	if _, err := o.Refresh(scope, "", 1); err != nil {
		t.Fatalf("server Refresh() error = %v", err)
	}
	if !o.WillFetch(scope, "alice") {
		t.Fatal("server-paginated cycle left the search cache alive")
	}
	if _, err := o.Refresh(scope, "alice", 1); err != nil {
		t.Fatalf("second search Refresh() error = %v", err)
	}
	if lister.callCount() != 3 {
		t.Errorf("%d network calls, want 3 (search after server mode must refetch)", lister.callCount())
	}
}

// TestSearchMissFailureDegrades verifies a failed full-scope fetch degrades
// to an empty committed view rather than old data or a panic.
func TestSearchMissFailureDegrades(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)
	scope := models.OrderScope{Status: "all"}

	view, err := o.Refresh(scope, "alice", 1)
	if err == nil {
		t.Fatal("expected an error to surface for notification")
	}
	if view == nil {
		t.Fatal("degraded view must still be committed")
	}
	if len(view.Records) != 0 {
		t.Errorf("Records = %+v, want empty", view.Records)
	}
	if view.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", view.TotalPages)
	}
	if view.Summary != (models.OrderSummary{}) {
		t.Errorf("Summary = %+v, want zero", view.Summary)
	}

	// The empty entry is not a valid cache: the next search retries
	if !o.WillFetch(scope, "alice") {
		t.Error("failed fetch left a cache entry that blocks retrying")
	}
}

// TestServerModeFailureKeepsData verifies a failed page fetch commits
// nothing, so the caller keeps whatever it was displaying.
func TestServerModeFailureKeepsData(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return nil, fmt.Errorf("gateway timeout")
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)

	view, err := o.Refresh(models.OrderScope{Status: "all"}, "", 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if view != nil {
		t.Errorf("failed server-mode refresh committed a view: %+v", view)
	}
}

// TestStaleRefreshDiscarded verifies an in-flight refresh that resolves
// after a newer one started cannot overwrite newer state.
func TestStaleRefreshDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var firstCall bool
	var mu sync.Mutex

	lister := &fakeLister{}
	lister.respond = func(q models.OrderQuery) (*models.ListResult, error) {
		mu.Lock()
		first := !firstCall
		firstCall = true
		mu.Unlock()

		if first {
			close(started)
			<-release // hold the old request until a newer cycle finishes
			return &models.ListResult{Items: fullSet()[:1], TotalPages: 9}, nil
		}
		return &models.ListResult{Items: fullSet(), TotalPages: 1}, nil
	}

	o := NewOrchestrator(lister, NewResultCache(), 10, nil)
	scope := models.OrderScope{Status: "all"}

	type result struct {
		view *View
		err  error
	}
	staleDone := make(chan result, 1)
	go func() {
		view, err := o.Refresh(scope, "", 1)
		staleDone <- result{view, err}
	}()

	<-started
	if _, err := o.Refresh(scope, "", 2); err != nil {
		t.Fatalf("newer Refresh() error = %v", err)
	}

	close(release)
	stale := <-staleDone
	if !errors.Is(stale.err, ErrSuperseded) {
		t.Errorf("stale refresh error = %v, want ErrSuperseded", stale.err)
	}
	if stale.view != nil {
		t.Errorf("stale refresh committed a view: %+v", stale.view)
	}
}

// TestWillFetch covers the loading-indicator decision table.
func TestWillFetch(t *testing.T) {
	lister := &fakeLister{
		respond: func(q models.OrderQuery) (*models.ListResult, error) {
			return &models.ListResult{Items: fullSet()}, nil
		},
	}
	o := NewOrchestrator(lister, NewResultCache(), 2, nil)
	scope := models.OrderScope{Status: "all"}

	if !o.WillFetch(scope, "") {
		t.Error("server-paginated mode always fetches")
	}
	if !o.WillFetch(scope, "alice") {
		t.Error("search with a cold cache fetches")
	}
	if _, err := o.Refresh(scope, "alice", 1); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if o.WillFetch(scope, "alice p") {
		t.Error("search refinement against a warm cache must not fetch")
	}
	if !o.WillFetch(models.OrderScope{Status: "paid"}, "alice") {
		t.Error("a different scope must fetch")
	}
}
