package browse

import (
	"strings"
	"time"
)

// DefaultSettleDelay is how long the search input must stay quiet before a
// raw value settles.
const DefaultSettleDelay = 500 * time.Millisecond

// Debouncer collapses rapid keystrokes on a search input into a single
// settled value. Each Observe bumps a generation; the caller schedules a
// timer (tea.Tick in the UI) carrying that generation and calls Settle when
// it fires. Only the generation belonging to the last keystroke of a burst
// settles. Debouncer is driven entirely from one event loop and needs no
// locking.
type Debouncer struct {
	delay  time.Duration
	gen    int
	latest string
}

// NewDebouncer creates a Debouncer. A non-positive delay falls back to
// DefaultSettleDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period to wait before calling Settle.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Observe records the latest raw input value and returns the generation the
// caller should tag its timer with.
func (d *Debouncer) Observe(raw string) int {
	d.gen++
	d.latest = raw
	return d.gen
}

// Settle resolves the timer for gen. It returns the settled value and true
// only when gen is still the newest generation (no keystroke arrived during
// the quiet period) and the trimmed value is not exactly one character.
// One-character values neither settle nor change search mode.
func (d *Debouncer) Settle(gen int) (string, bool) {
	if gen != d.gen {
		return "", false
	}
	if len(strings.TrimSpace(d.latest)) == 1 {
		return "", false
	}
	return d.latest, true
}

// SettledQuery is the single state transition produced by a settle: the new
// search text together with the pagination reset that must accompany it.
type SettledQuery struct {
	Text string
	Page int
}

// OnSearchSettle builds the transition for a freshly settled search value.
// Settling always lands the pager back on page 1; callers apply both fields
// together so search text and page never diverge.
func OnSearchSettle(text string) SettledQuery {
	return SettledQuery{Text: text, Page: 1}
}
