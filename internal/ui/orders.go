package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/orderdeck/orderdeck/internal/api"
	"github.com/orderdeck/orderdeck/internal/browse"
	"github.com/orderdeck/orderdeck/internal/db"
	"github.com/orderdeck/orderdeck/internal/models"
)

const statusToastDuration = 5 * time.Second

// BrowserConfig wires the collaborators the orders browser needs.
type BrowserConfig struct {
	Client       browse.Lister
	Credits      *api.CreditsClient
	History      *db.DB
	Logger       *log.Logger
	PageSize     int
	InitialScope models.OrderScope
}

// OrdersModel is the TUI model for browsing orders. It owns the current
// filter scope, the settled search text, and the page, and delegates every
// fetch-vs-cache decision to the orchestrator.
type OrdersModel struct {
	PageState

	orch     *browse.Orchestrator
	debounce *browse.Debouncer
	credits  *api.CreditsClient
	history  *db.DB
	logger   *log.Logger

	table       table.Model
	searchInput textinput.Model
	spinner     spinner.Model

	// Query state
	scope      models.OrderScope
	searchText string // settled value, not the raw keystrokes
	page       int

	// Display state
	view      *browse.View
	balance   *float64
	isLoading bool

	// View mode
	viewMode  ordersViewMode
	inputMode ordersInputMode

	// History browser state
	historyEntries []models.QueryHistoryEntry
	historyCursor  int
}

type ordersViewMode int

const (
	ordersViewBrowse  ordersViewMode = iota // Table of the current page
	ordersViewInput                         // Filter/search input overlay
	ordersViewHistory                       // Recent query browser
)

type ordersInputMode int

const (
	inputSearch ordersInputMode = iota
	inputStatus
	inputPayment
	inputCustomer
	inputDateFrom
	inputDateTo
)

// Messages

type ordersRefreshedMsg struct {
	view *browse.View
	err  error
}

type searchSettleMsg struct {
	gen int
}

type historyLoadedMsg struct {
	entries []models.QueryHistoryEntry
	err     error
}

type balanceLoadedMsg struct {
	customerID string
	balance    float64
	err        error
}

// NewOrdersModel creates the orders browser TUI.
func NewOrdersModel(cfg BrowserConfig) OrdersModel {
	ti := textinput.New()
	ti.Placeholder = "Search orders..."
	ti.CharLimit = 120
	ti.TextStyle = NormalStyle
	ti.PromptStyle = NormalStyle

	layout := DefaultLayout()

	t := table.New(
		table.WithColumns(orderColumns(layout.TableWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	return OrdersModel{
		PageState:   NewPageState(layout),
		orch:        browse.NewOrchestrator(cfg.Client, browse.NewResultCache(), cfg.PageSize, cfg.Logger),
		debounce:    browse.NewDebouncer(browse.DefaultSettleDelay),
		credits:     cfg.Credits,
		history:     cfg.History,
		logger:      cfg.Logger,
		table:       t,
		searchInput: ti,
		spinner:     NewAppSpinner(),
		scope:       cfg.InitialScope,
		page:        1,
		isLoading:   true, // Init fires the first refresh
		viewMode:    ordersViewBrowse,
	}
}

// Init implements tea.Model
func (m OrdersModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.triggerRefreshCmd())
}

// Update implements tea.Model
func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.table.SetHeight(m.Layout.TableHeight)
			m.table.SetColumns(orderColumns(m.Layout.TableWidth))
			m.searchInput.Width = m.Layout.InnerWidth - 12
			m.updateTable()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchSettleMsg:
		return m.handleSearchSettle(msg.gen)

	case ordersRefreshedMsg:
		return m.handleRefreshed(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			m.SetStatus(fmt.Sprintf("History error: %v", msg.err), statusToastDuration)
			return m, nil
		}
		m.historyEntries = msg.entries
		m.historyCursor = 0
		m.viewMode = ordersViewHistory
		return m, nil

	case balanceLoadedMsg:
		if msg.err != nil || msg.customerID != m.scope.CustomerID {
			return m, nil
		}
		b := msg.balance
		m.balance = &b
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m OrdersModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case ordersViewBrowse:
		return m.handleBrowseKeys(msg)
	case ordersViewInput:
		return m.handleInputKeys(msg)
	case ordersViewHistory:
		return m.handleHistoryKeys(msg)
	default:
		return m, nil
	}
}

func (m OrdersModel) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.Quitting = true
		return m, tea.Quit

	case "up", "k":
		m.table.MoveUp(1)
		return m, nil

	case "down", "j":
		m.table.MoveDown(1)
		return m, nil

	case "/":
		return m.enterInputMode(inputSearch, m.searchText, "Search orders..."), textinput.Blink

	case "s":
		return m.enterInputMode(inputStatus, m.scope.Status, "Status (all, open, paid, cancelled)..."), textinput.Blink

	case "m":
		return m.enterInputMode(inputPayment, m.scope.PaymentMethod, "Payment method (cash, card, credits)..."), textinput.Blink

	case "u":
		return m.enterInputMode(inputCustomer, m.scope.CustomerID, "Customer ID..."), textinput.Blink

	case "[":
		return m.enterInputMode(inputDateFrom, m.scope.DateFrom, "From date (YYYY-MM-DD)..."), textinput.Blink

	case "]":
		return m.enterInputMode(inputDateTo, m.scope.DateTo, "To date (YYYY-MM-DD)..."), textinput.Blink

	case "c":
		// Clear search and scope filters
		m.scope = models.OrderScope{Status: "all"}
		m.searchText = ""
		m.searchInput.SetValue("")
		m.page = 1
		m.balance = nil
		m.SetStatus("Filters cleared", statusToastDuration)
		return m.triggerRefresh()

	case "r":
		return m.triggerRefresh()

	case "h":
		return m, m.loadHistory()

	case "n", "right":
		if m.view != nil && m.page < m.view.TotalPages {
			m.page++
			return m.triggerRefresh()
		}
		return m, nil

	case "p", "left":
		if m.page > 1 {
			m.page--
			return m.triggerRefresh()
		}
		return m, nil
	}
	return m, nil
}

// enterInputMode opens the input overlay pre-filled with the current value.
func (m OrdersModel) enterInputMode(mode ordersInputMode, value, placeholder string) OrdersModel {
	m.viewMode = ordersViewInput
	m.inputMode = mode
	m.searchInput.SetValue(value)
	m.searchInput.Placeholder = placeholder
	m.searchInput.Focus()
	return m
}

func (m OrdersModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Abandon the edit; settled state stays as-is
		m.viewMode = ordersViewBrowse
		m.searchInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.searchInput.Value())
		if m.inputMode == inputSearch {
			// Force an immediate settle instead of waiting out the delay
			gen := m.debounce.Observe(m.searchInput.Value())
			m.viewMode = ordersViewBrowse
			m.searchInput.Blur()
			return m.handleSearchSettle(gen)
		}
		m.applyScopeField(value)
		m.viewMode = ordersViewBrowse
		m.searchInput.Blur()
		m.page = 1
		return m.triggerRefresh()

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.inputMode == inputSearch {
			// Every keystroke restarts the quiet period
			gen := m.debounce.Observe(m.searchInput.Value())
			settle := tea.Tick(m.debounce.Delay(), func(time.Time) tea.Msg {
				return searchSettleMsg{gen: gen}
			})
			return m, tea.Batch(cmd, settle)
		}
		return m, cmd
	}
}

// applyScopeField writes an edited value into the scope field being edited.
func (m *OrdersModel) applyScopeField(value string) {
	switch m.inputMode {
	case inputStatus:
		m.scope.Status = value
	case inputPayment:
		m.scope.PaymentMethod = value
	case inputCustomer:
		m.scope.CustomerID = value
		m.balance = nil
	case inputDateFrom:
		m.scope.DateFrom = value
	case inputDateTo:
		m.scope.DateTo = value
	}
}

// handleSearchSettle resolves a debounce timer. Stale generations and
// one-character values fall through without any mode change.
func (m OrdersModel) handleSearchSettle(gen int) (tea.Model, tea.Cmd) {
	text, ok := m.debounce.Settle(gen)
	if !ok {
		return m, nil
	}
	settled := browse.OnSearchSettle(text)
	if settled.Text == m.searchText {
		return m, nil
	}
	m.searchText = settled.Text
	m.page = settled.Page
	return m.triggerRefresh()
}

// triggerRefresh starts an orchestration cycle for the current query state.
// The loading indicator only appears when the cycle will hit the network;
// cache-hit search refinements render instantly.
func (m OrdersModel) triggerRefresh() (tea.Model, tea.Cmd) {
	m.isLoading = m.orch.WillFetch(m.scope, m.searchText)

	cmds := []tea.Cmd{m.triggerRefreshCmd()}
	if m.isLoading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.credits != nil && m.scope.CustomerID != "" && m.balance == nil {
		cmds = append(cmds, m.loadBalance(m.scope.CustomerID))
	}
	return m, tea.Batch(cmds...)
}

func (m OrdersModel) triggerRefreshCmd() tea.Cmd {
	scope, search, page := m.scope, m.searchText, m.page
	history := m.history
	return func() tea.Msg {
		view, err := m.orch.Refresh(scope, search, page)
		if view != nil && history != nil {
			_ = history.RecordQuery(browse.ScopeKey(scope), scope, search)
		}
		return ordersRefreshedMsg{view: view, err: err}
	}
}

func (m OrdersModel) handleRefreshed(msg ordersRefreshedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, browse.ErrSuperseded) {
		// A newer cycle owns the display; drop this one
		return m, nil
	}
	m.isLoading = false

	if msg.view != nil {
		m.view = msg.view
		m.updateTable()
	}
	if msg.err != nil {
		m.SetStatus(fmt.Sprintf("Error: %v", msg.err), statusToastDuration)
	}
	return m, nil
}

func (m OrdersModel) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h":
		m.viewMode = ordersViewBrowse
		return m, nil

	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil

	case "down", "j":
		if m.historyCursor < len(m.historyEntries)-1 {
			m.historyCursor++
		}
		return m, nil

	case "enter":
		if len(m.historyEntries) == 0 || m.historyCursor >= len(m.historyEntries) {
			return m, nil
		}
		e := m.historyEntries[m.historyCursor]
		m.scope = models.OrderScope{
			Status:        e.Status,
			PaymentMethod: e.PaymentMethod,
			CustomerID:    e.CustomerID,
			DateFrom:      e.DateFrom,
			DateTo:        e.DateTo,
		}
		m.searchText = e.SearchText
		m.searchInput.SetValue(e.SearchText)
		m.page = 1
		m.balance = nil
		m.viewMode = ordersViewBrowse
		return m.triggerRefresh()
	}
	return m, nil
}

// Commands

func (m OrdersModel) loadHistory() tea.Cmd {
	history := m.history
	return func() tea.Msg {
		if history == nil {
			return historyLoadedMsg{err: fmt.Errorf("no history database")}
		}
		entries, err := history.RecentQueries(20)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m OrdersModel) loadBalance(customerID string) tea.Cmd {
	credits := m.credits
	return func() tea.Msg {
		balance, err := credits.GetBalance(customerID)
		return balanceLoadedMsg{customerID: customerID, balance: balance, err: err}
	}
}

// View implements tea.Model
func (m OrdersModel) View() string {
	if m.Quitting {
		return ""
	}

	var content strings.Builder
	content.WriteString(ViewHeader("Orders", m.Layout.InnerWidth))

	switch m.viewMode {
	case ordersViewHistory:
		content.WriteString(m.renderHistoryView())
	default:
		content.WriteString(m.renderBrowseView())
	}

	if m.viewMode == ordersViewInput {
		content.WriteString("\n\n")
		content.WriteString(AccentStyle.Render(" " + inputModeLabel(m.inputMode) + ": "))
		content.WriteString(m.searchInput.View())
	}

	if m.HasStatus() {
		content.WriteString("\n")
		content.WriteString(StatusMsgStyle.Render(" " + m.StatusMsg))
	}

	return BuildTwoBoxView(content.String(), m.getHelpText(), m.Layout)
}

func (m OrdersModel) renderBrowseView() string {
	var b strings.Builder

	b.WriteString(AccentStyle.Render(m.queryInfo()))
	b.WriteString("\n")
	b.WriteString(NormalStyle.Render(m.summaryInfo()))
	b.WriteString("\n\n")

	if m.isLoading {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(DimStyle.Render("Fetching orders..."))
		return b.String()
	}

	if m.view == nil || len(m.view.Records) == 0 {
		b.WriteString(DimStyle.Render(" No orders match the current filters."))
		return b.String()
	}

	b.WriteString(m.table.View())
	return b.String()
}

// queryInfo describes the active scope, search, and page position.
func (m OrdersModel) queryInfo() string {
	parts := []string{}
	if m.scope.Status != "" {
		parts = append(parts, "status="+m.scope.Status)
	}
	if m.scope.PaymentMethod != "" {
		parts = append(parts, "payment="+m.scope.PaymentMethod)
	}
	if m.scope.CustomerID != "" {
		parts = append(parts, "customer="+m.scope.CustomerID)
	}
	if m.scope.DateFrom != "" || m.scope.DateTo != "" {
		parts = append(parts, fmt.Sprintf("dates=%s..%s", m.scope.DateFrom, m.scope.DateTo))
	}
	if m.searchText != "" {
		parts = append(parts, fmt.Sprintf("search=%q", m.searchText))
	}

	info := " " + strings.Join(parts, "  |  ")
	totalPages := 1
	if m.view != nil {
		totalPages = m.view.TotalPages
	}
	info += fmt.Sprintf("  |  Page %d/%d", m.page, totalPages)
	return info
}

// summaryInfo renders the totals for the full set being paginated.
func (m OrdersModel) summaryInfo() string {
	var s models.OrderSummary
	if m.view != nil {
		s = m.view.Summary
	}
	info := fmt.Sprintf(" Total: %.2f  |  Orders: %d  |  Average: %.2f", s.TotalValue, s.TotalCount, s.AverageValue)
	if m.balance != nil {
		info += fmt.Sprintf("  |  Credits: %.2f", *m.balance)
	}
	return info
}

func (m OrdersModel) renderHistoryView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(" Recent Queries"))
	b.WriteString("\n\n")

	if len(m.historyEntries) == 0 {
		b.WriteString(DimStyle.Render(" No queries recorded yet."))
		return b.String()
	}

	for i, e := range m.historyEntries {
		label := historyLabel(e)
		if i == m.historyCursor {
			b.WriteString(SelectedStyle.Render("> " + label))
		} else {
			b.WriteString(NormalStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func historyLabel(e models.QueryHistoryEntry) string {
	parts := []string{}
	if e.Status != "" {
		parts = append(parts, "status="+e.Status)
	}
	if e.PaymentMethod != "" {
		parts = append(parts, "payment="+e.PaymentMethod)
	}
	if e.CustomerID != "" {
		parts = append(parts, "customer="+e.CustomerID)
	}
	if e.DateFrom != "" || e.DateTo != "" {
		parts = append(parts, e.DateFrom+".."+e.DateTo)
	}
	if e.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search=%q", e.SearchText))
	}
	if len(parts) == 0 {
		parts = append(parts, "(no filters)")
	}
	return fmt.Sprintf("%s  %s", e.RanAt, strings.Join(parts, " "))
}

func inputModeLabel(mode ordersInputMode) string {
	switch mode {
	case inputSearch:
		return "Search"
	case inputStatus:
		return "Status"
	case inputPayment:
		return "Payment method"
	case inputCustomer:
		return "Customer"
	case inputDateFrom:
		return "From date"
	case inputDateTo:
		return "To date"
	default:
		return "Input"
	}
}

func (m OrdersModel) getHelpText() string {
	switch m.viewMode {
	case ordersViewInput:
		if m.inputMode == inputSearch {
			return "type to search (settles after a pause) | Enter: apply now | Esc: close"
		}
		return "Enter: apply | Esc: cancel"
	case ordersViewHistory:
		return "Enter: run query | up/down: navigate | Esc: back"
	default:
		return "/: search | s: status | m: payment | u: customer | [ ]: dates | n/p: page | h: history | c: clear | r: refresh | q: quit"
	}
}

func (m *OrdersModel) updateTable() {
	columns := orderColumns(m.Layout.TableWidth)
	var records []models.Order
	if m.view != nil {
		records = m.view.Records
	}

	rows := make([]table.Row, len(records))
	for i, o := range records {
		rows[i] = table.Row{
			TruncateCell(o.OrderNumber, columns[0].Width),
			TruncateCell(o.CustomerName, columns[1].Width),
			TruncateCell(o.Status, columns[2].Width),
			TruncateCell(o.PaymentMethod, columns[3].Width),
			TruncateCell(formatCreatedAt(o.CreatedAt), columns[4].Width),
			fmt.Sprintf("%.2f", o.TotalValue),
		}
	}

	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func orderColumns(totalW int) []table.Column {
	if totalW < 80 {
		totalW = 80
	}

	numberW := 14
	statusW := 10
	paymentW := 14
	createdW := 17
	valueW := 10

	customerW := totalW - numberW - statusW - paymentW - createdW - valueW
	if customerW < 16 {
		customerW = 16
	}

	return []table.Column{
		{Title: "Order #", Width: numberW},
		{Title: "Customer", Width: customerW},
		{Title: "Status", Width: statusW},
		{Title: "Payment", Width: paymentW},
		{Title: "Created", Width: createdW},
		{Title: "Value", Width: valueW},
	}
}

// formatCreatedAt shortens an RFC3339 timestamp to "YYYY-MM-DD HH:MM".
func formatCreatedAt(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}

// RunOrdersBrowser starts the orders browser TUI.
func RunOrdersBrowser(cfg BrowserConfig) error {
	model := NewOrdersModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("orders browser error: %w", err)
	}
	return nil
}
