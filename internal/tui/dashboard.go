package tui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jetdock/rentalwatch/internal/countdown"
	"github.com/jetdock/rentalwatch/internal/notify"
	"github.com/jetdock/rentalwatch/internal/poller"
	"github.com/jetdock/rentalwatch/internal/rentals"
)

const (
	colFlag      = 2
	colEquipment = 22
	colCustomer  = 20
	colCheckIn   = 12
	minWidth     = 70
	minHeight    = 12
	headerLines  = 4 // header + subheader + column header + separator
	footerLines  = 2 // toast bar + status bar
	frameTick    = time.Second
	toastBuffer  = 20
)

// Feed is the polling side the dashboard controls.
type Feed interface {
	Health() poller.Health
	Refresh() bool
	ForceRefresh()
}

// AlertCenter is the alert coordinator as seen by the dashboard.
type AlertCenter interface {
	Snapshot() *poller.Snapshot
	Counts(now time.Time) countdown.Counts
	ArmSound() bool
}

// Muter toggles alert sounds.
type Muter interface {
	SetMuted(bool)
	Muted() bool
}

// Messages

type frameTickMsg time.Time

// ToastMsg delivers a toast from outside the program.
type ToastMsg struct {
	Toast notify.Toast
}

type soundArmedMsg struct {
	ok bool
}

type rowAlertMsg struct {
	rentalID string
	expired  bool
}

// Option configures the dashboard.
type Option func(*Dashboard)

// WithThreshold sets the warning threshold used by badges.
func WithThreshold(d time.Duration) Option {
	return func(m *Dashboard) { m.threshold = d }
}

// WithMuter enables the mute key.
func WithMuter(mu Muter) Option {
	return func(m *Dashboard) { m.muter = mu }
}

// WithToastBar replaces the default toast bar.
func WithToastBar(bar *notify.Bar) Option {
	return func(m *Dashboard) { m.bar = bar }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Dashboard) { m.now = now }
}

// Dashboard is the main Bubble Tea model.
type Dashboard struct {
	feed      Feed
	alerts    AlertCenter
	muter     Muter
	bar       *notify.Bar
	threshold time.Duration
	now       func() time.Time

	version uint64
	rows    []rentals.ActiveRental
	badges  map[string]Badge
	flagged map[string]bool // rental id -> expired

	cursor  int
	width   int
	height  int
	err     error
	armed   bool
	lastMsg string // transient message shown in the status line
}

// NewDashboard creates a new dashboard model.
func NewDashboard(feed Feed, alerts AlertCenter, opts ...Option) Dashboard {
	d := Dashboard{
		feed:      feed,
		alerts:    alerts,
		threshold: countdown.DefaultWarningThreshold,
		now:       time.Now,
		badges:    make(map[string]Badge),
		flagged:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.bar == nil {
		d.bar = notify.NewBar(toastBuffer)
	}
	return d
}

// Err returns any fatal error that occurred.
func (d Dashboard) Err() error {
	return d.err
}

// Init syncs the first snapshot and starts the frame clock.
func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(d.syncCmd(), d.frame())
}

func (d Dashboard) frame() tea.Cmd {
	return tea.Tick(frameTick, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (d Dashboard) syncCmd() tea.Cmd {
	return func() tea.Msg {
		return frameTickMsg(d.now())
	}
}

// Update handles messages.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		arm := d.armOnFirstInput()
		var cmd tea.Cmd
		d, cmd = d.handleKey(msg)
		return d, tea.Batch(arm, cmd)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return d, d.armOnFirstInput()
		}
		return d, nil

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case frameTickMsg:
		cmd := d.sync()
		d.bar.Prune(time.Time(msg))
		return d, tea.Batch(cmd, d.frame())

	case badgeTickMsg:
		for id, b := range d.badges {
			if b.ID() == msg.id {
				updated, cmd := b.Update(msg)
				d.badges[id] = updated
				return d, cmd
			}
		}
		return d, nil

	case rowAlertMsg:
		d.flagged[msg.rentalID] = msg.expired
		return d, nil

	case ToastMsg:
		d.bar.Push(msg.Toast)
		return d, nil

	case soundArmedMsg:
		if !msg.ok {
			d.lastMsg = "Sound unavailable, alerts are visual only"
		}
		return d, nil
	}

	return d, nil
}

func (d *Dashboard) armOnFirstInput() tea.Cmd {
	if d.armed || d.alerts == nil {
		return nil
	}
	d.armed = true
	alerts := d.alerts
	return func() tea.Msg {
		return soundArmedMsg{ok: alerts.ArmSound()}
	}
}

// sync rebinds badges when the coordinator holds a newer snapshot.
func (d *Dashboard) sync() tea.Cmd {
	if d.alerts == nil {
		return nil
	}
	snap := d.alerts.Snapshot()
	if snap == nil || snap.Version == d.version {
		return nil
	}
	d.version = snap.Version

	rows := make([]rentals.ActiveRental, len(snap.Rentals))
	copy(rows, snap.Rentals)
	sortByEnd(rows)
	d.rows = rows

	var cmds []tea.Cmd
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.ID] = true
		b, ok := d.badges[r.ID]
		if !ok {
			b = d.newBadge()
		}
		b, cmd := b.Bind(r)
		d.badges[r.ID] = b
		cmds = append(cmds, cmd)
	}
	for id := range d.badges {
		if !seen[id] {
			delete(d.badges, id)
			delete(d.flagged, id)
		}
	}

	if d.cursor >= len(d.rows) {
		d.cursor = max(0, len(d.rows)-1)
	}
	return tea.Batch(cmds...)
}

func (d Dashboard) newBadge() Badge {
	b := NewBadge(d.threshold)
	b.now = d.now
	flag := func(expired bool) AlertFunc {
		return func(r rentals.ActiveRental, _ countdown.Reading) tea.Cmd {
			id := r.ID
			return func() tea.Msg { return rowAlertMsg{rentalID: id, expired: expired} }
		}
	}
	b.OnWarning = flag(false)
	b.OnExpired = flag(true)
	return b
}

// sortByEnd orders rentals by end time; open-ended rentals go last by label.
func sortByEnd(list []rentals.ActiveRental) {
	sort.SliceStable(list, func(i, j int) bool {
		ei, iok := list[i].EndTime()
		ej, jok := list[j].EndTime()
		switch {
		case iok && jok:
			return ei.Before(ej)
		case iok != jok:
			return iok
		default:
			return list[i].Label() < list[j].Label()
		}
	})
}

func (d Dashboard) handleKey(msg tea.KeyMsg) (Dashboard, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return d, tea.Quit

	case "j", "down":
		if d.cursor < len(d.rows)-1 {
			d.cursor++
		}

	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}

	case "G":
		if len(d.rows) > 0 {
			d.cursor = len(d.rows) - 1
		}

	case "g":
		d.cursor = 0

	case "enter":
		if len(d.rows) > 0 {
			delete(d.flagged, d.rows[d.cursor].ID)
		}

	case "r":
		if d.feed != nil && !d.feed.Refresh() {
			d.lastMsg = "Already up to date"
		} else {
			d.lastMsg = "Refreshing..."
		}

	case "R":
		if d.feed != nil {
			d.feed.ForceRefresh()
		}
		d.lastMsg = "Refreshing..."

	case "x":
		d.bar.DismissLatest()

	case "m":
		if d.muter != nil {
			d.muter.SetMuted(!d.muter.Muted())
			if d.muter.Muted() {
				d.lastMsg = "Sound muted"
			} else {
				d.lastMsg = "Sound on"
			}
		}
	}

	return d, nil
}

// View renders the dashboard.
func (d Dashboard) View() string {
	if d.width < minWidth || d.height < minHeight {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", minWidth, minHeight, d.width, d.height)
	}

	now := d.now()
	var b strings.Builder

	b.WriteString(d.renderHeader(now))
	b.WriteString("\n")
	b.WriteString(d.renderSubheader(now))
	b.WriteString("\n")
	b.WriteString(d.renderColumnHeaders())
	b.WriteString("\n")
	b.WriteString(d.renderSeparator())
	b.WriteString("\n")

	listHeight := d.height - headerLines - footerLines
	b.WriteString(d.renderRentalList(listHeight))

	b.WriteString(d.renderToastBar(now))
	b.WriteString("\n")
	b.WriteString(d.renderStatusBar())

	return b.String()
}

func (d Dashboard) renderHeader(now time.Time) string {
	title := headerStyle.Render("Rental Watch")

	var counts countdown.Counts
	if d.alerts != nil {
		counts = d.alerts.Counts(now)
	}

	var parts []string
	if counts.Warning > 0 {
		parts = append(parts, warningCountStyle.Render(fmt.Sprintf("[%d expiring]", counts.Warning)))
	}
	if counts.Expired > 0 {
		parts = append(parts, expiredCountStyle.Render(fmt.Sprintf("[%d overdue]", counts.Expired)))
	}
	right := strings.Join(parts, " ")

	gap := d.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + right
}

func (d Dashboard) renderSubheader(now time.Time) string {
	if d.feed == nil {
		return subheaderStyle.Render("Offline")
	}
	h := d.feed.Health()
	var status string
	switch {
	case h.LastSuccess.IsZero() && h.LastAttempt.IsZero():
		status = "Loading..."
	case h.Unreachable():
		status = fmt.Sprintf("Backoffice unreachable (%d failed polls): %s", h.ConsecFails, errText(h.LastErr))
	case h.Failing():
		status = fmt.Sprintf("Refresh failed, showing data from %s ago: %s", formatAge(h.Age(now)), errText(h.LastErr))
	default:
		status = fmt.Sprintf("Connected · %d active · updated %s ago", len(d.rows), formatAge(h.Age(now)))
	}
	if d.muter != nil && d.muter.Muted() {
		status += " · muted"
	}
	return subheaderStyle.Render(truncate(status, d.width))
}

func errText(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}

func formatAge(age time.Duration) string {
	switch {
	case age < 0:
		return "0s"
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(age.Hours()))
	}
}

func (d Dashboard) renderColumnHeaders() string {
	header := padRight("", colFlag) +
		padRight("EQUIPMENT", colEquipment) +
		padRight("CUSTOMER", colCustomer) +
		padRight("CHECKED IN", colCheckIn) +
		"REMAINING"
	return columnHeaderStyle.Render("  " + header)
}

func (d Dashboard) renderSeparator() string {
	sep := padRight("", colFlag) +
		padRight(strings.Repeat("─", colEquipment-1), colEquipment) +
		padRight(strings.Repeat("─", colCustomer-1), colCustomer) +
		padRight(strings.Repeat("─", colCheckIn-1), colCheckIn) +
		strings.Repeat("─", 12)
	return subheaderStyle.Render("  " + sep)
}

func (d Dashboard) renderRentalList(height int) string {
	if len(d.rows) == 0 {
		msg := "  No active rentals.\n"
		if d.feed != nil && d.feed.Health().LastAttempt.IsZero() {
			msg = "  Loading rentals...\n"
		}
		return padLines(msg, height)
	}

	start := 0
	if d.cursor >= height {
		start = d.cursor - height + 1
	}
	end := min(start+height, len(d.rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		r := d.rows[i]

		prefix := "  "
		if i == d.cursor {
			prefix = cursorStyle.Render("▸ ")
		}

		flag := padRight("", colFlag)
		if expired, ok := d.flagged[r.ID]; ok {
			style := flagStyle
			if expired {
				style = expiredCountStyle
			}
			flag = style.Render(padRight("●", colFlag))
		}

		equipment := r.EquipmentLabel
		if equipment == "" {
			equipment = r.ID
		}
		line := prefix + flag +
			padRight(truncate(equipment, colEquipment-2), colEquipment) +
			padRight(truncate(r.CustomerName, colCustomer-2), colCustomer) +
			padRight(r.FormatCheckIn(), colCheckIn) +
			d.badges[r.ID].View()

		b.WriteString(line)
		b.WriteString("\n")
	}

	for i := end - start; i < height; i++ {
		b.WriteString("\n")
	}

	return b.String()
}

func (d Dashboard) renderToastBar(now time.Time) string {
	visible := d.bar.Visible()
	if len(visible) == 0 {
		return toastBarStyle.Render("")
	}
	latest := visible[len(visible)-1]
	return toastStyle(latest.Severity).Render("  " + d.bar.Render(d.width-4, now))
}

func (d Dashboard) renderStatusBar() string {
	keys := "  j/k:navigate  enter:ack  r:refresh  R:force  x:dismiss  m:mute  q:quit"
	if d.lastMsg != "" {
		keys += "  · " + d.lastMsg
	}
	return statusBarStyle.Render(truncate(keys, d.width))
}

// ProgramSink forwards toasts into a running program. Toasts sent before
// Attach are dropped.
type ProgramSink struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach sets the receiving program.
func (s *ProgramSink) Attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

// Toast implements notify.Sink.
func (s *ProgramSink) Toast(t notify.Toast) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(ToastMsg{Toast: t})
	}
}

// Helpers

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-1]) + "…"
}

func padLines(content string, height int) string {
	lines := strings.Count(content, "\n")
	padding := height - lines
	if padding > 0 {
		content += strings.Repeat("\n", padding)
	}
	return content
}
