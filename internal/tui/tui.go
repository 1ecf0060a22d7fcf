// Package tui is the interactive Bubble Tea view of the shopping list.
// Every key action goes through the list store, so each change is saved
// as soon as it happens.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/shoplist/internal/catalog"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/prompt"
	"github.com/idilsaglam/shoplist/internal/quantity"
	"github.com/idilsaglam/shoplist/internal/shoplist"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// Options tune the interactive view.
type Options struct {
	SuggestLimit int // 0 = unbounded
	NoAltScreen  bool
}

const completeBanner = "Everything on the list is bought!"

type mode int

const (
	modeList mode = iota
	modeName
	modeDuplicate
	modeQuantity
	modePrice
	modeClear
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item  model.Item
	money totals.Money
}

func (i listItem) Title() string       { return i.item.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.item.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, _ := item.(listItem)
	it := li.item

	box := mutedStyle.Render(boxUnchecked)
	name := it.Name
	if it.Placeholder {
		name += mutedStyle.Render(" ?")
	}
	if it.Completed {
		box = successStyle.Render(boxChecked)
		name = doneStyle.Render(it.Name)
	}
	line := fmt.Sprintf("%s %s  %s  %s  %s",
		box, name,
		accentStyle.Render(it.QuantityLabel()),
		mutedStyle.Render("x "+li.money.Format(it.UnitPrice)),
		li.money.Format(it.Subtotal()),
	)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type keyMap struct {
	Toggle, Inc, Dec, Add, Price, Delete, Undo, Clear key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "bought")),
	Inc:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
	Dec:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Price:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "price")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Toggle, k.Inc, k.Dec, k.Add, k.Price, k.Delete, k.Undo, k.Clear}
}

type modelTUI struct {
	ctx   context.Context
	store *shoplist.Store
	// answers handed to the store when it asks during Add
	answers *prompt.Queue
	opt     Options

	list   list.Model
	ti     textinput.Model // shared by name, quantity and price entry
	mode   mode
	width  int
	height int

	// add flow
	pending     catalog.Resolution
	duplicate   bool
	suggestions []catalog.Entry
	suggestIdx  int
	inputErr    string

	priceID string
	status  string
	isError bool

	// Undo support (single-level)
	canUndo   bool
	undoIndex int
	undoItem  model.Item
}

func newModel(ctx context.Context, s *shoplist.Store, q *prompt.Queue, opt Options) modelTUI {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	// d and u belong to the list actions.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→/pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←/pgup", "prev page"))
	l.AdditionalShortHelpKeys = keys.bindings
	l.AdditionalFullHelpKeys = keys.bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 120

	m := modelTUI{ctx: ctx, store: s, answers: q, opt: opt, list: l, ti: ti, width: 80, height: 24}
	m.refresh()
	return m
}

// Run opens the interactive list on the terminal until the user quits.
func Run(ctx context.Context, s *shoplist.Store, opt Options) error {
	q := &prompt.Queue{}
	prev := s.UsePrompter(q)
	defer s.UsePrompter(prev)

	var popts []tea.ProgramOption
	if !opt.NoAltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	popts = append(popts, tea.WithContext(ctx))
	_, err := tea.NewProgram(newModel(ctx, s, q, opt), popts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// refresh rebuilds the list rows and header from the store.
func (m *modelTUI) refresh() {
	money := m.store.Money()
	items := m.store.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{item: it, money: money})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if n := len(li); n > 0 {
		m.list.Select(max(0, min(idx, n-1)))
	}

	sum := m.store.Summary()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %s",
		titleStyle.Render("Shopping list"),
		successStyle.Render("✔"), sum.Done,
		pendingStyle.Render("•"), sum.Pending,
		accentStyle.Render("Total"), money.Format(sum.Total),
	)
}

func (m *modelTUI) setStatus(msg string, isErr bool) {
	m.status, m.isError = msg, isErr
}

// report turns a store error into the status line. Persistence failures
// leave the change applied in memory.
func (m *modelTUI) report(err error, okMsg string) {
	switch {
	case err == nil:
		m.setStatus(okMsg, false)
	case errors.Is(err, shoplist.ErrPersistenceUnavailable):
		m.setStatus("not saved: "+err.Error(), true)
	case errors.Is(err, shoplist.ErrDuplicateDeclined), errors.Is(err, shoplist.ErrCancelled):
		m.setStatus("nothing changed", false)
	default:
		m.setStatus(err.Error(), true)
	}
	m.refresh()
}

func (m *modelTUI) selectedID() (string, bool) {
	return m.store.IDAt(m.list.Index())
}

func (m *modelTUI) startInput(md mode, placeholder, value string) tea.Cmd {
	m.mode = md
	m.inputErr = ""
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	return m.ti.Focus()
}

func (m *modelTUI) backToList() {
	m.mode = modeList
	m.ti.SetValue("")
	m.ti.Blur()
	m.inputErr = ""
	m.suggestions = nil
	m.suggestIdx = 0
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	kmsg, isKey := msg.(tea.KeyMsg)
	if isKey && kmsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeName:
		return m.updateName(msg)
	case modeQuantity:
		return m.updateQuantity(msg)
	case modePrice:
		return m.updatePrice(msg)
	case modeDuplicate, modeClear:
		if isKey {
			return m.updateConfirm(kmsg)
		}
		return m, nil
	}

	if isKey {
		if next, cmd, handled := m.updateList(kmsg); handled {
			return next, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) resize() {
	h := m.height - 6
	if m.mode != modeList {
		h -= 4 + len(m.suggestions)
	}
	m.list.SetSize(max(20, m.width-4), max(3, h))
}

func (m modelTUI) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case msg.String() == "q" || msg.String() == "esc":
		return m, tea.Quit, true

	case key.Matches(msg, keys.Toggle):
		if id, ok := m.selectedID(); ok {
			it, err := m.store.Toggle(m.ctx, id)
			m.report(err, it.Name+" toggled")
		}
		return m, nil, true

	case key.Matches(msg, keys.Inc), key.Matches(msg, keys.Dec):
		dir := quantity.Increase
		if key.Matches(msg, keys.Dec) {
			dir = quantity.Decrease
		}
		if id, ok := m.selectedID(); ok {
			it, err := m.store.Adjust(m.ctx, id, dir)
			m.report(err, fmt.Sprintf("%s: %s", it.Name, it.QuantityLabel()))
		}
		return m, nil, true

	case key.Matches(msg, keys.Add):
		cmd := m.startInput(modeName, "Product name...", "")
		m.resize()
		return m, cmd, true

	case key.Matches(msg, keys.Price):
		id, ok := m.selectedID()
		if !ok {
			return m, nil, true
		}
		it, _ := m.store.Item(id)
		m.priceID = id
		cmd := m.startInput(modePrice, "0,00", totals.Amount(it.UnitPrice))
		m.resize()
		return m, cmd, true

	case key.Matches(msg, keys.Delete):
		i := m.list.Index()
		id, ok := m.store.IDAt(i)
		if !ok {
			return m, nil, true
		}
		it, _ := m.store.Item(id)
		err := m.store.Remove(m.ctx, id)
		m.undoItem, m.undoIndex, m.canUndo = it, i, true
		m.report(err, "removed "+it.Name+" (u to undo)")
		return m, nil, true

	case key.Matches(msg, keys.Undo):
		if m.canUndo {
			it, err := m.store.Restore(m.ctx, m.undoIndex, m.undoItem)
			m.canUndo = false
			m.report(err, "restored "+it.Name)
			m.list.Select(min(m.undoIndex, max(0, len(m.list.Items())-1)))
		}
		return m, nil, true

	case key.Matches(msg, keys.Clear):
		if m.store.Len() > 0 {
			m.mode = modeClear
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m modelTUI) updateName(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.backToList()
			m.resize()
			return m, nil
		case "tab":
			if len(m.suggestions) > 0 {
				m.ti.SetValue(m.suggestions[m.suggestIdx].Name)
				m.ti.CursorEnd()
				m.refreshSuggestions()
			}
			return m, nil
		case "up":
			if n := len(m.suggestions); n > 0 {
				m.suggestIdx = (m.suggestIdx + n - 1) % n
			}
			return m, nil
		case "down":
			if n := len(m.suggestions); n > 0 {
				m.suggestIdx = (m.suggestIdx + 1) % n
			}
			return m, nil
		case "enter":
			res, dup, err := m.store.Resolve(m.ti.Value())
			if err != nil {
				m.inputErr = "Please type a product name."
				return m, nil
			}
			m.pending, m.duplicate = res, dup
			m.suggestions = nil
			if dup {
				m.mode = modeDuplicate
				m.ti.Blur()
				return m, nil
			}
			cmd := m.startInput(modeQuantity, "1", "")
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *modelTUI) refreshSuggestions() {
	m.suggestions = m.store.Catalog().Suggest(m.ti.Value(), m.opt.SuggestLimit)
	if m.suggestIdx >= len(m.suggestions) {
		m.suggestIdx = 0
	}
	m.resize()
}

func (m modelTUI) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	yes := prompt.IsYes(msg.String())
	no := msg.String() == "n" || msg.String() == "esc"
	if !yes && !no {
		return m, nil
	}
	switch m.mode {
	case modeDuplicate:
		if !yes {
			m.backToList()
			m.resize()
			m.setStatus(m.pending.Name+" not added", false)
			return m, nil
		}
		cmd := m.startInput(modeQuantity, "1", "")
		return m, cmd
	case modeClear:
		m.backToList()
		if yes {
			m.canUndo = false
			m.report(m.store.Clear(m.ctx), "list cleared")
		}
	}
	return m, nil
}

func (m modelTUI) updateQuantity(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.backToList()
			m.resize()
			m.setStatus(m.pending.Name+" not added", false)
			return m, nil
		case "enter":
			raw := strings.TrimSpace(m.ti.Value())
			if raw != "" {
				if _, err := quantity.Parse(raw); err != nil {
					m.inputErr = "Please enter a valid, positive number."
					return m, nil
				}
			}
			m.answers.Reset()
			if m.duplicate {
				m.answers.PushConfirm(true)
			}
			m.answers.PushAnswer(raw)
			it, err := m.store.Add(m.ctx, m.pending.Name)
			m.backToList()
			m.resize()
			m.report(err, fmt.Sprintf("added %s (%s)", it.Name, it.QuantityLabel()))
			if err == nil || errors.Is(err, shoplist.ErrPersistenceUnavailable) {
				m.list.Select(len(m.list.Items()) - 1)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) updatePrice(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			m.backToList()
			m.resize()
			return m, nil
		case "enter":
			it, err := m.store.SetUnitPrice(m.ctx, m.priceID, m.ti.Value())
			m.backToList()
			m.resize()
			m.report(err, fmt.Sprintf("%s: %s each", it.Name, m.store.Money().Format(it.UnitPrice)))
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	sum := m.store.Summary()
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(progressBar(sum.Done, m.store.Len(), 28)))
	if sum.Complete {
		b.WriteString("  " + bannerStyle.Render(completeBanner))
	}

	switch m.mode {
	case modeName:
		b.WriteString("\n" + inputBox(m.inputTitle("Add product"), m.ti.View()+m.suggestionView()))
	case modeQuantity:
		title := fmt.Sprintf("How many %s of %s? (use . or , for decimals, e.g. 1.5)", m.pending.Unit, m.pending.Name)
		b.WriteString("\n" + inputBox(m.inputTitle(title), m.ti.View()))
	case modePrice:
		it, _ := m.store.Item(m.priceID)
		title := fmt.Sprintf("Unit price of %s (%s per %s)", it.Name, m.store.Money().Prefix, it.Unit)
		b.WriteString("\n" + inputBox(m.inputTitle(title), m.ti.View()))
	case modeDuplicate:
		b.WriteString("\n" + inputBox(pendingStyle.Render(fmt.Sprintf("%q is already on the list.", m.pending.Name)), "Add it again? (y/n)"))
	case modeClear:
		b.WriteString("\n" + inputBox(errorStyle.Render("Remove every item?"), "(y/n)"))
	}

	if m.status != "" {
		st := mutedStyle
		if m.isError {
			st = errorStyle
		}
		b.WriteString("\n" + st.Render(m.status))
	}
	if m.store.Degraded() {
		b.WriteString("\n" + errorStyle.Render("storage unavailable: changes are kept in memory only"))
	}
	return panelString(b.String())
}

func (m modelTUI) inputTitle(title string) string {
	if m.inputErr != "" {
		return title + "\n" + errorStyle.Render(m.inputErr)
	}
	return title
}

func (m modelTUI) suggestionView() string {
	if len(m.suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range m.suggestions {
		line := fmt.Sprintf("%s (%s)", e.Name, e.Unit)
		if i == m.suggestIdx {
			line = selectedStyle.Render(line)
		} else {
			line = mutedStyle.Render(line)
		}
		b.WriteString("\n  " + line)
	}
	b.WriteString("\n" + helpStyle.Render("tab completes · ↑/↓ choose"))
	return b.String()
}
