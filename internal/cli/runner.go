// Package cli implements the shoplist subcommands on top of the list store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/prompt"
	"github.com/idilsaglam/shoplist/internal/quantity"
	"github.com/idilsaglam/shoplist/internal/shoplist"
	"github.com/idilsaglam/shoplist/internal/totals"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // list grouped by pending/done
	Config config.Config

	Stdin          io.Reader
	Stdout, Stderr io.Writer
	// Prompt answers the store's questions; nil means a Terminal on
	// Stdin/Stdout.
	Prompt prompt.Prompter
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Prompt == nil {
		o.Prompt = prompt.NewTerminal(o.Stdin, o.Stdout)
	}
}

type runner struct {
	ctx context.Context
	opt Options
	out io.Writer
	err io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	r := &runner{ctx: ctx, opt: opt, out: opt.Stdout, err: opt.Stderr}

	if len(args) == 0 {
		PrintHelp(r.err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return 0

	case "ls":
		return r.withStore(r.doList)

	case "total":
		return r.withStore(r.doTotal)

	case "tui":
		return r.withStore(r.doTUI)

	case "add":
		if len(a) == 0 {
			ui.Fail(r.err, "usage: shoplist add <name...>")
			return 2
		}
		name := strings.Join(a, " ")
		return r.withStore(func(s *shoplist.Store) int { return r.doAdd(s, name) })

	case "suggest":
		if len(a) == 0 {
			ui.Fail(r.err, "usage: shoplist suggest <query...>")
			return 2
		}
		return r.doSuggest(strings.Join(a, " "))

	case "clear":
		yes := len(a) == 1 && (a[0] == "-y" || a[0] == "--yes")
		return r.withStore(func(s *shoplist.Store) int { return r.doClear(s, yes) })

	case "done", "rm", "inc", "dec":
		if len(a) != 1 {
			ui.Fail(r.err, fmt.Sprintf("usage: shoplist %s <index>", cmd))
			return 2
		}
		n, ok := r.parseIndex(cmd, a[0])
		if !ok {
			return 2
		}
		return r.withStore(func(s *shoplist.Store) int { return r.doIndexed(s, cmd, n) })

	case "price":
		if len(a) < 1 {
			ui.Fail(r.err, "usage: shoplist price <index> [value]")
			return 2
		}
		n, ok := r.parseIndex(cmd, a[0])
		if !ok {
			return 2
		}
		raw := strings.Join(a[1:], " ")
		return r.withStore(func(s *shoplist.Store) int { return r.doPrice(s, n, raw) })
	}

	ui.Fail(r.err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.err)
	PrintHelp(r.err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `shoplist - a shopping list for the terminal

Usage:
  shoplist [flags] <subcommand> [args]

Subcommands:
  add <name...>        Add a product; asks for the quantity (1, 1.5, 0,5 ...)
  ls                   Show the list with subtotals and the grand total
  tui                  Open the interactive list
  done <index>         Toggle bought/not bought for item at 1-based index
  rm <index>           Remove item at 1-based index
  inc <index>          Add one step (0,5 for kg/L/g/ml, 1 otherwise)
  dec <index>          Remove one step; never goes to zero
  price <index> [v]    Set the unit price (asks when v is omitted)
  total                Print the grand total
  suggest <query...>   Show catalog products matching query
  clear [-y]           Empty the list
  help                 Show this help

Flags:
  -group               list grouped by pending/done
  -theme name          classic, neon or mono
  -no-color            disable colors

Examples:
  shoplist add arroz
  shoplist price 1 5,90
  shoplist inc 1
  shoplist ls
`)
}

// -------------- plumbing ----------------

// withStore opens the configured storage, hydrates the list and runs fn.
// An unreadable snapshot aborts: carrying on would overwrite it.
func (r *runner) withStore(fn func(*shoplist.Store) int) int {
	cfg := r.opt.Config
	cat, err := cfg.Catalog()
	if err != nil {
		ui.Fail(r.err, "catalog: "+err.Error())
		return 1
	}
	snaps, err := cfg.OpenSnapshots(r.ctx)
	if err != nil {
		ui.Fail(r.err, err.Error())
		return 1
	}
	defer snaps.Close()

	s, err := shoplist.Open(r.ctx, cat, snaps, r.opt.Prompt, shoplist.WithMoney(cfg.Money()))
	if err != nil {
		ui.Fail(r.err, "load: "+err.Error())
		return 1
	}
	return fn(s)
}

func (r *runner) parseIndex(cmd, raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		ui.Fail(r.err, cmd+": not a number: "+raw)
		return 0, false
	}
	return n, true
}

func (r *runner) lookup(s *shoplist.Store, userIndex int) (string, bool) {
	id, ok := s.IDAt(userIndex - 1)
	if !ok {
		ui.Fail(r.err, fmt.Sprintf("index out of range: have %d, got %d", s.Len(), userIndex))
		fmt.Fprintln(r.err, ui.C(ui.Current().Muted, "Hint: run `shoplist ls` to see valid indexes"))
	}
	return id, ok
}

// saved reports a mutation result, mapping errors to exit codes.
func (r *runner) saved(err error, msg string) int {
	switch {
	case err == nil:
		ui.OK(r.out, msg)
		return 0
	case errors.Is(err, shoplist.ErrPersistenceUnavailable):
		ui.Fail(r.err, "save: "+err.Error())
		return 1
	case errors.Is(err, shoplist.ErrEmptyName):
		ui.Fail(r.err, "add: empty name")
		return 2
	case errors.Is(err, shoplist.ErrDuplicateDeclined), errors.Is(err, shoplist.ErrCancelled):
		ui.Warn(r.err, "nothing changed")
		return 1
	default:
		ui.Fail(r.err, err.Error())
		return 1
	}
}

// -------------- subcommand impls ----------------

func (r *runner) doAdd(s *shoplist.Store, name string) int {
	it, err := s.Add(r.ctx, name)
	if err != nil {
		return r.saved(err, "")
	}
	msg := fmt.Sprintf("added %s (%s)", it.Name, it.QuantityLabel())
	if it.Placeholder {
		msg += " " + ui.C(ui.Current().Muted, "not in catalog")
	}
	return r.saved(nil, msg)
}

func (r *runner) doIndexed(s *shoplist.Store, cmd string, userIndex int) int {
	id, ok := r.lookup(s, userIndex)
	if !ok {
		return 2
	}
	switch cmd {
	case "done":
		it, err := s.Toggle(r.ctx, id)
		if err != nil {
			return r.saved(err, "")
		}
		state := "not bought"
		if it.Completed {
			state = "bought"
		}
		code := r.saved(nil, fmt.Sprintf("%s marked %s", it.Name, state))
		if s.Summary().Complete {
			fmt.Fprintln(r.out, ui.C(ui.Current().Success, completeBanner))
		}
		return code

	case "rm":
		it, _ := s.Item(id)
		return r.saved(s.Remove(r.ctx, id), "removed "+it.Name)

	case "inc", "dec":
		dir := quantity.Increase
		if cmd == "dec" {
			dir = quantity.Decrease
		}
		before, _ := s.Item(id)
		it, err := s.Adjust(r.ctx, id, dir)
		if err != nil {
			return r.saved(err, "")
		}
		if it.Quantity.Equal(before.Quantity) {
			ui.Warn(r.out, fmt.Sprintf("%s stays at %s", it.Name, it.QuantityLabel()))
			return 0
		}
		return r.saved(nil, fmt.Sprintf("%s: %s", it.Name, it.QuantityLabel()))
	}
	return 2
}

func (r *runner) doPrice(s *shoplist.Store, userIndex int, raw string) int {
	id, ok := r.lookup(s, userIndex)
	if !ok {
		return 2
	}
	var (
		it  model.Item
		err error
	)
	if strings.TrimSpace(raw) == "" {
		it, err = s.EditPrice(r.ctx, id)
	} else {
		it, err = s.SetUnitPrice(r.ctx, id, raw)
	}
	if err != nil {
		return r.saved(err, "")
	}
	m := s.Money()
	return r.saved(nil, fmt.Sprintf("%s: %s x %s = %s",
		it.Name, it.QuantityLabel(), m.Format(it.UnitPrice), m.Format(it.Subtotal())))
}

func (r *runner) doClear(s *shoplist.Store, yes bool) int {
	if s.Len() == 0 {
		ui.OK(r.out, "list is already empty")
		return 0
	}
	if !yes && !r.opt.Prompt.Confirm(fmt.Sprintf("Remove all %d items?", s.Len())) {
		ui.Warn(r.err, "nothing changed")
		return 1
	}
	return r.saved(s.Clear(r.ctx), "list cleared")
}

func (r *runner) doTotal(s *shoplist.Store) int {
	sum := s.Summary()
	fmt.Fprintf(r.out, "%s  %s\n",
		ui.C(ui.Current().Title, s.Money().Format(sum.Total)),
		ui.C(ui.Current().Muted, fmt.Sprintf("(%d items, %d bought)", s.Len(), sum.Done)))
	return 0
}

func (r *runner) doSuggest(query string) int {
	cat, err := r.opt.Config.Catalog()
	if err != nil {
		ui.Fail(r.err, "catalog: "+err.Error())
		return 1
	}
	found := cat.Suggest(query, r.opt.Config.SuggestLimit)
	if len(found) == 0 {
		fmt.Fprintln(r.out, ui.C(ui.Current().Muted, "no suggestions"))
		return 0
	}
	for _, e := range found {
		fmt.Fprintf(r.out, "%s %s\n", e.Name, ui.C(ui.Current().Muted, "("+string(e.Unit)+")"))
	}
	return 0
}

func (r *runner) doTUI(s *shoplist.Store) int {
	if err := tui.Run(r.ctx, s, tui.Options{SuggestLimit: r.opt.Config.SuggestLimit}); err != nil {
		ui.Fail(r.err, "tui: "+err.Error())
		return 1
	}
	return 0
}

// -------------- rendering ----------------

const completeBanner = "Everything on the list is bought!"

func (r *runner) doList(s *shoplist.Store) int {
	t := ui.Current()
	items := s.Items()
	sum := s.Summary()
	m := s.Money()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %s",
		ui.C(t.Title, "Shopping list"),
		ui.C(t.Success, t.SymDone), sum.Done,
		ui.C(t.Pending, t.SymUnchecked), sum.Pending,
		ui.C(t.Accent, "Total"), m.Format(sum.Total),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(sum.Done, len(items), 28)))
	lines = append(lines, "")

	if r.opt.Group {
		lines = append(lines, groupLines(items, m)...)
	} else {
		lines = append(lines, flatLines(items, indexes(len(items)), m)...)
	}
	lines = append(lines, "")
	if sum.Complete {
		lines = append(lines, ui.C(t.Success, completeBanner))
	} else {
		lines = append(lines, ui.C(t.Muted, "Tip: add with `shoplist add arroz`"))
	}
	ui.Panel(r.out, lines)
	return 0
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func flatLines(items []model.Item, idx []int, m totals.Money) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		name := it.Name
		if len([]rune(name)) > 40 {
			name = string([]rune(name)[:37]) + "..."
		}
		if it.Placeholder {
			name += " " + ui.C(t.Muted, t.SymPlaceholder)
		}
		rows = append(rows, []string{
			ui.C("\033[2m", fmt.Sprintf("%2d.", idx[i])) + " " + ui.C(color, box),
			name,
			it.QuantityLabel(),
			ui.C(t.Muted, "x "+m.Format(it.UnitPrice)),
			m.Format(it.Subtotal()),
		})
	}
	return ui.Columns(rows)
}

func groupLines(items []model.Item, m totals.Money) []string {
	var pend, done []model.Item
	var pendIdx, doneIdx []int
	for i, it := range items {
		if it.Completed {
			done, doneIdx = append(done, it), append(doneIdx, i+1)
		} else {
			pend, pendIdx = append(pend, it), append(pendIdx, i+1)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "To buy"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, pendIdx, m)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Bought"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, doneIdx, m)...)
	}
	return lines
}
