package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/actor"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

var (
	cmdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff66ff"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	slotStyle    = lipgloss.NewStyle().Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	suggestLimit = 3
)

const helpText = `/state                 show market, pool and exhausted
/size N                set the supply size before starting
/mode random|manual    set the selection mode before starting
/pick NAME             toggle NAME in the manual selection
/start                 deal the market from the catalog
/replace SLOT          retire the item in SLOT (1-based) and draw a new one
/undo                  revert the last deal or replace
/reset                 clear the session and its undo history
/catalog               list the catalog
/catalog-load FILE     replace the catalog with the lines of FILE
/dismiss               clear the pending message
/snapshot              write a snapshot now`

// Commander runs slash commands against a supply session and renders the result.
type Commander struct {
	system *actor.System
	store  types.CatalogStore
}

func NewCommander(system *actor.System, store types.CatalogStore) *Commander {
	return &Commander{system: system, store: store}
}

// Execute runs one input line and returns the lines to print.
func (c *Commander) Execute(ctx context.Context, input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	command, args := parts[0], parts[1:]
	out := []string{cmdStyle.Render(input)}

	view, err := c.run(ctx, command, args, &out)
	if err != nil {
		return append(out, errStyle.Render(err.Error()))
	}
	if view != nil {
		out = append(out, PrettyView(*view))
	}
	return out
}

func (c *Commander) run(ctx context.Context, command string, args []string, out *[]string) (*supply.View, error) {
	switch command {
	case "/help":
		*out = append(*out, helpText)
		return nil, nil
	case "/state":
		return wrap(c.system.View())
	case "/size":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: /size N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("size must be a number: %q", args[0])
		}
		return wrap(c.system.SetSize(n))
	case "/mode":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: /mode random|manual")
		}
		mode, err := types.ParseSelectionMode(args[0])
		if err != nil {
			return nil, err
		}
		return wrap(c.system.SetMode(mode))
	case "/pick":
		return c.pick(ctx, strings.Join(args, " "), out)
	case "/start":
		items, err := c.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		return wrap(c.system.Start(items))
	case "/replace":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: /replace SLOT")
		}
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("slot must be a number: %q", args[0])
		}
		rep, view, err := c.system.ReplaceSlot(slot - 1)
		if err != nil {
			return nil, err
		}
		*out = append(*out, fmt.Sprintf("slot %d: %s -> %s", slot, rep.Removed, addedStyle.Render(rep.Added)))
		return &view, nil
	case "/undo":
		view, changed, err := c.system.Undo()
		if err != nil {
			return nil, err
		}
		if !changed {
			*out = append(*out, dimStyle.Render("nothing to undo"))
		}
		return &view, nil
	case "/reset":
		return wrap(c.system.Reset())
	case "/catalog":
		items, err := c.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		*out = append(*out, fmt.Sprintf("%d items", len(items)), catalog.FormatBulk(items))
		return nil, nil
	case "/catalog-load":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: /catalog-load FILE")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		items, err := catalogstore.Update(ctx, c.store, string(data))
		if err != nil {
			return nil, err
		}
		*out = append(*out, fmt.Sprintf("catalog saved: %d items", len(items)))
		return nil, nil
	case "/dismiss":
		return wrap(c.system.Dismiss())
	case "/snapshot":
		if err := c.system.Snapshot(); err != nil {
			return nil, err
		}
		*out = append(*out, "snapshot written")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown command %s, try /help", command)
}

func (c *Commander) pick(ctx context.Context, name string, out *[]string) (*supply.View, error) {
	if name == "" {
		return nil, fmt.Errorf("usage: /pick NAME")
	}
	items, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !catalog.Contains(items, name) {
		hints := catalog.Suggest(name, items, suggestLimit)
		if len(hints) == 0 {
			return nil, fmt.Errorf("%q is not in the catalog", name)
		}
		return nil, fmt.Errorf("%q is not in the catalog, did you mean: %s", name, strings.Join(hints, ", "))
	}
	view, changed, err := c.system.ToggleManual(name)
	if err != nil {
		return nil, err
	}
	if !changed {
		*out = append(*out, dimStyle.Render("selection unchanged"))
	}
	return &view, nil
}

func wrap(view supply.View, err error) (*supply.View, error) {
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// PrettyView renders a session for the terminal. Slots are 1-based.
func PrettyView(v supply.View) string {
	var b strings.Builder
	if !v.Initialized {
		fmt.Fprintf(&b, "not started. size: %d, mode: %s\n", v.Size, v.Mode)
		if v.Mode == types.ModeManual {
			fmt.Fprintf(&b, "manual selection (%d/%d): %s\n", len(v.ManualSelection), v.Size, strings.Join(v.ManualSelection, ", "))
		}
	} else {
		for i, item := range v.Market {
			name := item
			if item == v.LastAdded {
				name = addedStyle.Render(item)
			}
			fmt.Fprintf(&b, "%s %s\n", slotStyle.Render(fmt.Sprintf("%2d.", i+1)), name)
		}
		fmt.Fprintf(&b, "pool: %d  exhausted: %d  undo: %d\n", len(v.Pool), len(v.Exhausted), v.HistoryDepth)
		if len(v.Exhausted) > 0 {
			b.WriteString(dimStyle.Render("exhausted: "+strings.Join(v.Exhausted, ", ")) + "\n")
		}
	}
	if v.Message != "" {
		b.WriteString(errStyle.Render(v.Message) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
