// Command deal prints one fresh market without touching the journal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/app"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config (empty means defaults)")
	size := flag.Int("size", 0, "market size (0 means the configured default)")
	mode := flag.String("mode", "", "random or manual")
	pick := flag.String("pick", "", "comma separated items for manual mode")
	asJSON := flag.Bool("json", false, "print the view as JSON")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadYAML(*configPath); err != nil {
			fmt.Println("Error loading config:", err)
			os.Exit(1)
		}
	}
	if *mode != "" {
		cfg.Supply.Mode = *mode
	}
	if *size > 0 {
		cfg.Supply.DefaultSize = *size
	}

	view, err := deal(context.Background(), cfg, *pick)
	if err != nil {
		fmt.Println("Deal failed:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(view)
		return
	}
	for i, item := range view.Market {
		fmt.Printf("%2d. %s\n", i+1, item)
	}
	fmt.Printf("pool: %d\n", len(view.Pool))
}

func deal(ctx context.Context, cfg config.YAMLConfig, pick string) (supply.View, error) {
	opts, err := app.ManagerOptions(cfg.Supply)
	if err != nil {
		return supply.View{}, err
	}
	store, err := catalogstore.New(ctx, cfg.Catalog)
	if err != nil {
		return supply.View{}, err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}
	list, err := store.Load(ctx)
	if err != nil {
		return supply.View{}, err
	}

	var picked []string
	if pick != "" {
		picked = catalog.Normalize(strings.Split(pick, ","))
	}
	if opts.Mode == types.ModeManual {
		picked = resolve(picked, list)
	}

	m := supply.NewManager(opts)
	return m.Initialize(list, m.View().Size, supply.SelectionFor(opts.Mode, picked))
}

// resolve swaps each unknown pick for its closest catalog name when there is one.
func resolve(picked, list []string) []string {
	out := make([]string, 0, len(picked))
	for _, p := range picked {
		if !catalog.Contains(list, p) {
			if s := catalog.Suggest(p, list, 1); len(s) > 0 {
				fmt.Fprintf(os.Stderr, "%q not in catalog, using %q\n", p, s[0])
				p = s[0]
			}
		}
		out = append(out, p)
	}
	return out
}
