package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/flytire/backend/internal/checkout"
	"github.com/Lixing-Zhang/flytire/backend/internal/inventory"
	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/Lixing-Zhang/flytire/backend/pkg/logger"
)

const defaultCatalog = "web/data/winter.json,web/data/summer.json,web/data/all-season.json"

func main() {
	var (
		origin        = flag.String("origin", "http://127.0.0.1:5500", "page origin the storefront runs on")
		catalogFlag   = flag.String("catalog", defaultCatalog, "comma-separated catalog sources (files or URLs)")
		search        = flag.String("search", "", "filter by brand/model")
		season        = flag.String("season", "", "season group: winter or summer-all")
		radius        = flag.Int("radius", 0, "filter by rim radius")
		inStock       = flag.Bool("in-stock", true, "hide tires that are out of stock")
		pick          = flag.Int("pick", 0, "1-based position in the listing to order; 0 only lists")
		quantity      = flag.String("qty", "1", "quantity to order")
		customer      = flag.String("customer", "", "customer name")
		phone         = flag.String("phone", "", "customer phone")
		adminLogin    = flag.String("admin-login", "", "log in as admin before listing")
		adminPassword = flag.String("admin-password", "", "admin password")
		timeout       = flag.Duration("timeout", 30*time.Second, "overall timeout")
		logLevel      = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	log := logger.New(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	catalog, err := inventory.NewLoader(nil).Load(ctx, splitList(*catalogFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	app := checkout.NewAppState(catalog)

	resolver, err := checkout.NewResolver(*origin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid origin: %v\n", err)
		os.Exit(1)
	}
	client := checkout.NewClient(resolver, nil, log)

	if *adminLogin != "" {
		sess, err := client.Login(ctx, *adminLogin, *adminPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Admin login failed: %s\n", checkout.UserMessage(err))
			os.Exit(1)
		}
		app.SetAdmin(sess)
	}

	listing := app.Listing(inventory.Criteria{
		Search:      *search,
		SeasonGroup: *season,
		Radius:      *radius,
		InStockOnly: *inStock,
	})

	if *pick == 0 {
		printListing(os.Stdout, listing, app.IsAdmin())
		return
	}
	if *pick < 1 || *pick > len(listing) {
		fmt.Fprintf(os.Stderr, "No tire at position %d (listing has %d)\n", *pick, len(listing))
		os.Exit(1)
	}

	ctrl := checkout.NewController(client, log)
	if err := ctrl.Open(listing[*pick-1]); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open checkout: %v\n", err)
		os.Exit(1)
	}
	ctrl.SetQuantity(*quantity)

	resp, err := ctrl.Submit(ctx, *customer, *phone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", checkout.UserMessage(err))
		os.Exit(1)
	}

	fmt.Printf("✅ Order %s sent at %s\n", resp.OrderID, resp.OrderDateTime)
}

func printListing(w io.Writer, items []*models.TireItem, admin bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if admin {
		fmt.Fprintln(tw, "#\tTIRE\tSIZE\tSEASON\tPRICE\tSTOCK\tSHOWROOM\tBASEMENT")
	} else {
		fmt.Fprintln(tw, "#\tTIRE\tSIZE\tSEASON\tPRICE\tAVAILABLE")
	}

	for i, t := range items {
		size := strings.TrimSpace(t.Size() + " " + t.LoadIndex)
		price := t.Price.StringFixed(2) + " $"
		if admin {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n", i+1, t.Title(), size, t.Season, price, t.Stock, t.Showroom, t.Basement)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", i+1, t.Title(), size, t.Season, price, inventory.Available(t))
		}
	}

	for _, s := range inventory.SeasonGroups(items) {
		fmt.Fprintf(tw, "\t%s: %d models, %d tires\n", s.Group, len(s.Items), s.Available)
	}
	if admin {
		value := decimal.Zero
		for _, t := range items {
			value = value.Add(t.Price.Mul(decimal.NewFromInt(int64(inventory.Available(t)))))
		}
		fmt.Fprintf(tw, "\tstock value: %s $\n", value.StringFixed(2))
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
