// Command catalog converts raw supplier price lists into catalog JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Lixing-Zhang/flytire/backend/internal/inventory"
	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

func main() {
	var (
		in     = flag.String("in", "-", "price list to read, - for stdin")
		out    = flag.String("out", "-", "JSON file to write, - for stdout")
		season = flag.String("season", "", "keep only this season (winter, summer, all-season)")
	)
	flag.Parse()

	if err := run(*in, *out, models.Season(*season)); err != nil {
		fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string, season models.Season) error {
	var r io.Reader = os.Stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read price list: %w", err)
	}

	items := inventory.ParseList(string(raw))
	if season != "" {
		kept := items[:0]
		for _, t := range items {
			if t.Season == season {
				kept = append(kept, t)
			}
		}
		items = kept
	}

	if items == nil {
		items = []*models.TireItem{}
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	fmt.Fprintf(os.Stderr, "catalog: %d tires\n", len(items))
	return nil
}
