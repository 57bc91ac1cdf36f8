package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlinks/pkg/config"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/shortcode"
)

type linkLister interface {
	ListAll(ctx context.Context) ([]domain.Link, error)
}

type linkRestorer interface {
	Restore(ctx context.Context, link domain.Link) error
}

func main() {
	_ = flag.Set("logtostderr", "true")
	defer glog.Flush()

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.Options{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.PoolSize,
		Production:  cfg.IsProduction(),
	})
	if err != nil {
		glog.Fatalf("Failed to connect to db: %v", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		if err := doExport(ctx, store, os.Stdout); err != nil {
			glog.Fatalf("Export failed: %v", err)
		}
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		file, err := os.Open(*importFile)
		if err != nil {
			glog.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		imported, skipped, err := doImport(ctx, store, file)
		if err != nil {
			glog.Fatalf("Import failed: %v", err)
		}
		glog.Infof("Imported %d links, skipped %d", imported, skipped)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

// doExport writes every link, counters included, as indented JSON.
func doExport(ctx context.Context, repo linkLister, w io.Writer) error {
	links, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(links)
}

// doImport restores links from an export. Codes that already exist or
// are malformed are skipped; storage failures abort.
func doImport(ctx context.Context, repo linkRestorer, r io.Reader) (imported, skipped int, err error) {
	var links []domain.Link
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}

	for _, l := range links {
		if !shortcode.Valid(l.Code) || l.URL == "" {
			glog.Warningf("Skipping malformed entry: %q", l.Code)
			skipped++
			continue
		}

		err := repo.Restore(ctx, l)
		switch {
		case errors.Is(err, domain.ErrDuplicateCode):
			glog.Infof("Skipping existing code: %s", l.Code)
			skipped++
		case err != nil:
			return imported, skipped, fmt.Errorf("import %s: %w", l.Code, err)
		default:
			imported++
		}
	}
	return imported, skipped, nil
}
