// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command manaractl is the maintenance CLI for a Manara database. It
// runs one-shot jobs against the SQLite store: deduplicating banner
// positions, backfilling legacy banner metadata, and importing content
// from the legacy site's MySQL database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/go-sql-driver/mysql"

	"github.com/olegiv/manara-go/internal/blob"
	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/store"
	"github.com/olegiv/manara-go/internal/util"
)

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, "manaractl - Manara maintenance CLI\n\n")
	_, _ = fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
	_, _ = fmt.Fprintf(os.Stderr, "  dedupe-banners    Remove duplicate banner positions, keeping the earliest upload\n")
	_, _ = fmt.Fprintf(os.Stderr, "  backfill-banners  Set an explicit active flag on banners that predate the flag\n")
	_, _ = fmt.Fprintf(os.Stderr, "  import-legacy     Import projects, services and posts from the legacy MySQL database\n")
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "dedupe-banners":
		err = runDedupeBanners(os.Args[2:])
	case "backfill-banners":
		err = runBackfillBanners(os.Args[2:])
	case "import-legacy":
		err = runImportLegacy(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// openStore opens the Manara database and applies pending migrations.
func openStore(dbPath string) (*sql.DB, error) {
	db, err := store.NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func defaultDBPath() string {
	if p := os.Getenv("MANARA_DB_PATH"); p != "" {
		return p
	}
	return "./data/manara.db"
}

// bannerPages returns the distinct pages that have banners assigned.
func bannerPages(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT page FROM media_files WHERE page != '' AND variant_of = ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []string
	for rows.Next() {
		var page string
		if err := rows.Scan(&page); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// runDedupeBanners removes banners that share a page and position,
// keeping the earliest upload. The API deliberately passes duplicates
// through; this job exists for operators who want them gone.
func runDedupeBanners(args []string) error {
	fs := flag.NewFlagSet("dedupe-banners", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath(), "Path to the Manara SQLite database")
	dryRun := fs.Bool("dry-run", false, "Report duplicates without deleting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	blobs := blob.NewStore(db)

	pages, err := bannerPages(ctx, db)
	if err != nil {
		return fmt.Errorf("listing banner pages: %w", err)
	}

	removed := 0
	for _, page := range pages {
		// List is ordered by upload date, so the first banner seen at a
		// position is the one to keep.
		records, err := blobs.List(ctx, blob.ListFilter{Page: page})
		if err != nil {
			return fmt.Errorf("listing banners for %q: %w", page, err)
		}

		seen := make(map[int64]string)
		for _, rec := range records {
			var position int64
			if rec.Metadata.Position.Valid {
				position = rec.Metadata.Position.Int64
			}
			keeper, dup := seen[position]
			if !dup {
				seen[position] = rec.ID
				continue
			}

			slog.Info("duplicate banner position",
				"page", page, "position", position,
				"keep", keeper, "remove", rec.ID, "filename", rec.Filename)
			if *dryRun {
				continue
			}
			if err := blobs.DeleteWithVariants(ctx, rec.ID); err != nil {
				return fmt.Errorf("deleting banner %s: %w", rec.ID, err)
			}
			removed++
		}
	}

	slog.Info("dedupe complete", "pages", len(pages), "removed", removed, "dry_run", *dryRun)
	return nil
}

// runBackfillBanners gives banners from before the active flag existed
// an explicit value. Reads already treat a missing flag as active, so
// this only normalizes stored rows.
func runBackfillBanners(args []string) error {
	fs := flag.NewFlagSet("backfill-banners", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath(), "Path to the Manara SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(context.Background(),
		`UPDATE media_files SET is_active = 1 WHERE is_active IS NULL AND page != ''`)
	if err != nil {
		return fmt.Errorf("backfilling active flags: %w", err)
	}
	affected, _ := res.RowsAffected()
	slog.Info("backfill complete", "rows", affected)
	return nil
}

// legacyRow is one bilingual content row from the legacy database.
type legacyRow struct {
	Slug     sql.NullString
	TitleEN  string
	TitleAR  string
	DescEN   sql.NullString
	DescAR   sql.NullString
	BodyEN   sql.NullString
	BodyAR   sql.NullString
	Category sql.NullString
	IsActive sql.NullBool
	Position sql.NullInt64
}

const legacyColumns = `slug, title_en, title_ar, description_en, description_ar,
	body_en, body_ar, category, is_active, position`

func scanLegacyRows(rows *sql.Rows) ([]legacyRow, error) {
	defer rows.Close()
	var out []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.Slug, &r.TitleEN, &r.TitleAR, &r.DescEN, &r.DescAR,
			&r.BodyEN, &r.BodyAR, &r.Category, &r.IsActive, &r.Position); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (r legacyRow) slug() string {
	if r.Slug.Valid && util.IsValidSlug(r.Slug.String) {
		return r.Slug.String
	}
	source := r.TitleEN
	if source == "" {
		source = r.TitleAR
	}
	return util.Slugify(source)
}

func (r legacyRow) active() bool {
	return !r.IsActive.Valid || r.IsActive.Bool
}

// runImportLegacy pulls projects, services and blog posts out of the
// legacy site's MySQL database. Rows whose slug already exists are
// skipped, so the import is idempotent.
func runImportLegacy(args []string) error {
	fs := flag.NewFlagSet("import-legacy", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath(), "Path to the Manara SQLite database")
	host := fs.String("mysql-host", envOrDefault("LEGACY_MYSQL_HOST", "localhost"), "Legacy MySQL host")
	port := fs.String("mysql-port", envOrDefault("LEGACY_MYSQL_PORT", "3306"), "Legacy MySQL port")
	user := fs.String("mysql-user", os.Getenv("LEGACY_MYSQL_USER"), "Legacy MySQL user")
	password := fs.String("mysql-password", os.Getenv("LEGACY_MYSQL_PASSWORD"), "Legacy MySQL password")
	database := fs.String("mysql-db", os.Getenv("LEGACY_MYSQL_DB"), "Legacy MySQL database name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *database == "" {
		return fmt.Errorf("mysql-user and mysql-db are required")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		*user, *password, *host, *port, *database)
	legacy, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("opening legacy database: %w", err)
	}
	defer legacy.Close()
	if err := legacy.Ping(); err != nil {
		return fmt.Errorf("connecting to legacy database: %w", err)
	}

	db, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	queries := store.New(db)

	imported, err := importLegacyTable(ctx, legacy, "projects", func(r legacyRow) (bool, error) {
		count, err := queries.CountProjectSlug(ctx, r.slug(), 0)
		if err != nil || count != 0 {
			return false, err
		}
		_, err = queries.CreateProject(ctx, store.ProjectParams{
			Slug:        r.slug(),
			Title:       model.Text{EN: r.TitleEN, AR: r.TitleAR},
			Description: model.Text{EN: r.DescEN.String, AR: r.DescAR.String},
			Body:        model.Text{EN: r.BodyEN.String, AR: r.BodyAR.String},
			Category:    r.Category.String,
			IsActive:    r.active(),
			Position:    r.Position.Int64,
		})
		return err == nil, err
	})
	if err != nil {
		return fmt.Errorf("importing projects: %w", err)
	}
	slog.Info("projects imported", "count", imported)

	imported, err = importLegacyTable(ctx, legacy, "services", func(r legacyRow) (bool, error) {
		count, err := queries.CountServiceSlug(ctx, r.slug(), 0)
		if err != nil || count != 0 {
			return false, err
		}
		_, err = queries.CreateService(ctx, store.ServiceParams{
			Slug:        r.slug(),
			Title:       model.Text{EN: r.TitleEN, AR: r.TitleAR},
			Description: model.Text{EN: r.DescEN.String, AR: r.DescAR.String},
			Body:        model.Text{EN: r.BodyEN.String, AR: r.BodyAR.String},
			Category:    r.Category.String,
			IsActive:    r.active(),
			Position:    r.Position.Int64,
		})
		return err == nil, err
	})
	if err != nil {
		return fmt.Errorf("importing services: %w", err)
	}
	slog.Info("services imported", "count", imported)

	imported, err = importLegacyTable(ctx, legacy, "blog_posts", func(r legacyRow) (bool, error) {
		count, err := queries.CountBlogPostSlug(ctx, r.slug(), 0)
		if err != nil || count != 0 {
			return false, err
		}
		_, err = queries.CreateBlogPost(ctx, store.BlogPostParams{
			Slug:        r.slug(),
			Title:       model.Text{EN: r.TitleEN, AR: r.TitleAR},
			Excerpt:     model.Text{EN: r.DescEN.String, AR: r.DescAR.String},
			Body:        model.Text{EN: r.BodyEN.String, AR: r.BodyAR.String},
			Category:    r.Category.String,
			IsPublished: r.active(),
			Position:    r.Position.Int64,
		})
		return err == nil, err
	})
	if err != nil {
		return fmt.Errorf("importing blog posts: %w", err)
	}
	slog.Info("blog posts imported", "count", imported)

	return nil
}

// importLegacyTable reads one legacy table and feeds every row to insert.
// insert reports whether it stored the row; existing slugs are skipped.
func importLegacyTable(ctx context.Context, legacy *sql.DB, table string, insert func(legacyRow) (bool, error)) (int, error) {
	rows, err := legacy.QueryContext(ctx,
		`SELECT `+legacyColumns+` FROM `+table+` ORDER BY position, title_en`)
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", table, err)
	}
	parsed, err := scanLegacyRows(rows)
	if err != nil {
		return 0, fmt.Errorf("scanning %s: %w", table, err)
	}

	imported := 0
	for _, r := range parsed {
		if r.TitleEN == "" && r.TitleAR == "" {
			slog.Warn("skipping legacy row without title", "table", table)
			continue
		}
		inserted, err := insert(r)
		if err != nil {
			return imported, fmt.Errorf("inserting %q: %w", r.slug(), err)
		}
		if !inserted {
			slog.Info("skipping existing slug", "table", table, "slug", r.slug())
			continue
		}
		imported++
	}
	return imported, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
