package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/gazette/internal/card"
	"github.com/pders01/gazette/internal/catalog"
	"github.com/pders01/gazette/internal/config"
	"github.com/pders01/gazette/internal/debuglog"
	"github.com/pders01/gazette/internal/loader"
	"github.com/pders01/gazette/internal/maint"
	"github.com/pders01/gazette/internal/resource"
	"github.com/pders01/gazette/internal/search"
	"github.com/pders01/gazette/internal/storage"
	"github.com/pders01/gazette/internal/tui"
	"github.com/pders01/gazette/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	sourceFlag string
	logLevel   string
	dbPath     string
	route      string
	quiet      bool

	outPath      string
	startDate    string
	intervalDays int
	asOfDate     string
	baseURL      string
	backfillWith string
	searchQuery  string
	concurrency  int
	perSecond    float64
)

var rootCmd = &cobra.Command{
	Use:           "gazette",
	Short:         "Terminal magazine reader",
	Long:          "gazette browses a site's article catalog by category, search or chance.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReader,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.Banner(Version))
		fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
		fmt.Fprintln(out, "Terminal magazine reader")
		fmt.Fprintln(out, "github.com/pders01/gazette")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var generateConfigCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write the catalog as CSV with a publishing schedule",
	RunE:  runExportCSV,
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write a sitemap.xml for the site",
	RunE:  runSitemap,
}

var backfillCmd = &cobra.Command{
	Use:   "backfill [catalog.json]",
	Short: "Give every catalog entry an inline image",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackfill,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every article image loads",
	RunE:  runCheck,
}

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Print a category or search grid without the TUI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&sourceFlag, "source", "", "Catalog source, a URL or file (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")

	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	rootCmd.Flags().StringVar(&route, "route", "", "Open a route such as #life or #random")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	exportCSVCmd.Flags().StringVar(&startDate, "start", "", "Publish date of the first entry, YYYY-MM-DD (overrides config)")
	exportCSVCmd.Flags().IntVar(&intervalDays, "interval", 0, "Days between entries (overrides config)")
	exportCSVCmd.Flags().StringVar(&asOfDate, "as-of", "", "Reference date for the status column, YYYY-MM-DD (default today)")

	sitemapCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	sitemapCmd.Flags().StringVar(&baseURL, "base-url", "", "Site base URL (overrides config)")

	backfillCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: rewrite the catalog)")
	backfillCmd.Flags().StringVar(&backfillWith, "value", maint.DefaultInlineImage, "Inline image to insert")

	checkCmd.Flags().StringVar(&baseURL, "base-url", "", "Resolve site-relative images against this URL")
	checkCmd.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel checks")
	checkCmd.Flags().Float64Var(&perSecond, "rate", 5, "Checks per second, 0 for unlimited")

	browseCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Search categories and tags instead")

	configCmd.AddCommand(generateConfigCmd)
	exportCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(versionCmd, configCmd, exportCmd, sitemapCmd, backfillCmd, checkCmd, browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if sourceFlag != "" {
		cfg.Catalog.Source = sourceFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	src, err := validation.ValidateSource(cfg.Catalog.Source)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	cfg.Catalog.Source = src

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store := catalog.NewStore(resource.NewFetcher(cfg), cfg.Catalog.Source, cfg.Catalog.Format)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// openOutput returns stdout for an empty path. The returned close func
// reports write errors of the file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	clean, err := validation.ValidateOutputPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runReader(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if dbPath != "" {
		cfg.Storage.Path = config.ExpandPath(dbPath)
	}
	if !quiet {
		tui.ShowBanner(Version)
	}

	prefs, err := storage.NewStore(cfg.Storage.Path)
	if err != nil {
		// the reader works without a remembered theme
		debuglog.Warnf("preferences unavailable: %v", err)
	} else {
		defer prefs.Close()
	}

	store := catalog.NewStore(resource.NewFetcher(cfg), cfg.Catalog.Source, cfg.Catalog.Format)
	app := tui.NewApp(cfg, store, prefs, tui.WithRoute(route))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	first := startDate
	if first == "" {
		first = cfg.Site.ExportStart
	}
	start, err := parseDay(first)
	if err != nil {
		return err
	}
	asOf := time.Now()
	if asOfDate != "" {
		if asOf, err = parseDay(asOfDate); err != nil {
			return err
		}
	}
	interval := intervalDays
	if interval == 0 {
		interval = cfg.Site.ExportIntervalDays
	}

	store, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, outPath)
	if err != nil {
		return err
	}
	opts := maint.ExportOptions{Start: start, IntervalDays: interval, AsOf: asOf}
	if err := maint.ExportCSV(w, store.All(), opts); err != nil {
		closeOut()
		return fmt.Errorf("exporting csv: %w", err)
	}
	debuglog.Infof("exported %d articles", store.Len())
	return closeOut()
}

func runSitemap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	raw := baseURL
	if raw == "" {
		raw = cfg.Site.BaseURL
	}
	base, err := validation.ValidateBaseURL(raw)
	if err != nil {
		return fmt.Errorf("base url: %w", err)
	}

	store, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, outPath)
	if err != nil {
		return err
	}
	if err := maint.WriteSitemap(w, maint.BuildSitemap(base, store.All())); err != nil {
		closeOut()
		return fmt.Errorf("writing sitemap: %w", err)
	}
	return closeOut()
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	target := cfg.Catalog.Source
	if len(args) == 1 {
		target = args[0]
	}
	if resource.IsRemote(target) {
		return fmt.Errorf("backfill needs a local catalog file, got %s", target)
	}
	in, err := validation.ValidateLocalPath(target)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: %v", resource.ErrResourceUnavailable, err)
	}
	updated, changed, err := maint.Backfill(data, backfillWith)
	if err != nil {
		return fmt.Errorf("backfilling %s: %w", in, err)
	}

	dest := in
	if outPath != "" {
		dest = outPath
	}
	dest, err = validation.ValidateOutputPath(dest)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d entries in %s\n", changed, dest)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	base := ""
	if baseURL != "" {
		if base, err = validation.ValidateBaseURL(baseURL); err != nil {
			return fmt.Errorf("base url: %w", err)
		}
	}

	store, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := resource.NewFetcher(cfg)
	refs, err := maint.CheckImages(ctx, store.All(), card.NewProber(f, cfg), maint.CheckOptions{
		BaseURL:     base,
		Concurrency: concurrency,
		PerSecond:   perSecond,
	})
	if err != nil {
		return fmt.Errorf("checking images: %w", err)
	}

	out := cmd.OutOrStdout()
	broken := maint.Broken(refs)
	for _, r := range broken {
		fmt.Fprintf(out, "%s %s %s: %v\n", r.ArticleID, r.Field, r.URL, r.Err)
	}
	fmt.Fprintf(out, "Checked %d images, %d broken\n", len(refs), len(broken))
	if len(broken) > 0 {
		return fmt.Errorf("%d broken images", len(broken))
	}
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	store, err := loadCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	opts := cardOptions(cfg)
	l := loader.New(store, search.New(cfg.Search.Engine, store.All()), opts)

	var g *loader.Grid
	if searchQuery != "" {
		if g, err = l.Search(searchQuery); err != nil {
			return fmt.Errorf("searching: %w", err)
		}
	} else {
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		g = l.Category(category)
	}

	printGrid(cmd.OutOrStdout(), g)
	return nil
}
