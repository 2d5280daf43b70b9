package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"followdeck/internal/checker"
	"followdeck/internal/exporter"
	"followdeck/internal/importer"
	"followdeck/internal/model"
	"followdeck/internal/registry"
	"followdeck/internal/session"
	"followdeck/internal/store"
	"followdeck/internal/tui"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: followdeck import <file.html> [--list id]\n")
				os.Exit(1)
			}
			listID := ""
			args := os.Args[3:]
			for i := 0; i < len(args); i++ {
				if args[i] == "--list" && i+1 < len(args) {
					listID = args[i+1]
					i++
				}
			}
			runImport(os.Args[2], listID)
			return
		case "export":
			format := exporter.FormatJSON
			includeDeleted := false
			var outputPath string
			for _, arg := range os.Args[2:] {
				switch arg {
				case "--csv":
					format = exporter.FormatCSV
				case "--json":
					format = exporter.FormatJSON
				case "--deleted":
					includeDeleted = true
				default:
					outputPath = arg
				}
			}
			runExport(outputPath, format, includeDeleted)
			return
		case "lists":
			runLists()
			return
		case "check":
			runCheck()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	runTUI()
}

func printHelp() {
	help := `followdeck - follow-list management console

Usage:
  followdeck                            Open interactive TUI
  followdeck import <file> [--list id]  Bulk-import accounts from saved follow-page HTML
  followdeck export [path] [--csv] [--deleted]
                                        Export the start list (JSON by default,
                                        include soft-deleted rows with --deleted)
  followdeck lists                      Print all lists with statistics
  followdeck check                      Probe profile URLs and report removed accounts
  followdeck help                       Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    gg/G        Jump to top/bottom
    m           Load more rows
    1-8         Sort by column

  Account:
    l/Enter     Open profile in browser
    f           Toggle favorite
    d           Toggle deleted
    +/-         Adjust review counter
    y/Y         Copy handle / profile URL

  View:
    /           Search and date filter
    v           Favorites only
    x           Show/hide deleted
    X           Clear filters
    r           Refresh

  Collections:
    a           Add account
    b           Bulk import from clipboard
    L           Switch/create/delete lists
    c           Compare with other lists
    C           Check profiles
    E           Export current list

  Other:
    ?           Help overlay
    q           Quit

Data Storage:
  ~/.config/followdeck/followdeck.db
`
	fmt.Print(help)
}

// openEnv loads config and opens the store, registry and a session on
// the configured start list.
func openEnv() (*store.SQLiteStore, *store.Config, *session.Session, *registry.Registry, *slog.Logger) {
	configPath, err := store.DefaultConfigPath()
	if err != nil {
		fatal("config path: %v", err)
	}
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	log := setupLogger(cfg.LogLevel)

	storePath, err := store.DefaultStorePath()
	if err != nil {
		fatal("store path: %v", err)
	}
	st, err := store.NewSQLiteStore(storePath)
	if err != nil {
		fatal("open store: %v", err)
	}

	reg := registry.New(st, log)
	sess := session.New(st, reg, log, cfg.ProfileURLTemplate, cfg.StartListID)
	return st, cfg, sess, reg, log
}

// setupLogger writes structured logs to the log file. The TUI owns
// stdout, so nothing may log there.
func setupLogger(level string) *slog.Logger {
	logPath, err := store.DefaultLogPath()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// runTUI runs the full interactive console.
func runTUI() {
	st, _, sess, reg, log := openEnv()
	defer st.Close()

	app := tui.NewApp(tui.AppParams{
		Session:  sess,
		Registry: reg,
		Log:      log,
		OpenURL:  openURL,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal("running app: %v", err)
	}
}

// runImport bulk-imports accounts from a saved follow-page HTML file.
func runImport(path, listID string) {
	st, cfg, _, reg, log := openEnv()
	defer st.Close()
	ctx := context.Background()

	if listID == "" {
		listID = cfg.StartListID
	}
	known, err := reg.Exists(ctx, listID)
	if err != nil {
		fatal("lists: %v", err)
	}
	if !known {
		fatal("unknown list %q", listID)
	}

	f, err := os.Open(path)
	if err != nil {
		fatal("open file: %v", err)
	}
	defer f.Close()

	candidates, err := importer.Parse(f)
	if err != nil {
		fatal("parse: %v", err)
	}
	if len(candidates) == 0 {
		fmt.Println("No accounts found in the markup.")
		return
	}

	sess := session.New(st, reg, log, cfg.ProfileURLTemplate, listID)
	if err := sess.Refresh(ctx); err != nil {
		fatal("load list: %v", err)
	}
	result, err := sess.BulkAdd(ctx, candidates)
	if err != nil {
		fatal("import: %v", err)
	}

	fmt.Printf("Imported %d account(s) into %s, skipped %d.\n", result.Added, listID, len(result.Skipped))
	for _, c := range result.Skipped {
		fmt.Printf("  skipped @%s: %s\n", c.Handle, c.Reason)
	}
}

// runExport writes the start list to a file. Soft-deleted accounts are
// left out unless --deleted is given.
func runExport(outputPath string, format exporter.Format, includeDeleted bool) {
	st, cfg, sess, _, _ := openEnv()
	defer st.Close()

	if err := sess.Refresh(context.Background()); err != nil {
		fatal("load list: %v", err)
	}

	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath(cfg.StartListID, format)
		if err != nil {
			fatal("export path: %v", err)
		}
	}

	accounts := sess.Accounts()
	if !includeDeleted {
		kept := make([]model.Account, 0, len(accounts))
		for _, a := range accounts {
			if !a.Deleted {
				kept = append(kept, a)
			}
		}
		accounts = kept
	}

	data, err := exporter.Export(accounts, format)
	if err != nil {
		fatal("export: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fatal("export: %v", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		fatal("write: %v", err)
	}
	fmt.Printf("Exported %d account(s) to %s\n", len(accounts), outputPath)
}

// runLists prints every list with its statistics.
func runLists() {
	st, _, _, reg, _ := openEnv()
	defer st.Close()
	ctx := context.Background()

	lists, err := reg.Lists(ctx)
	if err != nil {
		fatal("lists: %v", err)
	}
	for _, l := range lists {
		marker := " "
		if l.IsDefault() {
			marker = "*"
		}

		records, err := st.ReadAll(ctx, l.ID)
		if err != nil {
			fatal("read %s: %v", l.ID, err)
		}
		accounts := make([]model.Account, 0, len(records))
		for id, bag := range records {
			if a, ok := model.AccountFromRecord(id, bag); ok {
				accounts = append(accounts, a)
			}
		}
		stats := model.ComputeStatistics(accounts)

		fmt.Printf("%s %-20s %4d total  %4d active  %4d fav  %4d ignored  %s\n",
			marker, l.ID, stats.Total, stats.Active, stats.Favorites, stats.Ignored, l.Description)
	}
}

// runCheck probes every profile in the start list and reports the ones
// that look removed or renamed.
func runCheck() {
	st, cfg, sess, _, _ := openEnv()
	defer st.Close()

	if err := sess.Refresh(context.Background()); err != nil {
		fatal("load list: %v", err)
	}

	var active []model.Account
	for _, a := range sess.Accounts() {
		if !a.Deleted {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		fmt.Println("Nothing to check.")
		return
	}

	fmt.Printf("Checking %d profile(s)...\n", len(active))
	results := checker.CheckProfiles(active, cfg.ProfileURLTemplate, 8, 10*time.Second, func(completed, total int) {
		fmt.Printf("\r%d/%d", completed, total)
	})
	fmt.Println()

	var gone, unreachable int
	for _, r := range results {
		switch r.Status {
		case checker.Gone:
			gone++
			fmt.Printf("  GONE        @%s (%s) HTTP %d\n", r.Account.Handle, r.Account.DisplayName, r.StatusCode)
		case checker.Unreachable:
			unreachable++
			fmt.Printf("  UNREACHABLE @%s: %s\n", r.Account.Handle, r.Error)
		}
	}
	fmt.Printf("%d alive, %d gone, %d unreachable.\n", len(results)-gone-unreachable, gone, unreachable)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}
	_ = cmd.Start()
}
