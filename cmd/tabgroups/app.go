package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atinylittleshell/tabgroups/internal/browser"
	"github.com/atinylittleshell/tabgroups/internal/config"
	"github.com/atinylittleshell/tabgroups/internal/history"
	"github.com/atinylittleshell/tabgroups/internal/styles"
	"github.com/atinylittleshell/tabgroups/internal/urlbar"
	"github.com/atinylittleshell/tabgroups/internal/urlbar/providers"
	"github.com/dustin/go-humanize"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"
)

const labelWidth = 32

var errQuit = errors.New("quit")

// app wires the session, configuration and providers together and
// renders query results as text.
type app struct {
	out      io.Writer
	logger   *zap.Logger
	store    *config.Store
	session  *browser.Session
	history  *history.HistoryManager
	manager  *urlbar.Manager
	loader   *config.Loader
	cfgPath  string
	snapPath string

	searchMode  string
	lastQuery   *urlbar.QueryContext
	lastResults []urlbar.ActionsResult
}

type appOptions struct {
	Out          io.Writer
	Logger       *zap.Logger
	ConfigPath   string
	SnapshotPath string
	History      *history.HistoryManager
}

func newApp(opts appOptions) (*app, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &app{
		out:      opts.Out,
		logger:   logger,
		loader:   config.NewLoader(logger),
		cfgPath:  opts.ConfigPath,
		snapPath: opts.SnapshotPath,
		history:  opts.History,
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.store = config.NewStore(cfg)

	a.session, err = browser.LoadSnapshotFile(a.snapPath, logger)
	if err != nil {
		return nil, err
	}

	provider := providers.NewTabGroupsProvider(providers.TabGroupsProviderConfig{
		Features: a.store,
		Prefs:    a.store,
		Windows:  a.session,
		Selector: a.session,
		Logger:   logger,
	})

	managerCfg := urlbar.ManagerConfig{
		Providers: []urlbar.ActionsProvider{provider},
		Logger:    logger,
	}
	if a.history != nil {
		managerCfg.Recorder = a.history
	}
	a.manager, err = urlbar.NewManager(managerCfg)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (a *app) loadConfig() (*config.Config, error) {
	result, err := a.loader.LoadFromFile(a.cfgPath)
	if err != nil {
		return nil, err
	}
	for _, cfgErr := range result.Errors {
		fmt.Fprintln(a.out, styles.LOG("config: "+cfgErr.Error()))
	}
	return result.Config, nil
}

// reload re-reads the config file and the session snapshot.
func (a *app) reload() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	session, err := browser.LoadSnapshotFile(a.snapPath, a.logger)
	if err != nil {
		return err
	}

	a.store.Replace(cfg)
	a.session.Replace(session)
	a.lastQuery = nil
	a.lastResults = nil
	fmt.Fprintln(a.out, "reloaded")
	return nil
}

// query runs input through the manager and prints numbered results.
func (a *app) query(ctx context.Context, input string) {
	qc := urlbar.NewQueryContext(input, a.searchMode)
	results := a.manager.Query(ctx, qc)
	a.lastQuery = qc
	a.lastResults = results

	if len(results) == 0 {
		fmt.Fprintln(a.out, styles.DimStyle.Render("no suggestions"))
		return
	}

	for i, r := range results {
		label := truncate.StringWithTail(r.L10nArgs["group"], labelWidth, "…")
		padding := labelWidth - ansi.PrintableRuneWidth(label)
		if padding < 0 {
			padding = 0
		}
		color := r.Dataset["color"]
		fmt.Fprintf(a.out, "%2d. %s %s%s %s\n",
			i+1,
			styles.GroupSwatch(color),
			styles.GroupLabel(label, color),
			strings.Repeat(" ", padding),
			styles.DimStyle.Render(r.Key),
		)
	}
}

// pick resolves the n-th (1-based) result of the last query.
func (a *app) pick(ctx context.Context, n int) error {
	if n < 1 || n > len(a.lastResults) {
		return fmt.Errorf("no suggestion %d (have %d)", n, len(a.lastResults))
	}

	result := a.lastResults[n-1]
	if err := a.manager.Pick(ctx, a.lastQuery, result); err != nil {
		return err
	}

	top, ok := a.session.TopWindow()
	if !ok {
		return nil
	}
	tab, _ := top.Tab(top.SelectedTabID)
	title := tab.Title
	if title == "" {
		title = tab.ID
	}
	fmt.Fprintf(a.out, "switched to %q in window %s\n", title, top.ID)
	return nil
}

func (a *app) printHistory(limit int) error {
	if a.history == nil {
		return errors.New("pick history is not available")
	}

	entries, err := a.history.GetRecentPicks(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, styles.DimStyle.Render("no picks yet"))
		return nil
	}

	// pick totals per provider, loaded once per provider seen
	counts := make(map[string]map[string]int)
	for _, e := range entries {
		providerCounts, ok := counts[e.Provider]
		if !ok {
			providerCounts, err = a.history.CountPicks(e.Provider)
			if err != nil {
				return err
			}
			counts[e.Provider] = providerCounts
		}

		fmt.Fprintf(a.out, "%-24s %-16q %4s  %s\n",
			e.Key,
			e.Query,
			fmt.Sprintf("×%d", providerCounts[e.Key]),
			styles.DimStyle.Render(humanize.Time(e.CreatedAt)))
	}
	return nil
}

func (a *app) resetHistory() error {
	if a.history == nil {
		return errors.New("pick history is not available")
	}
	if err := a.history.ResetHistory(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "pick history cleared")
	return nil
}

func (a *app) windows() {
	for _, w := range a.session.Windows() {
		fmt.Fprintf(a.out, "window %s (selected %s)\n", w.ID, w.SelectedTabID)
	}
}

// handleLine runs one line of interactive input: a query or a :command.
func (a *app) handleLine(ctx context.Context, line string) error {
	if !strings.HasPrefix(line, ":") {
		a.query(ctx, line)
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "pick", "p":
		if len(fields) != 2 {
			return errors.New("usage: :pick N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid suggestion number %q", fields[1])
		}
		return a.pick(ctx, n)
	case "mode":
		a.searchMode = strings.Join(fields[1:], " ")
		return nil
	case "reload":
		return a.reload()
	case "history":
		if len(fields) > 1 {
			if fields[1] != "reset" {
				return errors.New("usage: :history [reset]")
			}
			return a.resetHistory()
		}
		return a.printHistory(a.store.Config().HistoryLimit)
	case "windows":
		a.windows()
		return nil
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command :%s", fields[0])
	}
}

// runLines reads input line by line until EOF or :quit. Errors from a
// single line are printed and do not stop the loop.
func (a *app) runLines(ctx context.Context, r io.Reader, prompt string) error {
	scanner := bufio.NewScanner(r)
	for {
		if prompt != "" {
			fmt.Fprint(a.out, styles.PROMPT(prompt))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := a.handleLine(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			a.logger.Debug("command failed", zap.Error(err))
			fmt.Fprintln(a.out, styles.ERROR(err.Error()))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
