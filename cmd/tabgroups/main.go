package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atinylittleshell/tabgroups/internal/config"
	"github.com/atinylittleshell/tabgroups/internal/core"
	"github.com/atinylittleshell/tabgroups/internal/history"
	"github.com/atinylittleshell/tabgroups/internal/styles"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

var BUILD_VERSION = "dev"

var configPath = flag.String("config", "", "path to config.yaml (default ~/.tabgroups/config.yaml)")
var snapshotPath = flag.String("snapshot", "", "path to a session snapshot (default ~/.tabgroups/session.yaml)")
var queryFlag = flag.String("q", "", "run a single query")
var pickFlag = flag.Int("pick", 0, "pick the N-th suggestion of -q")
var modeFlag = flag.String("mode", "", "search mode to engage for queries")
var historyFlag = flag.Bool("history", false, "list recent picks")
var resetHistoryFlag = flag.Bool("reset-history", false, "clear the pick history")
var noColorFlag = flag.Bool("no-color", false, "disable colored output")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `tabgroups - search open tab groups from the address bar

USAGE:
  tabgroups [options]

MODES:
  tabgroups -q rea             Print tab groups matching "rea"
  tabgroups -q rea -pick 1     Switch to the first matching group
  tabgroups -history           List recent picks
  tabgroups -reset-history     Clear the pick history
  tabgroups                    Read queries from stdin, one per line

INTERACTIVE COMMANDS:
  :pick N    switch to the N-th suggestion of the last query
  :mode X    engage search mode X (":mode" alone clears it)
  :windows   list windows in focus order
  :history   list recent picks (":history reset" clears them)
  :reload    re-read config and snapshot
  :quit      exit

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if *noColorFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		styles.DisableColor()
	}

	if *configPath == "" {
		*configPath = core.ConfigFile()
	}
	if *snapshotPath == "" {
		*snapshotPath = core.SnapshotFile()
	}

	// The log level comes from the config file, so read it once up front
	cfgResult, err := config.NewLoader(nil).LoadFromFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	logger := initializeLogger(cfgResult.Config.LogLevel)
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new tabgroups session --------", zap.Any("args", os.Args))

	historyManager, err := history.NewHistoryManager(core.HistoryFile())
	if err != nil {
		logger.Warn("pick history unavailable", zap.Error(err))
	} else {
		defer historyManager.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, historyManager, interactive); err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, historyManager *history.HistoryManager, interactive bool) error {
	a, err := newApp(appOptions{
		Out:          os.Stdout,
		Logger:       logger,
		ConfigPath:   *configPath,
		SnapshotPath: *snapshotPath,
		History:      historyManager,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.searchMode = *modeFlag

	if *resetHistoryFlag {
		return a.resetHistory()
	}

	if *historyFlag {
		return a.printHistory(a.store.Config().HistoryLimit)
	}

	// tabgroups -q "rea" [-pick 1]
	if *queryFlag != "" {
		a.query(ctx, *queryFlag)
		if *pickFlag > 0 {
			return a.pick(ctx, *pickFlag)
		}
		return nil
	}

	prompt := ""
	if interactive {
		prompt = "tabgroups> "
	}
	return a.runLines(ctx, os.Stdin, prompt)
}

func initializeLogger(level string) *zap.Logger {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Logs only go to file so they don't interleave with suggestions
	// Use `tail -f ~/.tabgroups/tabgroups.log` to monitor logs in real-time
	rotator := &lumberjack.Logger{
		Filename:   core.LogFile(),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		logLevel,
	)
	return zap.New(fileCore, zap.AddCaller())
}
