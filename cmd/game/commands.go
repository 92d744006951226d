package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tatianab/zork-parser/internal/config"
	"github.com/tatianab/zork-parser/internal/console"
	"github.com/tatianab/zork-parser/internal/engine"
	"github.com/tatianab/zork-parser/internal/events"
	"github.com/tatianab/zork-parser/internal/logger"
	"github.com/tatianab/zork-parser/internal/metrics"
	"github.com/tatianab/zork-parser/internal/models"
	"github.com/tatianab/zork-parser/internal/parser"
	"github.com/tatianab/zork-parser/internal/store"
	"github.com/tatianab/zork-parser/internal/transcript"
	"github.com/tatianab/zork-parser/internal/tui"
	"github.com/tatianab/zork-parser/internal/world"
)

var (
	configPath string
	worldPath  string
)

var rootCmd = &cobra.Command{
	Use:          "game",
	Short:        "A Zork-style text adventure and its command parser",
	SilenceUsage: true,
	RunE:         runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game (terminal UI by default)",
	RunE:  runPlay,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the world definition and the grammar",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var parseCmd = &cobra.Command{
	Use:   "parse [sentence...]",
	Short: "Parse sentences against the starting position and print the commands",
	Long: `Parse each argument as one line of input, in order, against a fresh
world. Session memory carries from one sentence to the next, so "again" and
"oops" work. Disambiguation questions are read from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "List recorded sessions, or show the transcript of one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the world definition into the save directory for editing",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&worldPath, "world", "", "world definition (default: built-in world, or ZPARSE_WORLD)")

	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().Bool("plain", false, "line-mode console instead of the terminal UI")
		c.Flags().Bool("no-narrator", false, "never call Gemini, even when GEMINI_API_KEY is set")
	}
	exportCmd.Flags().String("name", "", "short name to save under (default: the world's own)")

	rootCmd.AddCommand(playCmd, checkCmd, parseCmd, historyCmd, exportCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if worldPath != "" {
		cfg.WorldFile = worldPath
	}
	return cfg, nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plain, _ := cmd.Flags().GetBool("plain")
	noNarrator, _ := cmd.Flags().GetBool("no-narrator")

	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		return err
	}

	// The terminal UI owns the screen, so logs go to a file.
	logOut := io.Writer(os.Stderr)
	if !plain {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, logOut)
	log := logger.For("cmd")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	def, err := models.LoadWorld(cfg.WorldFile)
	if err != nil {
		return err
	}

	saves, err := store.Open(cfg.SavePath)
	if err != nil {
		return err
	}
	defer saves.Close()

	bus := events.NewBus()
	m := metrics.New()
	bus.Subscribe(m)

	tr, err := transcript.Open(cfg.TranscriptPath, logger.Log.WithField("world", def.ShortName))
	if err != nil {
		log.WithError(err).Warn("transcript disabled")
	} else {
		defer tr.Close()
		bus.Subscribe(tr)
	}

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, m, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	opts := []engine.Option{
		engine.WithBus(bus),
		engine.WithStore(saves),
		engine.WithMaxInput(cfg.MaxInputLength),
		engine.WithLogger(logger.Log.WithField("world", def.ShortName)),
	}
	if cfg.NarratorEnabled() && !noNarrator {
		n, err := engine.NewGeminiNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer n.Close()
		opts = append(opts, engine.WithNarrator(n))
	}

	build := func(c parser.Console) (*engine.Engine, error) {
		eng, err := engine.New(def, nil, c, opts...)
		if err == nil {
			log.WithFields(logrus.Fields{"session": eng.Session(), "world": def.Title}).Info("game started")
		}
		return eng, err
	}

	if !plain {
		return tui.Run(ctx, def.Title, build)
	}
	eng, err := build(console.New(os.Stdin, os.Stdout))
	if err != nil {
		return err
	}
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveMetrics(addr string, m *metrics.Metrics, log *logrus.Entry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("serving metrics")
	return srv
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := models.LoadWorld(cfg.WorldFile)
	if err != nil {
		return err
	}
	w, err := def.Build()
	if err != nil {
		return err
	}
	reg, err := parser.DefaultRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "World:   %s (%d rooms, %d objects)\n", def.Title, len(def.Rooms), len(w.Objects())-len(def.Rooms)-1)
	fmt.Fprintf(out, "Grammar: %d verbs\n", len(reg.Verbs()))

	// Object words that are also verbs can never start a sentence as a noun.
	var clashes []string
	for _, o := range w.Objects() {
		for _, s := range o.Synonyms {
			if v, ok := reg.LookupVerb(s); ok {
				clashes = append(clashes, fmt.Sprintf("%s (%s is also the verb %s)", o.Key, s, v))
			}
		}
	}
	if len(clashes) > 0 {
		fmt.Fprintf(out, "Note: %s\n", strings.Join(clashes, "; "))
	}
	fmt.Fprintln(out, "OK")
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	def, err := models.LoadWorld(cfg.WorldFile)
	if err != nil {
		return err
	}
	w, err := def.Build()
	if err != nil {
		return err
	}
	reg, err := parser.DefaultRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := parser.New(reg, w, console.New(cmd.InOrStdin(), out), parser.WithLogger(logger.For("cmd")))
	for _, sentence := range args {
		fmt.Fprintf(out, "> %s\n", sentence)
		c := p.Parse(sentence)
		fmt.Fprintln(out, describeCommand(w, c))
	}
	return nil
}

func describeCommand(w *world.World, c parser.Command) string {
	if !c.Valid() {
		return fmt.Sprintf("  rejected (%s)", parser.Kind(c.Err))
	}
	name := func(id world.ObjectID) string {
		if o := w.Object(id); o != nil {
			return o.Key
		}
		return "-"
	}

	parts := []string{"verb=" + c.Verb.String()}
	switch {
	case c.IsDirection:
		parts = append(parts, "direction="+c.Direction.String())
	case c.All:
		var keys []string
		for _, id := range c.Objects {
			keys = append(keys, name(id))
		}
		parts = append(parts, "all=["+strings.Join(keys, " ")+"]")
		if c.Except != world.None {
			parts = append(parts, "except="+name(c.Except))
		}
	default:
		parts = append(parts, "direct="+name(c.Direct))
		if c.Preposition != "" {
			parts = append(parts, "prep="+c.Preposition, "indirect="+name(c.Indirect))
		}
	}
	if c.Syntax != nil {
		parts = append(parts, "syntax="+c.Syntax.String())
	}
	if c.Replayed {
		parts = append(parts, "replayed")
	}
	return "  " + strings.Join(parts, " ")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.TranscriptPath); err != nil {
		return fmt.Errorf("no transcript at %s", cfg.TranscriptPath)
	}
	tr, err := transcript.Open(cfg.TranscriptPath, nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		sessions, err := tr.Sessions()
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	entries, err := tr.Entries(args[0])
	if err != nil {
		return err
	}
	for _, e := range entries {
		switch e.Type {
		case "parsed", "rejected":
			fmt.Fprintf(out, "[%d] > %s  (%s)\n", e.Turn, e.Input, e.Kind)
		case "output":
			fmt.Fprintln(out, e.Text)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := models.LoadWorld(cfg.WorldFile)
	if err != nil {
		return err
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		def.ShortName = name
	}
	path, err := def.Save(cfg.SaveDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	names, err := models.ListWorlds(cfg.SaveDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved worlds: %s\n", strings.Join(names, ", "))
	return nil
}
