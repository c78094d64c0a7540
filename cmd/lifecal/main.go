package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifecal/internal/birthdate"
	"github.com/san-kum/lifecal/internal/config"
	"github.com/san-kum/lifecal/internal/render"
	"github.com/san-kum/lifecal/internal/server"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
	"github.com/san-kum/lifecal/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile string
	dataDir    string
	storeKind  string
	scaleFlag  string
	themeFlag  string
	preset     string
	seed       uint64
	verbose    bool

	// show
	plain   bool
	nowFlag string

	// serve
	addr string

	// export
	output   string
	cellSize float64

	// stats
	samples int

	// config init
	force bool

	cfg    *config.Config
	logger = zap.NewNop()
	kv     storage.KV
	rng    *rand.Rand
)

// main registers the commands and runs the interactive calendar when no
// subcommand is given.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:               "lifecal",
		Short:             "your life in weeks",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := cfg.GetScale()
			if err != nil {
				return err
			}
			return tui.RunInteractive(cmd.Context(), tui.Options{
				KV:    kv,
				Rand:  lifespanRand(),
				Scale: scale,
				Theme: render.GetTheme(cfg.Theme),
			})
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&storeKind, "store", config.DefaultStore, "birthday store (memory, file, sqlite)")
	pf.StringVar(&scaleFlag, "scale", config.DefaultScale, "cells per year: m, w or d")
	pf.StringVar(&themeFlag, "theme", config.DefaultTheme, "color theme ("+strings.Join(render.ThemeNames(), ", ")+")")
	pf.StringVar(&preset, "preset", "", "use preset scale and theme")
	pf.Uint64Var(&seed, "seed", 0, "lifespan random seed (0 = clock)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the calendar",
		RunE:  runShow,
	}
	showCmd.Flags().BoolVar(&plain, "plain", false, "no colors")
	showCmd.Flags().StringVar(&nowFlag, "now", "", "pretend today is this date")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the calendar page over http",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	exportCmd := &cobra.Command{
		Use:       "export [html|svg|json]",
		Short:     "export the calendar",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"html", "svg", "json"},
		RunE:      runExport,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().Float64Var(&cellSize, "cell", 8, "svg cell size in pixels")
	exportCmd.Flags().StringVar(&nowFlag, "now", "", "pretend today is this date")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "phase counts and lifespan distribution",
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&samples, "samples", 10000, "lifespan draws to plot")

	birthdayCmd := &cobra.Command{
		Use:   "birthday",
		Short: "show or change the stored birthday",
	}
	birthdayCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "print the stored birthday",
		RunE:  runBirthdayGet,
	}, &cobra.Command{
		Use:   "set [YYYY-MM-DD]",
		Short: "store a birthday, prompting when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBirthdaySet,
	})

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s scale=%s theme=%s\n", name, p.Scale, p.Theme)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default config (to --config or <data>/lifecal.yaml)",
		RunE:  runConfigInit,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	configCmd.AddCommand(initCmd)

	rootCmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return render.ThemeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ListPresets(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(showCmd, serveCmd, exportCmd, statsCmd, birthdayCmd, presetsCmd, configCmd)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeStore(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close store: %v\n", cerr)
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// setup resolves config (file, env, then flags), builds the logger and opens
// the store.
func setup(cmd *cobra.Command, args []string) error {
	path := configFile
	if cmd.Name() == "init" && path != "" {
		// init creates the file; nothing to load yet
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	var err error
	cfg, err = config.Resolve(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("store") {
		cfg.Store = storeKind
	}
	if preset != "" && !cfg.ApplyPreset(preset) {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if flags.Changed("scale") {
		cfg.Scale = scaleFlag
	}
	if flags.Changed("theme") {
		cfg.Theme = themeFlag
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// the interactive view owns the terminal
	if cmd.Parent() != nil {
		zc := zap.NewProductionConfig()
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	kv, err = storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return err
	}
	logger.Debug("store opened",
		zap.String("kind", cfg.Store),
		zap.String("dir", filepath.Clean(cfg.DataDir)))
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// lifespanRand returns the process-wide generator, so the initial draw and
// later rerolls continue one sequence.
func lifespanRand() *rand.Rand {
	if rng == nil {
		rng = newRand(cfg.Seed)
	}
	return rng
}

// closeStore flushes the logger and closes the store if it holds resources.
func closeStore() error {
	_ = logger.Sync()
	c, ok := kv.(io.Closer)
	if !ok {
		return nil
	}
	kv = nil
	return c.Close()
}

// linePrompter asks on stderr and reads one line from r per question.
type linePrompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

func newLinePrompter() *linePrompter {
	return &linePrompter{out: os.Stderr, scanner: bufio.NewScanner(os.Stdin)}
}

func (p *linePrompter) Ask(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, message+" ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func currentTime() (time.Time, error) {
	if nowFlag == "" {
		return time.Now(), nil
	}
	t, err := birthdate.Parse(nowFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now: %w", err)
	}
	return t, nil
}

// loadState acquires the birthday and draws a lifespan.
func loadState(ctx context.Context) (timeline.State, error) {
	start, err := birthdate.Acquire(ctx, kv, newLinePrompter(), false)
	if err != nil {
		return timeline.State{}, fmt.Errorf("birthday: %w", err)
	}
	scale, err := cfg.GetScale()
	if err != nil {
		return timeline.State{}, err
	}
	st, err := timeline.New(start, scale, lifespanRand())
	if err != nil {
		return timeline.State{}, err
	}
	logger.Debug("timeline",
		zap.Time("start", st.Start),
		zap.Time("end", st.End),
		zap.Int("years", st.Years),
		zap.String("scale", st.Scale.Name()))
	return st, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := loadState(cmd.Context())
	if err != nil {
		return err
	}
	now, err := currentTime()
	if err != nil {
		return err
	}
	grid, err := st.Build(now)
	if err != nil {
		return err
	}

	fmt.Printf("born %s, lifespan %d years (until %s), one cell per %s\n\n",
		st.Start.Format(time.DateOnly), st.Years, st.End.Format(time.DateOnly), st.Scale.Name())
	if plain {
		fmt.Print(render.Plain(grid))
		return nil
	}
	fmt.Print(render.Text(grid, st.Scale, render.GetTheme(cfg.Theme)))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := loadState(cmd.Context())
	if err != nil {
		return err
	}
	listen := cfg.Addr
	if addr != "" {
		listen = addr
	}

	srv := server.New(st, kv, lifespanRand(), server.Options{
		Logger: logger,
		Theme:  render.GetTheme(cfg.Theme),
	})
	fmt.Printf("lifecal on http://%s\n", listen)
	return srv.Run(cmd.Context(), listen)
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	format := strings.ToLower(args[0])
	switch format {
	case "html", "svg", "json":
	default:
		return fmt.Errorf("unknown export format: %s (available: html, svg, json)", format)
	}

	st, err := loadState(cmd.Context())
	if err != nil {
		return err
	}
	now, err := currentTime()
	if err != nil {
		return err
	}
	grid, err := st.Build(now)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", output, cerr)
			}
		}()
		w = f
	}

	theme := render.GetTheme(cfg.Theme)
	switch format {
	case "html":
		err = render.HTML(w, render.Page{
			Grid:     grid,
			Scale:    st.Scale,
			Years:    st.Years,
			Birthday: st.Start.Format(time.DateOnly),
			Theme:    theme,
		})
	case "svg":
		_, err = io.WriteString(w, render.SVG(grid, st.Scale, theme, cellSize))
	case "json":
		err = render.JSON(w, st, grid)
	}
	if err != nil {
		return err
	}
	if output != "" {
		logger.Info("exported", zap.String("format", format), zap.String("path", output))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	if samples <= 0 {
		return errors.New("--samples must be positive")
	}
	st, err := loadState(cmd.Context())
	if err != nil {
		return err
	}
	grid, err := st.Build(time.Now())
	if err != nil {
		return err
	}

	counts := grid.Count()
	total := grid.Cells()
	fmt.Printf("%d cells of one %s each\n", total, st.Scale.Name())
	for _, p := range timeline.Phases {
		fmt.Printf("  %-9s %7d  %5.1f%%\n", p, counts[p], 100*float64(counts[p])/float64(max(total, 1)))
	}

	r := lifespanRand()
	hist := make([]float64, timeline.LifespanSpread)
	for i := 0; i < samples; i++ {
		hist[timeline.Lifespan(r)-timeline.MinLifespan]++
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(hist,
		asciigraph.Height(10),
		asciigraph.Caption(fmt.Sprintf("lifespan draws, %d..%d years (n=%d)",
			timeline.MinLifespan, timeline.MinLifespan+timeline.LifespanSpread-1, samples))))
	return nil
}

func runBirthdayGet(cmd *cobra.Command, args []string) error {
	v, ok, err := kv.Get(cmd.Context(), birthdate.Key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no birthday stored")
	}
	fmt.Println(v)
	return nil
}

func runBirthdaySet(cmd *cobra.Command, args []string) error {
	var (
		start time.Time
		err   error
	)
	if len(args) == 1 {
		start, err = birthdate.Save(cmd.Context(), kv, args[0])
	} else {
		start, err = birthdate.Acquire(cmd.Context(), kv, newLinePrompter(), true)
	}
	if err != nil {
		return err
	}
	logger.Info("birthday stored", zap.String("date", start.Format(time.DateOnly)))
	fmt.Println(start.Format(time.DateOnly))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = filepath.Join(cfg.DataDir, "lifecal.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	logger.Info("config written", zap.String("path", path))
	fmt.Println(path)
	return nil
}
