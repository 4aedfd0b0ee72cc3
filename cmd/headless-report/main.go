package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
	"github.com/Garsondee/Kite-Fly/internal/logging"
	"github.com/Garsondee/Kite-Fly/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type reportOptions struct {
	runs     int
	fps      int
	seedBase int64
	seedStep int64
	duration int
	vertical bool
	pilot    string
	parallel int
	backend  string
	dbPath   string
	logLevel string
	verbose  bool
}

type runStats struct {
	runIndex int
	seed     int64
	frames   int

	score     int
	badge     arcade.Badge
	catches   int
	penalties int

	goodSpawns  int
	cloudSpawns int
	expired     int

	firstCatchFrame   int
	firstPenaltyFrame int
	peakScore         int

	eventLog string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := reportOptions{}
	cmd := &cobra.Command{
		Use:   "headless-report",
		Short: "Run seeded Kite Fly sessions without a display and summarise them",
		Long: `Plays a batch of seeded sessions with a scripted pilot and prints per-run
and aggregate statistics drawn from each session's event log.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.runs, "runs", 5, "number of headless sessions")
	f.IntVar(&o.fps, "fps", 60, "simulated frames per second")
	f.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	f.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	f.IntVar(&o.duration, "duration", arcade.DefaultDuration, "countdown seconds per session")
	f.BoolVar(&o.vertical, "vertical", false, "allow vertical kite movement")
	f.StringVar(&o.pilot, "pilot", "auto", "pilot: auto or idle")
	f.IntVar(&o.parallel, "parallel", 4, "sessions simulated at once")
	f.StringVar(&o.backend, "store", "", "record results to a store backend (sqlite, memory); empty skips")
	f.StringVar(&o.dbPath, "db", "kitefly-report.db", "sqlite path when --store=sqlite")
	f.StringVar(&o.logLevel, "log-level", "warn", "zap log level")
	f.BoolVar(&o.verbose, "verbose", false, "print every run's event log")
	return cmd
}

func pilotFor(name string) (arcade.Pilot, error) {
	switch name {
	case "auto":
		return arcade.DefaultAutopilot(), nil
	case "idle":
		return arcade.Idle{}, nil
	}
	return nil, fmt.Errorf("unsupported pilot %q (supported: auto, idle)", name)
}

func runReport(ctx context.Context, w io.Writer, o reportOptions) error {
	if o.runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if o.fps <= 0 {
		return fmt.Errorf("--fps must be > 0")
	}
	if o.parallel <= 0 {
		o.parallel = 1
	}
	pilot, err := pilotFor(o.pilot)
	if err != nil {
		return err
	}
	logger, err := logging.New(o.logLevel, true, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tuning := arcade.Tuning{Duration: o.duration, Vertical: o.vertical}

	fmt.Fprintln(w, headerStyle.Render("=== Headless Kite Fly Report ==="))
	fmt.Fprintf(w, "pilot=%s runs=%d fps=%d duration=%ds vertical=%t seed_base=%d seed_step=%d\n\n",
		o.pilot, o.runs, o.fps, o.duration, o.vertical, o.seedBase, o.seedStep)

	all := make([]runStats, o.runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallel)
	for i := 0; i < o.runs; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := o.seedBase + int64(i)*o.seedStep
			all[i] = runSession(i+1, seed, tuning, pilot, o.fps, o.verbose)
			logger.Debug("run finished", zap.Int("run", i+1), zap.Int64("seed", seed), zap.Int("score", all[i].score))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rs := range all {
		printRun(w, rs)
	}
	printAggregate(w, all)

	if o.backend != "" {
		return recordAll(w, o, all, logger)
	}
	return nil
}

func runSession(runIndex int, seed int64, tuning arcade.Tuning, pilot arcade.Pilot, fps int, verbose bool) runStats {
	s := arcade.NewSession(
		arcade.WithSeed(seed),
		arcade.WithTuning(tuning),
		arcade.WithVerbose(verbose),
	)
	res := arcade.Play(s, pilot, fps)
	log := s.Log()

	peak := 0
	for _, e := range log.Filter(arcade.CatScore, arcade.KeyCatch) {
		if int(e.NumVal) > peak {
			peak = int(e.NumVal)
		}
	}

	rs := runStats{
		runIndex:          runIndex,
		seed:              seed,
		frames:            s.Frame(),
		score:             res.Score,
		badge:             res.Badge,
		catches:           log.Count(arcade.CatScore, arcade.KeyCatch),
		penalties:         log.Count(arcade.CatScore, arcade.KeyPenalty),
		goodSpawns:        log.Count(arcade.CatSpawn, arcade.KeyGood),
		cloudSpawns:       log.Count(arcade.CatSpawn, arcade.KeyCloud),
		expired:           log.Count(arcade.CatItem, arcade.KeyExpire),
		firstCatchFrame:   firstFrame(log, arcade.CatScore, arcade.KeyCatch),
		firstPenaltyFrame: firstFrame(log, arcade.CatScore, arcade.KeyPenalty),
		peakScore:         peak,
	}
	if verbose {
		rs.eventLog = log.Format()
	}
	return rs
}

func firstFrame(log *arcade.EventLog, category, key string) int {
	if e, ok := log.FirstOf(category, key); ok {
		return e.Frame
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintln(w, runStyle.Render(fmt.Sprintf("--- Run %d (seed=%d) ---", rs.runIndex, rs.seed)))
	fmt.Fprintf(w, "result: score=%d peak=%d badge=%q frames=%d\n", rs.score, rs.peakScore, rs.badge.String(), rs.frames)
	fmt.Fprintf(w, "scoring: catches=%d penalties=%d catch_rate=%s\n", rs.catches, rs.penalties, pct(rs.catches, rs.goodSpawns))
	fmt.Fprintf(w, "spawns: good=%d cloud=%d expired=%d\n", rs.goodSpawns, rs.cloudSpawns, rs.expired)
	fmt.Fprintf(w, "markers: first_catch=%d first_penalty=%d\n", rs.firstCatchFrame, rs.firstPenaltyFrame)
	if rs.eventLog != "" {
		fmt.Fprint(w, rs.eventLog)
	}
	fmt.Fprintln(w)
}

type aggregate struct {
	runs          int
	avgScore      float64
	minScore      int
	maxScore      int
	avgCatches    float64
	avgPenalties  float64
	catchRate     string
	badges        map[arcade.Badge]int
	firstCatchAvg string
}

func summarize(all []runStats) aggregate {
	ag := aggregate{runs: len(all), badges: map[arcade.Badge]int{}}
	if len(all) == 0 {
		ag.catchRate = "n/a"
		ag.firstCatchAvg = "n/a"
		return ag
	}
	totalScore, totalCatches, totalPenalties, totalGood := 0, 0, 0, 0
	var firstCatches []int
	ag.minScore = all[0].score
	for _, rs := range all {
		totalScore += rs.score
		totalCatches += rs.catches
		totalPenalties += rs.penalties
		totalGood += rs.goodSpawns
		if rs.score < ag.minScore {
			ag.minScore = rs.score
		}
		if rs.score > ag.maxScore {
			ag.maxScore = rs.score
		}
		ag.badges[rs.badge]++
		if rs.firstCatchFrame >= 0 {
			firstCatches = append(firstCatches, rs.firstCatchFrame)
		}
	}
	ag.avgScore = avg(totalScore, len(all))
	ag.avgCatches = avg(totalCatches, len(all))
	ag.avgPenalties = avg(totalPenalties, len(all))
	ag.catchRate = pct(totalCatches, totalGood)
	ag.firstCatchAvg = avgFrameString(firstCatches)
	return ag
}

func printAggregate(w io.Writer, all []runStats) {
	ag := summarize(all)
	fmt.Fprintln(w, headerStyle.Render("=== Aggregate ==="))
	fmt.Fprintf(w, "runs=%d\n", ag.runs)
	fmt.Fprintf(w, "score: avg=%.1f min=%d max=%d\n", ag.avgScore, ag.minScore, ag.maxScore)
	fmt.Fprintf(w, "avg_per_run: catches=%.1f penalties=%.1f catch_rate=%s first_catch_frame=%s\n",
		ag.avgCatches, ag.avgPenalties, ag.catchRate, ag.firstCatchAvg)
	fmt.Fprintf(w, "badges: %s\n", badgeLine(ag.badges))
}

func badgeLine(counts map[arcade.Badge]int) string {
	parts := make([]string, 0, len(arcade.AllBadges))
	for _, b := range arcade.AllBadges {
		parts = append(parts, fmt.Sprintf("%s=%d", strings.ReplaceAll(strings.ToLower(b.String()), " ", "_"), counts[b]))
	}
	return strings.Join(parts, " ")
}

// recordAll writes results in run order so the stored best and badge set do
// not depend on which goroutine finished first.
func recordAll(w io.Writer, o reportOptions, all []runStats, logger *zap.Logger) error {
	kv, err := store.Open(o.backend, o.dbPath)
	if err != nil {
		return err
	}
	defer kv.Close()
	p := store.NewProfile(kv, logger)
	for _, rs := range sortedByRun(all) {
		if err := p.Record(rs.score, rs.badge); err != nil {
			return fmt.Errorf("record run %d: %w", rs.runIndex, err)
		}
	}
	rec := p.Load()
	names := make([]string, 0, len(rec.Badges))
	for _, b := range rec.Badges {
		names = append(names, b.String())
	}
	fmt.Fprintf(w, "stored: backend=%s best=%d badges=[%s]\n", o.backend, rec.BestScore, strings.Join(names, ", "))
	return nil
}

func sortedByRun(all []runStats) []runStats {
	out := append([]runStats(nil), all...)
	sort.Slice(out, func(i, j int) bool { return out[i].runIndex < out[j].runIndex })
	return out
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(n, d int) string {
	if d <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(d)*100)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
