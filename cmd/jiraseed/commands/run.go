package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/lct-labs/jiraseed/pkg/catalog"
	"github.com/lct-labs/jiraseed/pkg/config"
	"github.com/lct-labs/jiraseed/pkg/engine"
	"github.com/lct-labs/jiraseed/pkg/history"
	"github.com/lct-labs/jiraseed/pkg/mapping"
	"github.com/lct-labs/jiraseed/pkg/telemetry"
	"github.com/lct-labs/jiraseed/pkg/tracker"
)

// run is the single entry point behind the root command. It validates
// configuration, assembles the tracker and orchestrator, executes the
// requested mode, and renders the summary. The exit status is non-zero
// exactly when at least one entity operation failed.
func run(ctx context.Context, flags runFlags, out io.Writer) error {
	cfg := config.FromEnv()
	log := telemetry.NewLogger(os.Stderr, cfg.LogLevel)

	// History listing is local-only and needs no Jira credentials.
	if flags.showHistory {
		return showHistory(ctx, cfg, out)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	client := tracker.NewClient(cfg.Tracker, log)
	if flags.testConnection {
		if err := client.TestConnection(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "connection ok")
		return nil
	}

	phases := flags.selectedPhases()
	wantsWork := len(phases) > 0 || flags.wantFeatureVersions() || flags.wantComponentMapping() ||
		flags.teardown || flags.teardownAll
	if !wantsWork {
		return fmt.Errorf("nothing to do: select phases (--all, --projects, ...), --teardown, or --rebuild")
	}

	cat, err := catalog.Load(flags.catalogPath)
	if err != nil {
		return err
	}

	if err := confirmDestructive(flags); err != nil {
		return err
	}

	var trk engine.Tracker = client
	var preview *engine.DryRunTracker
	if flags.dryRun {
		preview = engine.NewDryRunTracker(client)
		trk = preview
	}

	runID := uuid.NewString()
	report := engine.NewReport(runID)
	orch := engine.New(trk, report, log, engine.Options{Parallelism: flags.parallelism})
	log.WithRunID(runID).Infof("starting %s run", flags.mode())

	switch {
	case flags.teardownAll:
		err = orch.RunTeardown(ctx, cat, true)
	case flags.teardown:
		err = orch.RunTeardown(ctx, cat, false)
	case flags.rebuild:
		err = orch.RunRebuild(ctx, cat, phases, false)
	default:
		if len(phases) > 0 {
			err = orch.RunSetup(ctx, cat, phases)
		}
	}
	if err != nil {
		return err
	}

	if !flags.teardown && !flags.teardownAll {
		if flags.wantFeatureVersions() {
			if err := orch.RunFeatureVersions(ctx, cat); err != nil {
				return err
			}
		}
		if flags.wantComponentMapping() {
			if err := runComponentMapping(ctx, cfg, orch, log); err != nil {
				return err
			}
		}
	}

	report.WriteSummary(out)
	if preview != nil {
		counts := cat.Counts()
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(out, "  catalog %s: %d\n", t, counts[catalog.EntityType(t)])
		}
		fmt.Fprintf(out, "dry run: %d operations previewed, nothing changed\n", len(preview.Operations()))
	}

	if !flags.dryRun {
		recordHistory(ctx, cfg, flags, report, log)
	}

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d entity operations failed", n)
	}
	return nil
}

// runComponentMapping connects to the inventory database only when the
// phase actually runs; every other phase works without DB settings.
func runComponentMapping(ctx context.Context, cfg config.Config, orch *engine.Orchestrator, log *telemetry.Logger) error {
	bridge, err := mapping.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer bridge.Close()
	return orch.RunComponentMapping(ctx, bridge)
}

// confirmDestructive gates the destructive modes behind an interactive
// prompt. Teardown of projects requires typing DELETE; a plain
// teardown or rebuild requires yes. Dry runs and --force skip the
// prompt.
func confirmDestructive(flags runFlags) error {
	if flags.force || flags.dryRun {
		return nil
	}

	switch {
	case flags.teardownAll:
		if !confirm("This deletes every fixture issue AND the projects themselves.", "DELETE") {
			return fmt.Errorf("aborted")
		}
	case flags.teardown:
		if !confirm("This deletes every fixture issue (projects are kept).", "yes") {
			return fmt.Errorf("aborted")
		}
	case flags.rebuild:
		if !confirm("This deletes the current fixture before re-provisioning it.", "yes") {
			return fmt.Errorf("aborted")
		}
	}
	return nil
}

// confirm prompts on stdin and requires the exact expected answer.
func confirm(prompt, expected string) bool {
	fmt.Printf("%s\nType %q to continue: ", prompt, expected)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	return strings.TrimSpace(scanner.Text()) == expected
}

// showHistory lists the most recent runs from the local history store.
func showHistory(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.HistoryPath == "" {
		return fmt.Errorf("run history disabled: set JIRASEED_HISTORY to a database path")
	}

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tMODE\tPHASES\tCREATED\tSKIPPED\tUPDATED\tDELETED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.StartedAt.Format(time.RFC3339), r.Mode, r.Phases,
			r.Created, r.Skipped, r.Updated, r.Deleted, r.Failed)
	}
	return tw.Flush()
}

// recordHistory appends the run to the local audit trail. History is
// best effort; a failure here never fails the run.
func recordHistory(ctx context.Context, cfg config.Config, flags runFlags, report *engine.Report, log *telemetry.Logger) {
	if cfg.HistoryPath == "" {
		return
	}

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		log.WithError(err).Warn("run history not recorded")
		return
	}
	if err := store.Init(ctx); err != nil {
		log.WithError(err).Warn("run history not recorded")
		return
	}
	defer store.Close()

	phaseNames := make([]string, 0, len(flags.selectedPhases()))
	for _, p := range flags.selectedPhases() {
		phaseNames = append(phaseNames, string(p))
	}

	completed := time.Now()
	run := history.Run{
		ID:          report.RunID,
		Mode:        flags.mode(),
		Phases:      strings.Join(phaseNames, ","),
		DryRun:      flags.dryRun,
		StartedAt:   report.Started,
		CompletedAt: &completed,
		Created:     report.Created(),
		Deleted:     report.Deleted(),
		Failed:      report.Failed(),
	}
	for _, res := range report.Results() {
		switch res.Outcome {
		case engine.OutcomeSkipped:
			run.Skipped++
		case engine.OutcomeUpdated:
			run.Updated++
		}
	}

	if err := store.RecordRun(ctx, run, report.Results()); err != nil {
		log.WithError(err).Warn("run history not recorded")
	}
}
