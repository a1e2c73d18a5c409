package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oxhq/lintfx/config"
	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/db"
	"github.com/oxhq/lintfx/host"
	"github.com/oxhq/lintfx/lang"
	"github.com/oxhq/lintfx/lang/golang"
	"github.com/oxhq/lintfx/lang/javascript"
	"github.com/oxhq/lintfx/projcache"
	"github.com/oxhq/lintfx/rules"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type checkFlags struct {
	include   []string
	exclude   []string
	jsonOut   bool
	showDiff  bool
	applyFix  bool
	saveDB    bool
	workers   int
	disable   []string
	minImpact string
	severity  []string
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Analyze a project tree and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runCheck(cmd, root, flags, config.Load())
		},
	}

	addCheckFlags(cmd.Flags(), &flags)
	return cmd
}

func addCheckFlags(fs *pflag.FlagSet, flags *checkFlags) {
	fs.StringSliceVarP(&flags.include, "include", "i", nil, "Include file patterns (doublestar globs, relative to root).")
	fs.StringSliceVarP(&flags.exclude, "exclude", "e", nil, "Exclude file patterns.")
	fs.BoolVarP(&flags.jsonOut, "json", "j", false, "Output the report as JSON.")
	fs.BoolVarP(&flags.showDiff, "diff", "D", false, "Show unified diffs for proposed fixes.")
	fs.BoolVar(&flags.applyFix, "fix", false, "Apply non-conflicting fixes in place.")
	fs.BoolVar(&flags.saveDB, "db", false, "Persist the run to the findings database.")
	fs.IntVarP(&flags.workers, "workers", "w", 0, "Concurrent file sessions, 0 means one per CPU.")
	fs.StringSliceVar(&flags.disable, "disable", nil, "Rule ids to disable.")
	fs.StringVar(&flags.minImpact, "min-impact", "", "Drop rules below this impact (low, medium, high, critical).")
	fs.StringSliceVar(&flags.severity, "severity", nil, "Severity overrides as rule=level pairs.")
}

func runCheck(cmd *cobra.Command, root string, flags checkFlags, cfg config.Config) error {
	runner, err := buildRunner(flags, cfg)
	if err != nil {
		return err
	}

	report, err := runner.Run(cmd.Context(), host.Scope{
		Root:    root,
		Include: flags.include,
		Exclude: flags.exclude,
	})
	if err != nil {
		return err
	}

	if flags.applyFix {
		if err := applyFixes(cmd, report); err != nil {
			return err
		}
	}

	if flags.saveDB {
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "lintfx.db"
		}
		conn, err := db.Connect(dsn, cfg.Debug)
		if err != nil {
			return err
		}
		run, err := db.SaveReport(conn, report, ruleImpacts())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s\n", run.ID)
	}

	if flags.jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
	}
	printReport(cmd, report, flags.showDiff)

	if report.Findings > 0 {
		return fmt.Errorf("%d finding(s)", report.Findings)
	}
	return nil
}

func buildRunner(flags checkFlags, cfg config.Config) (*host.Runner, error) {
	workers := flags.workers
	if workers == 0 {
		workers = cfg.Workers
	}

	disabled := make(map[core.RuleID]bool)
	for _, id := range cfg.Disabled {
		disabled[core.RuleID(id)] = true
	}
	for _, id := range flags.disable {
		disabled[core.RuleID(id)] = true
	}

	minImpact := flags.minImpact
	if minImpact == "" {
		minImpact = cfg.MinImpact
	}

	overrides, err := parseSeverityOverrides(flags.severity)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &host.Runner{
		Langs:     lang.NewRegistry(golang.New(), javascript.New()),
		Rules:     rules.All,
		Cache:     projcache.New(),
		Severity:  overrides,
		Disabled:  disabled,
		MinImpact: core.Impact(minImpact),
		Workers:   workers,
		Logger:    logger,
	}, nil
}

func ruleImpacts() map[core.RuleID]core.Impact {
	impacts := make(map[core.RuleID]core.Impact)
	for _, b := range rules.All() {
		impacts[b.Descriptor.ID] = b.Descriptor.Impact
	}
	return impacts
}

func parseSeverityOverrides(pairs []string) (map[core.RuleID]core.Severity, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[core.RuleID]core.Severity, len(pairs))
	for _, pair := range pairs {
		id, level, ok := strings.Cut(pair, "=")
		if !ok || id == "" || level == "" {
			return nil, fmt.Errorf("invalid severity override %q, want rule=level", pair)
		}
		overrides[core.RuleID(id)] = core.Severity(level)
	}
	return overrides, nil
}

func applyFixes(cmd *cobra.Command, report *host.Report) error {
	for _, file := range report.Files {
		if file.Err != nil || file.Set.Len() == 0 {
			continue
		}
		source, err := os.ReadFile(file.Path)
		if err != nil {
			return err
		}
		patched, applied := host.ApplyFixes(source, file.Set.Diagnostics)
		if applied == 0 {
			continue
		}
		if err := host.WriteFileAtomic(file.Path, patched); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: applied %d fix(es)\n", cyan("fixed"), file.Path, applied)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *host.Report, showDiff bool) {
	out := cmd.OutOrStdout()
	for _, file := range report.Files {
		if file.Err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", red("error"), file.Path, file.Err)
			continue
		}
		var source []byte
		for _, d := range file.Set.Diagnostics {
			if source == nil {
				source, _ = os.ReadFile(file.Path)
			}
			line := lineOf(source, d.Range.Start)
			fmt.Fprintf(out, "%s:%d: %s %s %s\n",
				file.Path, line, severityColor(d.Severity), bold(string(d.Rule)), d.Message)
			if d.Correction != "" {
				fmt.Fprintf(out, "    %s\n", d.Correction)
			}
			if showDiff {
				for _, fix := range d.Fixes {
					if diff, err := host.Preview(file.Path, source, fix); err == nil {
						fmt.Fprint(out, diff)
					}
				}
			}
		}
	}
	fmt.Fprintf(out, "%d file(s) scanned, %d finding(s) in %s\n",
		report.FilesScanned, report.Findings, report.Duration.Round(1e6))
}

func severityColor(sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return red(string(sev))
	case core.SeverityWarning:
		return yellow(string(sev))
	default:
		return cyan(string(sev))
	}
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(source []byte, offset uint32) int {
	end := int(offset)
	if end > len(source) {
		end = len(source)
	}
	return bytes.Count(source[:end], []byte{'\n'}) + 1
}
