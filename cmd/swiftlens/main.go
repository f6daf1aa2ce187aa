package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"swiftlens/internal/analysis"
	"swiftlens/internal/config"
	"swiftlens/internal/engine"
	"swiftlens/internal/fixer"
	"swiftlens/internal/report"
	"swiftlens/internal/rule"
	"swiftlens/internal/rules"
	"swiftlens/internal/source"
	"swiftlens/internal/storage"
)

const version = "0.3.0"

var (
	rootCmd = &cobra.Command{
		Use:   "swiftlens",
		Short: "Cross-file static analysis for Swift sources",
	}
	configPath     string
	jsonOutput     bool
	updateBaseline bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".swiftlens.yml", "Path to the YAML configuration")

	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the report as JSON")
	scanCmd.Flags().BoolVar(&updateBaseline, "update-baseline", false, "Record current findings into the baseline")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Analyze a source tree and report violations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		violations, actx, err := runAnalysis(cmd, root)
		if err != nil {
			return err
		}

		cfg := actx.Config()
		threshold := rule.ParseSeverity(cfg.SeverityThreshold)
		violations = report.Reportable(violations, threshold)

		if cfg.BaselinePath != "" {
			store, err := storage.OpenBaseline(cfg.BaselinePath)
			if err != nil {
				return fmt.Errorf("failed to open baseline: %w", err)
			}
			defer store.Close()
			if updateBaseline {
				if err := store.Record(violations); err != nil {
					return fmt.Errorf("failed to update baseline: %w", err)
				}
				log.Printf("baseline updated with %d findings", len(violations))
				return nil
			}
			violations = store.Filter(violations)
		}

		rep := report.New(version, violations)
		if jsonOutput {
			data, err := rep.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			rep.Text(cmd.OutOrStdout())
		}

		if rep.Summary.Errors > 0 {
			os.Exit(2)
		}
		return nil
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply safe structured fixes and print the diff",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		violations, actx, err := runAnalysis(cmd, root)
		if err != nil {
			return err
		}

		for _, f := range actx.AllSourceFiles() {
			fixes := safeFixes(fixer.FixesFor(f.Path(), violations))
			if len(fixes) == 0 {
				continue
			}
			result, err := fixer.Apply(f, fixes)
			if err != nil {
				log.Printf("fix failed for %s: %v", f.Path(), err)
				continue
			}
			if !result.Changed() {
				continue
			}
			if err := os.WriteFile(f.Path(), []byte(result.ModifiedText), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.Path(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			fmt.Fprintln(cmd.OutOrStdout(), result.Diff)
		}
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List registered rules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e := engine.New()
		rules.RegisterBuiltin(e)
		for _, r := range e.Rules() {
			enabled := " "
			if r.EnabledByDefault() {
				enabled = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-24s %-12s %-8s %s\n",
				enabled, r.ID(), r.Category(), r.DefaultSeverity(), r.Description())
		}
		return nil
	},
}

// runAnalysis loads configuration and sources, then runs the full engine.
func runAnalysis(cmd *cobra.Command, root string) ([]rule.Violation, *analysis.Context, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	actx := analysis.NewContext(cfg, root)
	paths, err := source.DiscoverFiles(root, actx.IsIncluded)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	files := source.LoadFiles(paths)
	for _, f := range files {
		actx.AddSourceFile(f)
	}
	log.Printf("analyzing %d files", len(files))

	e := engine.New()
	rules.RegisterBuiltin(e)
	violations, err := e.AnalyzeFiles(cmd.Context(), files, actx)
	if err != nil {
		return nil, nil, err
	}
	return violations, actx, nil
}

// safeFixes keeps only fixes eligible for automatic application.
func safeFixes(fixes []rule.StructuredFix) []rule.StructuredFix {
	var out []rule.StructuredFix
	for _, f := range fixes {
		if f.Confidence == rule.ConfidenceSafe {
			out = append(out, f)
		}
	}
	return out
}
