package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/milk9111/dashrunner/levels"
	"github.com/milk9111/dashrunner/prefabs"
	"github.com/milk9111/dashrunner/storage"
)

var flagLimit int

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List available levels",
	Long: `List the embedded levels with the best completion time from the run
history.`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

var runsCmd = &cobra.Command{
	Use:   "runs [level]",
	Short: "Show recent runs",
	Long: `Display the most recent runs, newest first. Pass a level name to show
only that level.

Examples:
  dashrunner runs
  dashrunner runs runner_01 --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

var prefabsCmd = &cobra.Command{
	Use:   "prefabs",
	Short: "List entity prefabs",
	Long: `List the prefab files with the components each one builds. A file under
./prefabs on disk is shown instead of the embedded copy.`,
	Args: cobra.NoArgs,
	RunE: runPrefabs,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.DBPath)
}

func runLevels(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %-20s  %-10s  %s\n", "Level", "Best", "Deaths")
	fmt.Fprintf(out, "  %-20s  %-10s  %s\n", "-----", "----", "------")
	for _, file := range levels.List() {
		name := strings.TrimSuffix(file, ".json")
		best := "-"
		if t, ok, err := store.BestTime(name); err != nil {
			return err
		} else if ok {
			best = formatSeconds(t)
		}
		deaths, err := store.Deaths(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-20s  %-10s  %d\n", name, best, deaths)
	}
	return nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	level := ""
	if len(args) == 1 {
		level = strings.TrimSuffix(args[0], ".json")
	}
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(level, flagLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "  %-16s  %-20s  %-9s  %-10s  %s\n", "Date", "Level", "Outcome", "Time", "Jumps")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-16s  %-20s  %-9s  %-10s  %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Level, r.Outcome, formatSeconds(r.Elapsed), r.Jumps)
	}
	return nil
}

func runPrefabs(cmd *cobra.Command, _ []string) error {
	names, err := prefabs.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range names {
		spec, err := prefabs.LoadEntityBuildSpec(name)
		if err != nil {
			return err
		}
		components := make([]string, 0, len(spec.Components))
		for component := range spec.Components {
			components = append(components, component)
		}
		sort.Strings(components)
		fmt.Fprintf(out, "  %-20s  %s\n", name, strings.Join(components, ", "))
	}
	return nil
}
