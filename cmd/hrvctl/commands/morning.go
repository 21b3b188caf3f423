package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/services"
)

func newMorningCmd(root *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "morning",
		Short: "Build the morning analysis and plan for a day",
		Long: `Runs the morning engine for --date (default: the latest reading in the
snapshot). The snapshot's yesterdayPlan, if present, is used as the previous
day's adherence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := loadWorkspace(ctx, root.data, root.window)
			if err != nil {
				return err
			}
			day, err := ws.resolveDay(date)
			if err != nil {
				return err
			}

			analysis, err := ws.morning.Analyze(ctx, services.MorningInput{
				UserID:        ws.userID,
				Date:          day,
				YesterdayPlan: ws.yesterdayPlan,
			})
			if err != nil {
				return fmt.Errorf("morning analysis for %s: %w", domain.DayKey(day), err)
			}

			if root.json {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			printMorning(cmd.OutOrStdout(), domain.DayKey(day), analysis)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to analyse (YYYY-MM-DD)")

	return cmd
}

func printMorning(out io.Writer, day string, a *domain.DailyAnalysis) {
	fmt.Fprintf(out, "Morning analysis %s\n", day)
	fmt.Fprintf(out, "  HRV percentile: %.0f   vs 7-day avg: %+.1f%%   recovery: %s\n",
		a.Status.HRVPercentile, a.Status.VsSevenDayAvg, a.Status.RecoveryState)
	fmt.Fprintf(out, "  Focus: %s\n  %s\n", a.FocusArea, a.Reasoning)

	printList(out, "Insights", a.Insights)
	printList(out, "Yesterday", a.PreviousDayLearnings)

	fmt.Fprintln(out, "\nPlan:")
	for _, item := range a.Recommendations {
		fmt.Fprintf(out, "  %d. [%s] %s (%s)\n", item.Priority, item.Category, item.Action, item.Timing)
	}

	if g := a.GoalProgress; g != nil {
		status := "behind"
		if g.OnTrack {
			status = "on track"
		}
		fmt.Fprintf(out, "\nGoal: %.0f ms target, %.0f ms now, gap %.1f (%s", g.TargetHRV, g.CurrentHRV, g.Gap, status)
		if g.EstimatedDaysToTarget > 0 {
			fmt.Fprintf(out, ", ~%d days", g.EstimatedDaysToTarget)
		}
		fmt.Fprintln(out, ")")
	}

	fmt.Fprintf(out, "\nEstimated end-of-day HRV: %.1f ms\n", a.EstimatedEndOfDayHRV)
}

func printList(out io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(l))
	}
}
