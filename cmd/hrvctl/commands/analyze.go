package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/insights"
)

type analyzeResult struct {
	Report          *domain.InsightReport   `json:"report"`
	TopHabits       []domain.Correlation    `json:"topHabits"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	TodaysFocus     *domain.Recommendation  `json:"todaysFocus,omitempty"`
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var (
		date    string
		useLag  bool
		top     int
		maxRecs int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Correlate habits with HRV and print recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := loadWorkspace(ctx, root.data, root.window)
			if err != nil {
				return err
			}
			asOf, err := ws.resolveDay(date)
			if err != nil {
				return err
			}

			report, err := ws.insights.Report(ctx, ws.userID, asOf, useLag)
			if err != nil {
				return err
			}
			topHabits, err := ws.insights.TopHabits(ctx, ws.userID, asOf, top)
			if err != nil {
				return err
			}
			recs, err := ws.insights.Recommendations(ctx, ws.userID, asOf, maxRecs)
			if err != nil {
				return err
			}
			focus, err := ws.insights.TodaysFocus(ctx, ws.userID, asOf)
			if err != nil {
				return err
			}

			result := analyzeResult{Report: report, TopHabits: topHabits, Recommendations: recs, TodaysFocus: focus}
			if root.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printAnalysis(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "as-of day (YYYY-MM-DD), default the latest reading")
	cmd.Flags().BoolVar(&useLag, "lag", false, "pair each habit day with the next day's HRV")
	cmd.Flags().IntVar(&top, "top", 3, "number of top habits to show")
	cmd.Flags().IntVar(&maxRecs, "max", insights.DefaultMaxRecommendations, "maximum number of recommendations")

	return cmd
}

func printAnalysis(out io.Writer, r analyzeResult) {
	lag := "off"
	if r.Report.UseLag {
		lag = "on"
	}
	fmt.Fprintf(out, "Analysis as of %s (%d days, lag %s)\n", r.Report.AsOf, r.Report.TotalDays, lag)
	fmt.Fprintf(out, "Logging streak: current %d, longest %d\n\n", r.Report.LoggingStreak.Current, r.Report.LoggingStreak.Longest)

	if !r.Report.SufficientData {
		fmt.Fprintf(out, "Not enough data yet: %d of %d days logged.\n", r.Report.TotalDays, insights.SufficientDataDays)
		return
	}

	fmt.Fprintln(out, "Top habits:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for i, c := range r.TopHabits {
		fmt.Fprintf(tw, "  %d.\t%s\t%+.2f\t%+.1f%% HRV\tn=%d\t%s\n",
			i+1, c.HabitLabel, c.Coefficient, c.PercentageDiff, c.SampleSize, c.Significance)
	}
	_ = tw.Flush()

	fmt.Fprintln(out, "\nRecommendations:")
	if len(r.Recommendations) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for i, rec := range r.Recommendations {
		fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, rec.Action, rec.Message)
		if rec.ExpectedImpact != "" {
			fmt.Fprintf(out, "     %s\n", rec.ExpectedImpact)
		}
	}

	if r.TodaysFocus != nil {
		fmt.Fprintf(out, "\nToday's focus: %s\n", r.TodaysFocus.Message)
	}
}
