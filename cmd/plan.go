package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/export"
	"github.com/examprep/examprep/internal/schedule"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate, show and export study plans",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build and save a plan from your answer history",
	RunE: func(cmd *cobra.Command, args []string) error {
		hours := cfg.Schedule.WeeklyHours
		if cmd.Flags().Changed("hours") {
			hours, _ = cmd.Flags().GetFloat64("hours")
		}
		strategy := cfg.Strategy()
		if cmd.Flags().Changed("strategy") {
			name, _ := cmd.Flags().GetString("strategy")
			s, err := schedule.ParseStrategy(name)
			if err != nil {
				return err
			}
			strategy = s
		}
		weeks := cfg.Schedule.Weeks
		if cmd.Flags().Changed("weeks") {
			weeks, _ = cmd.Flags().GetInt("weeks")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		var plan schedule.Plan
		if dryRun {
			plan, err = svc.planner.Preview(cmd.Context(), cfg.User, hours, strategy, weeks)
		} else {
			plan, err = svc.planner.Generate(cmd.Context(), cfg.User, hours, strategy, weeks)
		}
		if err != nil {
			return fmt.Errorf("generate plan: %w", err)
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your latest saved plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		plan, err := svc.planner.Latest(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		if plan == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No plan saved yet. Run `examprep plan generate`.")
			return nil
		}
		printPlan(cmd.OutOrStdout(), *plan)
		return nil
	},
}

var planExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your latest plan as CSV, XLSX or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		startStr, _ := cmd.Flags().GetString("start")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}
		start := time.Now()
		if startStr != "" {
			start, err = time.ParseInLocation("2006-01-02", startStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --start %q (want YYYY-MM-DD): %w", startStr, err)
			}
		}
		if path == "" {
			path = "study-plan." + string(format)
		}

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		plan, err := svc.planner.Latest(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		if plan == nil {
			return fmt.Errorf("no plan saved for %q; run `examprep plan generate` first", cfg.User)
		}

		var w io.Writer = cmd.OutOrStdout()
		var f *os.File
		if path != "-" {
			f, err = os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			w = f
		}

		switch format {
		case export.FormatCSV:
			err = export.PlanCSV(w, *plan, start)
		case export.FormatXLSX:
			err = export.PlanXLSX(w, *plan, start)
		case export.FormatPDF:
			err = export.PlanPDF(w, *plan, start)
		}
		if f != nil {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return fmt.Errorf("export plan: %w", err)
		}
		if f != nil {
			svc.log.Info("plan exported", "plan", plan.ID, "format", string(format), "path", path)
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		}
		return nil
	},
}

// printPlan writes the weekly template as a subject by weekday grid.
func printPlan(out io.Writer, p schedule.Plan) {
	fmt.Fprintf(out, "Plan %s  (%s, %.1f h/week budget, %d week(s))\n\n",
		p.ID, p.Strategy, p.WeeklyHoursBudget, p.Weeks)
	if len(p.Items) == 0 {
		fmt.Fprintln(out, "Nothing to schedule: answer some questions first.")
		return
	}

	days := p.Days()
	var header strings.Builder
	fmt.Fprintf(&header, "%-24s  %-8s  %5s", "Subject", "Tier", "Acc")
	for _, d := range days {
		fmt.Fprintf(&header, "  %4s", d.String()[:3])
	}
	fmt.Fprintf(&header, "  %6s", "Total")
	fmt.Fprintln(out, header.String())
	fmt.Fprintln(out, strings.Repeat("─", header.Len()))

	for _, it := range p.Items {
		perDay := make(map[time.Weekday]float64)
		for _, s := range it.DailySessions {
			perDay[s.Day] += s.DurationHours
		}
		fmt.Fprintf(out, "%-24s  %-8s  %4.0f%%", truncate(it.Subject, 24), it.Tier, it.AccuracyPercent)
		for _, d := range days {
			if h := perDay[d]; h > 0 {
				fmt.Fprintf(out, "  %4.1f", h)
			} else {
				fmt.Fprintf(out, "  %4s", "")
			}
		}
		fmt.Fprintf(out, "  %6.1f\n", it.WeeklyHours)
	}
	fmt.Fprintf(out, "\n%.1f of %.1f hours allocated.\n", p.TotalHours(), p.WeeklyHoursBudget)
}

func init() {
	planGenerateCmd.Flags().Float64("hours", 0, "Weekly study hours budget (default from config)")
	planGenerateCmd.Flags().String("strategy", "", "weak-areas-focus, balanced or uniform-review (default from config)")
	planGenerateCmd.Flags().Int("weeks", 1, "Number of weeks the plan covers")
	planGenerateCmd.Flags().Bool("dry-run", false, "Print the plan without saving it")

	planExportCmd.Flags().StringP("format", "f", "csv", "Export format: csv, xlsx or pdf")
	planExportCmd.Flags().StringP("out", "o", "", "Output file, - for stdout (default study-plan.<format>)")
	planExportCmd.Flags().String("start", "", "First day of the plan, YYYY-MM-DD (default today)")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planExportCmd)
}
