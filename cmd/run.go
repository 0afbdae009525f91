package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := newServices(cmd, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	svc.log.Info("starting terminal UI", "user", cfg.User)
	opts := app.Options{
		UserID:      cfg.User,
		Bank:        svc.bank,
		History:     svc.history,
		Planner:     svc.planner,
		StudyAid:    svc.studyAid,
		Strategy:    cfg.Strategy(),
		WeeklyHours: cfg.Schedule.WeeklyHours,
		Weeks:       cfg.Schedule.Weeks,
		Log:         svc.log,
	}
	if err := app.Run(opts); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
