package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/fivec-menu/internal/calendar"
)

func runWindow(cmd *cobra.Command, _ []string) error {
	clock, err := calendar.NewResolver()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "reference zone %s, today %s\n", calendar.ReferenceZone, clock.ReferenceToday())
	for _, d := range clock.Days() {
		fmt.Fprintf(out, "%s  %s\n", d.Date, d.Label)
	}
	return nil
}
