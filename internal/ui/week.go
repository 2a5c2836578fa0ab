package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"hermes/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		copyOut bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "Print the week's schedule",
		Long: `Print Monday through Sunday of the ISO week containing the given
date (default: the current week), followed by scheduling stats.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			ref := time.Now()
			if len(args) == 1 {
				var err error
				ref, err = dateutil.ParseRelativeDate(args[0], time.Now())
				if err != nil {
					return err
				}
			}
			monday, sunday := dateutil.WeekRange(ref)

			days, err := a.buildDays(monday, 7)
			if err != nil {
				return err
			}

			header := fmt.Sprintf("WEEK %s - %s",
				monday.Format("Mon Jan 2"), sunday.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n", formatHeader(header))
			rule := strings.Repeat("─", min(termWidth()-2, 74))
			fmt.Printf("  %s\n", rule)

			for _, day := range days {
				printDay(day, false)
				fmt.Println()
			}

			fmt.Printf("  %s\n", rule)
			printStats(days)

			if copyOut {
				if err := clipboard.WriteAll(copyText(days)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Printf("  %s\n", formatMuted("copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the schedule to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
