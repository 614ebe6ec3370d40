package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/daemon"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status <user-id>",
	Short: "Show a user's streaks",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Streaks.Status(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tCOUNT\tCYCLE\tLAST ACTIVE")
	for _, st := range domain.StreakTypes {
		track := state.Track(st)
		last := "-"
		if !track.LastActiveDate.IsZero() {
			last = track.LastActiveDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", st, track.Count, track.Cycle, last)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal active days: %d\n", state.TotalActiveDays)
	if !state.GraceUsedAt.IsZero() {
		fmt.Printf("Grace last used:   %s\n", state.GraceUsedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
