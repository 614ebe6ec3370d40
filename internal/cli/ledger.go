package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/daemon"
)

func init() {
	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 20, "Maximum entries to show")
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(balanceCmd)
}

var ledgerLimit int

var ledgerCmd = &cobra.Command{
	Use:   "ledger <user-id>",
	Short: "Show a user's recent reward ledger entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedger,
}

var balanceCmd = &cobra.Command{
	Use:   "balance <user-id>",
	Short: "Show a user's credit balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func runLedger(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Credits.History(args[0], ledgerLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No ledger entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tAMOUNT\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Type,
			e.Amount,
			e.Description,
		)
	}
	return w.Flush()
}

func runBalance(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	balance, err := d.Credits.Balance(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%d credits\n", balance)
	return nil
}
