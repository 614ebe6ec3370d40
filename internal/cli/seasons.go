package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/daemon"
	"github.com/bhanitgaurav/echo-feelings-come-back-sub000/internal/domain"
)

func init() {
	seasonsCreateCmd.Flags().StringVar(&seasonName, "name", "", "Display name (defaults to the id)")
	seasonsCreateCmd.Flags().StringVar(&seasonStart, "start", "", "Start date, YYYY-MM-DD (required)")
	seasonsCreateCmd.Flags().StringVar(&seasonEnd, "end", "", "End date inclusive, YYYY-MM-DD (required)")
	seasonsCreateCmd.Flags().StringArrayVar(&seasonRules, "rule", nil,
		"Rule as TYPE:credits:max, e.g. SEND_POSITIVE:10:3 (repeatable)")
	_ = seasonsCreateCmd.MarkFlagRequired("start")
	_ = seasonsCreateCmd.MarkFlagRequired("end")

	seasonsCmd.AddCommand(seasonsListCmd)
	seasonsCmd.AddCommand(seasonsCreateCmd)
	rootCmd.AddCommand(seasonsCmd)
}

var (
	seasonName  string
	seasonStart string
	seasonEnd   string
	seasonRules []string
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Manage seasonal campaigns",
}

var seasonsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List seasonal campaign definitions",
	RunE:    runSeasonsList,
}

var seasonsCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create a seasonal campaign definition",
	Long: `Create a seasonal campaign, e.g.:

  echo seasons create VALENTINE_2026 --name "Valentine" \
    --start 2026-02-10 --end 2026-02-16 \
    --rule SEND_POSITIVE:10:3 --rule RESPOND:5:5`,
	Args: cobra.ExactArgs(1),
	RunE: runSeasonsCreate,
}

func runSeasonsList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	defs, err := d.Seasons.List()
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		fmt.Println("No seasons defined. Run 'echo seasons create' to add one.")
		return nil
	}

	today := domain.DateOf(time.Now(), time.UTC)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWINDOW\tACTIVE\tLIVE\tRULES")
	for _, def := range defs {
		active := "no"
		if def.Active {
			active = "yes"
		}
		live := "no"
		if def.Active && def.InWindow(today) {
			live = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s – %s\t%s\t%s\t%d\n",
			def.ID,
			def.Name,
			def.StartDate.Format("2006-01-02"),
			def.EndDate.Format("2006-01-02"),
			active,
			live,
			len(def.Rules),
		)
	}
	return w.Flush()
}

func runSeasonsCreate(cmd *cobra.Command, args []string) error {
	start, err := time.ParseInLocation("2006-01-02", seasonStart, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", seasonEnd, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	rules, err := parseSeasonRules(seasonRules)
	if err != nil {
		return err
	}

	name := seasonName
	if name == "" {
		name = args[0]
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	def := domain.SeasonDefinition{
		ID:        args[0],
		Name:      name,
		Year:      start.Year(),
		StartDate: start,
		EndDate:   end,
		Active:    true,
		Rules:     rules,
	}
	if err := d.Seasons.CreateDefinition(def); err != nil {
		return err
	}

	fmt.Printf("Created season %s (%s – %s)\n", def.ID, seasonStart, seasonEnd)
	return nil
}

// parseSeasonRules parses TYPE:credits:max triples.
func parseSeasonRules(specs []string) ([]domain.SeasonRule, error) {
	rules := make([]domain.SeasonRule, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --rule %q, want TYPE:credits:max", spec)
		}
		credits, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid credits in --rule %q: %w", spec, err)
		}
		maxTotal, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid max in --rule %q: %w", spec, err)
		}
		rules = append(rules, domain.SeasonRule{
			Type:         domain.SeasonRuleType(parts[0]),
			BonusCredits: credits,
			MaxTotal:     maxTotal,
		})
	}
	return rules, nil
}
