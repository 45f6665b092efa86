package cli

import (
	"strings"

	"github.com/abroadmap/abroadmap/internal/models"
	"github.com/spf13/cobra"
)

var programsCountry string

var programsCmd = &cobra.Command{
	Use:   "programs [program-id]",
	Short: "List programs or show one program",
	Long: `List the program catalog, optionally filtered by country, or show the
details of a single program.

Examples:
  abroadctl programs
  abroadctl programs --country Japan
  abroadctl programs 10052`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrograms,
}

func init() {
	programsCmd.Flags().StringVar(&programsCountry, "country", "", "only list programs in this country")
	rootCmd.AddCommand(programsCmd)
}

func runPrograms(cmd *cobra.Command, args []string) error {
	app, err := appFrom(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		program, err := app.Programs.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printProgram(cmd.OutOrStdout(), program)
		return nil
	}

	programs, err := app.Programs.Get(cmd.Context())
	if err != nil {
		return err
	}
	printPrograms(cmd.OutOrStdout(), filterByCountry(programs, programsCountry))
	return nil
}

func filterByCountry(programs []models.Program, country string) []models.Program {
	if country == "" {
		return programs
	}
	out := make([]models.Program, 0, len(programs))
	for _, p := range programs {
		if strings.EqualFold(p.Country, country) {
			out = append(out, p)
		}
	}
	return out
}
