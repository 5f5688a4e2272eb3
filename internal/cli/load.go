package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/fixtures"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// NewLoadIngredientsCommand creates the load-ingredients command.
func NewLoadIngredientsCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "load-ingredients",
		Short: "Load the ingredient catalogue from a CSV file",
		Long: `Load ingredients from a CSV file of "name,unit" rows.

Rows that already exist are skipped, so the command can be re-run safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := rootOpts.Open()
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := fixtures.LoadIngredients(cmd.Context(), f, repository.NewIngredientStore(db))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingredients: %d created, %d already present\n", res.Created, res.Existing)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "data/ingredients.csv", "CSV file to load")
	return cmd
}

// NewLoadTagsCommand creates the load-tags command.
func NewLoadTagsCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "load-tags",
		Short: "Load tags from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := rootOpts.Open()
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := fixtures.LoadTags(cmd.Context(), f, repository.NewTagStore(db), validation.New())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tags: %d created, %d already present\n", res.Created, res.Existing)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "data/tags.yaml", "YAML file to load")
	return cmd
}
