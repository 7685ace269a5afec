package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbertin/recipevault/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all recipes, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Refresh(cmd.Context())
			recipes := a.session.Recipes()
			if len(recipes) == 0 {
				fmt.Println("No recipes yet.")
				return nil
			}
			for _, rec := range recipes {
				printSummary(rec)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.findRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			printRecipe(*rec)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add -f recipe.json",
		Short: "Add a recipe from a JSON form file",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(file)
			if err != nil {
				return err
			}
			a.session.ClearSelection()
			if !a.session.Save(cmd.Context(), *form, false) {
				return fmt.Errorf("save failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "recipe form file (JSON)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit <id> -f recipe.json",
		Short: "Replace a recipe's contents, keeping its identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.findRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			form, err := readForm(file)
			if err != nil {
				return err
			}
			a.session.Select(*rec)
			if !a.session.Save(cmd.Context(), *form, true) {
				return fmt.Errorf("save failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "recipe form file (JSON)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.Remove(cmd.Context(), args[0]) {
				return fmt.Errorf("delete failed")
			}
			return nil
		},
	}
}

func newDuplicateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Save a copy of a recipe under a new identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.findRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			if !a.session.Duplicate(cmd.Context(), *rec) {
				return fmt.Errorf("duplicate failed")
			}
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var query string
	var categories []string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search recipes by name, ingredient and category",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range categories {
				if !model.ValidCategory(c) {
					return fmt.Errorf("unknown category %q (one of: %s)", c, strings.Join(model.Categories, ", "))
				}
			}
			results := a.session.Search(cmd.Context(), query, categories)
			if len(results) == 0 {
				fmt.Println("No matching recipes.")
				return nil
			}
			for _, rec := range results {
				printSummary(rec)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "name or ingredient substring")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "category keys")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [id]",
		Short: "Export the collection, or one recipe, as a shareable JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if !a.session.ExportAll(cmd.Context()) {
					return fmt.Errorf("export failed")
				}
				return nil
			}
			rec, err := a.findRecipe(cmd, args[0])
			if err != nil {
				return err
			}
			if !a.session.ExportRecipe(cmd.Context(), *rec) {
				return fmt.Errorf("export failed")
			}
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Merge recipes from a JSON file into the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := a.session.Import(cmd.Context(), args[0]); !ok {
				return fmt.Errorf("import failed")
			}
			return nil
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Turn a free-text description into a structured recipe draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			caption := strings.Join(args, " ")
			form, ok := a.session.GenerateFromCaption(cmd.Context(), caption)
			if !ok {
				return fmt.Errorf("generation failed")
			}

			if save {
				a.session.ClearSelection()
				if !a.session.Save(cmd.Context(), *form, false) {
					return fmt.Errorf("save failed")
				}
				return nil
			}

			out, err := json.MarshalIndent(form, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the draft immediately instead of printing it")
	return cmd
}

// findRecipe refreshes the session and looks a recipe up by id.
func (a *app) findRecipe(cmd *cobra.Command, id string) (*model.Recipe, error) {
	a.session.Refresh(cmd.Context())
	for _, rec := range a.session.Recipes() {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("no recipe with id %s", id)
}

func readForm(path string) (*model.RecipeForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	var form model.RecipeForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("failed to parse form file: %w", err)
	}
	for _, c := range form.Category {
		if !model.ValidCategory(c) {
			return nil, fmt.Errorf("unknown category %q (one of: %s)", c, strings.Join(model.Categories, ", "))
		}
	}
	for _, ing := range form.Ingredients {
		if ing.Unit != "" && !model.ValidUnit(ing.Unit) {
			return nil, fmt.Errorf("unknown unit %q for %q (one of: %s)", ing.Unit, ing.Name, strings.Join(model.Units, ", "))
		}
	}
	return &form, nil
}

func printSummary(rec model.Recipe) {
	labels := make([]string, 0, len(rec.Category))
	for _, c := range rec.Category {
		labels = append(labels, model.CategoryLabel(c))
	}
	fmt.Printf("%s  %s", rec.ID, rec.Name)
	if rec.TotalTime() > 0 {
		fmt.Printf("  (%d min)", rec.TotalTime())
	}
	if len(labels) > 0 {
		fmt.Printf("  [%s]", strings.Join(labels, ", "))
	}
	fmt.Println()
}

func printRecipe(rec model.Recipe) {
	fmt.Println(rec.Name)
	if rec.Description != "" {
		fmt.Println(rec.Description)
	}
	fmt.Printf("Prep %d min, cook %d min, serves %d\n", rec.PrepTime, rec.CookTime, rec.Servings)

	if len(rec.Ingredients) > 0 {
		fmt.Println("\nIngredients:")
		for _, ing := range rec.Ingredients {
			fmt.Printf("- %s %s %s\n", ing.Amount, ing.Unit, ing.Name)
		}
	}
	if len(rec.Steps) > 0 {
		fmt.Println("\nSteps:")
		for i, step := range rec.Steps {
			fmt.Printf("%d. %s\n", i+1, step.Description)
		}
	}

	per := rec.MacrosPerServing()
	fmt.Printf("\nPer serving: %.0f kcal, %.0f g protein, %.0f g carbs, %.0f g fat\n",
		per.Calories, per.Protein, per.Carbs, per.Fat)
}
