// Command seed_recipes fills the local store with a handful of sample
// recipes. Development helper for exercising list, search and export
// against non-empty data.
package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/mbertin/recipevault/config"
	"github.com/mbertin/recipevault/internal/model"
	"github.com/mbertin/recipevault/internal/repository"
	"github.com/mbertin/recipevault/internal/share"
	"github.com/mbertin/recipevault/internal/storage"
)

var samples = []model.Recipe{
	{
		Name:        "Tarte aux pommes",
		Description: "La tarte classique, pate brisee maison.",
		Category:    []string{"dessert"},
		PrepTime:    30,
		CookTime:    45,
		Servings:    6,
		Ingredients: []model.Ingredient{
			{Name: "pommes", Amount: "5", Unit: "piece"},
			{Name: "farine", Amount: "250", Unit: "g"},
			{Name: "beurre", Amount: "125", Unit: "g"},
			{Name: "sucre", Amount: "80", Unit: "g"},
		},
		Steps: []model.Step{
			{Description: "Preparer la pate brisee et la laisser reposer 30 minutes."},
			{Description: "Eplucher et trancher les pommes."},
			{Description: "Foncer le moule, disposer les pommes, saupoudrer de sucre."},
			{Description: "Cuire 45 minutes a 180 degres."},
		},
		Macros: model.Macros{Calories: 1980, Protein: 18, Carbs: 280, Fat: 85},
	},
	{
		Name:        "Bowl cake pomme semoule",
		Description: "Un bowl cake rapide avec un coeur coulant chocolat.",
		Category:    []string{"dessert", "snack"},
		PrepTime:    3,
		CookTime:    3,
		Servings:    1,
		Ingredients: []model.Ingredient{
			{Name: "semoule fine", Amount: "30", Unit: "g"},
			{Name: "compote de pommes", Amount: "100", Unit: "g"},
			{Name: "lait", Amount: "50", Unit: "ml"},
			{Name: "oeuf", Amount: "1", Unit: "unite"},
		},
		Steps: []model.Step{
			{Description: "Melanger la semoule, la compote et le lait."},
			{Description: "Ajouter l'oeuf et bien melanger."},
			{Description: "Cuire au micro-ondes 3 minutes a 900 W."},
		},
		Macros: model.Macros{Calories: 250, Protein: 7, Carbs: 42, Fat: 9},
	},
	{
		Name:        "Soupe de legumes",
		Description: "Soupe du soir, legumes de saison.",
		Category:    []string{"dinner", "vegetarian"},
		PrepTime:    15,
		CookTime:    30,
		Servings:    4,
		Ingredients: []model.Ingredient{
			{Name: "carottes", Amount: "4", Unit: "piece"},
			{Name: "poireaux", Amount: "2", Unit: "piece"},
			{Name: "pommes de terre", Amount: "3", Unit: "piece"},
		},
		Steps: []model.Step{
			{Description: "Couper tous les legumes en morceaux."},
			{Description: "Couvrir d'eau et cuire 30 minutes."},
			{Description: "Mixer et assaisonner."},
		},
		Macros: model.Macros{Calories: 480, Protein: 12, Carbs: 96, Fat: 4},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	logger := zap.NewNop()
	store, err := storage.NewSQLiteStore(cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	repo := repository.NewRecipeRepository(store, share.NewFileSharer(cfg.ExportDir, logger), logger)

	ctx := context.Background()
	seeded := 0
	for _, rec := range samples {
		if _, ok := repo.Save(ctx, rec); !ok {
			log.Printf("failed to seed %q", rec.Name)
			continue
		}
		seeded++
	}
	fmt.Printf("Seeded %d recipes into %s\n", seeded, cfg.DatabasePath)
}
