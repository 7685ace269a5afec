// Package repository owns the durable representation of the recipe
// collection: a single named blob holding a JSON array of recipes, read and
// rewritten whole on every mutation.
//
// Every operation catches faults at this boundary and degrades to an
// empty/false result with a logged diagnostic; nothing propagates to the
// session or UI as a panic. Because mutations are full read-modify-write
// cycles over one blob with no locking or versioning, two in-flight
// mutations can lose an update. Accepted for a single user on one device
// with low mutation frequency.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mbertin/recipevault/internal/model"
	"github.com/mbertin/recipevault/internal/share"
	"github.com/mbertin/recipevault/internal/storage"
)

// recipesKey is the one storage key holding the whole collection.
const recipesKey = "recipes"

// collectionExportName is the file name used when exporting everything.
const collectionExportName = "recipes.json"

// Import rejection reasons, distinct from storage faults so the UI can
// explain why nothing was merged.
var (
	ErrNotAnArray     = errors.New("import document is not a recipe array")
	ErrNoValidRecipes = errors.New("import document contains no valid recipes")
)

// RecipeRepository is the sole owner of reads and writes to the blob store.
type RecipeRepository struct {
	store  storage.Store
	sharer share.Sharer
	log    *zap.Logger
	now    func() time.Time
}

// NewRecipeRepository creates a repository over the given store and sharer.
func NewRecipeRepository(store storage.Store, sharer share.Sharer, log *zap.Logger) *RecipeRepository {
	return &RecipeRepository{
		store:  store,
		sharer: sharer,
		log:    log,
		now:    time.Now,
	}
}

// GetAll returns the stored collection sorted by most recently updated
// first. An absent blob yields an empty collection; so does a corrupt one,
// after logging the fault. Every record passes through normalization so
// callers always see complete entities.
func (r *RecipeRepository) GetAll(ctx context.Context) []model.Recipe {
	data, err := r.store.Get(ctx, recipesKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Error("failed to read recipe collection", zap.Error(err))
		}
		return []model.Recipe{}
	}

	var forms []model.RecipeForm
	if err := json.Unmarshal(data, &forms); err != nil {
		r.log.Error("failed to parse recipe collection", zap.Error(err))
		return []model.Recipe{}
	}

	now := r.now()
	recipes := make([]model.Recipe, 0, len(forms))
	for _, f := range forms {
		recipes = append(recipes, model.Normalize(f.Recipe(), now))
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].UpdatedAt.After(recipes[j].UpdatedAt)
	})
	return recipes
}

// Save writes a recipe into the collection: replacing the record sharing
// its id if one exists, appending otherwise. UpdatedAt is stamped on every
// save. Returns the stored record and false on any storage fault.
func (r *RecipeRepository) Save(ctx context.Context, rec model.Recipe) (model.Recipe, bool) {
	now := r.now()
	rec = model.Normalize(rec, now)
	rec.UpdatedAt = now

	recipes := r.GetAll(ctx)
	replaced := false
	for i := range recipes {
		if recipes[i].ID == rec.ID {
			recipes[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recipes = append(recipes, rec)
	}

	if err := r.writeAll(ctx, recipes); err != nil {
		r.log.Error("failed to save recipe", zap.String("id", rec.ID), zap.Error(err))
		return model.Recipe{}, false
	}
	return rec, true
}

// Delete removes the recipe with the given id. Deleting an absent id is a
// no-op that still reports success.
func (r *RecipeRepository) Delete(ctx context.Context, id string) bool {
	recipes := r.GetAll(ctx)
	kept := recipes[:0]
	for _, rec := range recipes {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}

	if err := r.writeAll(ctx, kept); err != nil {
		r.log.Error("failed to delete recipe", zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// Search filters the collection. A non-empty query keeps recipes whose name
// or any ingredient name contains it case-insensitively; a non-empty
// category set keeps recipes whose categories intersect it. Both filters
// apply together when both are supplied.
func (r *RecipeRepository) Search(ctx context.Context, query string, categories []string) []model.Recipe {
	recipes := r.GetAll(ctx)
	query = strings.ToLower(strings.TrimSpace(query))

	matches := make([]model.Recipe, 0, len(recipes))
	for _, rec := range recipes {
		if !matchesQuery(rec, query) || !matchesCategories(rec, categories) {
			continue
		}
		matches = append(matches, rec)
	}
	return matches
}

func matchesQuery(rec model.Recipe, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Name), query) {
		return true
	}
	for _, ing := range rec.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}
	return false
}

func matchesCategories(rec model.Recipe, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, want := range categories {
		for _, have := range rec.Category {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ExportAll serializes the whole collection and hands it to the sharer
// under the fixed collection name.
func (r *RecipeRepository) ExportAll(ctx context.Context) bool {
	return r.export(ctx, collectionExportName, r.GetAll(ctx))
}

// ExportRecipe exports a single recipe as a one-element collection, named
// after the recipe so the receiving side sees what it is getting.
func (r *RecipeRepository) ExportRecipe(ctx context.Context, rec model.Recipe) bool {
	return r.export(ctx, exportBaseName(rec.Name)+".json", []model.Recipe{rec})
}

func (r *RecipeRepository) export(ctx context.Context, filename string, recipes []model.Recipe) bool {
	payload, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		r.log.Error("failed to serialize export", zap.Error(err))
		return false
	}
	if err := r.sharer.Share(ctx, filename, payload); err != nil {
		r.log.Error("failed to share export", zap.String("file", filename), zap.Error(err))
		return false
	}
	return true
}

var exportTitler = cases.Title(language.French)

// exportBaseName turns a recipe name into a safe file base name.
func exportBaseName(name string) string {
	name = exportTitler.String(strings.TrimSpace(name))
	var b strings.Builder
	for _, c := range name {
		switch {
		case unicode.IsLetter(c), unicode.IsDigit(c):
			b.WriteRune(c)
		case c == ' ', c == '-', c == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}

// ImportFrom reads a JSON document from path and merges its recipes into
// the collection. The document must be a top-level array; entries that do
// not decode or lack a non-empty id and name are dropped silently, one by
// one, without taking the rest of the document down. When ids collide the
// existing record wins. Rejections leave the collection untouched. Returns
// how many records were added.
func (r *RecipeRepository) ImportFrom(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Error("failed to read import file", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("failed to read import file: %w", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		r.log.Warn("rejected import document", zap.String("path", path), zap.Error(err))
		return 0, ErrNotAnArray
	}

	valid := make([]model.RecipeForm, 0, len(entries))
	for _, raw := range entries {
		var e model.RecipeForm
		if err := json.Unmarshal(raw, &e); err != nil {
			r.log.Debug("dropped malformed import entry", zap.Error(err))
			continue
		}
		if strings.TrimSpace(e.ID) == "" || e.Empty() {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		r.log.Warn("rejected import document with no valid recipes", zap.String("path", path))
		return 0, ErrNoValidRecipes
	}

	// Merge by id, existing records first so they win collisions.
	now := r.now()
	merged := r.GetAll(ctx)
	seen := make(map[string]bool, len(merged))
	for _, rec := range merged {
		seen[rec.ID] = true
	}

	added := 0
	for _, e := range valid {
		rec := model.Normalize(e.Recipe(), now)
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		merged = append(merged, rec)
		added++
	}

	if err := r.writeAll(ctx, merged); err != nil {
		r.log.Error("failed to write imported collection", zap.Error(err))
		return 0, fmt.Errorf("failed to store imported recipes: %w", err)
	}

	r.log.Info("imported recipes",
		zap.Int("added", added),
		zap.Int("valid", len(valid)),
		zap.Int("total", len(entries)))
	return added, nil
}

func (r *RecipeRepository) writeAll(ctx context.Context, recipes []model.Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to serialize collection: %w", err)
	}
	if err := r.store.Set(ctx, recipesKey, data); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}
