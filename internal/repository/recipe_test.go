package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbertin/recipevault/internal/model"
	"github.com/mbertin/recipevault/internal/storage"
)

// captureSharer records what was shared instead of touching the disk.
type captureSharer struct {
	filename string
	payload  []byte
	err      error
}

func (c *captureSharer) Share(ctx context.Context, filename string, payload []byte) error {
	if c.err != nil {
		return c.err
	}
	c.filename = filename
	c.payload = payload
	return nil
}

// faultyStore fails every operation, simulating a device storage fault.
type faultyStore struct{}

func (faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("storage fault")
}
func (faultyStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("storage fault")
}
func (faultyStore) Remove(ctx context.Context, key string) error {
	return errors.New("storage fault")
}

func newTestRepo(t *testing.T) (*RecipeRepository, *captureSharer) {
	t.Helper()
	sharer := &captureSharer{}
	return NewRecipeRepository(storage.NewMemoryStore(), sharer, zap.NewNop()), sharer
}

func TestSaveRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	before := time.Now()
	saved, ok := repo.Save(ctx, model.Recipe{
		Name:        "Tarte aux pommes",
		Category:    []string{"dessert"},
		PrepTime:    20,
		CookTime:    40,
		Servings:    6,
		Ingredients: []model.Ingredient{{Name: "pommes", Amount: "4", Unit: "piece"}},
		Steps:       []model.Step{{Description: "Eplucher les pommes."}},
		Macros:      model.Macros{Calories: 1200, Protein: 12, Carbs: 180, Fat: 40},
	})
	require.True(t, ok)
	require.NotEmpty(t, saved.ID)

	recipes := repo.GetAll(ctx)
	require.Len(t, recipes, 1)
	got := recipes[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Tarte aux pommes", got.Name)
	assert.Equal(t, []string{"dessert"}, got.Category)
	assert.Equal(t, 60, got.TotalTime())
	assert.Equal(t, saved.Macros, got.Macros)
	assert.False(t, got.UpdatedAt.Before(before))
}

func TestSaveReplacesById(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, ok := repo.Save(ctx, model.Recipe{ID: "x", Name: "Old"})
	require.True(t, ok)

	_, ok = repo.Save(ctx, model.Recipe{ID: "x", Name: "New", CreatedAt: first.CreatedAt})
	require.True(t, ok)

	recipes := repo.GetAll(ctx)
	require.Len(t, recipes, 1)
	assert.Equal(t, "New", recipes[0].Name)
	assert.Equal(t, first.CreatedAt.Unix(), recipes[0].CreatedAt.Unix())
}

func TestGetAllSortOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	repo.now = func() time.Time { return t1 }
	_, ok := repo.Save(ctx, model.Recipe{ID: "a", Name: "A"})
	require.True(t, ok)

	repo.now = func() time.Time { return t2 }
	_, ok = repo.Save(ctx, model.Recipe{ID: "b", Name: "B"})
	require.True(t, ok)

	recipes := repo.GetAll(ctx)
	require.Len(t, recipes, 2)
	assert.Equal(t, "b", recipes[0].ID)
	assert.Equal(t, "a", recipes[1].ID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, ok := repo.Save(ctx, model.Recipe{ID: "x", Name: "Tarte"})
	require.True(t, ok)

	assert.True(t, repo.Delete(ctx, "x"))
	assert.Empty(t, repo.GetAll(ctx))

	// Second delete of the same id still succeeds.
	assert.True(t, repo.Delete(ctx, "x"))
	assert.Empty(t, repo.GetAll(ctx))
}

func TestSearch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, ok := repo.Save(ctx, model.Recipe{
		ID: "a", Name: "Tarte", Category: []string{"dessert"},
		Ingredients: []model.Ingredient{{Name: "Pommes"}},
	})
	require.True(t, ok)
	_, ok = repo.Save(ctx, model.Recipe{
		ID: "b", Name: "Tarte Salee", Category: []string{"lunch"},
	})
	require.True(t, ok)

	t.Run("query and categories are ANDed", func(t *testing.T) {
		results := repo.Search(ctx, "tarte", []string{"dessert"})
		require.Len(t, results, 1)
		assert.Equal(t, "a", results[0].ID)
	})

	t.Run("query matches ingredient names", func(t *testing.T) {
		results := repo.Search(ctx, "pommes", nil)
		require.Len(t, results, 1)
		assert.Equal(t, "a", results[0].ID)
	})

	t.Run("empty filters return everything", func(t *testing.T) {
		assert.Len(t, repo.Search(ctx, "", nil), 2)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, repo.Search(ctx, "pizza", nil))
	})
}

func TestGetAllFailsSoft(t *testing.T) {
	t.Run("absent blob", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		assert.Empty(t, repo.GetAll(context.Background()))
	})

	t.Run("corrupt blob", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(context.Background(), "recipes", []byte("{not json")))
		repo := NewRecipeRepository(store, &captureSharer{}, zap.NewNop())
		assert.Empty(t, repo.GetAll(context.Background()))
	})

	t.Run("storage fault", func(t *testing.T) {
		repo := NewRecipeRepository(faultyStore{}, &captureSharer{}, zap.NewNop())
		assert.Empty(t, repo.GetAll(context.Background()))
		_, ok := repo.Save(context.Background(), model.Recipe{Name: "Tarte"})
		assert.False(t, ok)
		assert.False(t, repo.Delete(context.Background(), "x"))
	})
}

func TestImportMergeById(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, ok := repo.Save(ctx, model.Recipe{ID: "x", Name: "Old"})
	require.True(t, ok)

	path := filepath.Join(t.TempDir(), "import.json")
	payload := `[
		{"id": "x", "name": "New"},
		{"id": "y", "name": "Fresh"},
		{"id": "", "name": "dropped"},
		{"id": "z", "name": ""}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	added, err := repo.ImportFrom(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	recipes := repo.GetAll(ctx)
	require.Len(t, recipes, 2)
	byID := map[string]model.Recipe{}
	for _, rec := range recipes {
		byID[rec.ID] = rec
	}
	// Existing record wins the id collision.
	assert.Equal(t, "Old", byID["x"].Name)
	assert.Equal(t, "Fresh", byID["y"].Name)
}

func TestImportDropsMalformedEntries(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	// One entry with a field the form cannot decode must not take the
	// valid entries down with it, and the document stays a valid array.
	path := filepath.Join(t.TempDir(), "import.json")
	payload := `[
		{"id": "good", "name": "Tarte"},
		{"id": "bad", "name": "Soupe", "prepTime": true}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	added, err := repo.ImportFrom(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	recipes := repo.GetAll(ctx)
	require.Len(t, recipes, 1)
	assert.Equal(t, "good", recipes[0].ID)
	assert.Equal(t, "Tarte", recipes[0].Name)
}

func TestImportRejections(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, ok := repo.Save(ctx, model.Recipe{ID: "x", Name: "Old"})
	require.True(t, ok)

	t.Run("top-level object is rejected wholesale", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "import.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id":"y","name":"New"}`), 0o644))

		added, err := repo.ImportFrom(ctx, path)
		assert.Zero(t, added)
		assert.ErrorIs(t, err, ErrNotAnArray)
		require.Len(t, repo.GetAll(ctx), 1)
	})

	t.Run("zero valid entries is rejected wholesale", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "import.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"name":"no id"},{"id":"q"}]`), 0o644))

		added, err := repo.ImportFrom(ctx, path)
		assert.Zero(t, added)
		assert.ErrorIs(t, err, ErrNoValidRecipes)
		require.Len(t, repo.GetAll(ctx), 1)
	})

	t.Run("all entries malformed is rejected wholesale", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "import.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","name":"A","servings":false}]`), 0o644))

		added, err := repo.ImportFrom(ctx, path)
		assert.Zero(t, added)
		assert.ErrorIs(t, err, ErrNoValidRecipes)
		require.Len(t, repo.GetAll(ctx), 1)
	})

	t.Run("missing file", func(t *testing.T) {
		added, err := repo.ImportFrom(ctx, filepath.Join(t.TempDir(), "absent.json"))
		assert.Zero(t, added)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotAnArray)
	})
}

func TestExportAll(t *testing.T) {
	repo, sharer := newTestRepo(t)
	ctx := context.Background()

	_, ok := repo.Save(ctx, model.Recipe{ID: "x", Name: "Tarte"})
	require.True(t, ok)

	require.True(t, repo.ExportAll(ctx))
	assert.Equal(t, "recipes.json", sharer.filename)

	var exported []model.Recipe
	require.NoError(t, json.Unmarshal(sharer.payload, &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "x", exported[0].ID)
}

func TestExportRecipe(t *testing.T) {
	repo, sharer := newTestRepo(t)
	ctx := context.Background()

	rec := model.Recipe{ID: "x", Name: "tarte aux pommes"}
	require.True(t, repo.ExportRecipe(ctx, rec))
	assert.Equal(t, "Tarte_Aux_Pommes.json", sharer.filename)

	sharer.err = errors.New("share sheet dismissed")
	assert.False(t, repo.ExportRecipe(ctx, rec))
}

func TestExportBaseName(t *testing.T) {
	assert.Equal(t, "recipe", exportBaseName("   "))
	assert.Equal(t, "recipe", exportBaseName("@@@"))
	assert.Equal(t, "Bowl_Cake", exportBaseName("bowl cake"))
	// Accented letters survive; recipe names are French.
	assert.Equal(t, "Crème_Brûlée", exportBaseName("crème brûlée"))
}
