// Package session holds the in-memory state the rest of the application
// reads from. Every mutation goes through the repository, after which the
// cache is rebuilt wholesale; it is never patched incrementally and never
// the source of truth.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mbertin/recipevault/internal/model"
	"github.com/mbertin/recipevault/internal/repository"
	"github.com/mbertin/recipevault/internal/service"
)

// duplicateSuffix marks the name of a duplicated recipe.
const duplicateSuffix = " (copy)"

// Session mediates between the UI and the repository. It is constructed
// once and passed to whatever needs it; there is no ambient global.
type Session struct {
	repo      *repository.RecipeRepository
	generator service.RecipeGenerator
	notifier  Notifier
	log       *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	recipes  []model.Recipe
	loading  bool
	selected *model.Recipe
}

// New creates a session. generator may be nil when recipe generation is
// not configured.
func New(repo *repository.RecipeRepository, generator service.RecipeGenerator, notifier Notifier, log *zap.Logger) *Session {
	return &Session{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// beginLoading raises the loading flag and returns its release. The release
// runs on every exit path of a mutation, success or failure.
func (s *Session) beginLoading() func() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}
}

// reload rebuilds the cache from the repository.
func (s *Session) reload(ctx context.Context) {
	recipes := s.repo.GetAll(ctx)
	s.mu.Lock()
	s.recipes = recipes
	s.mu.Unlock()
}

// Refresh re-synchronizes the cache with the stored collection.
func (s *Session) Refresh(ctx context.Context) {
	defer s.beginLoading()()
	s.reload(ctx)
}

// Recipes returns the cached collection.
func (s *Session) Recipes() []model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Loading reports whether a repository call is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Select marks a recipe as the one under view or edit.
func (s *Session) Select(rec model.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &rec
}

// ClearSelection drops the current selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns the recipe under view or edit, nil when none.
func (s *Session) Selected() *model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	rec := *s.selected
	return &rec
}

// Save persists a recipe built from form input. In the edit flow the
// identity and original creation time come from the current selection, so
// edits never fork a new record. On success the cache is refreshed and the
// saved record becomes the selection.
func (s *Session) Save(ctx context.Context, form model.RecipeForm, edit bool) bool {
	if form.Empty() {
		s.notifier.Error(ctx, MsgNameRequired)
		return false
	}

	defer s.beginLoading()()

	rec := form.Recipe()
	if edit {
		if sel := s.Selected(); sel != nil {
			rec.ID = sel.ID
			rec.CreatedAt = sel.CreatedAt
		}
	}

	saved, ok := s.repo.Save(ctx, rec)
	if !ok {
		s.notifier.Error(ctx, MsgSaveFailed)
		return false
	}

	s.reload(ctx)
	s.Select(saved)
	if edit {
		s.notifier.Success(ctx, MsgRecipeUpdated)
	} else {
		s.notifier.Success(ctx, MsgRecipeCreated)
	}
	return true
}

// Duplicate saves a copy of the recipe under a new identity and a marked
// name. The source record is never touched.
func (s *Session) Duplicate(ctx context.Context, rec model.Recipe) bool {
	defer s.beginLoading()()

	now := s.now()
	dup := rec
	dup.ID = model.NewID(now)
	if dup.ID == rec.ID {
		// Same-instant creation; nudge the clock so the copy gets its
		// own identity.
		dup.ID = model.NewID(now.Add(time.Nanosecond))
	}
	dup.Name = rec.Name + duplicateSuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Category = append([]string(nil), rec.Category...)
	dup.Ingredients = append([]model.Ingredient(nil), rec.Ingredients...)
	dup.Steps = append([]model.Step(nil), rec.Steps...)

	if _, ok := s.repo.Save(ctx, dup); !ok {
		s.notifier.Error(ctx, MsgDuplicateFailed)
		return false
	}

	s.reload(ctx)
	s.notifier.Success(ctx, MsgRecipeDuplicated)
	return true
}

// Remove deletes a recipe by id. The cache is refreshed and the selection
// cleared on every outcome, since it may point at the removed record.
func (s *Session) Remove(ctx context.Context, id string) bool {
	defer s.beginLoading()()

	ok := s.repo.Delete(ctx, id)
	s.reload(ctx)
	s.ClearSelection()

	if !ok {
		s.notifier.Error(ctx, MsgDeleteFailed)
		return false
	}
	s.notifier.Success(ctx, MsgRecipeDeleted)
	return true
}

// Search filters the stored collection without touching the cache.
func (s *Session) Search(ctx context.Context, query string, categories []string) []model.Recipe {
	return s.repo.Search(ctx, query, categories)
}

// ExportAll hands the whole collection to the share collaborator.
func (s *Session) ExportAll(ctx context.Context) bool {
	if !s.repo.ExportAll(ctx) {
		s.notifier.Error(ctx, MsgExportFailed)
		return false
	}
	s.notifier.Success(ctx, MsgExportDone)
	return true
}

// ExportRecipe hands a single recipe to the share collaborator.
func (s *Session) ExportRecipe(ctx context.Context, rec model.Recipe) bool {
	if !s.repo.ExportRecipe(ctx, rec) {
		s.notifier.Error(ctx, MsgExportFailed)
		return false
	}
	s.notifier.Success(ctx, MsgExportDone)
	return true
}

// Import merges recipes from a JSON file into the collection and refreshes
// the cache. Validation rejections notify differently from storage faults
// so the user learns why nothing was merged.
func (s *Session) Import(ctx context.Context, path string) (int, bool) {
	defer s.beginLoading()()

	added, err := s.repo.ImportFrom(ctx, path)
	if err != nil {
		if errors.Is(err, repository.ErrNotAnArray) || errors.Is(err, repository.ErrNoValidRecipes) {
			s.notifier.Error(ctx, MsgImportInvalid)
		} else {
			s.notifier.Error(ctx, MsgImportFailed)
		}
		return 0, false
	}

	s.reload(ctx)
	s.notifier.Success(ctx, fmt.Sprintf("Imported %d recipes", added))
	return added, true
}

// GenerateFromCaption asks the generator to structure a free-text
// description into a recipe draft. The draft is returned for review and
// not persisted; a generator failure notifies the user and aborts.
func (s *Session) GenerateFromCaption(ctx context.Context, caption string) (*model.RecipeForm, bool) {
	if s.generator == nil {
		s.notifier.Error(ctx, MsgGenerateFailed)
		return nil, false
	}

	form, err := s.generator.GenerateRecipe(ctx, caption)
	if err != nil {
		s.log.Warn("recipe generation failed", zap.Error(err))
		s.notifier.Error(ctx, MsgGenerateFailed)
		return nil, false
	}
	return form, true
}
