package service

import (
	"context"

	"github.com/mbertin/recipevault/internal/model"
)

// RecipeGenerator turns a free-text description (typically a social-video
// caption) into a structured recipe draft. The draft is unvalidated; the
// normalization gate runs before anything is persisted.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, description string) (*model.RecipeForm, error)
}

// DraftStore keeps generated drafts around while the user reviews them.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}
