package session

import "context"

// Notifier delivers user-visible feedback. Implementations can render a
// toast, print to a terminal, or push a notification; failures never block
// the flow.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Notification texts. The UI relies on the create/edit and success/failure
// variants staying distinct.
const (
	MsgRecipeCreated    = "Recipe saved"
	MsgRecipeUpdated    = "Recipe updated"
	MsgSaveFailed       = "Could not save the recipe"
	MsgNameRequired     = "Please fill in at least the recipe name"
	MsgRecipeDuplicated = "Recipe duplicated"
	MsgDuplicateFailed  = "Could not duplicate the recipe"
	MsgRecipeDeleted    = "Recipe deleted"
	MsgDeleteFailed     = "Could not delete the recipe"
	MsgExportDone       = "Recipes exported"
	MsgExportFailed     = "Could not export the recipes"
	MsgImportFailed     = "Could not import the file"
	MsgImportInvalid    = "The file does not contain any valid recipes"
	MsgGenerateFailed   = "Could not generate a recipe from the description"
)
