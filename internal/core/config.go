package core

import "context"

// Selection is the UI's current choice, kept in the fast-sync settings scope.
type Selection struct {
	Provider string `json:"currentProvider,omitempty"`
	Model    string `json:"currentModel,omitempty"`
	Mode     string `json:"mode,omitempty"`
	ChatID   string `json:"currentChatListId,omitempty"`
}

// SelectionStore reads and updates the current selection.
type SelectionStore interface {
	Selection(ctx context.Context) Selection
	UpdateSelection(ctx context.Context, fn func(*Selection)) error
}
