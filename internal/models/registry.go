package models

// ModelRegistry lists every persisted model, in creation order, for --auto-migrate.
var ModelRegistry = []any{
	&Student{},
	&ContactMessage{},
}
