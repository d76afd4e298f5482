package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// EditorKey ключ для хранения идентификатора редактора в контексте
const EditorKey contextKey = "editor"

// WithEditor возвращает контекст с редактором (устанавливается AuthMiddleware)
func WithEditor(ctx context.Context, editor string) context.Context {
	return context.WithValue(ctx, EditorKey, editor)
}

// GetEditor извлекает редактора из контекста запроса
func GetEditor(ctx context.Context) (string, bool) {
	editor, ok := ctx.Value(EditorKey).(string)
	return editor, ok && editor != ""
}
