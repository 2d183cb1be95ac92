package auth

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const subjectKey ctxKey = "auth_subject_id"

// ContextWithSubject stores the acting identity in the context.
func ContextWithSubject(ctx context.Context, id uuid.UUID) context.Context {
	if id == uuid.Nil {
		return ctx
	}
	return context.WithValue(ctx, subjectKey, id)
}

// SubjectFromContext extracts the acting identity from context.
func SubjectFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(subjectKey).(uuid.UUID)
	if !ok || v == uuid.Nil {
		return uuid.Nil, false
	}
	return v, true
}
