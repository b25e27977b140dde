package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldOwner is the structured log field key for the repository owner.
	FieldOwner = "owner"
	// FieldRepo is the structured log field key for the repository name.
	FieldRepo = "repo"
	// FieldPath is the structured log field key for a file path inside a repository.
	FieldPath = "path"
	// FieldRef is the structured log field key for a git ref.
	FieldRef = "ref"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SourceFields describes where a document is fetched from.
func SourceFields(owner, repo, path, ref string) []zap.Field {
	return StringFields(
		StringField{Key: FieldOwner, Value: owner},
		StringField{Key: FieldRepo, Value: repo},
		StringField{Key: FieldPath, Value: path},
		StringField{Key: FieldRef, Value: ref},
	)
}

// WithSource attaches the source fields to the provided logger.
func WithSource(logger *zap.Logger, owner, repo, path, ref string) *zap.Logger {
	return WithFields(logger, SourceFields(owner, repo, path, ref)...)
}
