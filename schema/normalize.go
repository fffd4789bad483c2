package schema

import (
	"path/filepath"
	"strings"
	"unicode"
)

// NormalizeDocumentType validates and lower-cases a document type tag.
// Allowed characters: a-z, 0-9, '-', '_'.
func NormalizeDocumentType(value string) (DocumentType, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", ErrUnsupportedType
	}
	for _, r := range trimmed {
		if r == '-' || r == '_' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return "", ErrUnsupportedType
	}
	return DocumentType(trimmed), nil
}

// DocumentTypeForName derives the document type from a file name extension.
func DocumentTypeForName(name string) (DocumentType, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", ErrUnsupportedType
	}
	return NormalizeDocumentType(ext)
}

// ValidateTabID ensures a tab id is non-empty and free of surrounding whitespace.
func ValidateTabID(id TabID) error {
	raw := string(id)
	if raw == "" || strings.TrimSpace(raw) != raw {
		return ErrTabNotFound
	}
	return nil
}
