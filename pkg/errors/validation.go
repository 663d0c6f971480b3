package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateInputSize rejects tree input larger than maxBytes.
// A non-positive maxBytes disables the check.
//
// Bounding input size is a policy of the surrounding application; the tree
// core itself accepts any length.
func ValidateInputSize(input string, maxBytes int) error {
	if maxBytes > 0 && len(input) > maxBytes {
		return New(ErrCodeInputTooLarge, "input too large (%d bytes, max %d)", len(input), maxBytes)
	}
	return nil
}

// ValidateTokenCount rejects inputs with more than maxTokens tokens.
// A non-positive maxTokens disables the check.
func ValidateTokenCount(count, maxTokens int) error {
	if maxTokens > 0 && count > maxTokens {
		return New(ErrCodeInputTooLarge, "too many values (%d, max %d)", count, maxTokens)
	}
	return nil
}

// ValidateArtifactID validates an artifact identifier issued by the API.
// Identifiers are UUIDs; anything else is rejected before touching a cache.
func ValidateArtifactID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "artifact id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid artifact id: %q", id)
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must be a file, not a directory: %q", path)
	}

	return nil
}
