// Package identity derives stable identifiers for imported documentation.
package identity

import (
	"path"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-docs"

// UUID derives a deterministic UUID from key with go-hashid. Blank keys map
// to uuid.Nil. Callers prefix keys by entity so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageUUID returns the id of the page imported from sourcePath. The path is
// cleaned and slash-separated, so "./a/b.md" and "a/b.md" agree.
func PageUUID(sourcePath string) uuid.UUID {
	cleaned := strings.TrimSpace(sourcePath)
	if cleaned == "" {
		return uuid.Nil
	}
	cleaned = path.Clean(strings.ReplaceAll(cleaned, "\\", "/"))
	return UUID(namespace + ":page:" + strings.TrimPrefix(cleaned, "/"))
}
