package testsupport

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteMemoryDSN returns a DSN for a named in-memory database so parallel
// tests do not share tables.
func SQLiteMemoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}
