package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldenEnv rewrites golden files from the current output when set to 1.
const UpdateGoldenEnv = "DOCS_UPDATE_GOLDEN"

// Testdata reads testdata/<name> relative to the calling package.
func Testdata(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read testdata %s: %v", name, err)
	}
	return data
}

// AssertGoldenJSON compares got with testdata/<name> as decoded JSON values, so
// key order and indentation do not matter.
func AssertGoldenJSON(t testing.TB, name string, got []byte) {
	t.Helper()
	path := filepath.Join("testdata", name)
	if os.Getenv(UpdateGoldenEnv) == "1" {
		var indented any
		if err := json.Unmarshal(got, &indented); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		data, err := json.MarshalIndent(indented, "", "  ")
		if err != nil {
			t.Fatalf("encode golden: %v", err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			t.Fatalf("write golden %s: %v", name, err)
		}
		return
	}

	var want, actual any
	if err := json.Unmarshal(Testdata(t, name), &want); err != nil {
		t.Fatalf("decode golden %s: %v", name, err)
	}
	if err := json.Unmarshal(got, &actual); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if diff := cmp.Diff(want, actual); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
	}
}
