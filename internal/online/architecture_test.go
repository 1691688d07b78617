package online

import (
	"strings"
	"testing"

	"recipebook/testutil"
)

func TestLibraryUsesOnlyTheBlobStore(t *testing.T) {
	forbidden := testutil.Any(
		testutil.StorageImportForbidden,
		func(path string) bool {
			return strings.HasPrefix(path, testutil.ModulePath+"/internal/") && path != testutil.ModulePath+"/internal/blob"
		},
	)
	testutil.AssertNoDirectImports(t, ".", forbidden, "shared recipes are stored through internal/blob")
}
