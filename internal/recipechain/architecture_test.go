package recipechain

import (
	"testing"

	"recipebook/testutil"
)

func TestResolverHasNoDependencies(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.NonStdlibImport, "the resolver works on edges alone")
}
