package sources

import (
	"context"
	"testing"

	"repoaccess-backend/lib/resolve"

	"github.com/stretchr/testify/require"
)

var allSources = []resolve.Source{
	SourcePDB, SourceGEO, SourceMassIVE, SourceBioProject,
	SourceArrayExpress, SourceEMDB, SourceENCODE, SourceGWAS,
	SourceOSF, SourceZenodo, SourcePRIDE, SourceMetaboLights,
	SourceFigshare, SourceDryad, SourceSRA,
}

func TestDefaultResolverRegistersEverySource(t *testing.T) {
	r := DefaultResolver()
	require.ElementsMatch(t, allSources, r.Sources())
}

// an empty accession must resolve without any network traffic, and never
// to public
func TestEmptyAccessionNeverPublic(t *testing.T) {
	r := DefaultResolver()
	for _, src := range allSources {
		result, err := r.Resolve(context.Background(), src, "")
		require.NoError(t, err, src)
		require.Equal(t, resolve.AccessNotFound, result.Access, src)
		require.Nil(t, result.Files, src)
	}
}

func TestStatusTablesRoundTrip(t *testing.T) {
	tables := map[string]resolve.StatusTable{
		"encode":       encodeStatuses,
		"osf":          osfAccess,
		"pride":        prideStatuses,
		"metabolights": metaboLightsStatuses,
		"dryad":        dryadStatuses,
	}
	for name, table := range tables {
		for code, want := range table {
			state, raw := table.Normalize(code)
			require.Equal(t, want, state, "%s %s", name, code)
			require.Equal(t, code, raw, "%s %s", name, code)
		}
		state, raw := table.Normalize("XYZ")
		require.Equal(t, resolve.AccessUnknown, state, name)
		require.Equal(t, "XYZ", raw, name)
	}
}
