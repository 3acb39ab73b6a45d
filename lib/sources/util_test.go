package sources

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHumanSize(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0B"},
		{512, "512.0B"},
		{1024, "1.0K"},
		{1536, "1.5K"},
		{14 * 1024 * 1024, "14.0M"},
		{3 * 1024 * 1024 * 1024, "3.0G"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, humanSize(c.in))
	}
}

func TestHumanTime(t *testing.T) {
	require.Equal(t, "2024-05-01 09:30", humanTime("2024-05-01T09:30:00Z"))
	require.Equal(t, "2024-05-01 09:30", humanTime("2024-05-01T09:30:00.123456+00:00"))
	require.Equal(t, "2024-05-01 00:00", humanTime("2024-05-01"))
	require.Equal(t, "unknown", humanTime(""))
	require.Equal(t, "unknown", humanTime("yesterday-ish"))
}

func TestRangeBucket(t *testing.T) {
	bucket, err := rangeBucket("GCST90027158")
	require.NoError(t, err)
	require.Equal(t, "GCST90027001-GCST90028000/", bucket)

	bucket, err = rangeBucket("GCST000123")
	require.NoError(t, err)
	require.Equal(t, "GCST000001-GCST001000/", bucket)

	_, err = rangeBucket("GCST")
	require.Error(t, err)
	_, err = rangeBucket("GCSTabc")
	require.Error(t, err)
}

func TestArrayExpressFilesUrl(t *testing.T) {
	a := &ArrayExpress{FtpUrl: "https://mirror.example"}

	url, ok := a.filesUrl("E-MTAB-10759")
	require.True(t, ok)
	require.Equal(t, "https://mirror.example/E-MTAB-/759/E-MTAB-10759/Files", url)

	url, ok = a.filesUrl("E-MTAB-42")
	require.True(t, ok)
	require.Equal(t, "https://mirror.example/E-MTAB-/42/E-MTAB-42/Files", url)

	_, ok = a.filesUrl("GSE12345")
	require.False(t, ok)
}
