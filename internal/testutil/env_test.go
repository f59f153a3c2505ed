package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/probe/internal/uploadpage"
)

func offline(t *testing.T) {
	t.Setenv("PROBE_CONFIG", "")
	t.Setenv("PROBE_LIVE", "")
}

func fileInputs(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.Count(string(body), `type="file"`)
}

func TestUploadURL_ServesThePageWithoutDropZoneInput(t *testing.T) {
	offline(t)

	url := UploadURL(t)

	assert.True(t, strings.HasSuffix(url, uploadpage.Path))
	assert.Equal(t, 1, fileInputs(t, url))
}

func TestUploadSites_OneDoublePerVariant(t *testing.T) {
	offline(t)

	sites := UploadSites(t)

	require.Len(t, sites, 2)
	assert.Equal(t, uploadpage.WithoutHiddenInput.String(), sites[0].Name)
	assert.Equal(t, uploadpage.WithHiddenInput.String(), sites[1].Name)
	assert.NotEqual(t, sites[0].URL, sites[1].URL)
	assert.Equal(t, 1, fileInputs(t, sites[0].URL))
	assert.Equal(t, 2, fileInputs(t, sites[1].URL))
}
