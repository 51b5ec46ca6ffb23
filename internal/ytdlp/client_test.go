package ytdlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONLine(t *testing.T) {
	out := "some extractor notice\n" +
		`{"id":"abc123","title":"A Video","duration":90.5}` + "\n"

	line, err := extractJSONLine(out)
	require.NoError(t, err)
	assert.Contains(t, line, `"id":"abc123"`)
}

func TestExtractJSONLine_NoJSON(t *testing.T) {
	_, err := extractJSONLine("WARNING: nothing useful here\n")
	require.Error(t, err)
}
