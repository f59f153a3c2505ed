package uploadpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropZone_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "with hidden input", WithHiddenInput.String())
	assert.Equal(t, "without hidden input", WithoutHiddenInput.String())
	assert.Equal(t, "DropZone(7)", DropZone(7).String())
}

func TestDroppedFileSelector_IsScopedToDropZone(t *testing.T) {
	t.Parallel()
	for _, part := range []string{"#drag-drop-upload .dz-filename", "#drag-drop-upload .dz-name"} {
		assert.Contains(t, DroppedFileSelector, part)
	}
}
