package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitive(t *testing.T) {
	out := MaskSensitive(map[string]any{
		"handle":   "eko",
		"Password": "hunter2",
		"nested": map[string]any{
			"token": "abc123",
			"count": 3,
		},
	})

	assert.Equal(t, "eko", out["handle"])
	assert.Equal(t, "****", out["Password"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "****", nested["token"])
	assert.Equal(t, 3, nested["count"])
}

func TestMaskSensitiveEmpty(t *testing.T) {
	assert.Nil(t, MaskSensitive(nil))
	assert.Nil(t, MaskSensitive(map[string]any{}))
}
