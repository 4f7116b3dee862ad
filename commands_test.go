package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefabsCommandListsComponents(t *testing.T) {
	var out bytes.Buffer
	prefabsCmd.SetOut(&out)
	t.Cleanup(func() { prefabsCmd.SetOut(nil) })

	require.NoError(t, runPrefabs(prefabsCmd, nil))

	text := out.String()
	for _, name := range []string{"player.yaml", "camera.yaml", "goal.yaml", "obstacle.yaml", "stopper.yaml"} {
		assert.Contains(t, text, name)
	}
	assert.Contains(t, text, "ground_check")
	assert.NotContains(t, text, "contact.tengo")
}
