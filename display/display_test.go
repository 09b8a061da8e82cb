package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand() (root, child *cobra.Command) {
	root = &cobra.Command{Use: "authorship"}
	root.PersistentFlags().Bool("json", false, "")
	child = &cobra.Command{Use: "version", Run: func(*cobra.Command, []string) {}}
	child.Flags().Bool("json", false, "")
	root.AddCommand(child)
	return root, child
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv(OutputEnv, "")

	_, child := newCommand()
	assert.False(t, ShouldOutputJSON(child))

	require.NoError(t, child.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))

	root, child := newCommand()
	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))
}

func TestShouldOutputJSON_Environment(t *testing.T) {
	t.Setenv(OutputEnv, "json")

	_, child := newCommand()
	assert.True(t, ShouldOutputJSON(child))
	assert.True(t, ShouldOutputJSON(nil))

	require.NoError(t, child.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(child), "an explicit flag wins over the environment")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]string{"version": "1.0.0"}))
	assert.Equal(t, "{\n  \"version\": \"1.0.0\"\n}\n", buf.String())
}
