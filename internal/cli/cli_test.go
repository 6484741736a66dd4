package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "create-admin"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestMigratePrintOutputsSchema(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate", "--print"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "CREATE TABLE IF NOT EXISTS order_items")
}

func TestCreateAdminRequiresCredentials(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"create-admin", "--username", "admin"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}
