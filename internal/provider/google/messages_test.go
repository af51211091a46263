package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reins-ai/reins"
)

func TestConvertMessages(t *testing.T) {
	t.Run("assistant becomes model and system becomes an instruction", func(t *testing.T) {
		contents, instruction := convertMessages("be brief", []reins.Message{
			{Role: reins.RoleUser, Content: "hello"},
			{Role: reins.RoleAssistant, Content: "hi"},
			{Role: reins.RoleSystem, Content: "and polite"},
		})

		require.Len(t, contents, 2)
		assert.Equal(t, "user", contents[0].Role)
		assert.Equal(t, "hello", contents[0].Parts[0].Text)
		assert.Equal(t, "model", contents[1].Role)
		assert.Equal(t, "hi", contents[1].Parts[0].Text)

		require.NotNil(t, instruction)
		require.Len(t, instruction.Parts, 2)
		assert.Equal(t, "be brief", instruction.Parts[0].Text)
		assert.Equal(t, "and polite", instruction.Parts[1].Text)
	})

	t.Run("no system text means no instruction", func(t *testing.T) {
		contents, instruction := convertMessages("", []reins.Message{
			{Role: reins.RoleUser, Content: "hello"},
		})
		require.Len(t, contents, 1)
		assert.Nil(t, instruction)
	})

	t.Run("empty messages are dropped", func(t *testing.T) {
		contents, instruction := convertMessages("", []reins.Message{
			{Role: reins.RoleUser, Content: ""},
		})
		assert.Empty(t, contents)
		assert.Nil(t, instruction)
	})
}
