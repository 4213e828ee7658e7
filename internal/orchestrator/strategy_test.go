package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStrategies(t *testing.T) {
	strategies := DefaultStrategies()
	require.Len(t, strategies, 2)

	for _, s := range strategies {
		assert.NoError(t, s.Validate())
		assert.Equal(t, 5, s.SampleCount)
		assert.Equal(t, 1.0, s.Temperature)
		assert.Contains(t, s.Instruction, `"post"`)
	}
	assert.Equal(t, "post", strategies[0].Name)
	assert.Equal(t, "thread", strategies[1].Name)
}

func TestLoadStrategies(t *testing.T) {
	input := `
- name: hook
  instruction: 'Write a one-line hook as [{"post": string}]'
  samples: 3
  temperature: 0.9
- instruction: Write a thread
  samples: 2
`
	strategies, err := LoadStrategies(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, strategies, 2)

	assert.Equal(t, Strategy{
		Name:        "hook",
		Instruction: `Write a one-line hook as [{"post": string}]`,
		SampleCount: 3,
		Temperature: 0.9,
	}, strategies[0])

	assert.Equal(t, "strategy-2", strategies[1].Name)
	assert.Equal(t, 2, strategies[1].SampleCount)
	assert.Equal(t, 0.0, strategies[1].Temperature)
}

func TestLoadStrategies_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{name: "empty document", input: "", invalid: true},
		{name: "empty list", input: "[]", invalid: true},
		{name: "missing samples", input: "- name: x\n  instruction: y\n", invalid: true},
		{name: "missing instruction", input: "- name: x\n  samples: 1\n", invalid: true},
		{name: "not a list", input: "name: x\n", invalid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStrategies(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidStrategy)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidStrategy)
			}
		})
	}
}
