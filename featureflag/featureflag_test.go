package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		flags    []string
		expected []string
	}{
		{
			name:     "nil",
			expected: []string{},
		},
		{
			name:     "host flags",
			flags:    []string{"VALIDATE_INVARIANTS", "DISABLE_PAYLOADS"},
			expected: []string{"DISABLE_PAYLOADS", "VALIDATE_INVARIANTS"},
		},
		{
			name:     "lower case and spaces",
			flags:    []string{" print_tree ", "Validate_Invariants"},
			expected: []string{"PRINT_TREE", "VALIDATE_INVARIANTS"},
		},
		{
			name:     "empty names and duplicates",
			flags:    []string{"", "  ", "PRINT_TREE", "print_tree"},
			expected: []string{"PRINT_TREE"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, New(test.flags).List())
		})
	}
}

func TestFeatureFlagRuns(t *testing.T) {
	f := New([]string{"validate_invariants"})

	t.Run("if set", func(t *testing.T) {
		var validated, printed bool
		f.IfSet(FlagValidateInvariants, func() { validated = true })
		f.IfSet(FlagPrintTree, func() { printed = true })
		require.True(t, validated)
		require.False(t, printed)
	})

	t.Run("if not set", func(t *testing.T) {
		var validated, payloads bool
		f.IfNotSet(FlagValidateInvariants, func() { validated = true })
		f.IfNotSet(FlagDisablePayloads, func() { payloads = true })
		require.False(t, validated)
		require.True(t, payloads)
	})
}
