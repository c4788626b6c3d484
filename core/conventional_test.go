package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConventionalCommit(t *testing.T) {
	cases := []struct {
		name        string
		message     string
		wantType    string
		wantScope   string
		wantDesc    string
		wantNilType bool
	}{
		{
			name:      "type with scope",
			message:   "feat(auth): add OAuth login",
			wantType:  "feat",
			wantScope: "auth",
			wantDesc:  "add OAuth login",
		},
		{
			name:     "type without scope",
			message:  "fix: handle empty input",
			wantType: "fix",
			wantDesc: "handle empty input",
		},
		{
			name:      "uppercase normalized",
			message:   "Feat(Auth): Add login",
			wantType:  "feat",
			wantScope: "auth",
			wantDesc:  "Add login",
		},
		{
			name:     "multiline body kept in description",
			message:  "chore: bump deps\n\nminor version bumps only",
			wantType: "chore",
			wantDesc: "bump deps\n\nminor version bumps only",
		},
		{
			name:        "unknown type",
			message:     "yolo: push to prod",
			wantNilType: true,
			wantDesc:    "yolo: push to prod",
		},
		{
			name:        "no structure",
			message:     "fixed the thing",
			wantNilType: true,
			wantDesc:    "fixed the thing",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			commitType, scope, desc := ParseConventionalCommit(tc.message)

			if tc.wantNilType {
				assert.Nil(t, commitType)
				assert.Nil(t, scope)
			} else {
				require.NotNil(t, commitType)
				assert.Equal(t, tc.wantType, *commitType)
				if tc.wantScope == "" {
					assert.Nil(t, scope)
				} else {
					require.NotNil(t, scope)
					assert.Equal(t, tc.wantScope, *scope)
				}
			}
			assert.Equal(t, tc.wantDesc, desc)
		})
	}
}
