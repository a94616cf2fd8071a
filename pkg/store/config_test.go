package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dcx/pkg/store"
)

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	c := &store.Config{}
	c.EnsureDefaults()
	assert.Equal(t, ".agent/rules", c.Dir)
	assert.Equal(t, []string{".md"}, c.Extensions)

	c = &store.Config{Dir: "docs/rules", Extensions: []string{".mdc"}}
	c.EnsureDefaults()
	assert.Equal(t, "docs/rules", c.Dir)
	assert.Equal(t, []string{".mdc"}, c.Extensions)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		extensions []string
		wantErr    bool
	}{
		"defaults":      {extensions: []string{".md"}},
		"several":       {extensions: []string{".md", ".mdc"}},
		"missing dot":   {extensions: []string{"md"}, wantErr: true},
		"only dot":      {extensions: []string{"."}, wantErr: true},
		"one bad entry": {extensions: []string{".md", "txt"}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := (&store.Config{Extensions: tc.extensions}).Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
