package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddHasDelete(t *testing.T) {
	s := New("go", "web")
	require.True(t, s.Has("go"))
	require.False(t, s.Has("rust"))

	s.Add("rust")
	require.True(t, s.Has("rust"))

	s.Delete("web")
	require.False(t, s.Has("web"))
}

func TestSorted_Deterministic(t *testing.T) {
	s := New("web", "go", "tutorial")
	require.Equal(t, []string{"go", "tutorial", "web"}, Sorted(s))
}

func TestSorted_DuplicatesCollapse(t *testing.T) {
	s := New("go", "go", "go")
	require.Equal(t, []string{"go"}, Sorted(s))
}
