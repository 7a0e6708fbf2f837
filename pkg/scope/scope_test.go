package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/scope"
)

func TestAddVariableAssignsIncreasingOffsets(t *testing.T) {
	root := scope.NewRoot()

	offset1, err := root.AddVariable("a")
	require.NoError(t, err)
	offset2, err := root.AddVariable("b")
	require.NoError(t, err)

	assert.Equal(t, 8, offset1)
	assert.Equal(t, 16, offset2)
	assert.Equal(t, 16, root.FrameSize())
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	root := scope.NewRoot()
	_, err := root.AddVariable("a")
	require.NoError(t, err)

	_, err = root.AddVariable("a")
	assert.Error(t, err)
}

func TestChildScopeMayShadowParent(t *testing.T) {
	root := scope.NewRoot()
	_, err := root.AddVariable("a")
	require.NoError(t, err)

	child := root.PushChild()
	_, err = child.AddVariable("a") // shadowing, not a redeclaration error
	assert.NoError(t, err)
}

func TestChildInheritsParentFrameSizeAsStartingOffset(t *testing.T) {
	root := scope.NewRoot()
	root.AddVariable("a") // offset 8, frame size 8

	child := root.PushChild()
	offset, err := child.AddVariable("b")
	require.NoError(t, err)
	assert.Equal(t, 16, offset) // starts past the parent's frame
}

func TestOffsetIsScopeLocalOnly(t *testing.T) {
	root := scope.NewRoot()
	root.AddVariable("a")
	child := root.PushChild()

	_, ok := child.Offset("a")
	assert.False(t, ok)
}

func TestOffsetRecursiveClimbsToAncestors(t *testing.T) {
	root := scope.NewRoot()
	root.AddVariable("a")
	child := root.PushChild()
	grandchild := child.PushChild()

	offset, ok := grandchild.OffsetRecursive("a")
	require.True(t, ok)
	assert.Equal(t, 8, offset)

	_, ok = grandchild.OffsetRecursive("missing")
	assert.False(t, ok)
}

func TestOffsetRecursivePrefersNearestDeclaration(t *testing.T) {
	root := scope.NewRoot()
	root.AddVariable("a") // offset 8

	child := root.PushChild()
	child.AddVariable("a") // offset 16, shadows the parent's

	offset, ok := child.OffsetRecursive("a")
	require.True(t, ok)
	assert.Equal(t, 16, offset)
}
