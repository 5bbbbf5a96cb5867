package rootflag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/dimmer/internal/application/port/mocks"
)

func TestMemory_SetDarkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, set := m.Dark()
	assert.False(t, set)

	require.NoError(t, m.SetDark(ctx, true))
	once, _ := m.Dark()

	require.NoError(t, m.SetDark(ctx, true))
	twice, set := m.Dark()

	assert.True(t, set)
	assert.Equal(t, once, twice)
	assert.Equal(t, 2, m.Applied())
}

func TestMemory_OnApply(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got []bool
	unregister := m.OnApply(func(dark bool) { got = append(got, dark) })

	require.NoError(t, m.SetDark(ctx, true))
	require.NoError(t, m.SetDark(ctx, false))
	unregister()
	require.NoError(t, m.SetDark(ctx, true))

	assert.Equal(t, []bool{true, false}, got)
}

func TestStateFile_WritesClass(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "root-class")
	f := NewStateFile(path)

	require.NoError(t, f.SetDark(ctx, true))
	class, err := f.ReadClass()
	require.NoError(t, err)
	assert.Equal(t, "dark", class)

	require.NoError(t, f.SetDark(ctx, false))
	class, err = f.ReadClass()
	require.NoError(t, err)
	assert.Equal(t, "light", class)
}

func TestStateFile_SameValueLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "root-class")
	f := NewStateFile(path)

	require.NoError(t, f.SetDark(ctx, true))
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, f.SetDark(ctx, true))
	after, err := os.Stat(path)
	require.NoError(t, err)

	assert.True(t, os.SameFile(before, after))
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestStateFile_EmptyPath(t *testing.T) {
	assert.Error(t, NewStateFile("").SetDark(context.Background(), true))
}

func TestMulti_AppliesAllAndJoinsErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	failing := mocks.NewMockRootVisualFlag(ctrl)
	failing.EXPECT().SetDark(gomock.Any(), true).Return(errors.New("display gone"))

	mem := NewMemory()
	err := Multi{failing, nil, mem}.SetDark(ctx, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "display gone")
	dark, set := mem.Dark()
	assert.True(t, set)
	assert.True(t, dark)
}
