package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readGz(t *testing.T, path string) ([]byte, string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	return data, gz.Name
}

func TestDir_Save(t *testing.T) {
	root := t.TempDir()
	a := NewDir(root)
	body := []byte(`[{"id":1,"title":"Backpack"}]`)

	err := a.Save(context.Background(), "20250101T000000Z", "products", body)
	require.NoError(t, err)

	path := filepath.Join(root, "20250101T000000Z", "products.json.gz")
	assert.Equal(t, path, a.Path("20250101T000000Z", "products"))

	got, name := readGz(t, path)
	assert.Equal(t, body, got)
	assert.Equal(t, "products.json", name)
}

func TestDir_SaveOverwrites(t *testing.T) {
	a := NewDir(t.TempDir())
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, "b1", "users", []byte(`[1]`)))
	require.NoError(t, a.Save(ctx, "b1", "users", []byte(`[2]`)))

	got, _ := readGz(t, a.Path("b1", "users"))
	assert.Equal(t, `[2]`, string(got))
}

func TestDir_SaveWithoutBatch(t *testing.T) {
	root := t.TempDir()
	a := NewDir(root)

	require.NoError(t, a.Save(context.Background(), "", "carts", []byte(`[]`)))
	assert.FileExists(t, filepath.Join(root, "unbatched", "carts.json.gz"))
}

func TestDir_SaveCancelled(t *testing.T) {
	a := NewDir(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Save(ctx, "b1", "users", []byte(`[]`))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Save(context.Background(), "b1", "users", nil))
}
