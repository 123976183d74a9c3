package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageSaveLoadRoundTrip(t *testing.T) {
	var img Image
	for i := range img {
		img[i] = Word(i*3 + 1)
	}

	path := filepath.Join(t.TempDir(), "device.img")
	require.NoError(t, img.Save(path))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, &img, loaded)
}

func TestImageBytesBigEndian(t *testing.T) {
	var img Image
	img[0] = 0xDEAD
	img[1] = 0x0001

	data := img.Bytes()
	require.Len(t, data, ImageSize)
	assert.Equal(t, []byte{0xDE, 0xAD, 0x00, 0x01}, data[:4])
}

func TestLoadImageWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0644))

	_, err := LoadImage(path)
	assert.ErrorIs(t, err, ErrImageSize)
}

func TestLoadImageMissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.img"))
	assert.Error(t, err)
}
