package memory

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ImageSize is the on-disk size of a full memory image in bytes.
const ImageSize = Words * 2

// ErrImageSize is returned when an image file is not exactly ImageSize bytes.
var ErrImageSize = fmt.Errorf("image file must be exactly %d bytes", ImageSize)

// Image is a full snapshot of the device's 1024-word address space, indexed
// by address. An Image is only ever produced whole: a bulk copy either fills
// all 1024 words or fails without returning one.
type Image [Words]Word

// Bytes serializes the image as raw big-endian words, exactly ImageSize bytes.
func (img *Image) Bytes() []byte {
	buf := make([]byte, ImageSize)
	for i, w := range img {
		binary.BigEndian.PutUint16(buf[i*2:], uint16(w))
	}
	return buf
}

// Save writes the image to path as raw big-endian words.
func (img *Image) Save(path string) error {
	if err := os.WriteFile(path, img.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// LoadImage reads a raw big-endian image file written by Save.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if len(data) != ImageSize {
		return nil, fmt.Errorf("%w: got %d", ErrImageSize, len(data))
	}

	var img Image
	for i := range img {
		img[i] = Word(binary.BigEndian.Uint16(data[i*2:]))
	}
	return &img, nil
}
