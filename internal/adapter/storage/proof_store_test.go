package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase/mocks"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()

	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

// withDeclaredSize rewrites the IHDR dimensions of a PNG without touching its pixel data.
func withDeclaredSize(t *testing.T, buf *bytes.Buffer, w, h uint32) *bytes.Buffer {
	t.Helper()

	data := append([]byte(nil), buf.Bytes()...)
	require.Equal(t, "IHDR", string(data[12:16]))

	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	return bytes.NewBuffer(data)
}

func newTestStore(t *testing.T, maxDimension int) *ProofStore {
	t.Helper()

	store := NewProofStore(t.TempDir(), maxDimension, 1_000_000, mocks.NewMockIDGenerator())
	store.now = func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return store
}

func TestProofStore_SaveShrinksLargeImages(t *testing.T) {
	store := newTestStore(t, 100)

	ref, err := store.Save(context.Background(), encodePNG(t, 400, 200))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, "2026/03/"), "unexpected ref %s", ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "unexpected ref %s", ref)

	stored, err := imaging.Open(filepath.Join(store.root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), stored.Bounds().Size())
}

func TestProofStore_SaveKeepsSmallImages(t *testing.T) {
	store := newTestStore(t, 100)

	ref, err := store.Save(context.Background(), encodePNG(t, 40, 30))
	require.NoError(t, err)

	stored, err := imaging.Open(filepath.Join(store.root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 30), stored.Bounds().Size())
}

func TestProofStore_SaveRejectsNonImages(t *testing.T) {
	store := newTestStore(t, 100)

	_, err := store.Save(context.Background(), strings.NewReader("%PDF-1.4 not an image"))
	assert.True(t, errors.Is(err, domain.ErrInvalidProof), "expected ErrInvalidProof, got %v", err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestProofStore_SaveRejectsOversizedDeclaredImage(t *testing.T) {
	store := newTestStore(t, 100)

	_, err := store.Save(context.Background(), withDeclaredSize(t, encodePNG(t, 8, 8), 12000, 12000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidProof), "expected ErrInvalidProof, got %v", err)
	assert.Contains(t, err.Error(), "12000x12000")

	entries, err := os.ReadDir(store.root)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written for a rejected proof")
}

func TestProofStore_PixelBudgetBoundary(t *testing.T) {
	store := NewProofStore(t.TempDir(), 100, 40*30, mocks.NewMockIDGenerator())

	_, err := store.Save(context.Background(), encodePNG(t, 40, 30))
	require.NoError(t, err)

	_, err = store.Save(context.Background(), encodePNG(t, 41, 30))
	assert.ErrorIs(t, err, domain.ErrInvalidProof)
}
