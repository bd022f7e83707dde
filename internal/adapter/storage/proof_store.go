package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

const jpegQuality = 85

// ProofStore keeps proof-of-payment images on local disk. Every upload is
// re-encoded as JPEG and shrunk to fit within maxDimension on both sides.
// Images declaring more than maxPixels pixels are rejected before decoding.
type ProofStore struct {
	root         string
	maxDimension int
	maxPixels    int64
	idGen        usecase.IDGenerator
	now          func() time.Time
}

// NewProofStore creates a new ProofStore rooted at dir.
func NewProofStore(dir string, maxDimension int, maxPixels int64, idGen usecase.IDGenerator) *ProofStore {
	return &ProofStore{
		root:         dir,
		maxDimension: maxDimension,
		maxPixels:    maxPixels,
		idGen:        idGen,
		now:          time.Now,
	}
}

// Save decodes the image read from r and stores it. The returned reference is
// relative to the store root and is what deposits carry as proof_ref.
// Callers bound the size of r.
func (s *ProofStore) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read proof: %w", err)
	}

	if err := s.checkPixels(data); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidProof, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := img.Bounds()
	if b.Dx() > s.maxDimension || b.Dy() > s.maxDimension {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
	}

	now := s.now().UTC()
	ref := filepath.ToSlash(filepath.Join(
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		s.idGen.Generate()+".jpg",
	))

	dst := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create proof directory: %w", err)
	}

	if err := imaging.Save(img, dst, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to store proof: %w", err)
	}

	return ref, nil
}

// checkPixels reads only the image header.
func (s *ProofStore) checkPixels(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidProof, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", domain.ErrInvalidProof)
	}

	if s.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > s.maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrInvalidProof, cfg.Width, cfg.Height, s.maxPixels)
	}

	return nil
}
