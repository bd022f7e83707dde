package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

const proofFormField = "file"

type proofStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
}

// ProofHandler accepts proof-of-payment uploads.
type ProofHandler struct {
	store    proofStore
	maxBytes int64
	metrics  *metrics.Metrics
}

// NewProofHandler creates a new ProofHandler. m may be nil.
func NewProofHandler(store proofStore, maxBytes int64, m *metrics.Metrics) *ProofHandler {
	return &ProofHandler{store: store, maxBytes: maxBytes, metrics: m}
}

// Upload stores a multipart image under the "file" field and returns its reference.
func (h *ProofHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.UserFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	if r.ContentLength > h.maxBytes {
		h.rejectTooLarge(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, _, err := r.FormFile(proofFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(w)
			return
		}
		h.observe("rejected")
		writeBadRequest(w, "missing proof file: "+err.Error())
		return
	}
	defer file.Close()

	ref, err := h.store.Save(r.Context(), file)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			h.observe("rejected")
		} else {
			h.observe("error")
		}
		writeDomainError(w, err)
		return
	}

	h.observe("stored")
	writeJSON(w, http.StatusCreated, dto.ProofResponse{ProofRef: ref})
}

func (h *ProofHandler) rejectTooLarge(w http.ResponseWriter) {
	h.observe("too_large")
	writeError(w, http.StatusRequestEntityTooLarge, string(domain.KindValidation), "proof exceeds the upload limit")
}

func (h *ProofHandler) observe(result string) {
	if h.metrics != nil {
		h.metrics.ProofUploads.WithLabelValues(result).Inc()
	}
}
