package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
)

const (
	codeUnauthorized = "UNAUTHORIZED"
	codeForbidden    = "FORBIDDEN"
)

// kindStatus maps each business error kind to its HTTP status.
var kindStatus = map[domain.ErrorKind]int{
	domain.KindValidation:       http.StatusBadRequest,
	domain.KindDepositNotFound:  http.StatusNotFound,
	domain.KindCapitalNotFound:  http.StatusNotFound,
	domain.KindMemberNotFound:   http.StatusNotFound,
	domain.KindAlreadyVerified:  http.StatusConflict,
	domain.KindDuplicateCapital: http.StatusConflict,
	domain.KindDuplicateMember:  http.StatusConflict,
	domain.KindInvalidStatus:    http.StatusUnprocessableEntity,
	domain.KindInternal:         http.StatusInternalServerError,
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// mapDomainError maps an error to its HTTP status via its kind.
func mapDomainError(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err using its kind as the error code. Internal
// failures are not echoed to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	message := err.Error()
	if kind == domain.KindInternal {
		message = "internal error"
	}
	writeError(w, mapDomainError(err), string(kind), message)
}

// writeBadRequest writes a VALIDATION_ERROR response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, string(domain.KindValidation), message)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// authorizeMember reports whether the caller may act on memberID's records,
// writing 401 or 403 when not.
func authorizeMember(w http.ResponseWriter, r *http.Request, memberID string) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
		return nil, false
	}

	if !user.CanAccessMember(memberID) {
		writeError(w, http.StatusForbidden, codeForbidden, domain.ErrInsufficientRole.Error())
		return nil, false
	}

	return user, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// optionalQuery returns a pointer to the query parameter, or nil when it is empty.
func optionalQuery(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}
