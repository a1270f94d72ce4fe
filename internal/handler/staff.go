// internal/handler/staff.go
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/dangerclosesec/clinicore/internal/middleware"
	"github.com/dangerclosesec/clinicore/internal/model"
	"github.com/dangerclosesec/clinicore/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

type ProvisionResponse struct {
	BaseResponse
	UserID uuid.UUID `json:"user_id"`
}

type ListStaffResponse struct {
	BaseResponse
	Staff []*model.ClinicStaff `json:"staff"`
}

type AuditTrailResponse struct {
	BaseResponse
	Logs  []model.ProvisioningAuditLog `json:"logs"`
	Total int64                        `json:"total"`
}

// Provision serves the create-staff endpoint. Preflight requests get a plain
// "ok"; CORS headers are set by middleware.
func (h *StaffHandler) Provision(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
		return
	}

	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// An empty body is left to field validation.
	var input service.ProvisionInput
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			slog.WarnContext(r.Context(), "Rejecting unparseable provisioning body", "error", err, "requestID", chmw.GetReqID(r.Context()))
			respondWithError(w, http.StatusBadRequest, invalidBodyMessage(err))
			return
		}
	}
	input.Token = middleware.TokenFromContext(r.Context())

	output, err := h.staffService.Provision(r.Context(), input)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ProvisionResponse{
		BaseResponse: BaseResponse{Ok: true},
		UserID:       output.UserID,
	})
}

func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffService.ListStaff(r.Context(), middleware.TokenFromContext(r.Context()), chi.URLParam(r, "orgID"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	if staff == nil {
		staff = []*model.ClinicStaff{}
	}
	respondWithJSON(w, http.StatusOK, ListStaffResponse{
		BaseResponse: BaseResponse{Ok: true},
		Staff:        staff,
	})
}

func (h *StaffHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := service.AuditQuery{
		Outcome: q.Get("outcome"),
		Email:   q.Get("email"),
	}

	var err error
	if query.Limit, err = intParam(q.Get("limit")); err != nil {
		respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if query.Offset, err = intParam(q.Get("offset")); err != nil {
		respondWithError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	logs, total, err := h.staffService.AuditTrail(r.Context(), middleware.TokenFromContext(r.Context()), chi.URLParam(r, "orgID"), query)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	if logs == nil {
		logs = []model.ProvisioningAuditLog{}
	}
	respondWithJSON(w, http.StatusOK, AuditTrailResponse{
		BaseResponse: BaseResponse{Ok: true},
		Logs:         logs,
		Total:        total,
	})
}

func invalidBodyMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "invalid JSON body: " + typeErr.Field + " has the wrong type"
	}
	return "invalid JSON body"
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative")
	}
	return n, nil
}

// respondWithServiceError writes the classified failure. Store details are
// only exposed on 500 responses.
func (h *StaffHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *service.ProvisionError
	if !errors.As(err, &perr) {
		slog.ErrorContext(r.Context(), "Unclassified staff error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	code := statusForKind(perr.Kind())
	resp := ErrorResponse{Error: perr.Message}

	if code == http.StatusInternalServerError {
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			resp.Details = storeErr
		}
	}

	slog.InfoContext(r.Context(), "Staff request failed",
		"attemptID", perr.AttemptID,
		"stage", perr.Stage,
		"status", code,
		"requestID", chmw.GetReqID(r.Context()),
	)
	respondWithJSON(w, code, resp)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
