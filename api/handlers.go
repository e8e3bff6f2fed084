/*
handlers.go - HTTP API handlers for the cancellation policy engine

PURPOSE:
  Exposes the policy engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine packages.

ENDPOINTS:
  Templates:
    GET  /api/templates                    List catalog presets
    GET  /api/templates/{key}              Instantiate a preset

  Agency policy:
    GET  /api/agencies/{id}/policy         Decode the stored policy
    PUT  /api/agencies/{id}/policy         Validate + save (whole-object)
    POST /api/agencies/{id}/evaluate       Price a cancellation event

  Editing support:
    POST /api/policy/validate              Inline-edit validation

REQUEST FLOW:
  1. Parse HTTP request
  2. Call engine logic (catalog, codec, validator, evaluator)
  3. Serialize response
  4. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, evaluation contract violations
  - 404: Unknown template or agency
  - 409: Evaluation requested against a descriptive-only policy
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/airhoppers/refund-engine/codec"
	"github.com/airhoppers/refund-engine/policy"
	"github.com/airhoppers/refund-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// TEMPLATE ENDPOINTS
// =============================================================================

// ListTemplates returns the catalog presets.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var dtos []TemplateDTO
	for _, key := range policy.TemplateKeys() {
		cfg, err := policy.Template(key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load template catalog", err)
			return
		}
		dtos = append(dtos, TemplateDTO{
			Key:         string(key),
			Name:        cfg.Name,
			Description: cfg.Description,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTemplate instantiates one preset as a full policy document.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	key := policy.TemplateKey(chi.URLParam(r, "key"))

	cfg, err := policy.Template(key)
	if err != nil {
		if errors.Is(err, policy.ErrUnknownTemplate) {
			writeError(w, http.StatusNotFound, "Unknown template", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to instantiate template", err)
		return
	}

	doc := codec.FromConfig(cfg)
	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// AGENCY POLICY ENDPOINTS
// =============================================================================

// GetPolicy returns the agency's decoded policy. A legacy free-text policy
// comes back as descriptive text with evaluable=false.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	agencyID := chi.URLParam(r, "id")

	raw, ok, err := h.Store.GetPolicyDoc(r.Context(), agencyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policy", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Agency has no policy configured", nil)
		return
	}

	decoded := codec.Decode(raw)
	resp := PolicyResponse{AgencyID: agencyID, Findings: []policy.Finding{}}
	if decoded.Evaluable() {
		doc := codec.FromConfig(*decoded.Config)
		resp.Evaluable = true
		resp.Policy = &doc
		resp.Findings = findingsOrEmpty(policy.Validate(*decoded.Config))
	} else {
		resp.DescriptiveText = &decoded.Descriptive.Text
	}
	writeJSON(w, http.StatusOK, resp)
}

// SavePolicy replaces the agency's policy wholesale. Validation findings are
// returned alongside the save confirmation but never block it: incomplete
// drafts persist, matching the settings UI's behavior.
func (h *Handler) SavePolicy(w http.ResponseWriter, r *http.Request) {
	agencyID := chi.URLParam(r, "id")

	var doc codec.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy document", err)
		return
	}

	base, _ := policy.Template(policy.TemplateModerate)
	cfg := doc.Merge(base)
	findings := policy.Validate(cfg)

	encoded, err := codec.Encode(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode policy", err)
		return
	}
	if err := h.Store.SavePolicyDoc(r.Context(), agencyID, encoded); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save policy", err)
		return
	}

	writeJSON(w, http.StatusOK, SavePolicyResponse{
		AgencyID: agencyID,
		Saved:    true,
		Findings: findingsOrEmpty(findings),
	})
}

// ValidatePolicy runs the rule validator for inline UI feedback.
func (h *Handler) ValidatePolicy(w http.ResponseWriter, r *http.Request) {
	var doc codec.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy document", err)
		return
	}

	base, _ := policy.Template(policy.TemplateModerate)
	cfg := doc.Merge(base)
	findings := policy.Validate(cfg)

	writeJSON(w, http.StatusOK, ValidateResponse{
		Findings:  findingsOrEmpty(findings),
		Evaluable: !policy.HasErrors(findings) && len(cfg.Tiers) > 0,
	})
}

// =============================================================================
// EVALUATION ENDPOINT
// =============================================================================

// EvaluatePolicy prices a cancellation event against the agency's stored
// policy. This is the call site a booking-cancellation transaction uses.
func (h *Handler) EvaluatePolicy(w http.ResponseWriter, r *http.Request) {
	agencyID := chi.URLParam(r, "id")

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	raw, ok, err := h.Store.GetPolicyDoc(r.Context(), agencyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policy", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Agency has no policy configured", nil)
		return
	}

	decoded := codec.Decode(raw)
	if !decoded.Evaluable() {
		// Descriptive-only: prose can be displayed but never priced. The
		// booking flow must treat this as "no policy configured".
		writeError(w, http.StatusConflict, "Policy is descriptive-only and cannot be evaluated", policy.ErrNotEvaluable)
		return
	}

	event, err := policy.NewEvent(req.LeadTimeHours, req.BookingAmount, req.IsNoShow)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cancellation event", err)
		return
	}

	outcome, err := policy.Evaluate(*decoded.Config, event)
	if err != nil {
		if policy.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid cancellation event", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Evaluation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toEvaluateResponse(outcome))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
