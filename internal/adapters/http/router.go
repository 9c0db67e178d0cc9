// Package httpadapter exposes the document pipeline and filer surfaces over
// HTTP. Routing is a plain ServeMux with manual method checks; all payloads
// are JSON except the multipart upload and the xlsx report download.
package httpadapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taxdesk/taxdesk/internal/core/domain"
	"github.com/taxdesk/taxdesk/internal/core/extraction"
	"github.com/taxdesk/taxdesk/internal/core/ports"
)

// maxUploadBytes caps multipart memory use; larger files spill to disk.
const maxUploadBytes = 32 << 20

// ReportRenderer writes the filer workbook to w.
type ReportRenderer interface {
	Write(w io.Writer, ownerID string, agg domain.FilerAggregate, findings []domain.Finding, form *domain.ItrForm) error
}

// UsageRecorder counts business events. A nil recorder disables counting.
type UsageRecorder interface {
	RecordUpload(declaredType string)
	RecordCorrection(accepted bool)
	RecordReport(format string)
}

type TrafficOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
	QueueTimeout   time.Duration
}

type Router struct {
	ingestor    ports.DocumentIngestor
	reader      ports.DocumentReader
	corrections ports.CorrectionApplier
	aggregates  ports.AggregateReader
	itrForms    ports.ItrFormService
	reports     ReportRenderer
	usage       UsageRecorder

	metricsHandler http.Handler
	traffic        TrafficOptions
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	corrections ports.CorrectionApplier,
	aggregates ports.AggregateReader,
	itrForms ports.ItrFormService,
	reports ReportRenderer,
	usage UsageRecorder,
	metricsHandler http.Handler,
	traffic TrafficOptions,
) *Router {
	return &Router{
		ingestor:       ingestor,
		reader:         reader,
		corrections:    corrections,
		aggregates:     aggregates,
		itrForms:       itrForms,
		reports:        reports,
		usage:          usage,
		metricsHandler: metricsHandler,
		traffic:        traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubroute)
	mux.HandleFunc("/v1/filers/", rt.filerSubroute)
	if rt.metricsHandler != nil {
		mux.Handle("/metrics", rt.metricsHandler)
	}

	queueTimeout := rt.traffic.QueueTimeout
	if queueTimeout <= 0 {
		queueTimeout = 5 * time.Second
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, queueTimeout)
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ownerID := strings.TrimSpace(r.FormValue("owner_id"))
	if ownerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'owner_id' is required"})
		return
	}

	declaredType, ok := domain.ParseDocumentType(strings.TrimSpace(r.FormValue("declared_type")))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'declared_type' is missing or unknown"})
		return
	}

	doc, err := rt.ingestor.Upload(
		r.Context(),
		ownerID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		declaredType,
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.usage != nil {
		rt.usage.RecordUpload(string(doc.DeclaredType))
	}
	writeJSON(w, http.StatusAccepted, doc)
}

// documentSubroute dispatches /v1/documents/{id}[/status|data|export|corrections].
func (rt *Router) documentSubroute(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodDelete {
			writeMethodNotAllowed(w)
			return
		}
		rt.deleteDocument(w, r, id)
	case "status":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.documentStatus(w, r, id)
	case "data":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.documentData(w, r, id)
	case "export":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.exportDocument(w, r, id)
	case "corrections":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		rt.applyCorrections(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) documentStatus(w http.ResponseWriter, r *http.Request, id string) {
	view, err := rt.reader.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) documentData(w http.ResponseWriter, r *http.Request, id string) {
	data, err := rt.reader.GetData(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (rt *Router) exportDocument(w http.ResponseWriter, r *http.Request, id string) {
	export, err := rt.reader.ExportForm16(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	if err := rt.reader.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) applyCorrections(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Corrections []extraction.Correction `json:"corrections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	issues, err := rt.corrections.Apply(r.Context(), id, req.Corrections)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.usage != nil {
		rt.usage.RecordCorrection(len(issues) == 0)
	}
	if len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"issues": issues})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}

// filerSubroute dispatches /v1/filers/{owner}/aggregate|report.xlsx|itr[...].
func (rt *Router) filerSubroute(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/filers/")
	ownerID, action, _ := strings.Cut(rest, "/")
	if ownerID == "" || action == "" {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "aggregate":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.filerAggregate(w, r, ownerID)
	case "report.xlsx":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		rt.filerReport(w, r, ownerID)
	case "itr":
		rt.itrForm(w, r, ownerID)
	case "itr/validate":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		rt.itrValidate(w, r, ownerID)
	case "itr/submit":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		rt.itrSubmit(w, r, ownerID)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) filerAggregate(w http.ResponseWriter, r *http.Request, ownerID string) {
	agg, err := rt.aggregates.Aggregate(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	findings, err := rt.aggregates.Findings(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"aggregate": agg,
		"findings":  findings,
	})
}

func (rt *Router) filerReport(w http.ResponseWriter, r *http.Request, ownerID string) {
	agg, err := rt.aggregates.Aggregate(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	findings, err := rt.aggregates.Findings(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	form, err := rt.itrForms.GetForm(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Render to a buffer first so a render failure still yields a clean
	// JSON error instead of a truncated workbook.
	var buf bytes.Buffer
	if err := rt.reports.Write(&buf, ownerID, agg, findings, form); err != nil {
		writeError(w, err)
		return
	}

	if rt.usage != nil {
		rt.usage.RecordReport("xlsx")
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ownerID+"-tax-report.xlsx"))
	_, _ = buf.WriteTo(w)
}

func (rt *Router) itrForm(w http.ResponseWriter, r *http.Request, ownerID string) {
	switch r.Method {
	case http.MethodGet:
		form, err := rt.itrForms.GetForm(r.Context(), ownerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, form)
	case http.MethodPut:
		var form domain.ItrForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		form.OwnerID = ownerID

		updated, err := rt.itrForms.UpdateForm(r.Context(), &form)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) itrValidate(w http.ResponseWriter, r *http.Request, ownerID string) {
	issues, totals, err := rt.itrForms.ValidateForm(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issues": issues,
		"totals": totals,
	})
}

func (rt *Router) itrSubmit(w http.ResponseWriter, r *http.Request, ownerID string) {
	form, issues, err := rt.itrForms.SubmitForm(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"form":   form,
		"issues": issues,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
