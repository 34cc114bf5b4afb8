package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gobenford/adapters/source"
	"gobenford/app"
	"gobenford/domain/benford"
	"gobenford/domain/core"
	"gobenford/internal/errors"
	"gobenford/internal/report"
)

const uploadField = "user_file"

type indexView struct {
	Accepted    []string
	MaxUploadMB int64
	History     []*benford.Summary
}

type resultsView struct {
	ID         core.AnalysisID
	Filename   string
	Valid      bool
	Error      string
	Result     *benford.AnalysisResult
	Image      template.URL
	ReportHTML template.HTML
}

type errorView struct {
	Status  int
	Message string
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	history, err := a.service.History(r.Context(), a.historyLimit)
	if err != nil {
		a.logger.Warn("loading history: %v", err)
	}
	a.renderTemplate(w, http.StatusOK, "index.html", indexView{
		Accepted:    source.AcceptedExtensions,
		MaxUploadMB: a.maxUpload >> 20,
		History:     history,
	})
}

func (a *App) handleResults(w http.ResponseWriter, r *http.Request) {
	sub, err := a.submit(w, r)
	if err != nil {
		status := statusFor(err)
		a.renderTemplate(w, status, "error.html", errorView{Status: status, Message: err.Error()})
		return
	}

	doc := report.NewDocument(sub.ID, sub.Filename, sub.Outcome, false)
	view := resultsView{
		ID:         sub.ID,
		Filename:   sub.Filename,
		Valid:      doc.Valid,
		Error:      doc.Error,
		Result:     doc.Result,
		ReportHTML: template.HTML(report.HTML(report.Markdown(doc))),
	}
	if s, ok := sub.Outcome.(benford.Success); ok {
		// DataURI only ever yields a base64 PNG produced by the renderer
		view.Image = template.URL(s.Result.Image.DataURI())
	}
	a.renderTemplate(w, http.StatusOK, "results.html", view)
}

func (a *App) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	sub, err := a.submit(w, r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	withImage, _ := strconv.ParseBool(r.URL.Query().Get("image"))
	doc := report.NewDocument(sub.ID, sub.Filename, sub.Outcome, withImage)

	status := http.StatusCreated
	if !doc.Valid {
		status = http.StatusUnprocessableEntity
	}
	a.writeJSON(w, status, doc)
}

func (a *App) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := a.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.writeError(w, errors.ValidationError("limit must be a positive integer"))
			return
		}
		limit = min(n, a.historyLimit)
	}

	history, err := a.service.History(r.Context(), limit)
	if err != nil {
		a.writeError(w, errors.DatabaseError("failed to load history", err))
		return
	}
	a.writeJSON(w, http.StatusOK, history)
}

func (a *App) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseAnalysisID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, errors.ValidationError("malformed analysis id"))
		return
	}
	summary, err := a.service.Lookup(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, summary)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// submit pulls the uploaded file out of the request and analyses it
func (a *App) submit(w http.ResponseWriter, r *http.Request) (*app.Submission, error) {
	if a.maxUpload > 0 {
		if r.ContentLength > a.maxUpload {
			return nil, a.tooLarge()
		}
		r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, a.tooLarge()
		}
		return nil, errors.InvalidInput("expected a multipart upload")
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	if !source.Accepted(header.Filename) {
		return nil, errors.InvalidInput("unsupported file type " + strconv.Quote(header.Filename))
	}
	return a.service.Submit(r.Context(), header.Filename, file), nil
}

func (a *App) tooLarge() error {
	return errors.TooLarge(fmt.Sprintf("file too large (max %dMB)", a.maxUpload>>20))
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encoding response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func statusFor(err error) int {
	if core.IsNotFoundError(err) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
