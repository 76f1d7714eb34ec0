package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rigport/rigport/pkg/assembly"
	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/buildinfo"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host/sandbox"
	"github.com/rigport/rigport/pkg/observability"
	"github.com/rigport/rigport/pkg/pipeline"
	"github.com/rigport/rigport/pkg/render"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// JobResponse is the body of a POST /v1/jobs response.
type JobResponse struct {
	JobID     string           `json:"job_id"`
	Report    *assembly.Report `json:"report"`
	Artifacts []ArtifactBody   `json:"artifacts"`
	Stats     pipeline.Stats   `json:"stats"`
	Error     *ErrorBody       `json:"error,omitempty"`
}

// ArtifactBody is one rendered artifact. Data is base64 in JSON.
type ArtifactBody struct {
	Name        string `json:"name"`
	Group       string `json:"group,omitempty"`
	Kind        string `json:"kind"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Cached      bool   `json:"cached"`
	Data        []byte `json:"data"`
}

// ErrorBody is the error part of a response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	p, err := asset.Decode(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assembly.Inspect(p))
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	opts, err := s.jobOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := asset.Decode(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger := s.logger.With("request", middleware.GetReqID(r.Context()))
	opts.Logger = logger
	h := sandbox.New(s.cfg.Assets, p.Options.MeshExportType, logger)

	res, err := s.runner.Execute(r.Context(), p, h, opts)
	if res == nil {
		writeError(w, r, err)
		return
	}

	body := JobResponse{Report: res.Report, Artifacts: []ArtifactBody{}, Stats: res.Stats}
	if res.Report != nil {
		body.JobID = res.Report.JobID
	}
	for _, a := range res.Artifacts {
		body.Artifacts = append(body.Artifacts, ArtifactBody{
			Name:        a.Name(),
			Group:       a.Group,
			Kind:        a.Kind,
			Format:      string(a.Format),
			ContentType: a.Format.ContentType(),
			Cached:      a.Cached,
			Data:        a.Data,
		})
	}
	status := http.StatusOK
	if err != nil {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		body.Error = errorBody(err)
		status = statusFor(err)
	}
	writeJSON(w, status, body)
}

// jobOptions applies query parameters to the server defaults:
// format (comma list), group (repeatable), swatch, detailed and refresh.
func (s *Server) jobOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	q := r.URL.Query()

	if v := q["format"]; len(v) > 0 {
		formats, err := render.ParseFormats(v)
		if err != nil {
			return opts, err
		}
		opts.Formats = formats
	}
	if v := q["group"]; len(v) > 0 {
		opts.Groups = v
	}
	for name, dst := range map[string]*bool{
		"swatch":   &opts.Swatch,
		"detailed": &opts.Detailed,
		"refresh":  &opts.Refresh,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s=%q", name, v)
		}
		*dst = b
	}
	return opts, nil
}

// observe reports requests to the HTTP hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed.Round(time.Millisecond),
			"request", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, statusFor(err), struct {
		Error *ErrorBody `json:"error"`
	}{errorBody(err)})
}

func errorBody(err error) *ErrorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return &ErrorBody{Code: code, Message: errors.UserMessage(err)}
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidPayload, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnionFailure:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
