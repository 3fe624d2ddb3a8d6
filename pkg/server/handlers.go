package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/observability"
	"github.com/matzehuels/vrplot/pkg/pipeline"
	"github.com/matzehuels/vrplot/pkg/sink"
)

// createResponse is the body returned by POST /scenes.
type createResponse struct {
	*Entry
	URL     string `json:"url"`
	JSONURL string `json:"json_url"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.List())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if opts.Path != "" {
		p, err := s.resolvePath(opts.Path)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Path = p
	}
	opts.Logger = s.cfg.Logger.With("request_id", middleware.GetReqID(r.Context()))

	e, err := s.Build(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	url := "/scenes/" + e.ID.String()
	w.Header().Set("Location", url)
	writeJSON(w, http.StatusCreated, createResponse{Entry: e, URL: url, JSONURL: url + ".json"})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	id, format, err := parseFile(chi.URLParam(r, "file"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.Artifact(r.Context(), id, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _, err := parseFile(chi.URLParam(r, "file"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.Remove(r.Context(), id) {
		s.writeError(w, r, errors.New(errors.ErrCodeSceneNotFound, "scene %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatHTML))
	if err := html.Render(w, indexPage(s.List())); err != nil {
		s.cfg.Logger.Error("render index", "err", err)
	}
}

// parseFile splits "<uuid>" or "<uuid>.<format>".
func parseFile(file string) (uuid.UUID, string, error) {
	format := sink.FormatHTML
	if i := strings.LastIndexByte(file, '.'); i >= 0 {
		file, format = file[:i], file[i+1:]
		if err := sink.ValidateFormat(format); err != nil {
			return uuid.Nil, "", err
		}
	}
	id, err := uuid.Parse(file)
	if err != nil {
		return uuid.Nil, "", errors.New(errors.ErrCodeSceneNotFound, "scene %s not found", file)
	}
	return id, format, nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSceneNotFound:
		return http.StatusNotFound
	case errors.ErrCodeFileNotFound, errors.ErrCodeColumnNotFound,
		errors.ErrCodeInvalidInput, errors.ErrCodeShapeMismatch, errors.ErrCodeEmptyInput,
		errors.ErrCodePaletteSize, errors.ErrCodeInvalidPalette, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidMode, errors.ErrCodeInvalidDataset, errors.ErrCodeInvalidPath,
		errors.ErrCodeColumnType, errors.ErrCodeInvalidScene:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// observe reports every request to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Index page
// =============================================================================

func indexPage(entries []*Entry) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := elem(atom.Html)
	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(withText(elem(atom.Title), "vrplot scenes"))
	body := elem(atom.Body)
	body.AppendChild(withText(elem(atom.H1), "Scenes"))

	if len(entries) == 0 {
		body.AppendChild(withText(elem(atom.P), "No scenes registered."))
	} else {
		list := elem(atom.Ul)
		for _, e := range entries {
			title := e.Title
			if title == "" {
				title = e.Dataset
			}
			if title == "" {
				title = e.ID.String()
			}
			url := "/scenes/" + e.ID.String()
			li := elem(atom.Li)
			li.AppendChild(withText(elem(atom.A, html.Attribute{Key: "href", Val: url}), title))
			li.AppendChild(&html.Node{Type: html.TextNode, Data: " "})
			li.AppendChild(withText(elem(atom.A, html.Attribute{Key: "href", Val: url + ".json"}), "json"))
			list.AppendChild(li)
		}
		body.AppendChild(list)
	}

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withText(n *html.Node, text string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
