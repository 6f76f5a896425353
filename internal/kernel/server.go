package kernel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/cors"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
)

const maxRequestBytes = 10 << 20

// Response is the envelope every endpoint returns.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

type endpointFunc func(ctx context.Context, body []byte) (interface{}, error)

// Server exposes a Store over HTTP.
type Server struct {
	store   *Store
	logger  *slog.Logger
	origins []string
}

// NewServer wires the API around store. A nil logger discards request logs.
func NewServer(store *Store, logger *slog.Logger, allowedOrigins []string) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, logger: logger, origins: allowedOrigins}
}

// Handler returns the routed, CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for endpoint, fn := range s.endpoints() {
		mux.Handle("POST /api/"+endpoint, s.wrap(endpoint, fn))
	}
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		events.Kernel.Listen(addr, s.store.Path())
		s.logger.Info("kernel listening", "addr", addr, "db", s.store.Path())
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) endpoints() map[string]endpointFunc {
	st := s.store
	return map[string]endpointFunc{
		"system/getConf": func(ctx context.Context, _ []byte) (interface{}, error) {
			return st.Conf(ctx)
		},
		"setting/setFiletree": func(ctx context.Context, body []byte) (interface{}, error) {
			ft := *conf.NewFileTree()
			if err := decode(body, &ft); err != nil {
				return nil, err
			}
			return st.SetFileTree(ctx, ft)
		},
		"setting/setEditor": func(ctx context.Context, body []byte) (interface{}, error) {
			var ed conf.Editor
			if err := decode(body, &ed); err != nil {
				return nil, err
			}
			return st.SetEditor(ctx, ed)
		},
		"notebook/lsNotebooks": func(ctx context.Context, _ []byte) (interface{}, error) {
			nbs, err := st.Notebooks(ctx)
			return map[string]interface{}{"notebooks": nbs}, err
		},
		"notebook/createNotebook": func(ctx context.Context, body []byte) (interface{}, error) {
			var req createNotebookRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			nb, err := st.CreateNotebook(ctx, req.Name)
			return map[string]interface{}{"notebook": nb}, err
		},
		"block/getDocInfo": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.DocInfo(ctx, req.ID)
		},
		"block/getBlockAttrs": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.BlockAttrs(ctx, req.ID)
		},
		"attr/setBlockAttrs": func(ctx context.Context, body []byte) (interface{}, error) {
			var req setAttrsRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return nil, st.SetBlockAttrs(ctx, req.ID, req.Attrs)
		},
		"block/setBlockReminder": func(ctx context.Context, body []byte) (interface{}, error) {
			var req reminderRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return nil, st.SetBlockReminder(ctx, req.ID, req.Timed)
		},
		"filetree/renameDoc": func(ctx context.Context, body []byte) (interface{}, error) {
			var req renameDocRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return nil, st.RenameDoc(ctx, req.Notebook, req.Path, req.Title)
		},
		"filetree/removeDoc": func(ctx context.Context, body []byte) (interface{}, error) {
			var req docPathRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return nil, st.RemoveDoc(ctx, req.Notebook, req.Path)
		},
		"filetree/moveDocs": func(ctx context.Context, body []byte) (interface{}, error) {
			var req moveDocsRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return nil, st.MoveDocs(ctx, req.FromPaths, req.ToNotebook, req.ToPath)
		},
		"filetree/getHPathByID": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.HPathByID(ctx, req.ID)
		},
		"filetree/getDoc": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			blocks, err := st.DocBlocks(ctx, req.ID)
			return map[string]interface{}{"blocks": blocks}, err
		},
		"filetree/searchDocs": func(ctx context.Context, body []byte) (interface{}, error) {
			var req searchRequest
			if err := decode(body, &req); err != nil {
				return nil, err
			}
			return st.SearchDocs(ctx, req.K)
		},
		"filetree/createDocWithMd": func(ctx context.Context, body []byte) (interface{}, error) {
			var req createDocRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.CreateDoc(ctx, req.Notebook, req.ParentPath, req.Title, req.Markdown)
		},
		"outline/getDocOutline": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.Outline(ctx, req.ID)
		},
		"ref/getBacklinks": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.Backlinks(ctx, req.ID)
		},
		"graph/getLocalGraph": func(ctx context.Context, body []byte) (interface{}, error) {
			var req idRequest
			if err := decodeValid(body, &req); err != nil {
				return nil, err
			}
			return st.LocalGraph(ctx, req.ID)
		},
	}
}

func (s *Server) wrap(endpoint string, fn endpointFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "endpoint", endpoint, "error", rec, "stack", string(debug.Stack()))
				respond(w, http.StatusInternalServerError, Response{Code: -1, Msg: "internal error"})
			}
		}()
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			respond(w, http.StatusRequestEntityTooLarge, Response{Code: -1, Msg: err.Error()})
			return
		}
		data, err := fn(r.Context(), body)
		status, resp := http.StatusOK, Response{Data: data}
		if err != nil {
			status = statusFor(err)
			resp = Response{Code: -1, Msg: err.Error()}
		}
		events.Kernel.Request(endpoint, resp.Code)
		s.logger.Info("request", "endpoint", endpoint, "status", status, "duration", time.Since(start).String())
		respond(w, status, resp)
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, resp Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"code":-1,"msg":"failed to encode response","data":null}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func decode(body []byte, dest interface{}) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrValidation, err)
	}
	return nil
}

func decodeValid(body []byte, dest validation.Validatable) error {
	if err := decode(body, dest); err != nil {
		return err
	}
	if err := dest.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
