package server

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/pkg/utils"
)

// NewRouter wires the WebSocket endpoint and the HTTP fallback routes to the
// shared command dispatcher. The same routes are mounted unversioned (local
// fallback convention) and under /v1 (remote API convention).
func NewRouter(dispatcher *Dispatcher, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	ws := NewWSHandler(dispatcher, cfg.RateLimit, cfg.RateLimitWindow)
	r.Get("/ws", ws.HandleWS)

	h := &httpAPI{
		dispatcher: dispatcher,
		limiters:   newLimiterPool(cfg.RateLimit, cfg.RateLimitWindow),
		limit:      cfg.RateLimit,
	}

	r.Route("/api", func(root chi.Router) {
		h.registerRoutes(root)
		root.Route("/v1", func(v1 chi.Router) {
			h.registerRoutes(v1)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

type httpAPI struct {
	dispatcher *Dispatcher
	limiters   *limiterPool
	limit      int
}

func (h *httpAPI) registerRoutes(r chi.Router) {
	r.Post("/auth/login", h.command(api.CmdAuthLogin, false))
	r.Post("/auth/logout", h.command(api.CmdAuthLogout, false))
	r.Post("/auth/refresh", h.command(api.CmdAuthRefresh, false))
	r.Post("/auth/validate", h.command(api.CmdAuthValidate, false))
	r.Get("/system/health", h.command(api.CmdSystemHealth, true))
	r.Get("/chat/sessions", h.command(api.CmdChatSessions, true))
	r.Post("/chat/sessions", h.command(api.CmdChatCreate, false))
	r.Get("/chat/messages", h.command(api.CmdChatMessages, true))
	r.Post("/chat/messages", h.command(api.CmdChatSend, false))
	r.Post("/chat/respond", h.command(api.CmdChatRespond, false))
	r.Get("/documents", h.command(api.CmdDocumentsList, true))
	r.Post("/documents", h.command(api.CmdDocumentsUpload, false))
	r.Get("/documents/get", h.command(api.CmdDocumentsGet, true))
	r.Delete("/documents", h.command(api.CmdDocumentsDelete, true))
	r.Post("/research/search", h.command(api.CmdResearchSearch, false))
	r.Post("/analysis/analyze", h.command(api.CmdAnalysisAnalyze, false))
}

// command adapts one catalog entry to an HTTP handler. paramsFromQuery
// selects where the command payload comes from.
func (h *httpAPI) command(cmd api.Command, paramsFromQuery bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limiter := h.limiters.get(clientKey(r))
		allowed, remaining, reset := limiter.Allow()

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(h.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			utils.RespondJSON(w, http.StatusTooManyRequests, api.Envelope{
				Err: api.NewError(api.CodeRateLimited, "rate limit exceeded"),
			})
			return
		}

		params, apiErr := readParams(r, paramsFromQuery)
		if apiErr != nil {
			utils.RespondJSON(w, statusFor(apiErr.Code), api.Envelope{Err: apiErr})
			return
		}

		data, apiErr := h.dispatcher.Dispatch(r.Context(), cmd, params, bearerToken(r))
		if apiErr != nil {
			utils.RespondJSON(w, statusFor(apiErr.Code), api.Envelope{
				Err: apiErr.At(r.Method, r.URL.Path),
			})
			return
		}

		utils.RespondJSON(w, http.StatusOK, api.Envelope{
			Data: data,
			Meta: &api.Meta{
				RequestID: middleware.GetReqID(r.Context()),
				RateLimit: &api.RateLimitInfo{
					Limit:     h.limit,
					Remaining: remaining,
					Reset:     reset.Unix(),
				},
			},
		})
	}
}

func readParams(r *http.Request, fromQuery bool) (json.RawMessage, *api.APIError) {
	if fromQuery {
		values := r.URL.Query()
		if len(values) == 0 {
			return nil, nil
		}
		params := make(map[string]string, len(values))
		for key := range values {
			params[key] = values.Get(key)
		}
		data, err := json.Marshal(params)
		if err != nil {
			return nil, api.NewError(api.CodeInvalidRequest, "invalid query parameters")
		}
		return data, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 10<<20))
	if err != nil {
		return nil, api.NewError(api.CodeInvalidRequest, "failed to read request body")
	}
	return body, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func statusFor(code string) int {
	switch code {
	case api.CodeNotAuthenticated, api.CodeAuthExpired:
		return http.StatusUnauthorized
	case api.CodeNotFound, api.CodeUnknownCommand:
		return http.StatusNotFound
	case api.CodeValidation:
		return http.StatusUnprocessableEntity
	case api.CodeRateLimited:
		return http.StatusTooManyRequests
	case api.CodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
