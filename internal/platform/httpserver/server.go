package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	pollrelay "quorum/contexts/community/poll-relay"
	pollrelayerrors "quorum/contexts/community/poll-relay/domain/errors"
	pollrelayhttp "quorum/contexts/community/poll-relay/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "quorum/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	pollRelay pollrelay.Module
}

func New(pollRelayModule pollrelay.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		pollRelay: pollRelayModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("GET /api/v1/polls/{poll_id}", s.handleGetTrackedPoll)
	s.mux.HandleFunc("GET /api/v1/polls/{poll_id}/non-voters", s.handleGetPollStatus)
	s.mux.HandleFunc("GET /api/v1/residents", s.handleListResidents)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetTrackedPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("poll_id")
	resp, err := s.pollRelay.Handler.GetTrackedPollHandler(r.Context(), pollID)
	if err != nil {
		writePollRelayDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPollStatus(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("poll_id")
	resp, err := s.pollRelay.Handler.PollStatusHandler(r.Context(), pollID)
	if err != nil {
		writePollRelayDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResidents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pollRelay.Handler.ListResidentsHandler(r.Context())
	if err != nil {
		writePollRelayDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePollRelayDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pollrelayerrors.ErrPollNotFound):
		writePollRelayError(w, http.StatusNotFound, "poll_not_found", err.Error())
	case errors.Is(err, pollrelayerrors.ErrPollAlreadyTracked):
		writePollRelayError(w, http.StatusConflict, "poll_already_tracked", err.Error())
	default:
		writePollRelayError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePollRelayError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pollrelayhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
