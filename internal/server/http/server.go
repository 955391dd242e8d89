package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/NexPlugs/pl-flow/internal/runner"
	"github.com/NexPlugs/pl-flow/internal/runtime"
	tasksvc "github.com/NexPlugs/pl-flow/internal/services/tasks"
	logpkg "github.com/NexPlugs/pl-flow/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("http"))
	}
	mux := http.NewServeMux()
	s := &Server{rt: rt, logger: logger, srv: &http.Server{Handler: cors(mux)}}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/tasks/submit", s.handleSubmit)
	mux.HandleFunc("/v1/tasks/remove", s.handleRemove)
	mux.HandleFunc("/v1/tasks/clear", s.handleClear)
	mux.HandleFunc("/v1/tasks/stats", s.handleStats)
	mux.HandleFunc("/v1/tasks/topics", s.handleTopics)
	mux.HandleFunc("/v1/tasks/subscribe", s.handleSubscribeSSE)
	mux.HandleFunc("/v1/journal/read", s.handleJournalRead)
	return s
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Infof("http listening on %s", l.Addr())
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_serving"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitReq struct {
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	h, err := s.rt.Tasks().Submit(req.Identity, req.Topic, req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, map[string]string{"identity": req.Identity, "status": "accepted"})
		return
	}
	res, err := h.Wait(r.Context())
	if err != nil {
		switch {
		case runner.IsRemoved(err), runner.IsTimedOut(err):
			writeError(w, http.StatusConflict, err)
		case r.Context().Err() != nil:
			// client went away; nothing useful to write
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"identity": req.Identity,
		"topic":    res.Topic,
		"payload":  res.Payload,
	})
}

type removeReq struct {
	Identity string `json:"identity"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req removeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	removed := s.rt.Tasks().Remove(req.Identity)
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.rt.Tasks().Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.rt.Tasks().Stats())
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": s.rt.Tasks().Topics()})
}

func (s *Server) handleSubscribeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	buffer := 0
	if v := q.Get("buffer"); v != "" {
		buffer, _ = strconv.Atoi(v)
	}
	sub, err := s.rt.Tasks().Subscribe(q.Get("filter"), buffer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)
	// preamble so clients can log their subscriber id
	writeSSE(w, flusher, map[string]string{"subscription": sub.ID})

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			writeSSE(w, flusher, ev)
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n\n"))
	if flusher != nil {
		flusher.Flush()
	}
}

func (s *Server) handleJournalRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	recs, err := s.rt.Tasks().ReadJournal(q.Get("after"), limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if recs == nil {
		recs = []tasksvc.JournaledCompletion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": recs})
}
