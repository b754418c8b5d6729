package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/analysis"
	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
	"github.com/MarcosBrindi/drone-inspector/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoredReport es un reporte de análisis recibido, con su identidad asignada
// por el dashboard
type StoredReport struct {
	ID         string                    `json:"id"`
	ReceivedAt string                    `json:"received_at"`
	Payload    analysis.DashboardPayload `json:"payload"`
}

// Server es el dashboard de inspección: recibe reportes de análisis por POST,
// guarda el historial en memoria y lo retransmite por SSE a los clientes web
type Server struct {
	cfg     config.DashboardConfig
	metrics *metrics.MetricsRegistry
	broker  *Broker
	upSince time.Time

	mu      sync.RWMutex
	history []StoredReport

	httpServer *http.Server
}

// NewServer crea el dashboard
func NewServer(cfg config.DashboardConfig, reg *metrics.MetricsRegistry) *Server {
	return &Server{
		cfg:     cfg,
		metrics: reg,
		broker:  NewBroker(reg),
		upSince: time.Now(),
		history: make([]StoredReport, 0),
	}
}

// Router arma el router Chi con todos los endpoints
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", s.handleHealthCheck)
	r.Post("/api/analysis", s.handleAnalysis)
	r.Get("/api/history", s.handleHistory)
	r.Get("/stream", s.handleStream)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start levanta el servidor HTTP en background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("❌ [Dashboard] Servidor HTTP terminó con error", "error", err)
		}
	}()

	logging.Info("✅ [Dashboard] Servidor iniciado", "addr", s.cfg.Addr)
	return nil
}

// Stop apaga el servidor con un grace period corto
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
	logging.Info("🛑 [Dashboard] Servidor detenido")
}

// handleHealthCheck reporta estado y uptime
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	reports := len(s.history)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"uptime":      time.Since(s.upSince).String(),
		"reports":     reports,
		"sse_clients": s.broker.ClientCount(),
	})
}

// handleAnalysis recibe un reporte de análisis, lo archiva y lo retransmite
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var payload analysis.DashboardPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.countRequest("/api/analysis", "POST", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if payload.ImageName == "" {
		s.countRequest("/api/analysis", "POST", http.StatusBadRequest)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image_name is required"})
		return
	}

	stored := StoredReport{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now().Format(time.RFC3339),
		Payload:    payload,
	}

	s.mu.Lock()
	s.history = append(s.history, stored)
	if s.cfg.HistoryLimit > 0 && len(s.history) > s.cfg.HistoryLimit {
		// Se descartan los reportes más viejos
		s.history = s.history[len(s.history)-s.cfg.HistoryLimit:]
	}
	total := len(s.history)
	s.mu.Unlock()

	if s.metrics != nil {
		risk := payload.Analysis.RiskAssessment.OverallRisk
		if risk == "" {
			risk = "Unknown"
		}
		s.metrics.ReportsReceivedTotal.WithLabelValues(risk).Inc()
		s.metrics.DefectsFoundTotal.Add(float64(len(payload.Analysis.DefectsFound)))
	}

	logging.Info("📥 [Dashboard] Reporte recibido",
		"id", stored.ID,
		"imagen", payload.ImageName,
		"riesgo", payload.Analysis.RiskAssessment.OverallRisk,
		"total", total)

	if event, err := json.Marshal(stored); err == nil {
		s.broker.Broadcast(event)
	}

	s.countRequest("/api/analysis", "POST", http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received", "id": stored.ID})
}

// handleHistory retorna todos los reportes recibidos en orden de llegada
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	out := make([]StoredReport, len(s.history))
	copy(out, s.history)
	s.mu.RUnlock()

	s.countRequest("/api/history", "GET", http.StatusOK)
	writeJSON(w, http.StatusOK, out)
}

// handleStream mantiene una conexión SSE abierta hacia el cliente web
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	// Saludo inicial para que el cliente confirme la conexión
	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected"}`)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		case <-keepalive.C:
			// Comentario SSE: mantiene viva la conexión a través de proxies
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

// countRequest registra la métrica HTTP si hay registry
func (s *Server) countRequest(endpoint, method string, status int) {
	if s.metrics != nil {
		s.metrics.HTTPRequestsTotal.WithLabelValues(endpoint, method, fmt.Sprintf("%d", status)).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
