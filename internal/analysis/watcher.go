package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Watcher observa el directorio de capturas: cada imagen nueva se analiza
// con el modelo de visión y el reporte se postea al dashboard.
// El escaneo es por polling: barato, sin dependencias de inotify, y procesa
// de paso las imágenes preexistentes de corridas anteriores.
type Watcher struct {
	cfg      config.AnalysisConfig
	imageDir string
	analyzer *Analyzer
	bus      *eventbus.EventBus
	client   *http.Client

	// processed evita re-analizar imágenes ya vistas
	processed *cache.Cache

	// limiter acota la frecuencia de llamadas al API (rate limits del proveedor)
	limiter *rate.Limiter

	mu      sync.RWMutex
	running bool
}

// NewWatcher crea el observador del directorio de capturas
func NewWatcher(cfg config.AnalysisConfig, imageDir string, bus *eventbus.EventBus) *Watcher {
	return &Watcher{
		cfg:       cfg,
		imageDir:  imageDir,
		analyzer:  NewAnalyzer(cfg),
		bus:       bus,
		client:    &http.Client{Timeout: 5 * time.Second},
		processed: cache.New(cache.NoExpiration, cache.NoExpiration),
		limiter:   rate.NewLimiter(rate.Every(time.Duration(cfg.Throttle*float64(time.Second))), 1),
	}
}

// Start arranca el loop de observación
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.imageDir, 0o755); err != nil {
		return fmt.Errorf("error creando directorio de imágenes: %w", err)
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	go w.loop(ctx)

	logging.Info("✅ [Analysis] Pipeline de análisis iniciado",
		"dir", w.imageDir,
		"modelo", w.cfg.Model,
		"dashboard", w.cfg.DashboardURL,
		"throttle_s", w.cfg.Throttle)
	return nil
}

// Stop detiene el observador
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	logging.Info("🛑 [Analysis] Pipeline detenido")
}

// isRunning verifica si está corriendo (thread-safe)
func (w *Watcher) isRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// loop escanea el directorio periódicamente
func (w *Watcher) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(w.cfg.PollInterval * float64(time.Second)))
	defer ticker.Stop()

	for w.isRunning() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Las llamadas al API son I/O puro: se procesa el lote con un
		// poco de concurrencia, el limiter sigue marcando el paso
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(2)
		for _, path := range w.scan() {
			if !w.isRunning() {
				return
			}
			path := path
			group.Go(func() error {
				w.process(groupCtx, path)
				return nil
			})
		}
		_ = group.Wait()
	}
}

// scan retorna las imágenes nuevas del directorio, ordenadas por nombre
// (el nombre lleva la secuencia de captura)
func (w *Watcher) scan() []string {
	entries, err := os.ReadDir(w.imageDir)
	if err != nil {
		logging.Warn("⚠️  [Analysis] Error leyendo directorio de imágenes", "error", err)
		return nil
	}

	fresh := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".jpg") &&
			!strings.HasSuffix(name, ".jpeg") &&
			!strings.HasSuffix(name, ".png") {
			continue
		}

		path := filepath.Join(w.imageDir, entry.Name())
		if _, seen := w.processed.Get(path); seen {
			continue
		}
		fresh = append(fresh, path)
	}

	sort.Strings(fresh)
	return fresh
}

// process analiza una imagen nueva y envía el reporte al dashboard
func (w *Watcher) process(ctx context.Context, path string) {
	w.processed.Set(path, true, cache.NoExpiration)

	imageName := filepath.Base(path)
	logging.Info("🔍 [Analysis] Imagen nueva detectada", "imagen", imageName)

	// Respetar el rate limit del proveedor entre llamadas
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	report := w.analyzer.Analyze(path)

	risk := report.RiskAssessment.OverallRisk
	logging.Info("📋 [Analysis] Análisis completado",
		"imagen", imageName,
		"riesgo", risk,
		"defectos", len(report.DefectsFound),
		"confianza", report.ConfidenceScore)

	w.sendToDashboard(imageName, path, report)

	if w.bus != nil {
		w.bus.Publish(eventbus.Event{
			Type:      eventbus.EventAnalysis,
			Timestamp: time.Now(),
			Data: eventbus.AnalysisData{
				ImageName:   imageName,
				RiskLevel:   risk,
				DefectCount: len(report.DefectsFound),
				Confidence:  report.ConfidenceScore,
			},
		})
	}
}

// sendToDashboard postea el reporte al dashboard (fire-and-forget: si el
// dashboard no está, solo se loggea)
func (w *Watcher) sendToDashboard(imageName, imagePath string, report Report) {
	imageB64 := ""
	if raw, err := os.ReadFile(imagePath); err == nil {
		imageB64 = base64.StdEncoding.EncodeToString(raw)
	}

	payload := DashboardPayload{
		ImageName:   imageName,
		ImageBase64: imageB64,
		Timestamp:   time.Now().Format(time.RFC3339),
		Analysis:    report,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("❌ [Analysis] Error serializando payload", "error", err)
		return
	}

	resp, err := w.client.Post(w.cfg.DashboardURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logging.Warn("⚠️  [Analysis] Dashboard no alcanzable", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("⚠️  [Analysis] Dashboard respondió con error",
			"status", resp.StatusCode)
		return
	}

	logging.Info("📤 [Analysis] Reporte enviado al dashboard",
		"imagen", imageName,
		"riesgo", report.RiskAssessment.OverallRisk)
}
