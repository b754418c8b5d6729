package analysis

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// analysisPrompt instruye al modelo de visión a producir el reporte JSON.
// El prompt va en inglés: es el idioma con el que el modelo rinde mejor.
const analysisPrompt = `You are a senior structural engineer preparing a professional building inspection report. This photograph was taken by an inspection drone during a scheduled exterior structural survey.

IMPORTANT INSTRUCTIONS:
- Treat this as a real photograph from a real building inspection. Do NOT comment on image quality or whether the image appears synthetic. Your job is structural analysis only.
- Be thorough and critical. Look for subtle signs of wear, aging, weathering, and potential structural issues.
- Identify AT LEAST one area of concern or maintenance recommendation, even if the structure appears generally sound.

Return a JSON object with exactly this structure:

{
  "image_description": "...",
  "structural_elements": ["..."],
  "defects_found": [
    {"type": "...", "severity": "Low | Medium | High | Critical", "location": "...", "description": "..."}
  ],
  "surface_condition": {
    "overall": "Good | Fair | Poor | Critical",
    "paint_condition": "...",
    "moisture_signs": "...",
    "biological_growth": "..."
  },
  "risk_assessment": {
    "overall_risk": "Low | Medium | High | Critical",
    "structural_integrity": "...",
    "immediate_concerns": ["..."],
    "recommended_actions": ["..."]
  },
  "confidence_score": 0.85
}`

const defaultRetryDelay = 10 * time.Second

// Analyzer llama al API de visión (chat completions) para analizar imágenes
type Analyzer struct {
	cfg    config.AnalysisConfig
	apiKey string
	client *http.Client

	// sleep es reemplazable en tests
	sleep func(time.Duration)
}

// NewAnalyzer crea el cliente de análisis. El API key sale de la config o de
// la variable de entorno VISION_API_KEY.
func NewAnalyzer(cfg config.AnalysisConfig) *Analyzer {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("VISION_API_KEY")
	}

	return &Analyzer{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
		sleep:  time.Sleep,
	}
}

// ========================================
// REQUEST/RESPONSE DEL API (chat completions)
// ========================================

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_completion_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze envía una imagen al modelo de visión y retorna el reporte.
// Reintenta con backoff ante rate limits (429); ante fallas de parseo o
// agotamiento de reintentos retorna un reporte degradado, nunca error:
// el pipeline no debe detenerse por una imagen.
func (a *Analyzer) Analyze(imagePath string) Report {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		logging.Error("❌ [Analysis] Error leyendo imagen", "archivo", imagePath, "error", err)
		return fallbackReport("Image read failed", "Unable to read image")
	}

	imageB64 := base64.StdEncoding.EncodeToString(raw)
	mime := mimeForExt(filepath.Ext(imagePath))

	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		text, err := a.callAPI(imageB64, mime)
		if err != nil {
			if isRateLimit(err) && attempt < a.cfg.MaxRetries {
				delay := parseRetryDelay(err.Error()) + 2*time.Second
				logging.Warn("⏳ [Analysis] Rate limit, esperando para reintentar",
					"intento", attempt,
					"max", a.cfg.MaxRetries,
					"espera", delay.String())
				a.sleep(delay)
				continue
			}
			logging.Error("❌ [Analysis] Falló la llamada al API de visión", "error", err)
			return fallbackReport(
				fmt.Sprintf("Analysis error: %.200s", err.Error()),
				"Analysis failed")
		}

		report, err := parseReport(text)
		if err != nil {
			logging.Warn("⚠️  [Analysis] Respuesta no parseable como JSON",
				"error", err,
				"crudo", truncate(text, 500))
			return fallbackReport("Analysis parsing failed", "Unable to parse response")
		}
		return report
	}

	return fallbackReport("Max retries exceeded", "Retries exhausted")
}

// callAPI hace el POST al endpoint de chat completions y retorna el texto
// de la primera respuesta
func (a *Analyzer) callAPI(imageB64, mime string) (string, error) {
	reqBody := chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: analysisPrompt},
					{
						Type: "image_url",
						ImageURL: &imageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", mime, imageB64),
						},
					},
				},
			},
		},
		Temperature:    0.2,
		MaxTokens:      2048,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST",
		strings.TrimRight(a.cfg.APIBaseURL, "/")+"/chat/completions",
		bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body.String(), 300))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("respuesta sin choices")
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// parseReport parsea la respuesta del modelo, quitando fences de markdown
// si vienen (red de seguridad)
func parseReport(text string) (Report, error) {
	text = stripCodeFences(text)

	var report Report
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// stripCodeFences quita ```json ... ``` si el modelo envolvió la respuesta
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

var (
	retryAfterRe = regexp.MustCompile(`(?i)retry.after[:\s]*([\d.]+)`)
	tryAgainRe   = regexp.MustCompile(`(?i)try again in ([\d.]+)s`)
)

// parseRetryDelay intenta extraer los segundos de espera de un error 429
func parseRetryDelay(errMessage string) time.Duration {
	if m := retryAfterRe.FindStringSubmatch(errMessage); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	if m := tryAgainRe.FindStringSubmatch(errMessage); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return defaultRetryDelay
}

// isRateLimit detecta errores de rate limit / cuota
func isRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate") ||
		strings.Contains(msg, "quota")
}

// mimeForExt retorna el MIME type según la extensión del archivo
func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// truncate corta un string a n caracteres como máximo
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
