package eventbus

import "time"

// ========================================
// TIPOS DE EVENTOS
// ========================================

type EventType string

const (
	EventTelemetry    EventType = "telemetry"     // Estado de vuelo por tick
	EventPhase        EventType = "phase"         // Cambio de fase de vuelo
	EventCapture      EventType = "capture"       // Captura disparada (con frame)
	EventCaptureSaved EventType = "capture_saved" // Imagen persistida en disco
	EventAnalysis     EventType = "analysis"      // Reporte de análisis completado
)

// ========================================
// EVENTO GENÉRICO
// ========================================

type Event struct {
	Type      EventType
	Timestamp time.Time
	Data      interface{}
}

// ========================================
// TELEMETRÍA DE VUELO
// ========================================

type TelemetryData struct {
	SimTime float64 // Tiempo de simulación (s)
	Phase   string  // Fase de vuelo actual

	// Actitud (radianes)
	Roll  float64
	Pitch float64
	Yaw   float64

	// Posición absoluta (metros)
	X        float64
	Y        float64
	Altitude float64

	// Navegación
	TargetHeading  float64 // Rumbo comandado (rad)
	TargetAltitude float64 // Altitud de crucero (m)
	SideIndex      int     // Lado activo del rectángulo (0..3)

	// Comandos de rotor del tick (rad/s)
	Motors [4]float64

	// Capturas acumuladas en todo el vuelo
	CapturesTotal int
}

// ========================================
// CAMBIO DE FASE
// ========================================

type PhaseData struct {
	Phase    string  // Fase nueva
	SimTime  float64 // Tiempo de simulación al cambiar
	Altitude float64 // Altitud al cambiar
}

// ========================================
// CAPTURAS DE IMAGEN
// ========================================

// CaptureData es la solicitud de captura emitida por el controlador.
// Frame contiene el JPEG actual de la cámara; el sink lo persiste.
type CaptureData struct {
	Seq      int     // Secuencia global, monotónica
	Side     int     // Lado del rectángulo (0..3)
	Distance float64 // Distancia recorrida en el lado (m)
	Frame    []byte  // JPEG de la cámara
}

// CaptureSavedData la emite el sink al escribir la imagen a disco
type CaptureSavedData struct {
	Seq      int
	Filename string // Ruta del archivo escrito
}

// ========================================
// ANÁLISIS ESTRUCTURAL
// ========================================

// AnalysisData la emite el pipeline de análisis al completar un reporte
type AnalysisData struct {
	ImageName   string
	RiskLevel   string  // Low | Medium | High | Critical
	DefectCount int     // Cantidad de defectos encontrados
	Confidence  float64 // Confianza del modelo (0..1)
}
