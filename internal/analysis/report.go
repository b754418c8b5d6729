package analysis

// Report es el reporte estructurado que retorna el modelo de visión para
// una imagen de inspección
type Report struct {
	ImageDescription   string           `json:"image_description"`
	StructuralElements []string         `json:"structural_elements"`
	DefectsFound       []Defect         `json:"defects_found"`
	SurfaceCondition   SurfaceCondition `json:"surface_condition"`
	RiskAssessment     RiskAssessment   `json:"risk_assessment"`
	ConfidenceScore    float64          `json:"confidence_score"`
}

// Defect es un defecto individual encontrado en la imagen
type Defect struct {
	Type        string `json:"type"`     // crack, spalling, corrosion, ...
	Severity    string `json:"severity"` // Low | Medium | High | Critical
	Location    string `json:"location"`
	Description string `json:"description"`
}

// SurfaceCondition es la evaluación del estado superficial
type SurfaceCondition struct {
	Overall          string `json:"overall"` // Good | Fair | Poor | Critical
	PaintCondition   string `json:"paint_condition"`
	MoistureSigns    string `json:"moisture_signs"`
	BiologicalGrowth string `json:"biological_growth"`
}

// RiskAssessment es la evaluación de riesgo del tramo inspeccionado
type RiskAssessment struct {
	OverallRisk         string   `json:"overall_risk"` // Low | Medium | High | Critical
	StructuralIntegrity string   `json:"structural_integrity"`
	ImmediateConcerns   []string `json:"immediate_concerns"`
	RecommendedActions  []string `json:"recommended_actions"`
}

// DashboardPayload es lo que se postea al dashboard por cada imagen analizada
type DashboardPayload struct {
	ImageName   string `json:"image_name"`
	ImageBase64 string `json:"image_base64"`
	Timestamp   string `json:"timestamp"`
	Analysis    Report `json:"analysis"`
}

// fallbackReport construye un reporte degradado cuando el análisis falla
func fallbackReport(description, integrity string) Report {
	return Report{
		ImageDescription: description,
		DefectsFound:     []Defect{},
		SurfaceCondition: SurfaceCondition{Overall: "Unknown"},
		RiskAssessment: RiskAssessment{
			OverallRisk:         "Unknown",
			StructuralIntegrity: integrity,
			ImmediateConcerns:   []string{},
			RecommendedActions:  []string{"Re-inspect this area"},
		},
		ConfidenceScore: 0.0,
	}
}
