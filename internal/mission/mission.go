package mission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mission describe una inspección: el edificio a recorrer y sus metadatos
type Mission struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Length      float64 `yaml:"building_length"`  // metros
	Breadth     float64 `yaml:"building_breadth"` // metros
	Height      float64 `yaml:"building_height"`  // metros
}

// LoadMission carga una misión desde un archivo YAML
func LoadMission(filename string) (*Mission, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error leyendo misión: %w", err)
	}

	var m Mission
	err = yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("error parseando YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("misión inválida: %w", err)
	}

	return &m, nil
}

// Validate valida que la misión sea correcta: las tres dimensiones deben
// ser positivas
func (m *Mission) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("la misión debe tener un nombre")
	}
	if m.Length <= 0 {
		return fmt.Errorf("building_length debe ser positivo (%.1f)", m.Length)
	}
	if m.Breadth <= 0 {
		return fmt.Errorf("building_breadth debe ser positivo (%.1f)", m.Breadth)
	}
	if m.Height <= 0 {
		return fmt.Errorf("building_height debe ser positivo (%.1f)", m.Height)
	}
	return nil
}

// String implementa fmt.Stringer
func (m *Mission) String() string {
	return fmt.Sprintf("Misión: %s (edificio %.0fx%.0fx%.0fm)",
		m.Name, m.Length, m.Breadth, m.Height)
}
