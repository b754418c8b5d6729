package mission

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// MissionInfo contiene información de una misión disponible
type MissionInfo struct {
	ID       string // "edificio_estandar", "mi_edificio_custom"
	Name     string // "Edificio Estándar", "Mi Edificio Custom"
	Source   string // "builtin" o "yaml"
	FilePath string // Ruta al archivo YAML (si es yaml)
}

// DiscoverMissions encuentra todas las misiones disponibles:
// las predefinidas más los archivos YAML del directorio dado
func DiscoverMissions(yamlDir string) []MissionInfo {
	missions := []MissionInfo{
		{ID: "edificio_estandar", Name: "Edificio Estándar", Source: "builtin"},
		{ID: "bodega_industrial", Name: "Bodega Industrial", Source: "builtin"},
		{ID: "torre_habitacional", Name: "Torre Habitacional", Source: "builtin"},
	}

	if yamlDir != "" {
		missions = append(missions, discoverYAMLMissions(yamlDir)...)
	}

	return missions
}

// Resolve encuentra una misión a partir de un ID: primero las predefinidas,
// luego las descubiertas en el directorio de misiones, y como último recurso
// trata el ID como ruta directa a un archivo YAML
func Resolve(id string, yamlDir string) (*Mission, error) {
	if builtin := Builtin(id); builtin != nil {
		return builtin, nil
	}

	for _, info := range DiscoverMissions(yamlDir) {
		if info.Source == "yaml" && info.ID == id {
			return LoadMission(info.FilePath)
		}
	}

	return LoadMission(id)
}

// discoverYAMLMissions busca archivos .yaml/.yml en un directorio
func discoverYAMLMissions(dir string) []MissionInfo {
	missions := make([]MissionInfo, 0)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return missions
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		logging.Warn("⚠️  [Mission] Error leyendo directorio de misiones",
			"dir", dir, "error", err)
		return missions
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		baseName := strings.TrimSuffix(file.Name(), ext)
		name := strings.ReplaceAll(baseName, "_", " ")

		missions = append(missions, MissionInfo{
			ID:       "yaml_" + baseName,
			Name:     name + " (YAML)",
			Source:   "yaml",
			FilePath: filepath.Join(dir, file.Name()),
		})

		logging.Info("📄 [Mission] Misión YAML detectada",
			"nombre", name, "archivo", file.Name())
	}

	return missions
}
