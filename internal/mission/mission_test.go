package mission

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMissionFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("error escribiendo misión de prueba: %v", err)
	}
	return path
}

func TestLoadMission(t *testing.T) {
	path := writeMissionFile(t, t.TempDir(), "oficinas.yaml", `
name: Oficinas Centrales
description: Edificio de oficinas de tres pisos
building_length: 25.0
building_breadth: 18.0
building_height: 10.5
`)

	m, err := LoadMission(path)
	if err != nil {
		t.Fatalf("error cargando misión: %v", err)
	}
	if m.Name != "Oficinas Centrales" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Length != 25.0 || m.Breadth != 18.0 || m.Height != 10.5 {
		t.Errorf("dimensiones = %.1fx%.1fx%.1f", m.Length, m.Breadth, m.Height)
	}
}

func TestLoadMission_MissingFile(t *testing.T) {
	if _, err := LoadMission("/no/existe/mision.yaml"); err == nil {
		t.Fatal("se esperaba error con archivo inexistente")
	}
}

func TestLoadMission_InvalidDimensions(t *testing.T) {
	path := writeMissionFile(t, t.TempDir(), "rota.yaml", `
name: Rota
building_length: 20.0
building_breadth: -5.0
building_height: 8.0
`)

	if _, err := LoadMission(path); err == nil {
		t.Fatal("se esperaba error con breadth negativo")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mission Mission
		wantErr bool
	}{
		{"válida", Mission{Name: "m", Length: 20, Breadth: 10, Height: 8}, false},
		{"sin nombre", Mission{Length: 20, Breadth: 10, Height: 8}, true},
		{"length cero", Mission{Name: "m", Length: 0, Breadth: 10, Height: 8}, true},
		{"breadth negativo", Mission{Name: "m", Length: 20, Breadth: -1, Height: 8}, true},
		{"height cero", Mission{Name: "m", Length: 20, Breadth: 10, Height: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mission.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuiltin(t *testing.T) {
	m := Builtin("edificio_estandar")
	if m == nil {
		t.Fatal("edificio_estandar debería existir")
	}
	if m.Length != 20.0 || m.Breadth != 10.0 || m.Height != 8.0 {
		t.Errorf("edificio estándar = %.0fx%.0fx%.0f, se esperaba 20x10x8",
			m.Length, m.Breadth, m.Height)
	}

	if Builtin("bodega_industrial") == nil {
		t.Error("bodega_industrial debería existir")
	}
	if Builtin("torre_habitacional") == nil {
		t.Error("torre_habitacional debería existir")
	}
	if Builtin("no_existe") != nil {
		t.Error("un ID desconocido debe retornar nil")
	}

	for _, id := range []string{"edificio_estandar", "bodega_industrial", "torre_habitacional"} {
		if err := Builtin(id).Validate(); err != nil {
			t.Errorf("misión predefinida %s inválida: %v", id, err)
		}
	}
}

func TestDiscoverMissions(t *testing.T) {
	dir := t.TempDir()
	writeMissionFile(t, dir, "mi_edificio.yaml", "name: Mi Edificio\n")
	writeMissionFile(t, dir, "otra.yml", "name: Otra\n")
	writeMissionFile(t, dir, "notas.txt", "esto no es una misión\n")

	missions := DiscoverMissions(dir)

	builtins := 0
	yamls := make(map[string]MissionInfo)
	for _, m := range missions {
		switch m.Source {
		case "builtin":
			builtins++
		case "yaml":
			yamls[m.ID] = m
		}
	}

	if builtins != 3 {
		t.Errorf("builtins = %d, se esperaban 3", builtins)
	}
	if len(yamls) != 2 {
		t.Fatalf("misiones YAML = %d, se esperaban 2", len(yamls))
	}

	mi, ok := yamls["yaml_mi_edificio"]
	if !ok {
		t.Fatal("falta yaml_mi_edificio")
	}
	if !strings.HasSuffix(mi.FilePath, "mi_edificio.yaml") {
		t.Errorf("FilePath = %q", mi.FilePath)
	}
	if mi.Name != "mi edificio (YAML)" {
		t.Errorf("Name = %q", mi.Name)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeMissionFile(t, dir, "hangar_norte.yaml", `
name: Hangar Norte
building_length: 30.0
building_breadth: 20.0
building_height: 7.0
`)

	// ID builtin
	m, err := Resolve("torre_habitacional", dir)
	if err != nil {
		t.Fatalf("error resolviendo builtin: %v", err)
	}
	if m.Name != "Torre Habitacional" {
		t.Errorf("Name = %q", m.Name)
	}

	// ID descubierto en el directorio de misiones
	m, err = Resolve("yaml_hangar_norte", dir)
	if err != nil {
		t.Fatalf("error resolviendo misión descubierta: %v", err)
	}
	if m.Name != "Hangar Norte" || m.Length != 30.0 {
		t.Errorf("misión descubierta = %q (%.0fm)", m.Name, m.Length)
	}

	// Ruta directa a un YAML
	m, err = Resolve(filepath.Join(dir, "hangar_norte.yaml"), dir)
	if err != nil {
		t.Fatalf("error resolviendo por ruta: %v", err)
	}
	if m.Name != "Hangar Norte" {
		t.Errorf("Name = %q", m.Name)
	}

	// ID desconocido que tampoco es ruta
	if _, err := Resolve("no_existe", dir); err == nil {
		t.Fatal("un ID desconocido debe dar error")
	}
}

func TestDiscoverMissions_MissingDir(t *testing.T) {
	missions := DiscoverMissions(filepath.Join(t.TempDir(), "inexistente"))
	if len(missions) != 3 {
		t.Errorf("con directorio inexistente deben quedar solo las 3 predefinidas, hay %d", len(missions))
	}
}
