package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config es la estructura principal de configuración
type Config struct {
	DeviceID    string           `yaml:"device_id"`
	MissionsDir string           `yaml:"missions_dir"` // Directorio con misiones YAML descubribles
	Building    BuildingConfig   `yaml:"building"`
	Simulation  SimulationConfig `yaml:"simulation"`
	Capture     CaptureConfig    `yaml:"capture"`
	Analysis    AnalysisConfig   `yaml:"analysis"`
	Dashboard   DashboardConfig  `yaml:"dashboard"`
	MQTT        MQTTConfig       `yaml:"mqtt"`
	RabbitMQ    RabbitMQConfig   `yaml:"rabbitmq"`
	UI          UIConfig         `yaml:"ui"`
}

// BuildingConfig son las dimensiones del edificio a inspeccionar (metros).
// Si falta el archivo o algún valor, aplican los defaults (20 x 10 x 8).
type BuildingConfig struct {
	Length  float64 `yaml:"length"`
	Breadth float64 `yaml:"breadth"`
	Height  float64 `yaml:"height"`
}

type SimulationConfig struct {
	Timestep float64 `yaml:"timestep"` // Segundos por tick de simulación
	Speed    float64 `yaml:"speed"`    // Multiplicador de tiempo real (0 = tan rápido como se pueda)
	Headless bool    `yaml:"headless"` // Sin UI
}

type CaptureConfig struct {
	OutputDir   string `yaml:"output_dir"`   // Directorio observado por el análisis
	JPEGQuality int    `yaml:"jpeg_quality"` // Calidad fija de captura
}

type AnalysisConfig struct {
	Enabled      bool    `yaml:"enabled"`
	APIBaseURL   string  `yaml:"api_base_url"` // Endpoint compatible con chat completions
	APIKey       string  `yaml:"api_key"`      // Si está vacío se lee de VISION_API_KEY
	Model        string  `yaml:"model"`
	DashboardURL string  `yaml:"dashboard_url"` // Donde se postean los reportes
	PollInterval float64 `yaml:"poll_interval"` // Segundos entre escaneos del directorio
	Throttle     float64 `yaml:"throttle"`      // Segundos mínimos entre llamadas al API
	MaxRetries   int     `yaml:"max_retries"`
}

type DashboardConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Addr         string `yaml:"addr"`
	HistoryLimit int    `yaml:"history_limit"` // Máximo de reportes retenidos en memoria
}

// MQTTConfig configuración del publisher MQTT de telemetría
type MQTTConfig struct {
	Enabled         bool             `yaml:"enabled"`
	Broker          string           `yaml:"broker"`
	ClientID        string           `yaml:"client_id"`
	Username        string           `yaml:"username"`
	Password        string           `yaml:"password"`
	QoS             byte             `yaml:"qos"`
	Retain          bool             `yaml:"retain"`
	Topics          MQTTTopicsConfig `yaml:"topics"`
	PublishInterval float64          `yaml:"publish_interval"`
}

// MQTTTopicsConfig topics MQTT ({device_id} se sustituye al cargar)
type MQTTTopicsConfig struct {
	Telemetry string `yaml:"telemetry"`
	Phase     string `yaml:"phase"`
	Capture   string `yaml:"capture"`
	Status    string `yaml:"status"`
}

// RabbitMQConfig configuración del publisher de reportes por RabbitMQ
type RabbitMQConfig struct {
	Enabled      bool                `yaml:"enabled"`
	Host         string              `yaml:"host"`
	Port         int                 `yaml:"port"`
	Username     string              `yaml:"username"`
	Password     string              `yaml:"password"`
	VHost        string              `yaml:"vhost"`
	Exchange     string              `yaml:"exchange"`
	ExchangeType string              `yaml:"exchange_type"`
	RoutingKeys  RabbitMQRoutingKeys `yaml:"routing_keys"`
}

// RabbitMQRoutingKeys routing keys para RabbitMQ
type RabbitMQRoutingKeys struct {
	Analysis string `yaml:"analysis"`
	Capture  string `yaml:"capture"`
}

type UIConfig struct {
	Window WindowConfig `yaml:"window"`
	FPS    int          `yaml:"fps"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LoadConfig carga la configuración desde un archivo YAML
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error leyendo config: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("error parseando YAML: %w", err)
	}

	// Valores ausentes caen a los defaults (silencioso, no es error)
	config.applyDefaults()

	// Reemplazar {device_id} en topics y títulos
	config = replaceDeviceIDPlaceholders(config)

	return &config, nil
}

// applyDefaults rellena los campos ausentes con los valores por defecto
func (c *Config) applyDefaults() {
	def := Default()

	if c.DeviceID == "" {
		c.DeviceID = def.DeviceID
	}
	if c.MissionsDir == "" {
		c.MissionsDir = def.MissionsDir
	}
	if c.Building.Length <= 0 {
		c.Building.Length = def.Building.Length
	}
	if c.Building.Breadth <= 0 {
		c.Building.Breadth = def.Building.Breadth
	}
	if c.Building.Height <= 0 {
		c.Building.Height = def.Building.Height
	}
	if c.Simulation.Timestep <= 0 {
		c.Simulation.Timestep = def.Simulation.Timestep
	}
	if c.Capture.OutputDir == "" {
		c.Capture.OutputDir = def.Capture.OutputDir
	}
	if c.Capture.JPEGQuality <= 0 {
		c.Capture.JPEGQuality = def.Capture.JPEGQuality
	}
	if c.Analysis.PollInterval <= 0 {
		c.Analysis.PollInterval = def.Analysis.PollInterval
	}
	if c.Analysis.Throttle <= 0 {
		c.Analysis.Throttle = def.Analysis.Throttle
	}
	if c.Analysis.MaxRetries <= 0 {
		c.Analysis.MaxRetries = def.Analysis.MaxRetries
	}
	if c.Analysis.DashboardURL == "" {
		c.Analysis.DashboardURL = def.Analysis.DashboardURL
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = def.Analysis.Model
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = def.Dashboard.Addr
	}
	if c.Dashboard.HistoryLimit <= 0 {
		c.Dashboard.HistoryLimit = def.Dashboard.HistoryLimit
	}
	if c.UI.Window.Width <= 0 {
		c.UI.Window.Width = def.UI.Window.Width
	}
	if c.UI.Window.Height <= 0 {
		c.UI.Window.Height = def.UI.Window.Height
	}
	if c.UI.Window.Title == "" {
		c.UI.Window.Title = def.UI.Window.Title
	}
	if c.UI.FPS <= 0 {
		c.UI.FPS = def.UI.FPS
	}
}

// replaceDeviceIDPlaceholders reemplaza {{device_id}} y {device_id} en strings
func replaceDeviceIDPlaceholders(config Config) Config {
	deviceID := config.DeviceID

	config.UI.Window.Title = strings.ReplaceAll(
		config.UI.Window.Title, "{{device_id}}", deviceID)

	config.MQTT.Topics.Telemetry = strings.ReplaceAll(
		config.MQTT.Topics.Telemetry, "{device_id}", deviceID)
	config.MQTT.Topics.Phase = strings.ReplaceAll(
		config.MQTT.Topics.Phase, "{device_id}", deviceID)
	config.MQTT.Topics.Capture = strings.ReplaceAll(
		config.MQTT.Topics.Capture, "{device_id}", deviceID)
	config.MQTT.Topics.Status = strings.ReplaceAll(
		config.MQTT.Topics.Status, "{device_id}", deviceID)

	config.RabbitMQ.RoutingKeys.Analysis = strings.ReplaceAll(
		config.RabbitMQ.RoutingKeys.Analysis, "{device_id}", deviceID)
	config.RabbitMQ.RoutingKeys.Capture = strings.ReplaceAll(
		config.RabbitMQ.RoutingKeys.Capture, "{device_id}", deviceID)

	return config
}

// Default devuelve la configuración por defecto si no se puede cargar el archivo
func Default() *Config {
	return &Config{
		DeviceID:    "MAVIC-DEFAULT",
		MissionsDir: "missions",
		Building: BuildingConfig{
			Length:  20.0,
			Breadth: 10.0,
			Height:  8.0,
		},
		Simulation: SimulationConfig{
			Timestep: 0.008, // 8ms, timestep típico de Webots
			Speed:    1.0,
			Headless: false,
		},
		Capture: CaptureConfig{
			OutputDir:   "inspection_images",
			JPEGQuality: 80,
		},
		Analysis: AnalysisConfig{
			Enabled:      false,
			APIBaseURL:   "https://api.groq.com/openai/v1",
			Model:        "meta-llama/llama-4-scout-17b-16e-instruct",
			DashboardURL: "http://localhost:5000/api/analysis",
			PollInterval: 1.0,
			Throttle:     3.0,
			MaxRetries:   5,
		},
		Dashboard: DashboardConfig{
			Enabled:      true,
			Addr:         ":5000",
			HistoryLimit: 500,
		},
		MQTT: MQTTConfig{
			Enabled:         false,
			Broker:          "tcp://localhost:1883",
			ClientID:        "drone-inspector",
			QoS:             1,
			Retain:          false,
			PublishInterval: 1.0,
			Topics: MQTTTopicsConfig{
				Telemetry: "drone/{device_id}/telemetry",
				Phase:     "drone/{device_id}/phase",
				Capture:   "drone/{device_id}/capture",
				Status:    "drone/{device_id}/status",
			},
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:      false,
			Host:         "localhost",
			Port:         5672,
			Username:     "guest",
			Password:     "guest",
			VHost:        "/",
			Exchange:     "amq.topic",
			ExchangeType: "topic",
			RoutingKeys: RabbitMQRoutingKeys{
				Analysis: "drone.{device_id}.analysis",
				Capture:  "drone.{device_id}.capture",
			},
		},
		UI: UIConfig{
			Window: WindowConfig{
				Width:  1280,
				Height: 720,
				Title:  "Inspección de Edificio - {{device_id}}",
			},
			FPS: 60,
		},
	}
}
