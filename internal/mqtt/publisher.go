package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher publica la telemetría de vuelo a MQTT
type Publisher struct {
	config   config.MQTTConfig
	deviceID string
	client   mqtt.Client
	bus      *eventbus.EventBus

	// Estado
	mu            sync.RWMutex
	running       bool
	connected     bool
	lastTelemetry eventbus.TelemetryData
	hasTelemetry  bool

	// Channels
	telemetryEvents chan eventbus.Event
	phaseEvents     chan eventbus.Event
	captureEvents   chan eventbus.Event
}

// NewPublisher crea un nuevo publicador MQTT
func NewPublisher(cfg config.MQTTConfig, deviceID string, bus *eventbus.EventBus) *Publisher {
	return &Publisher{
		config:          cfg,
		deviceID:        deviceID,
		bus:             bus,
		running:         false,
		connected:       false,
		telemetryEvents: make(chan eventbus.Event, 10),
		phaseEvents:     make(chan eventbus.Event, 10),
		captureEvents:   make(chan eventbus.Event, 10),
	}
}

// Start inicia el publicador
func (p *Publisher) Start() error {
	if !p.config.Enabled {
		fmt.Println("ℹ️  [MQTT] Deshabilitado en configuración")
		return nil
	}

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()

	// Configurar cliente MQTT
	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.config.Broker)
	opts.SetClientID(p.config.ClientID)

	if p.config.Username != "" {
		opts.SetUsername(p.config.Username)
		opts.SetPassword(p.config.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(1 * time.Minute)

	// Callbacks
	opts.SetOnConnectHandler(p.onConnect)
	opts.SetConnectionLostHandler(p.onConnectionLost)

	p.client = mqtt.NewClient(opts)

	// Conectar
	fmt.Printf("📡 [MQTT] Conectando a %s...\n", p.config.Broker)

	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("error conectando a MQTT: %w", token.Error())
	}

	// Suscribirse a eventos del bus
	p.subscribeToEvents()

	// Iniciar publicación periódica
	go p.publishLoop()

	return nil
}

// Stop detiene el publicador
func (p *Publisher) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	if p.client != nil && p.client.IsConnected() {
		// Publicar mensaje de desconexión
		p.publishStatus("offline")

		p.client.Disconnect(250)
		fmt.Println("🛑 [MQTT] Desconectado")
	}
}

// onConnect callback cuando se conecta
func (p *Publisher) onConnect(client mqtt.Client) {
	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()

	fmt.Println("✅ [MQTT] Conectado exitosamente")

	// Publicar mensaje de conexión
	p.publishStatus("online")
}

// onConnectionLost callback cuando se pierde conexión
func (p *Publisher) onConnectionLost(client mqtt.Client, err error) {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	fmt.Printf("⚠️  [MQTT] Conexión perdida: %v\n", err)
	fmt.Println("🔄 [MQTT] Intentando reconectar...")
}

// subscribeToEvents suscribe a eventos del bus
func (p *Publisher) subscribeToEvents() {
	// Telemetría
	telemetryChannel := p.bus.Subscribe(eventbus.EventTelemetry)
	go func() {
		for event := range telemetryChannel {
			if p.isRunning() {
				select {
				case p.telemetryEvents <- event:
				default:
				}
			}
		}
	}()

	// Fases de vuelo
	phaseChannel := p.bus.Subscribe(eventbus.EventPhase)
	go func() {
		for event := range phaseChannel {
			if p.isRunning() {
				select {
				case p.phaseEvents <- event:
				default:
				}
			}
		}
	}()

	// Capturas guardadas
	captureChannel := p.bus.Subscribe(eventbus.EventCaptureSaved)
	go func() {
		for event := range captureChannel {
			if p.isRunning() {
				select {
				case p.captureEvents <- event:
				default:
				}
			}
		}
	}()
}

// publishLoop publica periódicamente
func (p *Publisher) publishLoop() {
	ticker := time.NewTicker(time.Duration(p.config.PublishInterval * float64(time.Second)))
	defer ticker.Stop()

	for p.isRunning() {
		select {
		case telemetryEvent := <-p.telemetryEvents:
			p.handleTelemetry(telemetryEvent)

		case phaseEvent := <-p.phaseEvents:
			p.handlePhase(phaseEvent)

		case captureEvent := <-p.captureEvents:
			p.handleCapture(captureEvent)

		case <-ticker.C:
			// La telemetría va coalescida: se publica el último estado
			// conocido cada intervalo, no cada tick de simulación
			p.publishTelemetry()
		}
	}
}

// handleTelemetry retiene la telemetría más reciente
func (p *Publisher) handleTelemetry(event eventbus.Event) {
	data := event.Data.(eventbus.TelemetryData)

	p.mu.Lock()
	p.lastTelemetry = data
	p.hasTelemetry = true
	p.mu.Unlock()
}

// handlePhase publica cambios de fase de inmediato
func (p *Publisher) handlePhase(event eventbus.Event) {
	data := event.Data.(eventbus.PhaseData)

	payload := map[string]interface{}{
		"device_id": p.deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"phase":     data.Phase,
		"sim_time":  data.SimTime,
		"altitude":  data.Altitude,
	}

	p.publish(p.config.Topics.Phase, payload)
}

// handleCapture publica capturas guardadas de inmediato
func (p *Publisher) handleCapture(event eventbus.Event) {
	data := event.Data.(eventbus.CaptureSavedData)

	payload := map[string]interface{}{
		"device_id": p.deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"seq":       data.Seq,
		"filename":  data.Filename,
	}

	p.publish(p.config.Topics.Capture, payload)
}

// publishTelemetry publica el último estado de vuelo conocido
func (p *Publisher) publishTelemetry() {
	p.mu.RLock()
	if !p.hasTelemetry {
		p.mu.RUnlock()
		return
	}
	telemetry := p.lastTelemetry
	p.mu.RUnlock()

	payload := map[string]interface{}{
		"device_id": p.deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sim_time":  telemetry.SimTime,
		"phase":     telemetry.Phase,
		"attitude": map[string]interface{}{
			"roll":  telemetry.Roll,
			"pitch": telemetry.Pitch,
			"yaw":   telemetry.Yaw,
		},
		"position": map[string]interface{}{
			"x":        telemetry.X,
			"y":        telemetry.Y,
			"altitude": telemetry.Altitude,
		},
		"navigation": map[string]interface{}{
			"target_heading":  telemetry.TargetHeading,
			"target_altitude": telemetry.TargetAltitude,
			"side_index":      telemetry.SideIndex,
		},
		"captures_total": telemetry.CapturesTotal,
	}

	p.publish(p.config.Topics.Telemetry, payload)
}

// publishStatus publica estado de conexión
func (p *Publisher) publishStatus(status string) {
	payload := map[string]interface{}{
		"device_id": p.deviceID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
	}

	p.publish(p.config.Topics.Status, payload)
}

// publish publica un mensaje MQTT
func (p *Publisher) publish(topic string, payload interface{}) {
	if !p.isConnected() {
		return
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("⚠️  [MQTT] Error serializando JSON: %v\n", err)
		return
	}

	token := p.client.Publish(topic, p.config.QoS, p.config.Retain, jsonData)
	token.Wait()

	if token.Error() != nil {
		fmt.Printf("⚠️  [MQTT] Error publicando a %s: %v\n", topic, token.Error())
	}
}

// isRunning verifica si está corriendo
func (p *Publisher) isRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// isConnected verifica si está conectado
func (p *Publisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}
