package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQPublisher publica los reportes de inspección a RabbitMQ
type RabbitMQPublisher struct {
	config   config.RabbitMQConfig
	deviceID string
	channel  *amqp.Channel
	bus      *eventbus.EventBus

	// Estado
	mu        sync.RWMutex
	running   bool
	connected bool

	// Channels
	analysisEvents chan eventbus.Event
	captureEvents  chan eventbus.Event
}

// NewRabbitMQPublisher crea un nuevo publicador RabbitMQ con canal compartido
func NewRabbitMQPublisher(ch *amqp.Channel, cfg config.RabbitMQConfig, deviceID string, bus *eventbus.EventBus) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		config:         cfg,
		deviceID:       deviceID,
		channel:        ch,
		bus:            bus,
		running:        false,
		connected:      true,
		analysisEvents: make(chan eventbus.Event, 10),
		captureEvents:  make(chan eventbus.Event, 10),
	}
}

// Start inicia el publicador
func (p *RabbitMQPublisher) Start() error {
	if !p.config.Enabled {
		fmt.Println("ℹ️  [RabbitMQ] Deshabilitado en configuración")
		return nil
	}

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()

	if p.channel == nil {
		return fmt.Errorf("canal RabbitMQ no inicializado")
	}

	fmt.Println("✅ [RabbitMQ] Publicador iniciado")
	fmt.Printf("📤 [RabbitMQ] Exchange: %s (type: %s)\n", p.config.Exchange, p.config.ExchangeType)
	fmt.Printf("🔑 [RabbitMQ] Device ID: %s\n", p.deviceID)

	// Suscribirse a eventos del bus
	p.subscribeToEvents()

	// Iniciar loop de publicación
	go p.publishLoop()

	return nil
}

// Stop detiene el publicador
func (p *RabbitMQPublisher) Stop() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	fmt.Printf("🛑 [RabbitMQ] Publicador detenido (%s)\n", p.deviceID)
}

// subscribeToEvents suscribe a eventos del bus
func (p *RabbitMQPublisher) subscribeToEvents() {
	// Reportes de análisis
	analysisChannel := p.bus.Subscribe(eventbus.EventAnalysis)
	go func() {
		for event := range analysisChannel {
			if p.isRunning() {
				select {
				case p.analysisEvents <- event:
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

// publishLoop despacha los eventos del bus hacia RabbitMQ
func (p *RabbitMQPublisher) publishLoop() {
	// El ticker garantiza que el loop revise running aunque no lleguen eventos
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for p.isRunning() {
		select {
		case analysisEvent := <-p.analysisEvents:
			p.handleAnalysis(analysisEvent)

		case captureEvent := <-p.captureEvents:
			p.handleCapture(captureEvent)

		case <-ticker.C:
		}
	}
}

// handleAnalysis publica reportes de análisis estructural
func (p *RabbitMQPublisher) handleAnalysis(event eventbus.Event) {
	data := event.Data.(eventbus.AnalysisData)

	routingKey := p.config.RoutingKeys.Analysis

	payload := map[string]interface{}{
		"timestamp":    time.Now().Unix(),
		"device_id":    p.deviceID,
		"sensor_type":  "STRUCTURAL_ANALYSIS",
		"image_name":   data.ImageName,
		"risk_level":   data.RiskLevel,
		"defect_count": data.DefectCount,
		"confidence":   data.Confidence,
	}

	p.publish(routingKey, payload)
}

// handleCapture publica cada imagen persistida
func (p *RabbitMQPublisher) handleCapture(event eventbus.Event) {
	data := event.Data.(eventbus.CaptureSavedData)

	routingKey := p.config.RoutingKeys.Capture

	payload := map[string]interface{}{
		"timestamp":   time.Now().Unix(),
		"device_id":   p.deviceID,
		"sensor_type": "INSPECTION_CAMERA",
		"seq":         data.Seq,
		"filename":    data.Filename,
	}

	p.publish(routingKey, payload)
}

// publish publica un mensaje a RabbitMQ
func (p *RabbitMQPublisher) publish(routingKey string, payload interface{}) {
	if !p.isConnected() {
		return
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("⚠️  [RabbitMQ] Error serializando JSON: %v\n", err)
		return
	}

	p.mu.RLock()
	channel := p.channel
	exchange := p.config.Exchange
	p.mu.RUnlock()

	if channel == nil {
		return
	}

	err = channel.Publish(
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jsonData,
			Timestamp:   time.Now(),
		},
	)

	if err != nil {
		fmt.Printf("⚠️  [RabbitMQ] Error publicando a %s: %v\n", routingKey, err)
		p.mu.Lock()
		p.connected = false
		p.mu.Unlock()
	}
}

// isRunning verifica si está corriendo
func (p *RabbitMQPublisher) isRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// isConnected verifica si está conectado
func (p *RabbitMQPublisher) isConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected
}

// ConnectRabbitMQ establece conexión a RabbitMQ y retorna la conexión
func ConnectRabbitMQ(cfg config.RabbitMQConfig) (*amqp.Connection, error) {
	url := fmt.Sprintf(
		"amqp://%s:%s@%s:%d/%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.VHost,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error conectando a RabbitMQ: %w", err)
	}

	return conn, nil
}
