package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MarcosBrindi/drone-inspector/internal/analysis"
	"github.com/MarcosBrindi/drone-inspector/internal/capture"
	"github.com/MarcosBrindi/drone-inspector/internal/config"
	"github.com/MarcosBrindi/drone-inspector/internal/dashboard"
	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/flight"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
	"github.com/MarcosBrindi/drone-inspector/internal/metrics"
	"github.com/MarcosBrindi/drone-inspector/internal/mission"
	"github.com/MarcosBrindi/drone-inspector/internal/mqtt"
	"github.com/MarcosBrindi/drone-inspector/internal/sim"
	"github.com/MarcosBrindi/drone-inspector/internal/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Ruta del archivo de configuración")
	missionID := flag.String("mission", "", "Misión a volar: id builtin, id descubierto o ruta de un YAML")
	listMissions := flag.Bool("missions", false, "Lista las misiones disponibles y sale")
	headless := flag.Bool("headless", false, "Corre sin ventana (solo simulación y pipeline)")
	flag.Parse()

	fmt.Println("=== INSPECTOR AUTÓNOMO DE EDIFICIOS ===")
	fmt.Println()

	// Logging estructurado
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("❌ Error inicializando logger: %v", err)
	}
	defer logging.Close()

	// Cargar configuración
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error cargando config: %v\n", err)
		fmt.Println("Usando configuración por defecto")
		cfg = config.Default()
	}
	if *headless {
		cfg.Simulation.Headless = true
	}

	if *listMissions {
		printMissions(cfg.MissionsDir)
		return
	}

	fmt.Printf("Device ID: %s\n", cfg.DeviceID)
	fmt.Println()

	// Resolver la misión: flag > config
	flightMission := resolveMission(*missionID, cfg)
	if err := flightMission.Validate(); err != nil {
		logging.Fatal("❌ Misión inválida", "error", err)
	}
	fmt.Printf("🏢 %s\n", flightMission)
	fmt.Println()

	// Event Bus
	bus := eventbus.NewEventBus()
	defer bus.Close()

	// Contexto raíz cancelado por señal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Plataforma simulada y lazo de control
	plan := flight.NewInspectionPlan(flightMission.Length, flightMission.Breadth, flightMission.Height)
	platform := sim.NewPlatform(flight.DefaultGains(), cfg.Capture.JPEGQuality)
	controller := flight.NewController(platform, plan, bus)
	runner := sim.NewRunner(platform, controller, cfg.Simulation.Timestep, cfg.Simulation.Speed)

	// Persistencia de capturas
	sink := capture.NewSink(bus, cfg.Capture.OutputDir)
	if err := sink.Start(); err != nil {
		logging.Fatal("❌ Error iniciando sink de capturas", "error", err)
	}

	// Dashboard web (historial + SSE + métricas)
	var dashboardServer *dashboard.Server
	if cfg.Dashboard.Enabled {
		metricsReg := metrics.NewMetricsRegistry()
		dashboardServer = dashboard.NewServer(cfg.Dashboard, metricsReg)
		if err := dashboardServer.Start(); err != nil {
			logging.Fatal("❌ Error iniciando dashboard", "error", err)
		}
	}

	// Pipeline de análisis estructural
	var watcher *analysis.Watcher
	if cfg.Analysis.Enabled {
		watcher = analysis.NewWatcher(cfg.Analysis, cfg.Capture.OutputDir, bus)
		if err := watcher.Start(ctx); err != nil {
			logging.Fatal("❌ Error iniciando pipeline de análisis", "error", err)
		}
	}

	// Publisher MQTT (telemetría hacia el broker)
	mqttPublisher := mqtt.NewPublisher(cfg.MQTT, cfg.DeviceID, bus)
	if err := mqttPublisher.Start(); err != nil {
		// El vuelo no depende del broker: se continúa sin telemetría externa
		logging.Warn("⚠️  MQTT no disponible, continuando sin telemetría externa", "error", err)
	}

	// Publisher RabbitMQ (reportes de inspección)
	var rabbitPublisher *mqtt.RabbitMQPublisher
	if cfg.RabbitMQ.Enabled {
		conn, err := mqtt.ConnectRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			logging.Warn("⚠️  RabbitMQ no disponible, continuando sin reportes externos", "error", err)
		} else {
			defer conn.Close()
			channel, err := conn.Channel()
			if err != nil {
				logging.Warn("⚠️  Error abriendo canal RabbitMQ", "error", err)
			} else {
				if err := channel.ExchangeDeclare(
					cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType,
					true, false, false, false, nil,
				); err != nil {
					logging.Warn("⚠️  Error declarando exchange", "error", err)
				} else {
					rabbitPublisher = mqtt.NewRabbitMQPublisher(channel, cfg.RabbitMQ, cfg.DeviceID, bus)
					if err := rabbitPublisher.Start(); err != nil {
						logging.Warn("⚠️  Error iniciando publicador RabbitMQ", "error", err)
					}
				}
			}
		}
	}

	// Arrancar la simulación
	runner.Start(ctx)

	if cfg.Simulation.Headless {
		runHeadless(ctx, runner)
	} else {
		runWithUI(cfg, bus, plan)
	}

	// Cleanup
	fmt.Println("\nDeteniendo sistema...")
	runner.Stop()
	sink.Stop()
	if watcher != nil {
		watcher.Stop()
	}
	if dashboardServer != nil {
		dashboardServer.Stop()
	}
	mqttPublisher.Stop()
	if rabbitPublisher != nil {
		rabbitPublisher.Stop()
	}

	logging.Info("🏁 Misión finalizada",
		"capturas", controller.Captures(),
		"guardadas", sink.Saved(),
		"fase_final", controller.Phase().String())
	fmt.Println("¡Hasta luego!")
}

// resolveMission decide qué misión volar: el flag -mission gana sobre las
// dimensiones del config. Acepta un id builtin, el id de una misión
// descubierta en el directorio de misiones, o la ruta de un YAML.
func resolveMission(missionID string, cfg *config.Config) *mission.Mission {
	if missionID == "" {
		return &mission.Mission{
			Name:    "Edificio de configuración",
			Length:  cfg.Building.Length,
			Breadth: cfg.Building.Breadth,
			Height:  cfg.Building.Height,
		}
	}

	resolved, err := mission.Resolve(missionID, cfg.MissionsDir)
	if err != nil {
		logging.Fatal("❌ No se pudo cargar la misión", "mision", missionID, "error", err)
	}
	return resolved
}

// printMissions imprime las misiones disponibles: las predefinidas más las
// YAML del directorio de misiones
func printMissions(missionsDir string) {
	fmt.Println("Misiones disponibles:")
	for _, info := range mission.DiscoverMissions(missionsDir) {
		if info.Source == "yaml" {
			fmt.Printf("  %-22s %s (%s)\n", info.ID, info.Name, info.FilePath)
		} else {
			fmt.Printf("  %-22s %s\n", info.ID, info.Name)
		}
	}
}

// runHeadless espera a que el vuelo termine o llegue una señal
func runHeadless(ctx context.Context, runner *sim.Runner) {
	fmt.Println("🖥️  Modo headless: sin ventana")
	select {
	case <-runner.Done():
	case <-ctx.Done():
	}
}

// runWithUI corre la ventana Ebiten en el goroutine principal hasta que el
// usuario la cierre
func runWithUI(cfg *config.Config, bus *eventbus.EventBus, plan flight.InspectionPlan) {
	game := ui.NewGame(bus, cfg, plan)

	ebiten.SetWindowSize(cfg.UI.Window.Width, cfg.UI.Window.Height)
	ebiten.SetWindowTitle(cfg.UI.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	fmt.Println("🎮 Iniciando UI con Ebiten...")
	fmt.Println("⚠️  Cierra la ventana para salir")
	fmt.Println()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
	game.Stop()
}
