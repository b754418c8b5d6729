package flight

import (
	"fmt"
	"time"

	"github.com/MarcosBrindi/drone-inspector/internal/eventbus"
	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// SensorWarmup es el tiempo de simulación que se espera antes de calibrar
// el yaw inicial, para dejar que los sensores se inicialicen
const SensorWarmup = 1.0

// Controller es el loop de control completo, invocado una vez por timestep.
// Secuencia por tick: leer sensores → máquina de estados (con capturas) →
// estabilizador → escribir motores. Monohilo, síncrono, sin reentradas.
type Controller struct {
	platform   Platform
	plan       InspectionPlan
	stabilizer *Stabilizer
	navigator  *Navigator
	scheduler  *CaptureScheduler
	bus        *eventbus.EventBus

	previousPhase FlightPhase
	done          bool
}

// NewController arma el loop de control para un plan de inspección.
// El bus puede ser nil (por ejemplo en tests): los eventos se omiten.
func NewController(platform Platform, plan InspectionPlan, bus *eventbus.EventBus) *Controller {
	c := &Controller{
		platform:   platform,
		plan:       plan,
		stabilizer: NewStabilizer(DefaultGains()),
		bus:        bus,
	}

	c.scheduler = NewCaptureScheduler(c.handleCapture)
	c.navigator = NewNavigator(plan, c.scheduler)
	c.previousPhase = PhaseTakeoff

	return c
}

// Tick ejecuta un paso del loop de control. Retorna true cuando el vuelo
// llegó a DONE y el loop debe salir.
func (c *Controller) Tick() (bool, error) {
	if c.done {
		return true, nil
	}

	// -- Leer sensores --
	// Plataforma no disponible = precondición fatal, no error recuperable
	frame, err := c.platform.Read()
	if err != nil {
		return false, fmt.Errorf("plataforma no disponible: %w", err)
	}

	// Esperar a que los sensores se inicialicen antes de calibrar el rumbo
	if frame.Time < SensorWarmup {
		c.platform.WriteMotors([4]float64{})
		return false, nil
	}
	c.navigator.Calibrate(frame)

	// -- Estabilizar gimbal de cámara --
	c.platform.WriteGimbal(
		GimbalRollRate*frame.RollRate,
		GimbalPitchRate*frame.PitchRate+CameraTilt,
	)

	// -- Máquina de estados --
	disturbance, targetAltitude := c.navigator.Step(frame)

	if c.navigator.Phase() == PhaseDone {
		// Cortar motores y salir del loop
		c.platform.WriteMotors([4]float64{})
		c.done = true
		c.publishPhaseChange(frame)
		return true, nil
	}

	// -- Control de motores --
	motors := c.stabilizer.Mix(frame, targetAltitude, disturbance)
	c.platform.WriteMotors(motors)

	// -- Telemetría --
	c.publishTelemetry(frame, motors)
	c.publishPhaseChange(frame)

	return false, nil
}

// Phase retorna la fase de vuelo actual
func (c *Controller) Phase() FlightPhase {
	return c.navigator.Phase()
}

// Captures retorna el total de capturas emitidas en todo el vuelo
func (c *Controller) Captures() int {
	return c.scheduler.Counter()
}

// handleCapture atiende una solicitud del planificador: toma el frame actual
// de la cámara y lo publica como evento de captura (fire-and-forget)
func (c *Controller) handleCapture(req CaptureRequest) {
	var frame []byte
	if jpeg, err := c.platform.Frame(); err == nil {
		frame = jpeg
	} else {
		logging.Warn("⚠️  [Controller] No se pudo leer el frame de cámara",
			"seq", req.Seq, "error", err)
	}

	logging.Info("📸 [Controller] Captura disparada",
		"seq", req.Seq,
		"lado", req.Side+1,
		"distancia", req.Distance,
		"foto", fmt.Sprintf("%d/%d", c.scheduler.TakenThisSide(), ImagesPerSide))

	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Event{
		Type:      eventbus.EventCapture,
		Timestamp: time.Now(),
		Data: eventbus.CaptureData{
			Seq:      req.Seq,
			Side:     req.Side,
			Distance: req.Distance,
			Frame:    frame,
		},
	})
}

// publishTelemetry publica el estado de vuelo del tick (non-blocking)
func (c *Controller) publishTelemetry(frame SensorFrame, motors [4]float64) {
	if c.bus == nil {
		return
	}

	state := c.navigator.State()
	c.bus.Publish(eventbus.Event{
		Type:      eventbus.EventTelemetry,
		Timestamp: time.Now(),
		Data: eventbus.TelemetryData{
			SimTime:        frame.Time,
			Phase:          state.Phase.String(),
			Roll:           frame.Roll,
			Pitch:          frame.Pitch,
			Yaw:            frame.Yaw,
			X:              frame.X,
			Y:              frame.Y,
			Altitude:       frame.Z,
			TargetHeading:  state.AccumulatedHeading,
			SideIndex:      state.SideIndex,
			Motors:         motors,
			CapturesTotal:  c.scheduler.Counter(),
			TargetAltitude: c.plan.TargetAltitude,
		},
	})
}

// publishPhaseChange publica un evento cuando cambia la fase
func (c *Controller) publishPhaseChange(frame SensorFrame) {
	phase := c.navigator.Phase()
	if phase == c.previousPhase {
		return
	}
	c.previousPhase = phase

	if c.bus == nil {
		return
	}
	c.bus.Publish(eventbus.Event{
		Type:      eventbus.EventPhase,
		Timestamp: time.Now(),
		Data: eventbus.PhaseData{
			Phase:    phase.String(),
			SimTime:  frame.Time,
			Altitude: frame.Z,
		},
	})
}
