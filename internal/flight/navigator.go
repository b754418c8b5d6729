package flight

import (
	"math"

	"github.com/MarcosBrindi/drone-inspector/internal/logging"
)

// NavigationState es el estado mutable del vuelo, propiedad exclusiva del
// Navigator. Nunca variables globales de módulo: un solo dueño, un solo hilo.
type NavigationState struct {
	Phase FlightPhase

	// AccumulatedHeading es el yaw comandado, que crece π/2 al completar cada
	// lado. Distinto del yaw medido, que deriva y se corrige hacia este valor.
	AccumulatedHeading float64

	// TargetYaw es el rumbo objetivo registrado al terminar el lado anterior
	// (usado por las fases Turn)
	TargetYaw float64

	// SideOriginX/Y es la posición absoluta al iniciar el lado actual.
	// Solo está definida durante fases Side.
	SideOriginX float64
	SideOriginY float64

	// SideIndex indica qué entrada de SideLengths está activa (0..3)
	SideIndex int

	// PhaseEntryTime es el tiempo de simulación al entrar a STABILIZE
	PhaseEntryTime float64

	// LandTarget es el objetivo de altitud decreciente durante el aterrizaje
	LandTarget float64
}

// Navigator es el controlador discreto: decide por tick qué disturbances
// entregar al estabilizador según la fase, el rumbo acumulado y la distancia
// recorrida en el lado actual.
type Navigator struct {
	plan      InspectionPlan
	scheduler *CaptureScheduler
	state     NavigationState

	calibrated bool
}

// NewNavigator crea el navegador para un plan de inspección
func NewNavigator(plan InspectionPlan, scheduler *CaptureScheduler) *Navigator {
	return &Navigator{
		plan:      plan,
		scheduler: scheduler,
		state: NavigationState{
			Phase:      PhaseTakeoff,
			LandTarget: plan.TargetAltitude,
		},
	}
}

// Phase retorna la fase actual
func (n *Navigator) Phase() FlightPhase {
	return n.state.Phase
}

// State retorna una copia del estado de navegación (para telemetría)
func (n *Navigator) State() NavigationState {
	return n.state
}

// Calibrate inicializa el rumbo acumulado con el yaw medido.
// Se llama una sola vez, con la primera lectura válida de sensores.
func (n *Navigator) Calibrate(frame SensorFrame) {
	if n.calibrated {
		return
	}
	n.state.AccumulatedHeading = frame.Yaw
	n.calibrated = true

	logging.Info("🧭 [Navigator] Yaw inicial calibrado",
		"yaw_grados", frame.Yaw*180.0/math.Pi)
}

// Step ejecuta un paso discreto de la máquina de estados.
// Retorna los disturbances para el estabilizador y la altitud objetivo del tick.
func (n *Navigator) Step(frame SensorFrame) (Disturbance, float64) {
	var d Disturbance
	targetAltitude := n.plan.TargetAltitude

	switch {
	case n.state.Phase == PhaseTakeoff:
		// Ascender sin disturbances hasta acercarse a la altitud objetivo
		if frame.Z > n.plan.TargetAltitude-TakeoffMargin {
			n.state.Phase = PhaseStabilize
			n.state.PhaseEntryTime = frame.Time
			logging.Info("🚁 [Navigator] Altitud objetivo alcanzada, estabilizando",
				"altitud", frame.Z)
		}

	case n.state.Phase == PhaseStabilize:
		// Hover fijo para dejar que el PID asiente
		if frame.Time-n.state.PhaseEntryTime > StabilizeTime {
			n.state.Phase = PhaseSide1
			n.beginSide(0, frame)
			logging.Info("🚁 [Navigator] Estabilizado, iniciando inspección",
				"fase", n.state.Phase.String(),
				"distancia", n.plan.SideLengths[0])
		}

	case n.state.Phase.IsSide():
		d = n.stepSide(frame)

	case n.state.Phase.IsTurn():
		d = n.stepTurn(frame)

	case n.state.Phase == PhaseLand:
		// Descender bajando el objetivo de a pasos fijos
		n.state.LandTarget = math.Max(0.0, n.state.LandTarget-DescentStep)
		targetAltitude = n.state.LandTarget
		if frame.Z < LandedAltitude {
			n.state.Phase = PhaseDone
			logging.Info("✅ [Navigator] Aterrizado, inspección completa")
		}

	case n.state.Phase == PhaseDone:
		// Terminal: el controlador corta motores y sale del loop
	}

	return d, targetAltitude
}

// stepSide maneja las fases Side: strafe lateral constante con corrección de
// deriva frontal y heading-hold proporcional
func (n *Navigator) stepSide(frame SensorFrame) Disturbance {
	var d Disturbance

	// Strafe a la derecha (disturbance de roll)
	d.Roll = -StrafeSpeed

	// Descomponer el desplazamiento absoluto en adelante/derecha
	dx := frame.X - n.state.SideOriginX
	dy := frame.Y - n.state.SideOriginY
	forwardDrift, lateral := DecomposeDisplacement(dx, dy, n.state.AccumulatedHeading)

	// Corrección de deriva frontal: pitch positivo empuja hacia atrás,
	// lejos de la fachada. Es rechazo de perturbación, no seguimiento.
	d.Pitch = ForwardCorrection * forwardDrift

	// Heading-hold: mantener el rumbo comandado
	yawError := NormalizeAngle(n.state.AccumulatedHeading - frame.Yaw)
	d.Yaw = YawCorrection * yawError

	// La distancia real de strafe es la componente lateral
	distance := math.Abs(lateral)

	// Capturas por distancia
	n.scheduler.OnProgress(distance)

	// ¿Lado completo?
	if distance >= n.plan.SideLengths[n.state.SideIndex] {
		n.completeSide(distance)
	}

	return d
}

// completeSide avanza la máquina al terminar un lado: los lados 1-3 giran 90°
// a la izquierda, el lado 4 pasa directo a aterrizar
func (n *Navigator) completeSide(distance float64) {
	if n.state.Phase == PhaseSide4 {
		n.state.Phase = PhaseLand
		logging.Info("🏁 [Navigator] Lado 4 completo, aterrizando",
			"distancia", distance)
		return
	}

	n.state.AccumulatedHeading += math.Pi / 2
	n.state.TargetYaw = n.state.AccumulatedHeading

	switch n.state.Phase {
	case PhaseSide1:
		n.state.Phase = PhaseTurn1
	case PhaseSide2:
		n.state.Phase = PhaseTurn2
	case PhaseSide3:
		n.state.Phase = PhaseTurn3
	}

	logging.Info("↩️  [Navigator] Lado completo, girando 90° a la izquierda",
		"fase", n.state.Phase.String(),
		"distancia", distance)
}

// stepTurn maneja las fases Turn: yaw proporcional al error contra el rumbo
// objetivo, sin strafe. Si la tolerancia angular nunca se cumple, la fase no
// avanza: no hay watchdog ni escape (limitación conocida y preservada).
func (n *Navigator) stepTurn(frame SensorFrame) Disturbance {
	var d Disturbance

	yawError := NormalizeAngle(n.state.TargetYaw - frame.Yaw)
	d.Yaw = YawCorrection * yawError

	if math.Abs(yawError) < AngleTolerance {
		var next FlightPhase
		var sideIndex int

		switch n.state.Phase {
		case PhaseTurn1:
			next, sideIndex = PhaseSide2, 1
		case PhaseTurn2:
			next, sideIndex = PhaseSide3, 2
		case PhaseTurn3:
			next, sideIndex = PhaseSide4, 3
		}

		n.state.Phase = next
		n.beginSide(sideIndex, frame)

		logging.Info("➡️  [Navigator] Giro completo",
			"fase", next.String(),
			"distancia", n.plan.SideLengths[sideIndex])
	}

	return d
}

// beginSide prepara el estado y los umbrales de captura para un lado nuevo.
// Método explícito sobre el estado, no un closure capturando variables del loop.
func (n *Navigator) beginSide(sideIndex int, frame SensorFrame) {
	n.state.SideIndex = sideIndex
	n.state.SideOriginX = frame.X
	n.state.SideOriginY = frame.Y
	n.scheduler.BeginSide(sideIndex, n.plan.SideLengths[sideIndex])
}
