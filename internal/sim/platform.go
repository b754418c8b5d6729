package sim

import (
	"math"
	"sync"

	"github.com/MarcosBrindi/drone-inspector/internal/flight"
)

// Constantes del modelo cinemático
const (
	// Respuesta vertical: m/s por unidad de input vertical
	kVertical = 1.0
	// Respuesta lateral: m/s por unidad de input de roll (negado: roll
	// negativo = moverse a la derecha)
	kLateral = 1.0
	// Respuesta frontal: m/s por unidad de input de pitch (negado: pitch
	// positivo = moverse hacia atrás)
	kForward = 1.0
	// Velocidad de yaw: rad/s por unidad de input de yaw
	kYawRate = 1.0
)

// Platform es el quadrotor simulado: implementa flight.Platform con un
// modelo cinemático cuasi-estático. A partir de los comandos de motor
// invierte el mezclador en X para recuperar los inputs agregados
// (vertical, roll, pitch, yaw) y los integra a posición y rumbo.
//
// La actitud medida se mantiene en cero (el estabilizador real la regula
// mucho más rápido que el timestep de navegación), así que los inputs
// recuperados corresponden exactamente a los disturbances de navegación.
type Platform struct {
	mu sync.RWMutex

	// Estado físico
	time float64
	x, y float64
	z    float64
	yaw  float64

	// Últimos comandos escritos
	motors      [4]float64
	gimbalRoll  float64
	gimbalPitch float64

	// Comando de equilibrio: empuje que no produce movimiento vertical
	equilibrium float64

	camera *Camera
}

// NewPlatform crea el quadrotor simulado en el origen, en el suelo
func NewPlatform(gains flight.Gains, jpegQuality int) *Platform {
	hover := gains.VerticalP * gains.VerticalOffset * gains.VerticalOffset * gains.VerticalOffset
	return &Platform{
		equilibrium: gains.VerticalThrust + hover,
		camera:      NewCamera(jpegQuality),
	}
}

// Read implementa flight.Platform. La fuente es confiable: nunca falla.
func (p *Platform) Read() (flight.SensorFrame, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return flight.SensorFrame{
		Time: p.time,
		// Actitud cuasi-estática: el modelo asume roll/pitch regulados a cero
		Roll:      0,
		Pitch:     0,
		Yaw:       p.yaw,
		RollRate:  0,
		PitchRate: 0,
		X:         p.x,
		Y:         p.y,
		Z:         p.z,
	}, nil
}

// WriteMotors implementa flight.Platform (fire-and-forget)
func (p *Platform) WriteMotors(motors [4]float64) {
	p.mu.Lock()
	p.motors = motors
	p.mu.Unlock()
}

// WriteGimbal implementa flight.Platform
func (p *Platform) WriteGimbal(roll, pitch float64) {
	p.mu.Lock()
	p.gimbalRoll = roll
	p.gimbalPitch = pitch
	p.mu.Unlock()
}

// Frame implementa flight.Platform: retorna un JPEG sintético de la fachada
func (p *Platform) Frame() ([]byte, error) {
	p.mu.RLock()
	x, y, z := p.x, p.y, p.z
	p.mu.RUnlock()

	return p.camera.Render(x, y, z)
}

// Step avanza la física dt segundos integrando los últimos comandos de motor.
//
// Deshaciendo el signo mecánico (rotores 2 y 3 giran al revés):
//
//	a0 =  m0, a1 = -m1, a2 = -m2, a3 = m3
//
// los inputs agregados se recuperan con las combinaciones ortogonales
//
//	thrust = (a0+a1+a2+a3)/4    roll  = (-a0+a1-a2+a3)/4
//	pitch  = (a0+a1-a2-a3)/4    yaw   = (-a0+a1+a2-a3)/4
func (p *Platform) Step(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a0 := p.motors[0]
	a1 := -p.motors[1]
	a2 := -p.motors[2]
	a3 := p.motors[3]

	thrust := (a0 + a1 + a2 + a3) / 4.0
	rollIn := (-a0 + a1 - a2 + a3) / 4.0
	pitchIn := (a0 + a1 - a2 - a3) / 4.0
	yawIn := (-a0 + a1 + a2 - a3) / 4.0

	// Vertical: primera orden respecto al exceso de empuje
	vz := kVertical * (thrust - p.equilibrium)
	p.z += vz * dt
	if p.z < 0 {
		p.z = 0 // El suelo existe
	}

	// Yaw
	p.yaw = flight.NormalizeAngle(p.yaw + kYawRate*yawIn*dt)

	// Velocidades en el marco del cuerpo
	vRight := -kLateral * rollIn
	vForward := -kForward * pitchIn

	// Proyectar al marco absoluto:
	// adelante = (cos yaw, sin yaw), derecha = (sin yaw, -cos yaw)
	cosY := math.Cos(p.yaw)
	sinY := math.Sin(p.yaw)
	p.x += (vForward*cosY + vRight*sinY) * dt
	p.y += (vForward*sinY - vRight*cosY) * dt

	p.time += dt
}

// Time retorna el tiempo de simulación transcurrido
func (p *Platform) Time() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.time
}

// Gimbal retorna las posiciones actuales del gimbal (para telemetría/tests)
func (p *Platform) Gimbal() (roll, pitch float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gimbalRoll, p.gimbalPitch
}
