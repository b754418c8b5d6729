package flight

// ImagesPerSide es la cantidad de capturas por lado del rectángulo
const ImagesPerSide = 4

// CaptureRequest es la solicitud de captura emitida por el planificador.
// El planificador no retiene datos de imagen: el frame se entrega al
// colaborador externo que lo persiste (fire-and-forget).
type CaptureRequest struct {
	Seq      int     // Secuencia global, monotónica, nunca se reinicia
	Side     int     // Lado actual (0..3)
	Distance float64 // Distancia recorrida en el lado al momento de la captura
}

// CaptureFunc consume una solicitud de captura
type CaptureFunc func(req CaptureRequest)

// CaptureScheduler dispara capturas a distancias equiespaciadas en cada lado:
// al 25%, 50%, 75% y 100% del largo del lado, cada umbral exactamente una vez.
type CaptureScheduler struct {
	emit CaptureFunc

	thresholds [ImagesPerSide]float64
	nextIndex  int // Cuántos umbrales del lado actual ya dispararon
	side       int
	counter    int // Secuencia global de imágenes
}

// NewCaptureScheduler crea un planificador de capturas
func NewCaptureScheduler(emit CaptureFunc) *CaptureScheduler {
	return &CaptureScheduler{emit: emit}
}

// BeginSide recalcula los umbrales de captura para un lado nuevo
func (cs *CaptureScheduler) BeginSide(side int, sideLength float64) {
	for i := 0; i < ImagesPerSide; i++ {
		cs.thresholds[i] = sideLength * float64(i+1) / float64(ImagesPerSide)
	}
	cs.nextIndex = 0
	cs.side = side
}

// OnProgress dispara a lo más una captura si la distancia recorrida cruzó el
// siguiente umbral. Los ticks son frecuentes respecto a la velocidad del dron,
// así que disparar de a una por tick es una aproximación aceptada.
func (cs *CaptureScheduler) OnProgress(distance float64) {
	if cs.nextIndex >= ImagesPerSide {
		return
	}
	if distance < cs.thresholds[cs.nextIndex] {
		return
	}

	cs.counter++
	seq := cs.counter
	cs.nextIndex++

	if cs.emit != nil {
		cs.emit(CaptureRequest{Seq: seq, Side: cs.side, Distance: distance})
	}
}

// Counter retorna el valor actual de la secuencia global
func (cs *CaptureScheduler) Counter() int {
	return cs.counter
}

// TakenThisSide retorna cuántas capturas disparó el lado actual
func (cs *CaptureScheduler) TakenThisSide() int {
	return cs.nextIndex
}
