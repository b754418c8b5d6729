package flight

// InspectionPlan es el plan de inspección derivado de las dimensiones del
// edificio al arranque. Inmutable durante todo el vuelo.
type InspectionPlan struct {
	Length  float64 // Largo del edificio (m)
	Breadth float64 // Ancho del edificio (m)
	Height  float64 // Alto del edificio (m)

	TargetAltitude float64    // Altitud de crucero: mitad de la altura
	SideLengths    [4]float64 // Distancia a recorrer en cada lado, en orden
}

// NewInspectionPlan construye el plan para un edificio rectangular.
// El recorrido es: largo → giro → ancho → giro → largo → giro → ancho → aterrizar.
func NewInspectionPlan(length, breadth, height float64) InspectionPlan {
	return InspectionPlan{
		Length:         length,
		Breadth:        breadth,
		Height:         height,
		TargetAltitude: height / 2.0,
		SideLengths:    [4]float64{length, breadth, length, breadth},
	}
}
