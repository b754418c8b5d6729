package mission

// GetEdificioEstandar retorna la misión por defecto: el edificio de prueba
// de 20 x 10 x 8 metros
func GetEdificioEstandar() *Mission {
	return &Mission{
		Name:        "Edificio Estándar",
		Description: "Edificio rectangular de prueba, recorrido completo con 16 capturas",
		Length:      20.0,
		Breadth:     10.0,
		Height:      8.0,
	}
}

// GetBodegaIndustrial retorna una misión de bodega grande y baja
func GetBodegaIndustrial() *Mission {
	return &Mission{
		Name:        "Bodega Industrial",
		Description: "Nave industrial alargada, lados largos de 40m",
		Length:      40.0,
		Breadth:     15.0,
		Height:      6.0,
	}
}

// GetTorreHabitacional retorna una misión de torre compacta y alta
func GetTorreHabitacional() *Mission {
	return &Mission{
		Name:        "Torre Habitacional",
		Description: "Torre de planta chica, inspección a media altura (12m)",
		Length:      12.0,
		Breadth:     12.0,
		Height:      24.0,
	}
}

// Builtin retorna una misión predefinida por ID, o nil si no existe
func Builtin(id string) *Mission {
	switch id {
	case "edificio_estandar":
		return GetEdificioEstandar()
	case "bodega_industrial":
		return GetBodegaIndustrial()
	case "torre_habitacional":
		return GetTorreHabitacional()
	}
	return nil
}
