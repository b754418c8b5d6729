package flight

import "testing"

func TestCaptureScheduler_ThresholdSequence(t *testing.T) {
	var got []CaptureRequest
	cs := NewCaptureScheduler(func(req CaptureRequest) {
		got = append(got, req)
	})

	// Lado de 20 m: umbrales en 5, 10, 15 y 20
	cs.BeginSide(0, 20.0)

	distances := []float64{0, 2.5, 4.9, 5.0, 5.1, 9.9, 10.0, 14.0, 15.5, 19.9, 20.0, 20.1}
	for _, d := range distances {
		cs.OnProgress(d)
	}

	if len(got) != ImagesPerSide {
		t.Fatalf("capturas = %d, want %d", len(got), ImagesPerSide)
	}

	wantDistances := []float64{5.0, 10.0, 15.5, 20.0}
	for i, req := range got {
		if req.Seq != i+1 {
			t.Errorf("captura %d: seq = %d, want %d", i, req.Seq, i+1)
		}
		if req.Side != 0 {
			t.Errorf("captura %d: side = %d, want 0", i, req.Side)
		}
		if req.Distance != wantDistances[i] {
			t.Errorf("captura %d: distancia = %v, want %v", i, req.Distance, wantDistances[i])
		}
	}
}

func TestCaptureScheduler_AtMostOnePerCall(t *testing.T) {
	fired := 0
	cs := NewCaptureScheduler(func(CaptureRequest) { fired++ })
	cs.BeginSide(0, 20.0)

	// Un salto que cruza todos los umbrales de golpe dispara solo una captura
	cs.OnProgress(20.0)
	if fired != 1 {
		t.Fatalf("capturas tras un solo tick = %d, want 1", fired)
	}

	// Los ticks siguientes drenan los umbrales restantes de a uno
	cs.OnProgress(20.0)
	cs.OnProgress(20.0)
	cs.OnProgress(20.0)
	cs.OnProgress(20.0)
	if fired != ImagesPerSide {
		t.Fatalf("capturas totales = %d, want %d", fired, ImagesPerSide)
	}
}

func TestCaptureScheduler_RepeatedDistanceIdempotent(t *testing.T) {
	fired := 0
	cs := NewCaptureScheduler(func(CaptureRequest) { fired++ })
	cs.BeginSide(0, 20.0)

	cs.OnProgress(5.0)
	cs.OnProgress(5.0)
	cs.OnProgress(4.99)

	if fired != 1 {
		t.Fatalf("capturas = %d, want 1 (umbral ya disparado no repite)", fired)
	}
}

func TestCaptureScheduler_SequenceSpansides(t *testing.T) {
	var seqs []int
	cs := NewCaptureScheduler(func(req CaptureRequest) {
		seqs = append(seqs, req.Seq)
	})

	// Dos lados completos: la secuencia global no se reinicia entre lados
	cs.BeginSide(0, 4.0)
	for _, d := range []float64{1, 2, 3, 4} {
		cs.OnProgress(d)
	}
	cs.BeginSide(1, 8.0)
	for _, d := range []float64{2, 4, 6, 8} {
		cs.OnProgress(d)
	}

	if len(seqs) != 2*ImagesPerSide {
		t.Fatalf("capturas = %d, want %d", len(seqs), 2*ImagesPerSide)
	}
	for i, seq := range seqs {
		if seq != i+1 {
			t.Errorf("seq[%d] = %d, want %d (monotónica, sin reinicio)", i, seq, i+1)
		}
	}
	if cs.Counter() != 8 {
		t.Errorf("Counter() = %d, want 8", cs.Counter())
	}
}

func TestCaptureScheduler_TakenThisSideResets(t *testing.T) {
	cs := NewCaptureScheduler(nil)

	cs.BeginSide(0, 10.0)
	cs.OnProgress(10.0)
	cs.OnProgress(10.0)
	if cs.TakenThisSide() != 2 {
		t.Fatalf("TakenThisSide = %d, want 2", cs.TakenThisSide())
	}

	cs.BeginSide(1, 10.0)
	if cs.TakenThisSide() != 0 {
		t.Fatalf("TakenThisSide tras BeginSide = %d, want 0", cs.TakenThisSide())
	}
}
