// Package vector contiene la aritmetica de similitud sobre embeddings.
package vector

import (
	"fmt"
	"math"

	"resume-persona/internal/domain"
)

// Cosine devuelve la similitud coseno en [-1,1].
// Falla con ErrDimensionMismatch si las longitudes difieren y devuelve 0 si
// alguno de los vectores es nulo, ya que no aporta direccion.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// redondeo de punto flotante puede salir apenas del rango
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}

// CheckDimensions valida que un vector tenga exactamente want componentes.
func CheckDimensions(v []float32, want int) error {
	if len(v) != want {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimensionMismatch, len(v), want)
	}
	return nil
}

// IsZero indica si todas las componentes son cero.
func IsZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
