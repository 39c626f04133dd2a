package cache

import "sync/atomic"

// Generation cuenta las escrituras sobre los datos que respalda una clave.
// Un valor leído bajo una generación anterior ya no debe llegar a la caché.
type Generation struct {
	n atomic.Uint64
}

func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// Bump se llama tras escribir en el almacén y antes de borrar la clave.
func (g *Generation) Bump() {
	g.n.Add(1)
}
