package domain

import (
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind es el tipo de backup.
type Kind string

const (
	KindDaily Kind = "diario"
	KindEvent Kind = "evento"
)

const (
	namePrefix        = "participantes_"
	dailyKeyLayout    = "2006-01-02"
	eventKeyLayout    = "2006-01-02_15-04-05"
	ManifestFile      = "manifest.json"
	bytesPerMB        = 1024 * 1024
	DefaultRetainDays = 7
)

// Snapshot es una copia del fichero del almacén tal como se lista.
type Snapshot struct {
	Name      string    `json:"nombre"`
	Kind      Kind      `json:"tipo"`
	Key       string    `json:"clave"`
	CreatedAt time.Time `json:"creado"`
	SizeBytes int64     `json:"tamano_bytes"`
	SizeMB    float64   `json:"tamano_mb"`
	ModTime   time.Time `json:"modificado"`
	// Date es el día o instante codificado en la clave. Cero si no se pudo leer.
	Date time.Time `json:"-"`
}

// ManifestEntry son los metadatos que se guardan en manifest.json por cada copia.
type ManifestEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
}

func NewManifestEntry(name string, kind Kind, key string, createdAt time.Time, source string) ManifestEntry {
	return ManifestEntry{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Key:       key,
		CreatedAt: createdAt,
		Source:    source,
	}
}

// DailyKey y EventKey devuelven la clave temporal de cada tipo.
func DailyKey(t time.Time) string { return t.Format(dailyKeyLayout) }

func EventKey(t time.Time) string { return t.Format(eventKeyLayout) }

// FileName compone participantes_<tipo>_<clave><ext>.
func FileName(kind Kind, key, ext string) string {
	return namePrefix + string(kind) + "_" + key + ext
}

// ParseName extrae tipo y clave de un nombre de fichero. ok es false si el
// nombre no sigue el patrón de backups.
func ParseName(name string) (kind Kind, key string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, k := range []Kind{KindDaily, KindEvent} {
		prefix := namePrefix + string(k) + "_"
		if strings.HasPrefix(base, prefix) && len(base) > len(prefix) {
			return k, strings.TrimPrefix(base, prefix), true
		}
	}
	return "", "", false
}

// ParseKey interpreta la clave según el tipo. Las claves de evento pueden
// llevar un sufijo numérico (_2, _3...) que se ignora.
func ParseKey(kind Kind, key string, loc *time.Location) (time.Time, bool) {
	switch kind {
	case KindDaily:
		t, err := time.ParseInLocation(dailyKeyLayout, key, loc)
		return t, err == nil
	case KindEvent:
		if len(key) < len(eventKeyLayout) {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(eventKeyLayout, key[:len(eventKeyLayout)], loc)
		return t, err == nil
	}
	return time.Time{}, false
}

// SizeInMB redondea a dos decimales.
func SizeInMB(size int64) float64 {
	return math.Round(float64(size)/bytesPerMB*100) / 100
}
