package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// BatchIDRequest datos para generar un batchId. Todas las funciones son puras:
// el llamador debe serializar por (instalación, prefijo) para evitar duplicados.
type BatchIDRequest struct {
	ProductName string
	FacilityID  string
	Format      string   // ver entity.BatchIDFormat*
	Existing    []string // batchIds existentes para el nombre, más recientes primero
	ReceivedAt  time.Time
	NewUUID     func() string // solo formato uuid; por defecto uuid.NewString
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// BatchPrefix prefijo de 2 letras: sin acentos, en mayúsculas, no-letras reemplazadas por X.
func BatchPrefix(productName string) string {
	folded, _, err := transform.String(stripMarks, productName)
	if err != nil {
		folded = productName
	}
	folded = strings.ToUpper(strings.TrimSpace(folded))
	var b strings.Builder
	for _, r := range folded {
		if b.Len() == 2 {
			break
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		} else {
			b.WriteRune('X')
		}
	}
	for b.Len() < 2 {
		b.WriteRune('X')
	}
	return b.String()
}

// GenerateBatchID devuelve PREFIX-NNN continuando la secuencia más alta del prefijo.
func GenerateBatchID(productName, facilityID string, existing []string) string {
	prefix := BatchPrefix(productName)
	return formatSequence(prefix, nextSequence(prefix, existing))
}

// GenerateBatchIDWithFormat genera el batchId según validation.batchIdFormat.
func GenerateBatchIDWithFormat(req BatchIDRequest) string {
	switch req.Format {
	case entity.BatchIDFormatSimple:
		return formatSequence("BATCH", nextSequence("BATCH", req.Existing))
	case entity.BatchIDFormatLotBased:
		received := req.ReceivedAt
		if received.IsZero() {
			received = time.Now()
		}
		prefix := "LOT-" + received.Format("20060102")
		return formatSequence(prefix, nextSequence(prefix, req.Existing))
	case entity.BatchIDFormatUUID:
		if req.NewUUID != nil {
			return req.NewUUID()
		}
		return uuid.NewString()
	default:
		return GenerateBatchID(req.ProductName, req.FacilityID, req.Existing)
	}
}

// GenerateSKU devuelve BATCHID-NNN con NNN = existentes + 1.
func GenerateSKU(batchID, facilityID string, existingUnitCount int) string {
	if existingUnitCount < 0 {
		existingUnitCount = 0
	}
	return formatSequence(batchID, existingUnitCount+1)
}

func formatSequence(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// nextSequence busca el mayor NNN en ids con forma PREFIX-NNN y devuelve el siguiente (mínimo 1).
func nextSequence(prefix string, existing []string) int {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	highest := 0
	for _, id := range existing {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}
