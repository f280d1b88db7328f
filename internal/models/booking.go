package models

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Booking es una reserva de mesa. Se guarda tal cual la envía el cliente,
// por eso es un mapa; tableId, date, time y endTime tienen accesores.
type Booking map[string]any

// Slot identifica una reserva: (tableId, date, time)
type Slot struct {
	TableID string
	Date    string
	Time    string
}

func (s Slot) String() string {
	return fmt.Sprintf("table %s on %s at %s", s.TableID, s.Date, s.Time)
}

func (b Booking) TableID() any { return b["tableId"] }

func (b Booking) Date() string { return stringField(b, "date") }

func (b Booking) Time() string { return stringField(b, "time") }

func (b Booking) EndTime() string { return stringField(b, "endTime") }

// Matches compara con un slot de la URL: tableId con igualdad laxa,
// date y time con igualdad estricta de cadenas.
func (b Booking) Matches(slot Slot) bool {
	dateOK := isString(b["date"]) && b.Date() == slot.Date
	timeOK := isString(b["time"]) && b.Time() == slot.Time
	return dateOK && timeOK && LooseEquals(b.TableID(), slot.TableID)
}

// SameSlot indica si dos reservas ocupan el mismo slot
func (b Booking) SameSlot(other Booking) bool {
	return LooseEqualValues(b.TableID(), other.TableID()) &&
		sameString(b["date"], other["date"]) &&
		sameString(b["time"], other["time"])
}

// EndsAt construye el instante de fin a partir de date y endTime en la zona
// loc. ok es false si no hay endTime; valid es false si algún componente no
// es numérico.
func (b Booking) EndsAt(loc *time.Location) (end time.Time, ok bool, valid bool) {
	endTime := b.EndTime()
	if endTime == "" {
		return time.Time{}, false, true
	}

	dateParts := strings.Split(b.Date(), "-")
	timeParts := strings.Split(endTime, ":")
	if len(dateParts) < 3 || len(timeParts) < 2 {
		return time.Time{}, true, false
	}

	nums := make([]int, 0, 5)
	for _, part := range append(dateParts[:3:3], timeParts[:2]...) {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, true, false
		}
		nums = append(nums, n)
	}

	end = time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], 0, 0, loc)
	return end, true, true
}

// Expired indica si la reserva terminó en o antes de now. Las reservas sin
// endTime nunca expiran; las que tienen fecha inválida se consideran expiradas.
func (b Booking) Expired(now time.Time) bool {
	end, ok, valid := b.EndsAt(now.Location())
	if !ok {
		return false
	}
	if !valid {
		return true
	}
	return !end.After(now)
}

func stringField(b Booking, key string) string {
	if s, ok := b[key].(string); ok {
		return s
	}
	return ""
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func sameString(a, b any) bool {
	sa, okA := a.(string)
	sb, okB := b.(string)
	return okA && okB && sa == sb
}

// LooseEquals compara un valor almacenado con una cadena de la URL como lo
// hace el operador == de JavaScript: números contra el número parseado,
// cadenas contra la cadena exacta.
func LooseEquals(stored any, raw string) bool {
	if s, ok := stored.(string); ok {
		return s == raw
	}
	n, ok := toFloat(stored)
	if !ok {
		return false
	}
	parsed, ok := ParseLooseNumber(raw)
	return ok && parsed == n
}

// LooseEqualValues compara dos valores almacenados con la misma regla
func LooseEqualValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa == sb
		}
		return LooseEquals(b, sa)
	}
	if sb, ok := b.(string); ok {
		return LooseEquals(a, sb)
	}
	na, okA := toFloat(a)
	nb, okB := toFloat(b)
	return okA && okB && na == nb
}

// ParseLooseNumber interpreta raw como Number() de JavaScript: decimales con
// exponente opcional, enteros 0x/0o/0b sin signo e Infinity escrito tal cual.
func ParseLooseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		// Number("") es 0
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefix(s[1]); ok {
			return parseRadix(s[2:], base)
		}
	}

	// ParseFloat acepta inf, nan, hexadecimales con exponente y guiones
	// bajos; Number() no.
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

func radixPrefix(c byte) (int, bool) {
	switch c {
	case 'x', 'X':
		return 16, true
	case 'o', 'O':
		return 8, true
	case 'b', 'B':
		return 2, true
	}
	return 0, false
}

func parseRadix(digits string, base int) (float64, bool) {
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
