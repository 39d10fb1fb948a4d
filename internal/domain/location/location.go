// Package location parsea el formato compacto de ubicación de bodega
// "rag/site/posición" (ej. "R1/A1/9") usado en las líneas de reconciliación.
package location

import (
	"fmt"
	"strconv"
	"strings"
)

// Location son las coordenadas estructuradas de una posición de bodega.
type Location struct {
	Rag      string
	Site     string
	Position int
}

// FormatError indica que la cadena cruda no cumple el formato
// "rag/site/posición"; siempre incluye la cadena ofensiva.
type FormatError struct {
	Raw string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formato de ubicación inválido: %q (se espera \"rag/site/posición\")", e.Raw)
}

// Parse divide la cadena en exactamente tres segmentos por "/": rag y site
// no vacíos (con trim) y posición entera positiva. Función pura: misma
// entrada produce siempre el mismo resultado o el mismo tipo de error.
func Parse(raw string) (Location, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return Location{}, &FormatError{Raw: raw}
	}
	rag := strings.TrimSpace(parts[0])
	site := strings.TrimSpace(parts[1])
	if rag == "" || site == "" {
		return Location{}, &FormatError{Raw: raw}
	}
	pos, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || pos <= 0 {
		return Location{}, &FormatError{Raw: raw}
	}
	return Location{Rag: rag, Site: site, Position: pos}, nil
}
