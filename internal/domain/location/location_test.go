package location_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfila/stock-api/internal/domain/location"
)

func TestParse_UbicacionValida(t *testing.T) {
	loc, err := location.Parse("R1/A1/9")
	require.NoError(t, err)
	assert.Equal(t, "R1", loc.Rag)
	assert.Equal(t, "A1", loc.Site)
	assert.Equal(t, 9, loc.Position)
}

func TestParse_TrimeaEspacios(t *testing.T) {
	loc, err := location.Parse(" R1 / A1 / 12 ")
	require.NoError(t, err)
	assert.Equal(t, "R1", loc.Rag)
	assert.Equal(t, "A1", loc.Site)
	assert.Equal(t, 12, loc.Position)
}

func TestParse_FormatosInvalidos(t *testing.T) {
	// Cada desviación del formato "rag/site/posición" produce FormatError
	// con la cadena cruda adentro; nunca un parseo parcial.
	cases := []struct {
		name string
		raw  string
	}{
		{"vacía", ""},
		{"dos segmentos", "R1/A1"},
		{"cuatro segmentos", "R1/A1/9/extra"},
		{"rag vacío", "/A1/9"},
		{"site vacío", "R1//9"},
		{"rag solo espacios", "  /A1/9"},
		{"posición no numérica", "R1/A1/abc"},
		{"posición vacía", "R1/A1/"},
		{"posición cero", "R1/A1/0"},
		{"posición negativa", "R1/A1/-3"},
		{"posición decimal", "R1/A1/2.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := location.Parse(tc.raw)
			require.Error(t, err)
			assert.Equal(t, location.Location{}, loc, "no debe devolver parseo parcial")

			var fe *location.FormatError
			require.True(t, errors.As(err, &fe), "el error debe ser un FormatError")
			assert.Equal(t, tc.raw, fe.Raw, "el error debe conservar la cadena ofensiva")
			assert.Contains(t, err.Error(), tc.raw)
		})
	}
}

func TestParse_EsDeterminista(t *testing.T) {
	first, err1 := location.Parse("B7/C2/42")
	second, err2 := location.Parse("B7/C2/42")
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
