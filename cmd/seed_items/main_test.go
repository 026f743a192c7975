package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_UTF8ConEncabezado(t *testing.T) {
	raw := "name;description;category;min;max;stock\n" +
		"Leche entera;Caja 1L;Dairy;10;50;5\n" +
		"Azafrán;;Spices & Seasonings;1;5;3\n"

	rows, err := parseCatalog([]byte(raw))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Leche entera", rows[0].name)
	assert.Equal(t, 10, rows[0].min)
	assert.Equal(t, 5, rows[0].stock)
	assert.Equal(t, "Azafrán", rows[1].name)
}

func TestParseCatalog_ISO88591(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("Azafrán;Hebras;Spices & Seasonings;1;5;3\n")
	require.NoError(t, err)

	rows, err := parseCatalog([]byte(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Azafrán", rows[0].name)
}

func TestParseCatalog_IDsEstables(t *testing.T) {
	a, err := parseCatalog([]byte("Pan;;Pantry;2;10;4\n"))
	require.NoError(t, err)
	b, err := parseCatalog([]byte("PAN;otra;Pantry;3;12;0\n"))
	require.NoError(t, err)
	assert.Equal(t, a[0].id, b[0].id, "el id depende solo del nombre")
}

func TestParseCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"categoría desconocida": "Martillo;;Tools;1;5;0\n",
		"min >= max":            "Pan;;Pantry;5;5;0\n",
		"stock negativo":        "Pan;;Pantry;1;5;-1\n",
		"número inválido":       "Pan;;Pantry;uno;5;0\n",
		"columnas":              "Pan;Pantry;1;5\n",
		"repetido":              "Pan;;Pantry;1;5;0\npan;;Pantry;1;5;0\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestWriteSeed_Idempotente(t *testing.T) {
	rows, err := parseCatalog([]byte("O'Brien Salsa;;Pantry;2;10;1\n"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeSeed(&b, rows, "catalog.csv"))
	sql := b.String()
	assert.Contains(t, sql, "'O''Brien Salsa'")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE SET")
	assert.Contains(t, sql, ", 1, 2, 10, true)")
}
