// seed_items genera un script SQL idempotente para poblar el catálogo de artículos
// a partir de un CSV separado por punto y coma.
//
// Uso: go run ./cmd/seed_items [ruta/catalogo.csv]
// Por defecto busca catalog.csv en el directorio actual.
// Columnas: name;description;category;min;max;stock (la fila de encabezado es opcional).
// Acepta UTF-8 o ISO-8859-1.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_items.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
)

// catalogNamespace espacio de nombres de los UUID v5: el mismo nombre produce siempre el mismo id.
var catalogNamespace = uuid.MustParse("6f1c2a7e-4b1d-5c3e-9a8f-2d7b6e5c4a31")

type catalogRow struct {
	id, name, description string
	category              entity.Category
	min, max, stock       int
}

func main() {
	csvPath := "catalog.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_items.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeed(out, rows, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d artículos\n", outPath, len(rows))
}

// parseCatalog decodifica y valida el CSV con las mismas reglas que la API.
func parseCatalog(raw []byte) ([]catalogRow, error) {
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(src)
	r.Comma = ';'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 6

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []catalogRow
	seen := make(map[string]int)
	for i, rec := range records {
		line := i + 1
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if prev, ok := seen[row.id]; ok {
			return nil, fmt.Errorf("línea %d: %q repetido (línea %d)", line, row.name, prev)
		}
		seen[row.id] = line
		out = append(out, row)
	}
	return out, nil
}

func parseRow(rec []string) (catalogRow, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := catalogRow{name: rec[0], description: rec[1], category: entity.Category(rec[2])}
	if row.name == "" {
		return row, fmt.Errorf("nombre vacío")
	}
	if !row.category.Valid() {
		return row, fmt.Errorf("categoría desconocida %q", rec[2])
	}
	nums := []*int{&row.min, &row.max, &row.stock}
	for i, p := range nums {
		n, err := strconv.Atoi(rec[3+i])
		if err != nil {
			return row, fmt.Errorf("número inválido %q", rec[3+i])
		}
		*p = n
	}
	if err := domaininv.ValidateLevels(row.stock, row.min, row.max); err != nil {
		return row, err
	}
	row.id = uuid.NewSHA1(catalogNamespace, []byte(strings.ToLower(row.name))).String()
	return row, nil
}

// writeSeed escribe un INSERT por artículo. Volver a ejecutarlo actualiza los datos
// descriptivos y los umbrales pero conserva el stock actual.
func writeSeed(w io.Writer, rows []catalogRow, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de artículos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	for _, r := range rows {
		b.WriteString("INSERT INTO items (id, name, description, category, current_stock, min_stock_level, max_stock_level, needs_reorder)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', %d, %d, %d, %t)\n",
			r.id, escapeSQL(r.name), escapeSQL(r.description), escapeSQL(string(r.category)),
			r.stock, r.min, r.max, domaininv.DeriveReorder(r.stock, r.min))
		b.WriteString("ON CONFLICT (id) DO UPDATE SET\n")
		b.WriteString("  name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,\n")
		b.WriteString("  min_stock_level = EXCLUDED.min_stock_level, max_stock_level = EXCLUDED.max_stock_level,\n")
		b.WriteString("  needs_reorder = items.current_stock <= EXCLUDED.min_stock_level, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
