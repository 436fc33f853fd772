// Package pdf implementa la generación del reporte de stock bajo mínimo
// en formato PDF usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Inventario | Producto | Cant | Mín | Máx | Faltante │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total de líneas bajo mínimo                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/farmavita/inventario-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.StockReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateLowStockPDF genera el reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLowStockPDF(
	_ context.Context,
	generatedAt time.Time,
	rows []dto.LowStockRecordDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock Bajo Mínimo", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(rows) == 0 {
		m.AddRows(emptyRow())
	} else {
		m.AddRows(tableHeaderRow())
		for _, r := range tableDetailRows(rows) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(summaryRow(len(rows)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(generatedAt time.Time) core.Row {
	fecha := generatedAt.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK BAJO MÍNIMO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Líneas de inventario con cantidad igual o inferior a su umbral mínimo", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Inventario", 3, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Máx.", 1, align.Right),
		h("Faltante", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea bajo mínimo.
func tableDetailRows(records []dto.LowStockRecordDTO) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				r.InventoryName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				r.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				strconv.FormatInt(r.Quantity, 10),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorAlert},
			)),
			col.New(1).Add(text.New(
				formatThreshold(r.StockMin),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				formatThreshold(r.StockMax),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatShortfall(r.Quantity, r.StockMin),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold},
			)),
		))
	}
	return result
}

// summaryRow: total de líneas reportadas.
func summaryRow(total int) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total de líneas bajo mínimo: %d", total), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 2, Right: 1,
			}),
		),
	)
}

// emptyRow: mensaje cuando no hay líneas bajo mínimo.
func emptyRow() core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("No hay líneas de inventario bajo su umbral mínimo.", props.Text{
				Size: 9, Align: align.Center, Top: 4, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func formatThreshold(v *int64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatInt(*v, 10)
}

// formatShortfall unidades que faltan para alcanzar el mínimo.
func formatShortfall(qty int64, min *int64) string {
	if min == nil || qty >= *min {
		return "0"
	}
	return strconv.FormatInt(*min-qty, 10)
}
