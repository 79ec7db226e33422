// Package pdf genera el reporte de lotes de una instalación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Instalación + id    │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lote | Producto | Unid. | Cant. | Rest. | Prom | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Lotes / Cantidad restante / Valor total           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/application/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

var _ inventory.BatchReportGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoReportGenerator implementa BatchReportGenerator con Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// GenerateBatchReport genera el PDF con una fila por lote y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateBatchReport(facility *entity.FacilityConfig, summaries []entity.BatchSummary) ([]byte, error) {
	title := facilityTitle(facility)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de lotes - "+title, true).
		WithAuthor("facility-inventory-api", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(facility, title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(summaries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin lotes registrados", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		)))
	}
	for _, r := range tableRows(summaries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(summaries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func facilityTitle(facility *entity.FacilityConfig) string {
	if facility == nil {
		return "—"
	}
	if facility.Name != "" {
		return facility.Name
	}
	return facility.ID
}

// headerRow: nombre e id de la instalación (izq) y fecha de generación (der).
func headerRow(facility *entity.FacilityConfig, title string, at time.Time) core.Row {
	id := ""
	if facility != nil {
		id = facility.ID
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Instalación: "+id, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("REPORTE DE LOTES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Lote", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Unid.", 1, align.Center),
		h("Cant.", 1, align.Right),
		h("Rest.", 1, align.Right),
		h("P. prom.", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(summaries []entity.BatchSummary) []core.Row {
	result := make([]core.Row, 0, len(summaries))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, s := range summaries {
		result = append(result, row.New(7).Add(
			cell(s.BatchID, 2, align.Left),
			cell(s.Name, 3, align.Left),
			cell(fmt.Sprintf("%d", s.UnitCount), 1, align.Center),
			cell(s.TotalQuantity.StringFixed(2), 1, align.Right),
			cell(s.QuantityRemaining.StringFixed(2), 1, align.Right),
			cell("$"+formatMoney(s.AvgPrice.StringFixed(0)), 2, align.Right),
			cell("$"+formatMoney(s.TotalPrice.StringFixed(0)), 2, align.Right),
		))
	}
	return result
}

// totalsRow: cantidad de lotes, restante total y valor total.
func totalsRow(summaries []entity.BatchSummary) core.Row {
	remaining, value := decimal.Zero, decimal.Zero
	for _, s := range summaries {
		remaining = remaining.Add(s.QuantityRemaining)
		value = value.Add(s.TotalPrice)
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value2 := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(label("Lotes:"), label("Restante:"), label("Valor total:")),
		col.New(3).Add(
			value2(fmt.Sprintf("%d", len(summaries))),
			value2(remaining.StringFixed(2)),
			value2("$"+formatMoney(value.StringFixed(0))),
		),
	)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
