// Package pdf implementa la representación gráfica del historial de
// movimientos de stock de un business usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Business + rango de fechas                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | EAN/SKU | Ubicación | Cantidad        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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

	"github.com/fulfila/stock-api/internal/application/report"
	"github.com/fulfila/stock-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoMovementsGenerator implementa report.MovementsPDFGenerator usando
// Maroto v2.
type MarotoMovementsGenerator struct{}

// NewMarotoMovementsGenerator construye el generador.
func NewMarotoMovementsGenerator() *MarotoMovementsGenerator { return &MarotoMovementsGenerator{} }

// GenerateMovementsPDF genera el PDF y devuelve sus bytes.
func (g *MarotoMovementsGenerator) GenerateMovementsPDF(
	_ context.Context,
	business *entity.Business,
	from, to time.Time,
	rows []report.MovementRow,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de movimientos de stock", true).
		WithAuthor(business.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(business, from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(detailRow(r))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(business *entity.Business, from, to time.Time) core.Row {
	period := fmt.Sprintf("%s — %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return row.New(14).Add(
		col.New(8).Add(
			text.New(business.Name, props.Text{Size: 13, Style: fontstyle.Bold, Color: colorPrimary}),
			text.New("Movimientos de stock", props.Text{Top: 6, Size: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(period, props.Text{Size: 9, Align: align.Right}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary}
	return row.New(7).Add(
		col.New(2).Add(text.New("Fecha", header)),
		col.New(2).Add(text.New("Tipo", header)),
		col.New(4).Add(text.New("Producto (EAN / SKU)", header)),
		col.New(2).Add(text.New("Ubicación", header)),
		col.New(2).Add(text.New("Cantidad", props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right})),
	)
}

func detailRow(r report.MovementRow) core.Row {
	cell := props.Text{Size: 8}
	product := ""
	if r.Product != nil {
		product = fmt.Sprintf("%s / %s — %s", r.Product.EAN, r.Product.SKU, r.Product.Name)
	}
	storage := ""
	if r.Storage != nil {
		storage = fmt.Sprintf("%s/%s", r.Storage.Rag, r.Storage.Site)
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(r.Movement.Date.Format("2006-01-02 15:04"), cell)),
		col.New(2).Add(text.New(r.Movement.Type, cell)),
		col.New(4).Add(text.New(product, cell)),
		col.New(2).Add(text.New(storage, cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", r.Movement.Quantity), props.Text{Size: 8, Align: align.Right})),
	)
}
