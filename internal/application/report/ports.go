package report

import (
	"context"
	"time"

	"github.com/farmavita/inventario-api/internal/application/dto"
)

// StockReportPDFGenerator define el puerto para renderizar el reporte de stock
// bajo mínimo como PDF (implementado en infraestructura con Maroto).
type StockReportPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, generatedAt time.Time, rows []dto.LowStockRecordDTO) ([]byte, error)
}
