package report

import "context"

// PDFUseCase genera la versión imprimible del reporte de stock bajo mínimo
// (la farmacia lo usa como lista de pedido para los proveedores).
type PDFUseCase struct {
	reports   *UseCase
	generator StockReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso de PDF.
func NewPDFUseCase(reports *UseCase, generator StockReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{reports: reports, generator: generator}
}

// LowStockPDF arma el reporte de líneas bajo mínimo (global o por inventario)
// y lo renderiza como PDF.
func (uc *PDFUseCase) LowStockPDF(ctx context.Context, inventoryID string) ([]byte, error) {
	rows, err := uc.reports.LowStockRecords(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateLowStockPDF(ctx, uc.reports.now(), rows)
}
