package aggregated

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/models"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []any{
	"article",
	"article_code",
	"category",
	"sales_total_revenue",
	"margin",
	"last_sale_date",
}

// HandleExport renders the whole report as an XLSX workbook.
func (h *AggregatedSaleHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	report, err := h.repo.AggregateSales(r.Context(), models.AggregateFilter{})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	buf, err := h.workbook(r, report)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("sale_aggregated_%s.xlsx", h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *AggregatedSaleHandler) workbook(r *http.Request, report []models.AggregatedSale) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := exportHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, s := range report {
		excelRow := []any{
			api.Link(r, api.ResourceArticle, s.ArticleID),
			s.ArticleCode,
			api.Link(r, api.ResourceCategory, s.CategoryID),
			s.SalesTotalRevenue.RoundBank(2).InexactFloat64(),
			s.Margin.RoundBank(2).InexactFloat64(),
			s.LastSaleDate.Format(time.DateOnly),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
