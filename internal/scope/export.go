package scope

import (
	"bytes"

	"github.com/keramy/formulapmv2-sub001/internal/apperrors"
	"github.com/keramy/formulapmv2-sub001/internal/permissions"
	"github.com/keramy/formulapmv2-sub001/internal/query"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Item No",
	"Category",
	"Description",
	"Quantity",
	"Unit Price",
	"Total Price",
	"Supplier",
	"Status",
	"Assignee",
	"Project",
}

var exportWidths = []float64{10, 15, 40, 12, 14, 14, 25, 14, 20, 25}

// ExportScope renders the actor's visible scope items as an xlsx workbook.
// The same filters as the list endpoint apply; pagination does not, and the
// rows default to ledger order rather than newest-first.
func ExportScope(actor permissions.Actor, params query.Params) ([]byte, error) {
	params.Limit = 0
	params.Page = 0
	if params.SortField == "" {
		params.SortField = "item_no"
		params.SortDirection = "asc"
	}

	items, _, err := ListScopeItems(actor, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Scope Items"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	for col, header := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			f.Close()
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, apperrors.Access(apperrors.AccessInternal, err)
		}
		if col < len(exportWidths) {
			f.SetColWidth(sheet, name, name, exportWidths[col])
		}
	}

	for i := range items {
		item := &items[i]
		row := i + 2

		values := []interface{}{
			item.ItemNo,
			item.Category,
			item.Description,
			item.Quantity.InexactFloat64(),
			item.UnitPrice.InexactFloat64(),
			item.TotalPrice.InexactFloat64(),
			"",
			string(item.Status),
			"",
			"",
		}
		if item.Supplier != nil {
			values[6] = item.Supplier.Name
		}
		if item.Assignee != nil {
			values[8] = item.Assignee.FullName()
		}
		if item.Project != nil {
			values[9] = item.Project.Name
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, apperrors.Access(apperrors.AccessInternal, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				f.Close()
				return nil, apperrors.Access(apperrors.AccessInternal, err)
			}
		}
	}

	// Keep the header visible when scrolling.
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}
	if err := f.Close(); err != nil {
		return nil, apperrors.Access(apperrors.AccessInternal, err)
	}

	return buf.Bytes(), nil
}
