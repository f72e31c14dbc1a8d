package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ExportSheetName = "Requests"

var exportHeaders = []interface{}{
	"ID", "User ID", "Image ID", "Image URL", "Status",
	"Reviewed By", "Reviewed At", "Comment", "Created At", "Updated At",
}

// WriteRequestsXLSX writes one header row followed by one row per request.
func WriteRequestsXLSX(w io.Writer, views []RequestView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheetName, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", "J1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExportSheetName, cell, exportRow(v)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ExportSheetName, "D", "D", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return f.Write(w)
}

func exportRow(v RequestView) *[]interface{} {
	r := v.Request
	var reviewedBy, reviewedAt, comment string
	if id, ok := r.ReviewedBy(); ok {
		reviewedBy = id.String()
	}
	if at, ok := r.ReviewedAt(); ok {
		reviewedAt = at.String()
	}
	if c, ok := r.Comment(); ok {
		comment = c
	}

	row := []interface{}{
		r.ID(),
		r.UserID().String(),
		r.ImageID().String(),
		v.ImageURL,
		r.Status().String(),
		reviewedBy,
		reviewedAt,
		comment,
		r.CreatedAt().String(),
		r.UpdatedAt().String(),
	}
	return &row
}
