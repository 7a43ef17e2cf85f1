package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes t as a single sheet workbook with a bold, frozen header row.
func WriteXLSX(w io.Writer, sheet string, t Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = cErr
		}
	}()

	if err = f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return errors.Wrapf(err, "writing header %s", cell)
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return errors.Wrapf(err, "styling header %s", cell)
		}
	}
	for r, row := range t.Rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return errors.Wrapf(err, "writing cell %s", cell)
			}
		}
	}
	if err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errors.Wrap(err, "freezing header")
	}

	_, err = f.WriteTo(w)
	return errors.Wrap(err, "writing workbook")
}
