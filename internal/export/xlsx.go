package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Write renders records of one kind as a single-sheet workbook. Reference
// columns show the referenced record's label when refs holds it.
func Write(w io.Writer, info model.KindInfo, records []model.Record, refs map[model.Kind][]model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(info.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(info.Fields)+1)
	header = append(header, "ID")
	for _, fld := range info.Fields {
		header = append(header, fld.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		values := model.Fields(rec)
		row := make([]any, 0, len(header))
		row = append(row, rec.RecordID())
		for _, fld := range info.Fields {
			row = append(row, cellValue(fld, values[fld.Key], refs))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(records) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), len(records)+1)
		if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("set filter: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile exports into dir and returns the created file's path
func WriteFile(dir string, info model.KindInfo, records []model.Record, refs map[model.Kind][]model.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.xlsx", info.Kind, time.Now().Format("20060102-150405")))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, info, records, refs); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func cellValue(fld model.Field, v any, refs map[model.Kind][]model.Record) any {
	switch fld.Type {
	case model.FieldRef:
		if id, ok := v.(float64); ok {
			return RefLabel(refs[fld.Ref], int(id))
		}
		return ""
	case model.FieldInt, model.FieldFloat:
		if n, ok := v.(float64); ok {
			return n
		}
		return ""
	default:
		return model.FormatValue(v)
	}
}

// RefLabel resolves id against a loaded option list, falling back to "#id"
func RefLabel(list []model.Record, id int) string {
	if id == 0 {
		return ""
	}
	for _, rec := range list {
		if rec.RecordID() == id {
			return rec.Label()
		}
	}
	return fmt.Sprintf("#%d", id)
}

// sheet names are capped at 31 characters
func sheetName(title string) string {
	r := []rune(title)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
