// Package excelstore persists the master patent dataset as an xlsx workbook.
// The whole dataset is read and written in one piece; there is no row-level
// access, matching the single-writer merge discipline of the pipeline.
package excelstore

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/pkg/errors"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

// sheetName is the single sheet the dataset lives on.
const sheetName = "Patents"

// Store reads and writes the master dataset workbook at a fixed path.
type Store struct {
	path   string
	logger logging.Logger
	now    func() time.Time
}

// New builds a Store for the workbook at path.
func New(path string, logger logging.Logger) *Store {
	return &Store{path: path, logger: logger.Named("excelstore"), now: time.Now}
}

// Path returns the workbook path the store operates on.
func (s *Store) Path() string { return s.path }

// Load reads the full dataset. A missing file is an empty dataset, not an
// error; a present but unreadable file is an error.
func (s *Store) Load() ([]patent.Record, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.logger.Info("no existing dataset file", logging.String("path", s.path))
		return nil, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreOpenFailed,
			"failed to open dataset").WithDetail(s.path)
	}
	defer f.Close()

	sheet := sheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		// Older exports used the default sheet name.
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeStoreReadFailed,
			"failed to read sheet %q of %q", sheet, s.path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	out := make([]patent.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := colIdx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := patent.Record{
			ApplicationNumber: cell("ApplicationNumber"),
			ApplicationDate:   cell("ApplicationDate"),
			PatentYear:        cell("PatentYear"),
			Title:             cell("Title"),
			Abstract:          cell("Abstract"),
			Applicants:        cell("Applicants"),
			Inventors:         cell("Inventors"),
			Owners:            cell("Owners"),
			PatentURL:         cell("PatentUrl"),
			DocumentTypeName:  cell("DocumentTypeName"),
			LegalStatusName:   cell("LegalStatusName"),
			Source:            patent.Source(cell("Source")),
			ExtractedDate:     cell("ExtractedDate"),
		}
		rec.ResourceID, _ = strconv.ParseInt(cell("ResourceId"), 10, 64)
		rec.DocumentTypeID, _ = strconv.Atoi(cell("DocumentTypeId"))
		out = append(out, rec)
	}

	s.logger.Info("loaded dataset",
		logging.String("path", s.path), logging.Int("records", len(out)))
	return out, nil
}

// Save writes the full dataset, backing up the previous file first. The
// backup copy is what makes the overwrite recoverable; a failed backup aborts
// the save rather than risking the only copy of the master file.
func (s *Store) Save(dataset []patent.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to create dataset directory for %q", s.path)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.backup(); err != nil {
			return err
		}
	}

	if err := s.write(s.path, dataset, patent.Columns); err != nil {
		return err
	}

	s.logger.Info("saved dataset",
		logging.String("path", s.path), logging.Int("records", len(dataset)))
	return nil
}

// Export writes the dataset to path in the external consumer format, which
// drops the internal Source and ExtractedDate columns. No backup is taken;
// exports are disposable.
func (s *Store) Export(path string, dataset []patent.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to create export directory for %q", path)
	}
	if err := s.write(path, dataset, patent.ExportColumns()); err != nil {
		return err
	}
	s.logger.Info("exported dataset",
		logging.String("path", path), logging.Int("records", len(dataset)))
	return nil
}

func (s *Store) backup() error {
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	name := base + "_backup_" + s.now().Format("20060102_150405") + ".xlsx"
	backupPath := filepath.Join(filepath.Dir(s.path), name)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to read dataset for backup %q", s.path)
	}
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to write backup %q", backupPath)
	}

	s.logger.Info("created dataset backup", logging.String("path", backupPath))
	return nil
}

func (s *Store) write(path string, dataset []patent.Record, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to write header of %q", path)
	}

	for i := range dataset {
		row := recordRow(&dataset[i], columns)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
				"failed to write row %d of %q", i+2, path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, errors.ErrCodeStoreWriteFailed,
			"failed to save %q", path)
	}
	return nil
}

// recordRow renders rec in the given column order.
func recordRow(rec *patent.Record, columns []string) []interface{} {
	row := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		switch col {
		case "ResourceId":
			row = append(row, rec.ResourceID)
		case "ApplicationNumber":
			row = append(row, rec.ApplicationNumber)
		case "ApplicationDate":
			row = append(row, rec.ApplicationDate)
		case "PatentYear":
			row = append(row, rec.PatentYear)
		case "Title":
			row = append(row, rec.Title)
		case "Abstract":
			row = append(row, rec.Abstract)
		case "Applicants":
			row = append(row, rec.Applicants)
		case "Inventors":
			row = append(row, rec.Inventors)
		case "Owners":
			row = append(row, rec.Owners)
		case "PatentUrl":
			row = append(row, rec.PatentURL)
		case "DocumentTypeId":
			row = append(row, rec.DocumentTypeID)
		case "DocumentTypeName":
			row = append(row, rec.DocumentTypeName)
		case "LegalStatusName":
			row = append(row, rec.LegalStatusName)
		case "Source":
			row = append(row, string(rec.Source))
		case "ExtractedDate":
			row = append(row, rec.ExtractedDate)
		}
	}
	return row
}
