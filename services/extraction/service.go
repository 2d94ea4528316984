// Package extractsvc turns uploaded files into import rows. Spreadsheets are
// parsed deterministically; anything else, or a spreadsheet whose layout
// cannot be recognized, is delegated to the document-understanding service.
package extractsvc

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/importer"
)

type Service struct {
	client *resty.Client
	logger core.Logger
}

func NewService(conf *core.Config, logger core.Logger) *Service {
	client := resty.New().
		SetBaseURL(conf.Extraction.URL).
		SetTimeout(conf.Extraction.Timeout).
		SetAuthToken(conf.Extraction.ApiKey)
	return &Service{client: client, logger: logger}
}

// Extract produces preview candidates for one uploaded file. The spreadsheet
// path is tried first where it applies; an unrecognized layout falls back to
// the document-understanding service rather than failing the upload.
func (svc *Service) Extract(ctx context.Context, filename string, content []byte, domain importer.Domain) ([]*importer.Candidate, error) {
	if isSpreadsheet(filename) {
		rows, err := svc.ParseSpreadsheet(filename, content)
		if err == nil {
			cands, err := importer.NormalizeRows(rows, domain)
			if err == nil {
				return cands, nil
			}
			if !errors.Is(err, importer.ErrUnrecognizedLayout) {
				return nil, err
			}
			svc.logger.Info(fmt.Sprintf("extraction: %s: unrecognized layout, delegating to document service", filename))
		} else {
			svc.logger.Warn(fmt.Sprintf("extraction: parsing %s: %v; delegating to document service", filename, err))
		}
	}

	rows, err := svc.extractDocument(ctx, filename, content, domain)
	if err != nil {
		return nil, err
	}
	return importer.NormalizeRows(rows, domain)
}

func isSpreadsheet(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// ParseSpreadsheet reads an .xlsx/.xlsm/.csv file into rows keyed by the
// header row. The header row is the first row with any non-blank cell.
func (svc *Service) ParseSpreadsheet(filename string, content []byte) ([]importer.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseXLSX(content)
	case ".csv":
		return parseCSV(content)
	}
	return nil, errors.Errorf("unsupported spreadsheet format %q", filepath.Ext(filename))
}

func parseXLSX(content []byte) ([]importer.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}
	return rowsFromCells(cells), nil
}

func parseCSV(content []byte) ([]importer.Row, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1 // exported files often have ragged rows
	r.TrimLeadingSpace = true

	var cells [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}
		cells = append(cells, record)
	}
	return rowsFromCells(cells), nil
}

// rowsFromCells keys each data row by the header row's cell values. Columns
// beyond the header width and blank-header columns are dropped.
func rowsFromCells(cells [][]string) []importer.Row {
	var headers []string
	start := 0
	for i, row := range cells {
		if !blankRow(row) {
			headers = row
			start = i + 1
			break
		}
	}
	if headers == nil {
		return nil
	}

	rows := make([]importer.Row, 0, len(cells)-start)
	for _, cell := range cells[start:] {
		if blankRow(cell) {
			continue
		}
		row := make(importer.Row, len(headers))
		for i, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" || i >= len(cell) {
				continue
			}
			row[h] = cell[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type extractionResponse struct {
	Data []importer.Row `json:"data"`
}

// extractDocument sends the file to the document-understanding service and
// returns whatever rows it recognized.
func (svc *Service) extractDocument(ctx context.Context, filename string, content []byte, domain importer.Domain) ([]importer.Row, error) {
	resp, err := svc.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(content)).
		SetFormData(map[string]string{
			"domain": string(domain),
			"mime":   mime.TypeByExtension(filepath.Ext(filename)),
		}).
		SetResult(&extractionResponse{}).
		Post("/v1/extract")
	if err != nil {
		return nil, errors.Wrap(err, "calling document service")
	}
	if resp.IsError() {
		return nil, errors.Errorf("document service returned %s", resp.Status())
	}

	out, ok := resp.Result().(*extractionResponse)
	if !ok || out == nil {
		return nil, errors.New("document service returned an unreadable response")
	}
	return out.Data, nil
}
