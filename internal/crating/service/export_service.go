package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/frederickespin/osi-plus-sub000/internal/crating/entity"
	"github.com/frederickespin/osi-plus-sub000/internal/crating/repository"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a costed plan into a quote workbook. When MinIO is
// configured the file is uploaded and a presigned URL is returned; otherwise
// the raw bytes are handed back for direct download.
type ExportService struct {
	draftRepo   *repository.DraftRepository
	minioClient *minio.Client
	bucket      string
}

func NewExportService(draftRepo *repository.DraftRepository, minioClient *minio.Client, bucket string) *ExportService {
	return &ExportService{draftRepo: draftRepo, minioClient: minioClient, bucket: bucket}
}

// ExportResult is either a presigned URL or the workbook bytes.
type ExportResult struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"-"`
}

// ExportQuote builds the quote workbook for a fully costed draft.
func (s *ExportService) ExportQuote(ctx context.Context, draftID string) (*ExportResult, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Plan == nil || draft.Plan.Costing == nil {
		return nil, fmt.Errorf("%w: costing has not been run", entity.ErrPreconditionNotMet)
	}

	f, err := buildQuoteWorkbook(draft)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	fileName := fmt.Sprintf("quote-%s-%s.xlsx", draft.ID[:8], time.Now().Format("20060102"))
	if s.minioClient == nil {
		return &ExportResult{FileName: fileName, Data: buf.Bytes()}, nil
	}

	objectName := "quotes/" + fileName
	_, err = s.minioClient.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
	if err != nil {
		return nil, fmt.Errorf("upload quote: %w", err)
	}
	url, err := s.minioClient.PresignedGetObject(ctx, s.bucket, objectName, 24*time.Hour, nil)
	if err != nil {
		return nil, fmt.Errorf("presign quote: %w", err)
	}
	return &ExportResult{FileName: fileName, URL: url.String()}, nil
}

func buildQuoteWorkbook(draft *entity.Draft) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Quote"
	f.SetSheetName("Sheet1", sheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "Crating Quote")
	f.SetCellValue(sheet, "A2", "Customer")
	f.SetCellValue(sheet, "B2", draft.CustomerID)
	f.SetCellValue(sheet, "A3", "Draft")
	f.SetCellValue(sheet, "B3", draft.ID)
	f.SetCellValue(sheet, "A4", "Settings version")
	f.SetCellValue(sheet, "B4", draft.Plan.SettingsVersionID)
	f.SetCellStyle(sheet, "A1", "A1", bold)

	headers := []string{"Box", "Kind", "Items", "Profile", "Lumber", "Skid",
		"Plywood (in)", "Materials", "Labor", "Adders", "Total", "Sell (RD$)", "Warnings"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	row := 7
	for _, cb := range draft.Plan.Costing.Boxes {
		skid := "no"
		if cb.Skid {
			skid = "yes"
		}
		warnings := ""
		for i, w := range cb.Cost.Warnings {
			if i > 0 {
				warnings += "; "
			}
			warnings += w.Message
		}
		for i, w := range cb.Issues {
			if warnings != "" || i > 0 {
				warnings += "; "
			}
			warnings += w.Message
		}
		values := []interface{}{cb.ID, string(cb.Kind), cb.ItemCount, string(cb.Profile),
			cb.LumberType, skid, cb.PlywoodThicknessIn,
			cb.Cost.MaterialsCost, cb.Cost.LaborCost, cb.Cost.AddersCost,
			cb.Cost.TotalCost, cb.Cost.SellPrice, warnings}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		start, _ := excelize.CoordinatesToCellName(8, row)
		end, _ := excelize.CoordinatesToCellName(12, row)
		f.SetCellStyle(sheet, start, end, money)
		row++
	}

	totals := draft.Plan.Costing.Totals
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTALS")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	for i, v := range []float64{totals.MaterialsCost, totals.LaborCost, totals.AddersCost, totals.TotalCost, totals.SellPrice} {
		cell, _ := excelize.CoordinatesToCellName(8+i, row)
		f.SetCellValue(sheet, cell, v)
		f.SetCellStyle(sheet, cell, cell, money)
	}
	return f, nil
}
