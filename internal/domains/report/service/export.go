package service

import (
	"github.com/xuri/excelize/v2"

	"bookreview-backend/internal/domains/report/model"
)

const topSellingSheet = "Top selling"

var topSellingHeaders = []string{
	"Rank",
	"Book ID",
	"Title",
	"Author",
	"Publication Date",
	"Publication Year",
	"Book Sales",
	"Author Sales",
	"Top 5 In Year",
}

func buildTopSellingWorkbook(books []model.TopSellingBook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", topSellingSheet); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range topSellingHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(topSellingSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(topSellingHeaders), 1)
		_ = f.SetCellStyle(topSellingSheet, "A1", lastCol, headerStyle)
	}

	// Data rows start at row 2
	for i, b := range books {
		rowNum := i + 2

		var pubDate, pubYear interface{}
		if b.PublicationDate != nil {
			pubDate = *b.PublicationDate
		}
		if b.PublicationYear != nil {
			pubYear = *b.PublicationYear
		}

		row := []interface{}{
			i + 1,
			b.BookID.String(),
			b.Title,
			b.AuthorName,
			pubDate,
			pubYear,
			b.BookTotalSales,
			b.AuthorTotalSales,
			b.WasTop5InPublicationYear,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(topSellingSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
