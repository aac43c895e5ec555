package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// maxChunkSize caps extracted text so one attachment cannot overflow the
// prompt context (~12k tokens)
const maxChunkSize = 50000

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeDOC  = "application/msword"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeXLS  = "application/vnd.ms-excel"
)

// Extractor pulls plain text out of uploaded documents so it can be fed
// into generation prompts
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Supported reports whether a content type can be attached at all
func Supported(contentType string) bool {
	switch contentType {
	case contentTypePDF, contentTypeDOCX, contentTypeDOC, contentTypeXLSX, contentTypeXLS,
		"image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return strings.HasPrefix(contentType, "image/")
}

// Extract returns the text content of a file. Images yield a placeholder
// (the bytes themselves go down the vision path). Extraction failures are
// reported inline rather than aborting the upload.
func (e *Extractor) Extract(filename string, content []byte, contentType string) string {
	var (
		text string
		err  error
	)

	switch {
	case contentType == contentTypePDF:
		text, err = extractPDF(content)
	case contentType == contentTypeDOCX || contentType == contentTypeDOC:
		text, err = extractDOCX(content)
	case contentType == contentTypeXLSX || contentType == contentTypeXLS:
		text, err = extractXLSX(content)
	case strings.HasPrefix(contentType, "image/"):
		return fmt.Sprintf("[Image: %s]", filename)
	default:
		return ""
	}

	if err != nil {
		e.logger.Warn("file text extraction failed",
			zap.String("filename", filename),
			zap.String("contentType", contentType),
			zap.Error(err))
		return fmt.Sprintf("[Error processing %s: %v]", filename, err)
	}

	return text
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var parts []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			parts = append(parts, fmt.Sprintf("[Error extracting page %d: %v]", pageNum, err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", pageNum, text))
		}
	}

	return chunkText(strings.Join(parts, "\n\n"), "PDF"), nil
}

func extractXLSX(content []byte) (string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer workbook.Close()

	var parts []string
	for _, sheetName := range workbook.GetSheetList() {
		parts = append(parts, fmt.Sprintf("=== Sheet: %s ===\n", sheetName))

		rows, err := workbook.GetRows(sheetName)
		if err != nil {
			parts = append(parts, fmt.Sprintf("[Error reading sheet %s: %v]", sheetName, err))
			continue
		}

		var rowLines []string
		for _, row := range rows {
			empty := true
			for _, cell := range row {
				if cell != "" {
					empty = false
					break
				}
			}
			if !empty {
				rowLines = append(rowLines, strings.Join(row, " | "))
			}
		}
		parts = append(parts, strings.Join(rowLines, "\n"))
	}

	return chunkText(strings.Join(parts, "\n\n"), "Excel"), nil
}

// chunkText keeps the first ~50k characters of very large extractions,
// split on paragraph boundaries, and notes how much was dropped
func chunkText(text string, fileType string) string {
	if len(text) <= maxChunkSize {
		return text
	}

	var chunks []string
	var current []string
	currentSize := 0

	for _, para := range strings.Split(text, "\n\n") {
		if currentSize+len(para) > maxChunkSize {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, "\n\n"))
			}
			current = []string{para}
			currentSize = len(para)
		} else {
			current = append(current, para)
			currentSize += len(para)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	if len(chunks) > 1 {
		return fmt.Sprintf("%s\n\n[Note: This %s file is very large. Showing first ~50,000 characters. Total chunks: %d]", chunks[0], fileType, len(chunks))
	}
	if len(chunks) == 1 {
		return chunks[0]
	}
	return text[:maxChunkSize]
}
