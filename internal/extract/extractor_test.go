package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("application/pdf"))
	assert.True(t, Supported("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.True(t, Supported("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.True(t, Supported("image/png"))
	assert.True(t, Supported("image/tiff"))

	assert.False(t, Supported("text/plain"))
	assert.False(t, Supported("application/zip"))
	assert.False(t, Supported(""))
}

func TestExtractImagePlaceholder(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "[Image: site-photo.png]", e.Extract("site-photo.png", []byte{0x89}, "image/png"))
}

func TestExtractUnknownTypeYieldsEmpty(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	assert.Equal(t, "", e.Extract("notes.txt", []byte("hello"), "text/plain"))
}

func TestExtractCorruptDocumentReportsInline(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	out := e.Extract("broken.pdf", []byte("not a pdf"), "application/pdf")
	assert.True(t, strings.HasPrefix(out, "[Error processing broken.pdf:"), out)
}

func TestExtractXLSX(t *testing.T) {
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetCellValue("Sheet1", "A1", "Item"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B1", "Cost"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "A2", "Pipeline"))
	require.NoError(t, workbook.SetCellValue("Sheet1", "B2", 125000))

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))

	e := NewExtractor(zap.NewNop())
	out := e.Extract("budget.xlsx", buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	assert.Contains(t, out, "=== Sheet: Sheet1 ===")
	assert.Contains(t, out, "Item | Cost")
	assert.Contains(t, out, "Pipeline | 125000")
}

func TestExtractDOCX(t *testing.T) {
	document := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Scope of work</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Zone</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Budget</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(document))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e := NewExtractor(zap.NewNop())
	out := e.Extract("scope.docx", buf.Bytes(), "application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	assert.Contains(t, out, "Scope of work")
	assert.Contains(t, out, "Zone | Budget")
}

func TestChunkTextShortPassthrough(t *testing.T) {
	assert.Equal(t, "small text", chunkText("small text", "PDF"))
}

func TestChunkTextLargeNotesTruncation(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, fmt.Sprintf("para %d %s", i, strings.Repeat("x", 4000)))
	}
	text := strings.Join(paragraphs, "\n\n")

	out := chunkText(text, "PDF")
	assert.Less(t, len(out), len(text))
	assert.Contains(t, out, "para 0")
	assert.Contains(t, out, "[Note: This PDF file is very large. Showing first ~50,000 characters. Total chunks:")
}
