package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX pulls paragraph and table text out of a .docx archive by
// walking word/document.xml directly. Paragraphs become lines; table rows
// become "cell | cell" lines.
func extractDOCX(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	var documentXML io.ReadCloser
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			documentXML, err = file.Open()
			if err != nil {
				return "", fmt.Errorf("opening document.xml: %w", err)
			}
			break
		}
	}
	if documentXML == nil {
		return "", fmt.Errorf("document.xml not found in archive")
	}
	defer documentXML.Close()

	parts, err := walkDocumentXML(documentXML)
	if err != nil {
		return "", err
	}

	return chunkText(strings.Join(parts, "\n\n"), "DOCX"), nil
}

// walkDocumentXML streams the WordprocessingML token stream. Paragraphs
// inside tables are folded into their cell instead of emitted standalone.
func walkDocumentXML(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		parts      []string
		paragraph  strings.Builder
		cell       strings.Builder
		rowCells   []string
		tableDepth int
		inCell     bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				rowCells = rowCells[:0]
			case "tc":
				inCell = true
				cell.Reset()
			case "p":
				if tableDepth == 0 {
					paragraph.Reset()
				}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &t); err != nil {
					continue
				}
				if inCell {
					cell.WriteString(text)
				} else if tableDepth == 0 {
					paragraph.WriteString(text)
				}
			case "tab":
				if inCell {
					cell.WriteString("\t")
				} else if tableDepth == 0 {
					paragraph.WriteString("\t")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			case "tr":
				if tableDepth > 0 {
					row := strings.Join(rowCells, " | ")
					if strings.TrimSpace(row) != "" {
						parts = append(parts, row)
					}
				}
			case "tc":
				inCell = false
				rowCells = append(rowCells, strings.TrimSpace(cell.String()))
			case "p":
				if tableDepth == 0 {
					if text := strings.TrimSpace(paragraph.String()); text != "" {
						parts = append(parts, text)
					}
				}
			}
		}
	}

	return parts, nil
}
