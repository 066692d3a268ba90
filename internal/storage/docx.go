package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// SaveDocx writes the transcript buckets, followed by the summary when present,
// next to the text transcript with a .docx extension.
func (s *implTranscripts) SaveDocx(ctx context.Context, filename, videoID string, buckets []models.TranscriptBucket, summary *models.SummaryResult) (string, error) {
	docxName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".docx"
	path := filepath.Join(s.dir, docxName)

	if err := transcriptToDocx("Transcript "+videoID, buckets, summary, path); err != nil {
		return "", fmt.Errorf("write docx: %w", err)
	}

	s.logger.Info(ctx, "Saved docx: %s", path)
	return docxName, nil
}

func transcriptToDocx(title string, buckets []models.TranscriptBucket, summary *models.SummaryResult, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	for _, b := range buckets {
		p := doc.AddParagraph("")
		p.AddText("["+b.Label+"] ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
		p.AddText(b.Text).Font(fontName).Size(fontSize).Color("000000")
	}

	if summary != nil && !summary.Degraded() {
		addSummary(doc, summary)
	}

	return doc.SaveTo(outputPath)
}

func addSummary(doc *docx.RootDoc, summary *models.SummaryResult) {
	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "Summary", true, headingSize(2))
	for _, para := range strings.Split(summary.Summary, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			addRichText(doc.AddParagraph(""), para)
		}
	}

	if len(summary.KeyPoints) > 0 {
		addStyledRun(doc.AddParagraph(""), "Key points", true, headingSize(3))
		for _, kp := range summary.KeyPoints {
			addRichText(doc.AddParagraph(""), "• "+kp)
		}
	}

	if len(summary.Examples) > 0 {
		addStyledRun(doc.AddParagraph(""), "Examples", true, headingSize(3))
		for _, ex := range summary.Examples {
			heading := ex.Title
			if ex.Timestamp != "" {
				heading += " (" + ex.Timestamp + ")"
			}
			addStyledRun(doc.AddParagraph(""), heading, true, fontSize)
			addRichText(doc.AddParagraph(""), ex.Description)
		}
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
