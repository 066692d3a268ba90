package transcript

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/models"
)

var tagRE = regexp.MustCompile(`<[^>]*>`)

// timedTextXML is the attribute-style caption document served by /api/timedtext.
type timedTextXML struct {
	Lines []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
}

// json3Doc is the mapping-style caption document produced with fmt=json3.
type json3Doc struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// parseTimedTextXML normalizes a timedtext XML document into snippets.
func parseTimedTextXML(data []byte) ([]models.TimedSnippet, error) {
	var doc timedTextXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	snippets := make([]models.TimedSnippet, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		text := cleanText(line.Text)
		if text == "" {
			continue
		}
		start, err := strconv.ParseFloat(line.Start, 64)
		if err != nil {
			return nil, fmt.Errorf("parse start %q: %w", line.Start, err)
		}
		dur, _ := strconv.ParseFloat(line.Dur, 64)
		snippets = append(snippets, models.TimedSnippet{Start: start, Duration: dur, Text: text})
	}
	return snippets, nil
}

// parseJSON3 normalizes a json3 caption document into snippets.
func parseJSON3(data []byte) ([]models.TimedSnippet, error) {
	var doc json3Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}

	snippets := make([]models.TimedSnippet, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := cleanText(sb.String())
		if text == "" {
			continue
		}
		snippets = append(snippets, models.TimedSnippet{
			Start:    float64(ev.TStartMs) / 1000,
			Duration: float64(ev.DDurationMs) / 1000,
			Text:     text,
		})
	}
	return snippets, nil
}

// parseCaptions picks the decoder from the document's first significant byte.
func parseCaptions(data []byte) ([]models.TimedSnippet, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON3(data)
	}
	return parseTimedTextXML(data)
}

func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = tagRE.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
