package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// summaryRow is the subset of a library entry shown by --summary.
type summaryRow struct {
	Name      string `json:"name"`
	Downloads *struct {
		Artifact struct {
			URL  string `json:"url"`
			SHA1 string `json:"sha1"`
			Size int64  `json:"size"`
		} `json:"artifact"`
	} `json:"downloads"`
}

// renderSummary prints one row per library in doc. Entries without an
// artifact block (template natives, passthrough entries) show dashes.
func renderSummary(w io.Writer, doc *manifest.Document) error {
	p := message.NewPrinter(language.English)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Library", "Host", "Size", "SHA-1"})

	var total int64
	for _, raw := range doc.Libraries() {
		var row summaryRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("decoding library entry: %w", err)
		}
		if row.Downloads == nil {
			tw.AppendRow(table.Row{row.Name, "-", "-", "-"})
			continue
		}
		a := row.Downloads.Artifact
		total += a.Size
		tw.AppendRow(table.Row{row.Name, host(a.URL), p.Sprintf("%d", a.Size), shortDigest(a.SHA1)})
	}
	tw.AppendFooter(table.Row{p.Sprintf("%d libraries", len(doc.Libraries())), "", p.Sprintf("%d", total), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func host(raw string) string {
	if raw == "" {
		return "-"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func shortDigest(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	if sum == "" {
		return "-"
	}
	return sum
}
