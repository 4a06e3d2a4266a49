package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	apptrade "github.com/cosecha/backend/internal/application/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Archive keeps a copy of every rendered slip
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// PackingSlipConfig configures PackingSlipPrinter
type PackingSlipConfig struct {
	PaperSize PaperSize
	MarginMM  float64
	// Locale drives number and date formatting; defaults to es-ES
	Locale language.Tag
}

// PackingSlipPrinter renders producer order packing slips to PDF
type PackingSlipPrinter struct {
	renderer PDFRenderer
	archive  Archive
	tmpl     *template.Template
	cfg      PackingSlipConfig
	logger   *zap.Logger
}

// NewPackingSlipPrinter creates a printer. archive may be nil.
func NewPackingSlipPrinter(renderer PDFRenderer, archive Archive, cfg PackingSlipConfig, logger *zap.Logger) *PackingSlipPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PaperSize == "" {
		cfg.PaperSize = PaperSizeA4
	}
	if cfg.MarginMM <= 0 {
		cfg.MarginMM = 12
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.MustParse("es-ES")
	}

	p := message.NewPrinter(cfg.Locale)
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return p.Sprintf("%.2f €", d.Round(2).InexactFloat64())
		},
		"qty": func(n int) string {
			return p.Sprintf("%d", n)
		},
		"date": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},
	}

	return &PackingSlipPrinter{
		renderer: renderer,
		archive:  archive,
		tmpl:     template.Must(template.New("packing_slip").Funcs(funcs).Parse(packingSlipTemplate)),
		cfg:      cfg,
		logger:   logger,
	}
}

// RenderHTML produces the slip document without printing it
func (p *PackingSlipPrinter) RenderHTML(slip apptrade.PackingSlip) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, slip); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to execute packing slip template", err)
	}
	return buf.String(), nil
}

// RenderPackingSlip prints the slip and archives the PDF when an archive is set.
// Archive failures are logged; the PDF is still returned.
func (p *PackingSlipPrinter) RenderPackingSlip(ctx context.Context, slip apptrade.PackingSlip) ([]byte, error) {
	doc, err := p.RenderHTML(slip)
	if err != nil {
		return nil, err
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:      doc,
		Title:     "Albarán " + slip.ProducerOrder.OrderNumber,
		PaperSize: p.cfg.PaperSize,
		MarginMM:  p.cfg.MarginMM,
	})
	if err != nil {
		return nil, err
	}

	if p.archive != nil {
		key := ArchiveKey(slip)
		if err := p.archive.Put(ctx, key, result.PDFData, "application/pdf"); err != nil {
			p.logger.Warn("Failed to archive packing slip",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return result.PDFData, nil
}

// ArchiveKey is the object key a slip is archived under
func ArchiveKey(slip apptrade.PackingSlip) string {
	return archiveKey(slip.ProducerOrder.ProducerID.String(), slip.ProducerOrder.OrderNumber)
}

func archiveKey(producerID, orderNumber string) string {
	return fmt.Sprintf("packing-slips/%s/%s.pdf", producerID, orderNumber)
}

var _ apptrade.PackingSlipRenderer = (*PackingSlipPrinter)(nil)

const packingSlipTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Albarán {{.ProducerOrder.OrderNumber}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; color: #222; }
h1 { font-size: 18pt; margin: 0 0 4mm 0; }
.meta td { padding: 1mm 4mm 1mm 0; }
table.lines { width: 100%; border-collapse: collapse; margin-top: 6mm; }
table.lines th, table.lines td { border-bottom: 1px solid #ccc; padding: 2mm; text-align: left; }
table.lines td.num, table.lines th.num { text-align: right; }
tfoot td { font-weight: bold; border-top: 2px solid #222; }
.notes { margin-top: 6mm; font-style: italic; }
</style>
</head>
<body>
<h1>Albarán de preparación</h1>
<table class="meta">
<tr><td>Pedido productor</td><td>{{.ProducerOrder.OrderNumber}}</td></tr>
<tr><td>Pedido cliente</td><td>{{.OrderNumber}}</td></tr>
<tr><td>Estado</td><td>{{.ProducerOrder.Status}}</td></tr>
<tr><td>Fecha</td><td>{{date .ProducerOrder.CreatedAt}}</td></tr>
</table>
<table class="lines">
<thead><tr><th>Artículo</th><th class="num">Cantidad</th><th class="num">Precio</th><th class="num">Total</th></tr></thead>
<tbody>
{{- range .ProducerOrder.Lines}}
<tr><td>{{.ArticleName}}</td><td class="num">{{qty .Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .LineTotal}}</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td colspan="3">Subtotal</td><td class="num">{{money .ProducerOrder.Subtotal}}</td></tr></tfoot>
</table>
{{- with .ProducerOrder.Notes}}
<p class="notes">{{.}}</p>
{{- end}}
</body>
</html>`
