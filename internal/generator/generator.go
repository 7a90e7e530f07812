// Package generator runs the invoice batch: derive each record, fill the
// document template, write one output file per invoice. One bad record never
// stops the rest of the batch.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/irizaika/jonny-cashflow/internal/derive"
	"github.com/irizaika/jonny-cashflow/internal/docxtpl"
	"github.com/irizaika/jonny-cashflow/internal/logger"
	"github.com/irizaika/jonny-cashflow/pkg/models"
)

// Renderer is the document template collaborator: it takes the flat field
// dictionary plus item rows and returns a finished document, or a template
// error.
type Renderer interface {
	Render(data docxtpl.RenderData) ([]byte, error)
}

// Summary reports the outcome of one batch run.
type Summary struct {
	Generated int
	Failed    int
}

// Generator renders invoice documents into an output directory.
type Generator struct {
	engine *derive.Engine
	outDir string
	log    zerolog.Logger
	now    func() time.Time
}

func New(engine *derive.Engine, outDir string) *Generator {
	return &Generator{
		engine: engine,
		outDir: outDir,
		log:    logger.WithComponent("generator"),
		now:    time.Now,
	}
}

// Run processes records strictly in order, one at a time. A record whose
// derivation or render fails is logged under its name and skipped. Output
// files are named Invoice_<id>.docx.
func (g *Generator) Run(ctx context.Context, records []models.InvoiceRecord, renderer Renderer) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoInvoices
	}

	g.log.Info().Int("invoices", len(records)).Msg("Starting invoice generation")

	var sum Summary
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		inv, err := g.engine.Derive(rec, g.now())
		if err != nil {
			g.log.Error().Err(err).Str("name", rec.Name).Msg("Skipping invoice")
			sum.Failed++
			continue
		}

		doc, err := renderer.Render(buildRenderData(inv))
		if err != nil {
			g.log.Error().Err(err).Str("name", rec.Name).Msg("Template error, skipping invoice")
			sum.Failed++
			continue
		}

		fileName := fmt.Sprintf("Invoice_%s.docx", inv.ID)
		path := filepath.Join(g.outDir, fileName)
		if err := os.WriteFile(path, doc, 0644); err != nil {
			g.log.Error().Err(err).Str("name", rec.Name).Str("file", path).Msg("Failed to write invoice")
			sum.Failed++
			continue
		}

		sum.Generated++
		g.log.Info().
			Str("name", rec.Name).
			Str("invoice_id", inv.ID).
			Str("file", fileName).
			Msg("Generated invoice")
	}

	g.log.Info().
		Int("generated", sum.Generated).
		Int("failed", sum.Failed).
		Msg("Invoice generation complete")
	return sum, nil
}
