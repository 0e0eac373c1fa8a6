package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("inkstudio.internal.catalog")

// Loader resolves the catalog at start-up.
type Loader struct {
	source Source
	seed   bool
	logger *logging.Logger
}

// NewLoader creates a loader. When seed is true and the source supports it,
// a missing catalog is written out after the in-memory table is chosen, so
// the seeded file takes effect on the next start.
func NewLoader(source Source, seed bool, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{source: source, seed: seed, logger: logger}
}

// Load reads the source. A missing or empty source yields the built-in table;
// any other read failure is returned.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	ctx, span := tracer.Start(ctx, "catalog.load")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.source", l.source.String()))

	cat, err := l.read(ctx)
	switch {
	case errors.Is(err, ErrSourceNotFound):
		l.logger.Warn("catalog not found, using built-in table", "source", l.source.String())
		cat = Default()
	case errors.Is(err, ErrEmptyCatalog):
		l.logger.Warn("catalog has no entries, using built-in table", "source", l.source.String())
		cat = Default()
	case err != nil:
		span.RecordError(err)
		return nil, err
	}

	if l.seed {
		if err := l.seedIfMissing(ctx); err != nil {
			// the in-memory catalog is already usable
			l.logger.Error("failed to seed catalog", "source", l.source.String(), "error", err)
		}
	}

	span.SetAttributes(attribute.Int("catalog.entries", cat.Len()))
	l.logger.Info("catalog loaded", "source", l.source.String(), "entries", cat.Len())
	return cat, nil
}

func (l *Loader) read(ctx context.Context) (*Catalog, error) {
	rc, err := l.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseCSV(rc)
}

func (l *Loader) seedIfMissing(ctx context.Context) error {
	seeder, ok := l.source.(Seeder)
	if !ok {
		return nil
	}
	exists, err := seeder.Exists(ctx)
	if err != nil || exists {
		return err
	}
	if err := seeder.Seed(ctx); err != nil {
		return err
	}
	l.logger.Info("catalog seed written", "source", l.source.String(), "entries", len(seedEntries))
	return nil
}

// ParseCSV reads a catalog with a header row followed by type,price rows.
// Rows with fewer than two columns are skipped; extra columns are ignored.
func ParseCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}

	var entries []Entry
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read row: %w", err)
		}
		if len(row) < 2 {
			continue
		}
		entries = append(entries, Entry{Type: row[0], Price: row[1]})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(entries), nil
}

// WriteCSV writes entries with a type,price header.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "price"}); err != nil {
		return fmt.Errorf("catalog: write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Type, e.Price}); err != nil {
			return fmt.Errorf("catalog: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("catalog: flush: %w", err)
	}
	return nil
}

// SeedEntries returns a copy of the table written by Seed.
func SeedEntries() []Entry {
	return append([]Entry(nil), seedEntries...)
}
