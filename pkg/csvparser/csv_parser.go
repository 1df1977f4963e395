package csvparser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/lintang-b-s/roadpath/pkg/concurrent"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/schollz/progressbar/v3"
)

var ErrMalformedRecord = errors.New("malformed road record")

// Columns. posisi kolom (0-based) di setiap baris csv.
type Columns struct {
	Start  int
	End    int
	Name   int
	Weight int
}

// DefaultColumns. layout export road centerline Vermont: StartNodeID, EndNodeID, street name, ArcMiles.
var DefaultColumns = Columns{
	Start:  60,
	End:    61,
	Name:   9,
	Weight: 31,
}

func (c Columns) maxIndex() int {
	return max(c.Start, c.End, c.Name, c.Weight)
}

type Stats struct {
	Rows    int
	Roads   int
	Skipped int
}

/*
CSVParser. baca road centerline csv (satu baris = satu road dua arah) ke RoadGraph.

parsing baris dibagi ke worker pool per batch, tapi road dimasukkan ke graph urut sesuai baris di file,
jadi adjacency order (dan tie-break shortest path) sama untuk file yang sama.
*/
type CSVParser struct {
	columns   Columns
	header    bool
	workers   int
	batchSize int
	selfLoops bool
	progress  bool
	strict    bool
}

type Option func(*CSVParser)

func WithColumns(c Columns) Option {
	return func(p *CSVParser) {
		p.columns = c
	}
}

// WithHeader. baris pertama header (default true).
func WithHeader(header bool) Option {
	return func(p *CSVParser) {
		p.header = header
	}
}

func WithWorkers(n int) Option {
	return func(p *CSVParser) {
		p.workers = n
	}
}

// WithSelfLoops. false berarti road dengan start == end di skip.
func WithSelfLoops(allow bool) Option {
	return func(p *CSVParser) {
		p.selfLoops = allow
	}
}

func WithProgress(show bool) Option {
	return func(p *CSVParser) {
		p.progress = show
	}
}

// WithStrict. baris malformed langsung return ErrMalformedRecord, bukan di skip.
func WithStrict(strict bool) Option {
	return func(p *CSVParser) {
		p.strict = strict
	}
}

func NewCSVParser(opts ...Option) *CSVParser {
	p := &CSVParser{
		columns:   DefaultColumns,
		header:    true,
		batchSize: 1024,
		selfLoops: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *CSVParser) ParseFile(ctx context.Context, path string, g *datastructure.RoadGraph) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	if !p.progress {
		return p.Parse(ctx, f, g)
	}

	info, err := f.Stat()
	if err != nil {
		return Stats{}, err
	}
	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] reading road centerline csv ..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	reader := progressbar.NewReader(f, bar)
	defer bar.Finish()

	return p.Parse(ctx, &reader, g)
}

type recordResult struct {
	edge    datastructure.Edge
	skipped bool
	err     error
}

func (p *CSVParser) Parse(ctx context.Context, r io.Reader, g *datastructure.RoadGraph) (Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	stats := Stats{}
	line := 0
	if p.header {
		_, err := reader.Read()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read csv header: %w", err)
		}
		line++
	}

	pool, err := concurrent.NewWorkerPool(p.workers)
	if err != nil {
		return stats, err
	}
	defer pool.Release()

	batch := make([]concurrent.Job[concurrent.RoadRecord], 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results := concurrent.RunJobs(pool, batch, p.parseRecord)
		batch = batch[:0]

		for _, res := range results {
			if res.err != nil {
				if p.strict {
					return res.err
				}
				stats.Skipped++
				continue
			}
			if res.skipped {
				stats.Skipped++
				continue
			}
			if err := g.AddRoad(res.edge); err != nil {
				return err
			}
			stats.Roads++
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return stats, fmt.Errorf("read csv line %d: %w", line, err)
			}
			if p.strict {
				return stats, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
			}
			stats.Rows++
			stats.Skipped++
			continue
		}
		stats.Rows++

		batch = append(batch, concurrent.NewJob(len(batch), concurrent.NewRoadRecord(line, fields)))
		if len(batch) == p.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}

	log.Printf("road csv loaded: %d rows, %d roads, %d skipped", stats.Rows, stats.Roads, stats.Skipped)
	return stats, nil
}

// parseRecord. satu baris csv jadi Edge start -> end.
func (p *CSVParser) parseRecord(record concurrent.RoadRecord) recordResult {
	fields := record.Fields
	if len(fields) <= p.columns.maxIndex() {
		return recordResult{err: fmt.Errorf("%w: line %d: %d fields, need %d", ErrMalformedRecord,
			record.Line, len(fields), p.columns.maxIndex()+1)}
	}

	start, err := strconv.ParseInt(strings.TrimSpace(fields[p.columns.Start]), 10, 64)
	if err != nil {
		return recordResult{err: fmt.Errorf("%w: line %d: start node: %v", ErrMalformedRecord, record.Line, err)}
	}
	end, err := strconv.ParseInt(strings.TrimSpace(fields[p.columns.End]), 10, 64)
	if err != nil {
		return recordResult{err: fmt.Errorf("%w: line %d: end node: %v", ErrMalformedRecord, record.Line, err)}
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(fields[p.columns.Weight]), 64)
	if err != nil {
		return recordResult{err: fmt.Errorf("%w: line %d: weight: %v", ErrMalformedRecord, record.Line, err)}
	}

	edge := datastructure.NewEdge(start, end, fields[p.columns.Name], weight)
	if err := edge.Validate(); err != nil {
		return recordResult{err: fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, record.Line, err)}
	}
	if start == end && !p.selfLoops {
		return recordResult{skipped: true}
	}
	return recordResult{edge: edge}
}
