package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lintang-b-s/roadpath/pkg/config"
	"github.com/lintang-b-s/roadpath/pkg/csvparser"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadpath/pkg/osmparser"
)

var (
	configFile = flag.String("config", "", "path file konfigurasi toml (layout kolom csv)")
	mapFile    = flag.String("f", "VT_Road_Centerline.csv", "road centerline csv, openstreetmap pbf, atau snapshot graph (.zst)")
	from       = flag.Int64("from", 0, "source node id")
	to         = flag.Int64("to", 0, "target node id")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	g, err := loadRoadGraph(context.Background(), cfg, *mapFile)
	if err != nil {
		log.Fatal(err)
	}
	ni := g.BuildIndex()

	rt, err := routingalgorithm.NewRouteAlgorithm(g, ni)
	if err != nil {
		log.Fatal(err)
	}

	path, err := rt.ShortestPath(*from, *to)
	if errors.Is(err, datastructure.ErrUnknownNode) {
		fmt.Println("No Path")
		log.Fatal(err)
	}
	if err != nil {
		log.Fatal(err)
	}

	if !path.Found {
		fmt.Println("No Path")
		return
	}
	for _, name := range path.StreetNames() {
		fmt.Println(name)
	}
	fmt.Printf("Total distance: %.2f miles\n", path.Distance)
}

func loadRoadGraph(ctx context.Context, cfg config.Config, path string) (*datastructure.RoadGraph, error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return datastructure.LoadRoadGraph(path)
	case strings.HasSuffix(path, ".pbf"):
		g := datastructure.NewRoadGraph()
		_, err := osmparser.NewOSMParser().ParseFile(ctx, path, g)
		return g, err
	default:
		g := datastructure.NewRoadGraph()
		p := csvparser.NewCSVParser(
			csvparser.WithColumns(csvparser.Columns{
				Start:  cfg.Ingest.StartColumn,
				End:    cfg.Ingest.EndColumn,
				Name:   cfg.Ingest.NameColumn,
				Weight: cfg.Ingest.WeightColumn,
			}),
			csvparser.WithHeader(cfg.Ingest.Header),
			csvparser.WithSelfLoops(cfg.Ingest.SelfLoops),
			csvparser.WithStrict(cfg.Ingest.Strict),
			csvparser.WithWorkers(cfg.Graph.Workers),
		)
		_, err := p.ParseFile(ctx, path, g)
		return g, err
	}
}
