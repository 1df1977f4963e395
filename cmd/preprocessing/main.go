package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/roadpath/pkg/config"
	"github.com/lintang-b-s/roadpath/pkg/csvparser"
	"github.com/lintang-b-s/roadpath/pkg/datastructure"
	"github.com/lintang-b-s/roadpath/pkg/kv"
	"github.com/lintang-b-s/roadpath/pkg/osmparser"
)

var (
	configFile = flag.String("config", "", "path file konfigurasi toml")
	mapFile    = flag.String("f", "VT_Road_Centerline.csv", "road centerline csv atau openstreetmap pbf buat road network graphnya")
	snapshot   = flag.String("o", "", "output file snapshot graph (default graph.snapshot_path di config)")
	workers    = flag.Int("workers", -1, "jumlah worker parsing csv (default graph.workers di config)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *snapshot != "" {
		cfg.Graph.SnapshotPath = *snapshot
	}
	if *workers >= 0 {
		cfg.Graph.Workers = *workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("reading road network file %s", *mapFile)
	g := datastructure.NewRoadGraph()
	if err := loadRoadGraph(ctx, cfg, *mapFile, g); err != nil {
		log.Fatal(err)
	}
	recordMemProfile(memprofile, "parsing_road_data")

	g.BuildIndex()
	log.Printf("road graph: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	var wg sync.WaitGroup
	coords := g.Coordinates()
	if len(coords) > 0 && cfg.KV.Dir != "" {
		db, err := badger.Open(badger.DefaultOptions(cfg.KV.Dir))
		if err != nil {
			log.Fatal(err)
		}
		kvDB := kv.NewKVDB(db)
		defer kvDB.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := kvDB.BuildH3IndexedNodes(ctx, coords); err != nil {
				log.Printf("error building h3 index: %v", err)
				cancel()
			}
		}()
	} else {
		log.Printf("no coordinates or kv.dir is empty, skipping h3 index")
	}

	log.Printf("saving road graph to %s...", cfg.Graph.SnapshotPath)
	if err := os.MkdirAll(filepath.Dir(cfg.Graph.SnapshotPath), 0o755); err != nil {
		log.Fatal(err)
	}
	if err := g.SaveToFile(cfg.Graph.SnapshotPath); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	if ctx.Err() != nil {
		log.Fatal("preprocessing failed")
	}
	recordMemProfile(memprofile, "finish_preprocessing")

	fmt.Printf("\nroad graph ready!!\n")
}

func loadRoadGraph(ctx context.Context, cfg config.Config, path string, g *datastructure.RoadGraph) error {
	if strings.HasSuffix(path, ".pbf") {
		_, err := osmparser.NewOSMParser().ParseFile(ctx, path, g)
		return err
	}

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
		csvparser.WithProgress(true),
	)
	_, err := p.ParseFile(ctx, path, g)
	return err
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		path := strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
