// Command packplan plans container loads from a YAML request file without
// running the HTTP service.
//
//	packplan --request order.yaml --format xlsx --out order.xlsx
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/loadplan-service/internal/logger"
)

func main() {
	app := kingpin.New("packplan", "Container load planner - distributes item quantities over container shipments")
	opts := options{}
	app.Flag("request", "Path to the YAML planning request").Short('r').Required().ExistingFileVar(&opts.requestFile)
	app.Flag("mode", "Allocation mode: standard, extended or multi (defaults to the request)").StringVar(&opts.mode)
	app.Flag("format", "Output format").Default("json").EnumVar(&opts.format, "json", "csv", "xlsx", "pdf")
	app.Flag("out", "Output file (stdout when empty)").Short('o').StringVar(&opts.out)
	app.Flag("padding", "Container padding used when the request sets none").Default("0").Float64Var(&opts.padding)
	app.Flag("project", "Print the unit positions of the shipment with this index").Default("-1").IntVar(&opts.project)
	app.Flag("reference", "Order reference printed on exports").StringVar(&opts.reference)
	verbose := app.Flag("verbose", "Log progress to stderr").Short('v').Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.Init(level, true)

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Planning failed")
	}
}
