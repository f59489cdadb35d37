package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/loadplan-service/internal/domain/model"
	"github.com/guttosm/loadplan-service/internal/export"
	"github.com/guttosm/loadplan-service/internal/service"
)

type options struct {
	requestFile string
	mode        string
	format      string
	out         string
	padding     float64
	project     int
	reference   string
}

// requestFile is the YAML document read by packplan.
type requestFile struct {
	model.PlanRequest `yaml:",inline"`
	Reference         string `yaml:"reference"`
}

func loadRequest(path string) (requestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return requestFile{}, fmt.Errorf("read request: %w", err)
	}
	var req requestFile
	if err := yaml.Unmarshal(data, &req); err != nil {
		return requestFile{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return req, nil
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	req, err := loadRequest(opts.requestFile)
	if err != nil {
		return err
	}
	if opts.mode != "" {
		req.Mode = model.AllocationMode(opts.mode)
	}
	if opts.reference != "" {
		req.Reference = opts.reference
	}
	if opts.padding < 0 {
		return fmt.Errorf("padding must not be negative")
	}

	planner := service.NewPlanningService(service.WithDefaultPadding(opts.padding))
	defer planner.Close()

	var out []byte
	if opts.project >= 0 {
		if opts.format != "json" {
			return fmt.Errorf("--project only supports json output")
		}
		projection, err := planner.Project(ctx, req.PlanRequest, opts.project)
		if err != nil {
			return err
		}
		if out, err = json.MarshalIndent(projection, "", "  "); err != nil {
			return err
		}
	} else {
		if out, err = plan(ctx, planner, req, opts.format); err != nil {
			return err
		}
	}

	if opts.out == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.out, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	log.Info().Str("file", opts.out).Int("bytes", len(out)).Msg("Plan written")
	return nil
}

func plan(ctx context.Context, planner *service.PlanningServiceImpl, req requestFile, format string) ([]byte, error) {
	allocate := planner.Allocate
	if req.EffectiveMode() == model.ModeMulti {
		allocate = planner.AllocateMulti
	}
	result, err := allocate(ctx, req.PlanRequest)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("plan_id", result.PlanID).
		Int("shipments", len(result.Shipments)).
		Int("leftover", result.Leftover).
		Msg("Allocation computed")

	if format == "json" {
		return json.MarshalIndent(result, "", "  ")
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	doc := export.Document{
		Reference:   req.Reference,
		Result:      result,
		Items:       req.ItemList(),
		GeneratedAt: time.Now().UTC(),
	}
	if err := export.Write(&buf, f, doc); err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
