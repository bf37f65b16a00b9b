// Command afcengine is the external CLI surface of spec §6: a
// single-invocation binary that reads a request document and a
// configuration document, solves every inquiry against the FS/RAS
// catalog and terrain stack found under a state directory, and writes
// the response document plus the threshold-audit CSV alongside it.
// Flag and sub-command shape follows the teacher's own cmd/main.go
// (cli.App with string/bool flags, one Action closure per command).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/urfave/cli/v2"

	"github.com/open-afc-project/openafc-sub001/afcmsg"
	"github.com/open-afc-project/openafc-sub001/audit"
	"github.com/open-afc-project/openafc-sub001/linkeval"
	"github.com/open-afc-project/openafc-sub001/raster"
	"github.com/open-afc-project/openafc-sub001/rlan"
	"github.com/open-afc-project/openafc-sub001/solver"
	"github.com/open-afc-project/openafc-sub001/terrain"
)

const (
	pixelAttr         = "value"
	rasterNamePattern = "*.tdb"
	metaRoundTo       = 1e-6
	metaMarginPx      = 1
	tileEdgePx        = 256
	tileCacheCapacity = 64
	openFileCapacity  = 16
)

// openTerrainLayer discovers one of the stack's four raster tiers
// under <state-root>/<subdir>. A missing or unreadable subdirectory is
// not fatal: the stack simply falls through to the next tier, per
// spec §4.E's prioritized-source design.
func openTerrainLayer(ctx *tiledb.Context, vfs *tiledb.VFS, stateRoot, subdir string) *raster.Backend {
	baseURI := filepath.Join(stateRoot, subdir)
	if info, err := os.Stat(baseURI); err != nil || !info.IsDir() {
		return nil
	}
	backend, err := raster.OpenDirectory(ctx, vfs, baseURI, rasterNamePattern, pixelAttr,
		metaRoundTo, metaMarginPx, tileEdgePx, tileCacheCapacity, openFileCapacity)
	if err != nil {
		log.Printf("afcengine: %s terrain layer unavailable under %s: %v", subdir, baseURI, err)
		return nil
	}
	return backend
}

// buildTerrainStack wires the five-tier terrain query from whichever
// of lidar/cdsm/dep/srtm subdirectories exist under state-root, plus a
// flat sea-level global fallback grid as the last resort when none of
// the higher-resolution tiers answer.
func buildTerrainStack(ctx *tiledb.Context, vfs *tiledb.VFS, stateRoot string) (*terrain.Stack, error) {
	lidar := openTerrainLayer(ctx, vfs, stateRoot, "lidar")
	cdsm := openTerrainLayer(ctx, vfs, stateRoot, "cdsm")
	dep := openTerrainLayer(ctx, vfs, stateRoot, "dep")
	srtm := openTerrainLayer(ctx, vfs, stateRoot, "srtm")

	global, err := terrain.NewGridFallback(1, 1, []float64{0})
	if err != nil {
		return nil, errors.Join(errors.New("afcengine: building global terrain fallback"), err)
	}
	return terrain.NewStack(lidar, cdsm, dep, srtm, global), nil
}

// terrainFunc adapts a Stack's richer five-way TerrainHeight query
// down to the plain (lat, lon) -> AMSL-height function the region
// geometry needs; the LIDAR building/no-data classification and
// source attribution are audit-only detail the solver core doesn't
// consume.
func terrainFunc(stack *terrain.Stack) rlan.TerrainFunc {
	return func(latDeg, lonDeg float64) (float64, error) {
		terrainM, _, _, _, err := stack.TerrainHeight(latDeg, lonDeg, false)
		return terrainM, err
	}
}

// propagationModel resolves the configuration document's selector to
// an implementation. Only the free-space model is implemented; any
// other selector falls back to it with a logged notice rather than
// failing the whole run, since the fallback is still a defensible
// (if conservative) answer.
func propagationModel(cfg afcmsg.Config) linkeval.PropagationModel {
	switch cfg.PropagationModel {
	case "", "FSPL":
		return linkeval.FreeSpacePathLoss
	default:
		log.Printf("afcengine: propagation model %q not implemented, using free-space path loss", cfg.PropagationModel)
		return linkeval.FreeSpacePathLoss
	}
}

func openInputFile(path, label string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("afcengine: reading %s %q: %w", label, path, err)
	}
	return f, nil
}

func decodeJSONFile(path, label string, v any) error {
	f, err := openInputFile(path, label)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("afcengine: decoding %s %q: %w", label, path, err)
	}
	return nil
}

// run executes one analysis: load the const inputs and terrain stack,
// decode the request and configuration documents, solve, and write
// both the response document and the threshold-audit log.
func run(cCtx *cli.Context) error {
	analysisType := cCtx.String("analysis-type")
	stateRoot := cCtx.String("state-root")
	constInputsPath := cCtx.String("const-inputs")
	requestPath := cCtx.String("input-device")
	configPath := cCtx.String("input-config")
	outputPath := cCtx.String("output-file")

	if analysisType != "" && analysisType != "AP-AFC" {
		log.Printf("afcengine: analysis type %q not recognized, proceeding as AP-AFC", analysisType)
	}

	var req afcmsg.Request
	if err := decodeJSONFile(requestPath, "request document", &req); err != nil {
		return err
	}
	cfg := afcmsg.DefaultConfig()
	if configPath != "" {
		if err := decodeJSONFile(configPath, "configuration document", &cfg); err != nil {
			return err
		}
	}

	constF, err := openInputFile(constInputsPath, "const-inputs document")
	if err != nil {
		return err
	}
	defer constF.Close()
	catalog, rasZones, err := solver.LoadConstInputs(constF)
	if err != nil {
		return fmt.Errorf("afcengine: loading const-inputs %q: %w", constInputsPath, err)
	}

	tcfg, err := tiledb.NewConfig()
	if err != nil {
		return err
	}
	defer tcfg.Free()
	ctx, err := tiledb.NewContext(tcfg)
	if err != nil {
		return err
	}
	defer ctx.Free()
	vfs, err := tiledb.NewVFS(ctx, tcfg)
	if err != nil {
		return err
	}
	defer vfs.Free()

	stack, err := buildTerrainStack(ctx, vfs, stateRoot)
	if err != nil {
		return err
	}

	outF, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("afcengine: creating output file %q: %w", outputPath, err)
	}
	defer outF.Close()

	auditPath := outputPath + ".exc_thr.csv.gz"
	auditF, err := os.Create(auditPath)
	if err != nil {
		return fmt.Errorf("afcengine: creating audit file %q: %w", auditPath, err)
	}
	defer auditF.Close()
	auditWriter, err := audit.NewWriter(auditF)
	if err != nil {
		return err
	}

	engine := solver.Engine{
		Catalog:     catalog,
		RASZones:    rasZones,
		Terrain:     terrainFunc(stack),
		Propagation: propagationModel(cfg),
		Audit:       auditWriter,
	}

	resp := solver.Solve(cCtx.Context, req, cfg, engine)

	if err := auditWriter.Close(); err != nil {
		return fmt.Errorf("afcengine: flushing audit log: %w", err)
	}
	enc := json.NewEncoder(outF)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("afcengine: writing response document: %w", err)
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:  "afcengine",
		Usage: "resolve an available-spectrum inquiry request against an FS/RAS catalog and terrain stack",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "solve a request document and write the response document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "analysis-type",
						Usage: "analysis type requested by the caller (e.g. AP-AFC)",
					},
					&cli.StringFlag{
						Name:     "state-root",
						Usage:    "URI or pathname to the root of the terrain raster state directories",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "const-inputs",
						Usage:    "URI or pathname to the FS/RAS const-inputs JSON document",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input-device",
						Usage:    "URI or pathname to the request document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "input-config",
						Usage: "URI or pathname to the configuration document; defaults applied if omitted",
					},
					&cli.StringFlag{
						Name:     "output-file",
						Usage:    "URI or pathname the response document is written to",
						Required: true,
					},
				},
				Action: run,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
