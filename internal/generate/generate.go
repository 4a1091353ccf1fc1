// Package generate walks the data directory and turns every league JSON
// file into per-team calendar files under the output directory.
package generate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cslcal/internal/config"
	"cslcal/internal/ics"
	appLog "cslcal/internal/log"
	"cslcal/internal/schedule"
)

// Generator runs the schedule-to-calendar pipeline for one configuration.
type Generator struct {
	dataDir   string
	outDir    string
	defaultTZ string
	builder   *ics.Builder
}

// New creates a Generator from the effective configuration.
func New(cfg *config.Config) *Generator {
	return &Generator{
		dataDir:   cfg.DataDir,
		outDir:    cfg.OutputDir,
		defaultTZ: cfg.TimezoneDefault,
		builder:   ics.NewBuilder(cfg.MatchDuration()),
	}
}

// Summary reports what a single run did.
type Summary struct {
	Leagues   int      // league files fully generated
	Calendars int      // team calendar files written
	Failed    []string // league file paths that failed to parse or validate
}

// document is one fully built team calendar awaiting write-out.
type document struct {
	leagueID string
	team     string
	body     string
}

// Run processes every league file under the data directory, in sorted path
// order. A file that fails to decode or validate is logged, recorded in the
// summary and skipped; the rest of the run proceeds. Filesystem errors on
// the output side abort the run immediately.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	files, err := g.discover()
	if err != nil {
		return sum, fmt.Errorf("scan data dir %s: %w", g.dataDir, err)
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		appLog.Info("processing league file", "path", path)

		docs, err := g.buildLeague(path)
		if err != nil {
			appLog.Error("league file skipped", err, "path", path)
			sum.Failed = append(sum.Failed, path)
			continue
		}

		written, err := g.writeLeague(docs)
		sum.Calendars += written
		if err != nil {
			return sum, err
		}
		sum.Leagues++
	}

	appLog.Info("run complete",
		"leagues", sum.Leagues,
		"calendars", sum.Calendars,
		"failed", len(sum.Failed),
	)
	return sum, nil
}

// discover returns every .json file under the data directory, sorted so
// runs are deterministic.
func (g *Generator) discover() ([]string, error) {
	var files []string
	err := filepath.WalkDir(g.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".json" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// buildLeague reads, validates and builds every team document of one league
// file entirely in memory. Any failure means no output for the file.
func (g *Generator) buildLeague(path string) ([]document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lg, err := schedule.Parse(data, g.defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	byTeam := schedule.TeamFixtures(lg)
	docs := make([]document, 0, len(byTeam))
	for _, team := range schedule.TeamNames(byTeam) {
		body, err := g.builder.TeamCalendar(lg, team, byTeam[team])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		docs = append(docs, document{leagueID: lg.ID, team: team, body: body})
	}

	return docs, nil
}

// writeLeague writes the built documents under <outDir>/<leagueId>/. It
// returns how many files were written before any error.
func (g *Generator) writeLeague(docs []document) (int, error) {
	written := 0
	for _, d := range docs {
		dir := filepath.Join(g.outDir, d.leagueID)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("create output dir %s: %w", dir, err)
		}

		path := filepath.Join(dir, d.team+".ics")
		if err := os.WriteFile(path, []byte(d.body), 0o644); err != nil {
			return written, fmt.Errorf("write calendar %s: %w", path, err)
		}
		written++
		appLog.Info("calendar written", "path", path, "team", d.team)
	}
	return written, nil
}
