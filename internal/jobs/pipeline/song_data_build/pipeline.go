package song_data_build

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/playlake/internal/domain"
	jobrt "github.com/yungbote/playlake/internal/jobs/runtime"
	"github.com/yungbote/playlake/internal/lake"
	"github.com/yungbote/playlake/internal/tables"
)

// Run derives and writes the songs and artists dimensions. The two tables
// are independent once the catalog is extracted, so they write
// concurrently; a failure in either fails the job without touching the
// other table's store contract.
func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p == nil || p.log == nil || p.reader == nil || p.writer == nil {
		jc.Fail("validate", fmt.Errorf("song_data_build: pipeline not configured"))
		return nil
	}

	jc.Progress("extract", 10, "Reading song catalog")
	recs, err := p.reader.Read(jc.Ctx, p.songsPattern)
	if err != nil {
		jc.Fail("extract", err)
		return nil
	}

	stats := &lake.Stats{}
	catalog := lake.ExtractCatalog(p.log, stats, recs)
	jc.Progress("write", 60, "Writing catalog dimensions")

	g, gctx := errgroup.WithContext(jc.Ctx)
	g.Go(func() error {
		return p.writer.WriteTable(gctx, songsTable(catalog.Songs))
	})
	g.Go(func() error {
		return p.writer.WriteTable(gctx, artistsTable(catalog.Artists))
	})
	if err := g.Wait(); err != nil {
		jc.Fail("write", err)
		return nil
	}

	if p.wh != nil {
		jc.Progress("warehouse", 90, "Loading warehouse catalog")
		if err := p.wh.LoadCatalog(jc.Ctx, catalog.Songs, catalog.Artists); err != nil {
			jc.Fail("warehouse", err)
			return nil
		}
	}

	p.log.Info("Catalog stage complete", stats.LogFields()...)
	jc.Succeed("done", map[string]any{
		"records_read":      stats.Read(),
		"records_malformed": stats.Malformed(),
		"songs":             len(catalog.Songs),
		"artists":           len(catalog.Artists),
	})
	return nil
}

func songsTable(rows []domain.SongRow) *tables.Table {
	tbl := tables.New("songs", domain.SongColumns(), domain.SongPartitionBy())
	for _, r := range rows {
		tbl.Append(r.Record())
	}
	return tbl
}

func artistsTable(rows []domain.ArtistRow) *tables.Table {
	tbl := tables.New("artists", domain.ArtistColumns(), nil)
	for _, r := range rows {
		tbl.Append(r.Record())
	}
	return tbl
}
