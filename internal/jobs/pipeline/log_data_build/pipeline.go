package log_data_build

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/playlake/internal/domain"
	jobrt "github.com/yungbote/playlake/internal/jobs/runtime"
	"github.com/yungbote/playlake/internal/lake"
	"github.com/yungbote/playlake/internal/tables"
)

// Run derives and writes the event-side tables: users, time, and the
// songplay facts. The songplay correlation reads the catalog fresh rather
// than reusing the song pipeline's output, so the two jobs stay
// independent. The filtered events slice is shared read-only between the
// time table and the correlation.
func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	if p == nil || p.log == nil || p.reader == nil || p.writer == nil {
		jc.Fail("validate", fmt.Errorf("log_data_build: pipeline not configured"))
		return nil
	}

	jc.Progress("extract", 10, "Reading event logs")
	recs, err := p.reader.Read(jc.Ctx, p.logsPattern)
	if err != nil {
		jc.Fail("extract", err)
		return nil
	}

	stats := &lake.Stats{}
	users, events := lake.ExtractEvents(p.log, stats, recs)
	timeRows := lake.BuildTimeTable(events)

	jc.Progress("correlate", 40, "Correlating plays against catalog")
	catalogRecs, err := p.reader.Read(jc.Ctx, p.songsPattern)
	if err != nil {
		jc.Fail("correlate", err)
		return nil
	}
	idx := lake.BuildSongIndex(p.log, stats, catalogRecs)
	songplays := lake.Correlate(p.log, stats, events, idx)

	jc.Progress("write", 70, "Writing event tables")
	g, gctx := errgroup.WithContext(jc.Ctx)
	g.Go(func() error {
		return p.writer.WriteTable(gctx, usersTable(users))
	})
	g.Go(func() error {
		return p.writer.WriteTable(gctx, timeTable(timeRows))
	})
	g.Go(func() error {
		return p.writer.WriteTable(gctx, songplaysTable(songplays))
	})
	if err := g.Wait(); err != nil {
		jc.Fail("write", err)
		return nil
	}

	if p.wh != nil {
		jc.Progress("warehouse", 90, "Loading warehouse events")
		if err := p.wh.LoadEvents(jc.Ctx, users, timeRows, songplays); err != nil {
			jc.Fail("warehouse", err)
			return nil
		}
	}

	p.log.Info("Event stage complete", stats.LogFields()...)
	jc.Succeed("done", map[string]any{
		"records_read":      stats.Read(),
		"records_filtered":  stats.Filtered(),
		"records_malformed": stats.Malformed(),
		"events_matched":    stats.Matched(),
		"events_unmatched":  stats.Unmatched(),
		"users":             len(users),
		"time":              len(timeRows),
		"songplays":         len(songplays),
	})
	return nil
}

func usersTable(rows []domain.UserRow) *tables.Table {
	tbl := tables.New("users", domain.UserColumns(), nil)
	for _, r := range rows {
		tbl.Append(r.Record())
	}
	return tbl
}

func timeTable(rows []domain.TimeRow) *tables.Table {
	tbl := tables.New("time", domain.TimeColumns(), domain.TimePartitionBy())
	for _, r := range rows {
		tbl.Append(r.Record())
	}
	return tbl
}

func songplaysTable(rows []domain.SongplayRow) *tables.Table {
	tbl := tables.New("songplays", domain.SongplayColumns(), domain.SongplayPartitionBy())
	for _, r := range rows {
		tbl.Append(r.Record())
	}
	return tbl
}
