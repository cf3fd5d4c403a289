package song_data_build

import (
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/records"
	"github.com/yungbote/playlake/internal/tables"
	"github.com/yungbote/playlake/internal/warehouse"
)

type Pipeline struct {
	log          *logger.Logger
	reader       *records.Reader
	writer       tables.Writer
	wh           *warehouse.Service // optional
	songsPattern string
}

func New(
	baseLog *logger.Logger,
	reader *records.Reader,
	writer tables.Writer,
	wh *warehouse.Service,
	songsPattern string,
) *Pipeline {
	return &Pipeline{
		log:          baseLog.With("job", "song_data_build"),
		reader:       reader,
		writer:       writer,
		wh:           wh,
		songsPattern: songsPattern,
	}
}

func (p *Pipeline) Type() string { return "song_data_build" }
