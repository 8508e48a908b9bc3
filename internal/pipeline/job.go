package pipeline

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/transport"
)

// State is a job's position in the pipeline.
type State string

const (
	StateReceived  State = "received"
	StateActive    State = "active"
	StateDownload  State = "downloading"
	StateMetadata  State = "metadata-rewrite"
	StateThumbnail State = "thumbnail-prepare"
	StateUpload    State = "uploading"
	StateUploaded  State = "uploaded"
	StateFailed    State = "failed"
	StateCleanedUp State = "cleaned-up"
)

// Job is the unit of work for one inbound event. Exclusively owned by the
// runner goroutine processing it; paths are job-scoped (derived from the
// resolved filename) so concurrent jobs for different files never collide.
type Job struct {
	ID    string
	Event transport.Event
	State State

	// TargetName is the resolved filename including extension.
	TargetName string

	// Transient artifacts, removed by cleanup. Empty until the owning
	// stage creates them.
	DownloadPath string
	MetadataPath string
	ThumbPath    string

	// UploadPath points at whichever artifact the upload stage sends:
	// the tagged rewrite when it succeeded, the raw download otherwise.
	UploadPath string

	log zerolog.Logger
}

// newJob builds a job for ev with working paths under the two working
// directories.
func newJob(ev transport.Event, targetName, downloadsDir, metadataDir string, log zerolog.Logger) *Job {
	id := uuid.NewString()
	return &Job{
		ID:           id,
		Event:        ev,
		State:        StateReceived,
		TargetName:   targetName,
		DownloadPath: filepath.Join(downloadsDir, targetName),
		MetadataPath: filepath.Join(metadataDir, targetName),
		log: log.With().
			Str("job", id).
			Str("file_id", ev.File.ID).
			Str("target", targetName).
			Logger(),
	}
}

// to advances the state machine, logging the transition.
func (j *Job) to(s State) {
	j.log.Debug().Str("from", string(j.State)).Str("to", string(s)).Msg("state")
	j.State = s
}
