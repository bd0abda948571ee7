package application

import "context"

// MediaIngestor fetches the complete binary payload of a media attachment.
// The returned buffer is whole or the call fails; partial downloads are
// never surfaced.
type MediaIngestor interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// Transcoder re-encodes an in-memory audio blob into the target container.
// The source container is inferred from the data.
type Transcoder interface {
	Transcode(ctx context.Context, data []byte, target string) ([]byte, error)
}

// Target containers used by the pipelines.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// ExceedsLimit reports whether a declared media size is over the
// configured threshold. A zero size means the transport did not report
// one and must not be rejected.
func ExceedsLimit(sizeBytes int64, thresholdMB float64) bool {
	if sizeBytes <= 0 {
		return false
	}
	return float64(sizeBytes) > thresholdMB*1024*1024
}
