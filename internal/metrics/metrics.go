package metrics

import (
	"fmt"
	"math"

	"github.com/michaelscutari/docstat/internal/fsys"
)

const (
	kib = 1024
	mib = 1024 * 1024

	// bytesPerUnit is the average UTF-8 width assumed for one content unit
	// in mixed wide-character text.
	bytesPerUnit = 3
)

// Measurement holds the metrics of a single document.
type Measurement struct {
	Size          int64
	FormattedSize string
	Volume        int64
}

// MeasureFile reads path and returns its metrics. Any read failure yields a
// zero Measurement.
func MeasureFile(fs fsys.FS, path string) Measurement {
	data, err := fs.ReadBytes(path)
	if err != nil {
		return Measurement{FormattedSize: FormatSize(0)}
	}
	size := int64(len(data))
	return Measurement{
		Size:          size,
		FormattedSize: FormatSize(size),
		Volume:        ContentVolume(data),
	}
}

// ContentVolume estimates the number of content units in UTF-8 text as its
// byte length divided by three, rounded to the nearest integer. It is not a
// word count.
func ContentVolume(content []byte) int64 {
	return int64(math.Round(float64(len(content)) / bytesPerUnit))
}

// FormatSize renders a byte count as "N B", "N.NN KB" or "N.NN MB". A value
// that rounds up to 1024 in its unit is promoted to the next unit.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	if n < kib {
		return fmt.Sprintf("%d B", n)
	}
	if n < mib {
		if kb := round2(float64(n) / kib); kb < kib {
			return fmt.Sprintf("%.2f KB", kb)
		}
	}
	return fmt.Sprintf("%.2f MB", round2(float64(n)/mib))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
