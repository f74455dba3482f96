package terminal

import (
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

// WidthMeasurer reports how many terminal columns a glyph cluster occupies.
// It is an injected capability so alternate Unicode-width strategies can be
// substituted without touching rasterization logic.
type WidthMeasurer interface {
	// ClusterWidth returns the column count for one grapheme cluster.
	// An error means the cluster could not be classified; callers fall back
	// to single width and continue.
	ClusterWidth(cluster string) (int, error)
}

// RunewidthMeasurer measures clusters with mattn/go-runewidth.
// The zero value uses the ambient locale condition.
type RunewidthMeasurer struct{}

// ClusterWidth implements WidthMeasurer
func (RunewidthMeasurer) ClusterWidth(cluster string) (int, error) {
	if cluster == "" {
		return 0, errors.New("empty cluster")
	}
	w := runewidth.StringWidth(cluster)
	if w < 0 {
		return 0, errors.Errorf("unmeasurable cluster %q", cluster)
	}
	return w, nil
}
