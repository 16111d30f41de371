package grid

import "strings"

// Logical paths shared by readers and writers of a grid.
const (
	HeaderPrefix = "header"
	TracksPrefix = "tracks"

	HeaderTracks        = "header/tracks"
	HeaderVersion       = "header/version"
	HeaderParsSampled   = "header/pars_sampled"
	HeaderVolume        = "header/volume"
	HeaderActiveWeights = "header/active_weights"

	VolumeWeightField = "volume_weight"
	VolumeScheme      = "volume"
)

// HeaderPath returns the path of a grid-level array, e.g. header/massini.
func HeaderPath(name string) string {
	return HeaderPrefix + "/" + name
}

// TrackPath returns the path of a per-track dataset.
func TrackPath(trackID, field string) string {
	return TracksPrefix + "/" + TrackGroup(trackID) + "/" + field
}

// TrackGroup returns the group name of a track identifier. Entries in
// header/tracks may carry a sub-path ("track0001/models"); only the first
// segment names the track.
func TrackGroup(trackID string) string {
	id := strings.TrimLeft(trackID, "/")
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return id
}
