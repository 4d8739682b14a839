package remote

import "github.com/nowbar/nowbar/player"

// StatusSource is the read side of the playback tracker: anything that can
// produce a self-consistent snapshot on demand.
type StatusSource interface {
	Snapshot() player.Snapshot
}
