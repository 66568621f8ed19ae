package stats

import "github.com/osse101/brandish-progression/internal/repository"

// SnapshotRepository is everything a badge statistics snapshot reads
type SnapshotRepository interface {
	repository.Stats
	repository.LevelStates
	repository.DailyRewards
}

// Repository is the persistence used by the stats service
type Repository interface {
	repository.TxRunner
	SnapshotRepository
}
