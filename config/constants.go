package config

import "time"

const (
	BATCH_SIZE_ENTRIES = 1_000
	PROGRESS_MIN_TOTAL = 250_000

	CACHE_DURATION = 5 * time.Second
	CACHE_CLEANUP  = 15 * time.Second
)
