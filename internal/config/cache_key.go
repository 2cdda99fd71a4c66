package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DraftAnswersKey returns the key holding the in-progress answer set.
func (r *CacheKeyStruct) DraftAnswersKey(tryoutID int64) string {
	return fmt.Sprintf("draft_answers_%d", tryoutID)
}

// DraftStartTimeKey returns the key holding the in-progress session start.
func (r *CacheKeyStruct) DraftStartTimeKey(tryoutID int64) string {
	return fmt.Sprintf("draft_start_time_%d", tryoutID)
}

// FinalAnswersKey returns the key holding the graded answer set after submit.
func (r *CacheKeyStruct) FinalAnswersKey(tryoutID int64) string {
	return fmt.Sprintf("final_answers_%d", tryoutID)
}

// StartTimeKey returns the key holding the submitted session's start time.
func (r *CacheKeyStruct) StartTimeKey(tryoutID int64) string {
	return fmt.Sprintf("start_time_%d", tryoutID)
}

// EndTimeKey returns the key holding the submitted session's end time.
func (r *CacheKeyStruct) EndTimeKey(tryoutID int64) string {
	return fmt.Sprintf("end_time_%d", tryoutID)
}

// TimeTakenKey returns the key holding the submitted session's elapsed seconds.
func (r *CacheKeyStruct) TimeTakenKey(tryoutID int64) string {
	return fmt.Sprintf("time_taken_seconds_%d", tryoutID)
}

var CacheKey = NewCacheKeyStruct()
