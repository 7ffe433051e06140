package models

import (
	"sort"
	"time"
)

type SourceID string

const (
	SourceCurseForge   SourceID = "curseforge"
	SourceWowInterface SourceID = "wowinterface"
)

// AddonSpec is one configured add-on with a page URL per source.
type AddonSpec struct {
	Name    string
	Sources map[SourceID]string
}

// SourceIDs returns the configured sources in a stable order.
func (a AddonSpec) SourceIDs() []SourceID {
	ids := make([]SourceID, 0, len(a.Sources))
	for id := range a.Sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type PartialResult struct {
	AddonName string
	Source    SourceID
	Count     int64
}

type CompletedTotal struct {
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	AddonName string    `json:"name" bson:"name"`
	Count     int64     `json:"count" bson:"count"`
}
