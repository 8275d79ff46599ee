package catalog

import "time"

// Archive is one cataloged archive. Files and Source come from the history
// log; Present reflects whether the file still exists on disk. An archive
// found on disk with no history line has Files 0 and an empty Source.
type Archive struct {
	Name      string
	CreatedAt time.Time
	Files     int
	SizeBytes int64
	Source    string
	Present   bool
}

// Stats summarizes the catalog for reporting.
type Stats struct {
	Archives   int   // rows in the catalog
	Present    int   // archives still on disk
	TotalFiles int   // sum of archived file counts
	TotalBytes int64 // sum of archive sizes
	Sources    int   // distinct source directories
	OldestAt   time.Time
	NewestAt   time.Time
}
