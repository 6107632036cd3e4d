package constants

// JobStatus is the canonical status for rows in the processing job table.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"     // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"    // in progress
	JobStatusExtractOK JobStatus = "EXTRACT_OK" // stage 1 completed (text extracted / transcribed)
	JobStatusDone      JobStatus = "DONE"       // all stages completed
	JobStatusFailed    JobStatus = "FAILED"     // terminal failure
)
