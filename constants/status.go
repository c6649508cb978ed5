package constants

// JobStatus is the canonical status for rows in process_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // queued for processing
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusDone    JobStatus = "DONE"    // parts extracted and classified
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
