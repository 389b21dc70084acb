package parser

// JobState is the status column of a racadm job queue entry
type JobState string

const (
	JobStateCompleted JobState = "Completed"
	JobStateFailed    JobState = "Failed"
	JobStateRunning   JobState = "Running"
)

// Known reports whether the state is one the poller knows how to handle
func (s JobState) Known() bool {
	switch s {
	case JobStateCompleted, JobStateFailed, JobStateRunning:
		return true
	}
	return false
}

// JobStatus is a snapshot of one controller job as printed by `jobqueue view -i`
type JobStatus struct {
	JobID           string   `json:"jobId"`
	JobName         string   `json:"jobName"`
	Status          JobState `json:"status"`
	StartTime       string   `json:"startTime"`
	ExpirationTime  string   `json:"expirationTime"`
	Message         string   `json:"message"`
	PercentComplete string   `json:"percentComplete"`
}

// DeviceRecord is one component of the software inventory
type DeviceRecord struct {
	ElementName      string `json:"elementName"`
	FQDD             string `json:"FQDD"`
	InstallationDate string `json:"installationDate"`
	CurrentVersion   string `json:"currentVersion,omitempty"`
	RollbackVersion  string `json:"rollbackVersion,omitempty"`
	AvailableVersion string `json:"availableVersion,omitempty"`

	// Extra holds version-slot keys racadm printed that have no dedicated field
	Extra map[string]string `json:"extra,omitempty"`
}

// SoftwareInventory maps a device label to its record
type SoftwareInventory map[string]*DeviceRecord

// PathStyle tells how racadm must be told about a configuration file
type PathStyle string

const (
	PathStyleLocal        PathStyle = "local"
	PathStyleRemote       PathStyle = "remote"
	PathStyleUnrecognized PathStyle = "unrecognized"
)

// PathDescriptor splits a file reference into directory and name
type PathDescriptor struct {
	Name  string    `json:"name"`
	Path  string    `json:"path"`
	Style PathStyle `json:"style"`
}
