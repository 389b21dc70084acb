package parser

import (
	"strings"
)

// ParseJobStatus parses `jobqueue view -i <jobId>` output:
//
//	[Job ID=JID_927008261880]
//	Job Name=Configure: Import system configuration XML file
//	Status=Completed
//	Start Time=[Not Applicable]
//	Expiration Time=[Not Applicable]
//	Message=[SYS053: Successfully imported and applied system configuration XML file.]
//	Percent Complete=[100]
//
// Fields are assigned by the position of the `=` lines, not by key. Missing
// trailing lines leave the matching fields empty.
func ParseJobStatus(text string) *JobStatus {
	lines := filterLines(splitLines(text), func(line string) bool {
		return strings.Contains(line, "=")
	})

	column := make([]string, 7)
	for i, line := range lines {
		if i == len(column) {
			break
		}
		_, value := splitKeyValue(line)
		value = strings.TrimSpace(value)
		value = strings.Replace(value, "[", "", 1)
		value = strings.Replace(value, "]", "", 1)
		column[i] = value
	}

	return &JobStatus{
		JobID:           column[0],
		JobName:         column[1],
		Status:          JobState(column[2]),
		StartTime:       column[3],
		ExpirationTime:  column[4],
		Message:         column[5],
		PercentComplete: column[6],
	}
}
