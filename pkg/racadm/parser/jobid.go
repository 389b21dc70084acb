package parser

import (
	"strings"

	"github.com/davidroman0O/racadm/errors"
)

// jobIDMarker prefixes every iDRAC job identifier
const jobIDMarker = "JID_"

// ParseJobID extracts the job id from the acknowledgement racadm prints when it
// queues a job:
//
//	RAC977: Import configuration XML file operation initiated.
//	Use the "racadm jobqueue view -i JID_927008261880" command to view the status of the operation.
//
// The first line mentioning a job id is used; the id is the last word of its
// first quoted segment.
func ParseJobID(text string) (string, error) {
	lines := filterLines(splitLines(text), func(line string) bool {
		return strings.Contains(line, jobIDMarker)
	})
	if len(lines) == 0 {
		return "", errors.New(errors.ErrValidation, "no job id found in racadm output")
	}

	quoted := strings.Split(lines[0], `"`)
	if len(quoted) < 2 {
		return "", errors.WithContext(
			errors.New(errors.ErrValidation, "job id line has no quoted command"),
			map[string]interface{}{"line": lines[0]},
		)
	}

	words := strings.Split(quoted[1], " ")
	return strings.TrimSpace(words[len(words)-1]), nil
}
