package racadm

import (
	"github.com/davidroman0O/racadm/pkg/racadm/executor"
	"github.com/davidroman0O/racadm/pkg/racadm/poller"
)

// DefaultBinary is where Dell OpenManage installs racadm
const DefaultBinary = "/opt/dell/srvadmin/sbin/racadm"

// Default credentials of the CIFS share holding configuration files
const (
	DefaultShareUser     = "onrack"
	DefaultSharePassword = "onrack"
)

// Target is the iDRAC a command is sent to. An empty Host runs racadm against
// the local controller without -r/-u/-p.
type Target struct {
	Host     string
	User     string
	Password string
}

// ShareConfig points at a server configuration profile (XML) to import
type ShareConfig struct {
	// FilePath is either //server/share/file.xml or /abs/path/file.xml
	FilePath string
	User     string
	Password string

	// StageFrom is a file on this machine copied to FilePath before a local import
	StageFrom string
}

// CommandResult is the output of a racadm invocation that succeeded
type CommandResult = executor.Result

// JobResult is the outcome of polling one job among several
type JobResult struct {
	JobID   string
	Outcome *poller.Outcome
	Err     error
}

// AcceptedExitCodes lists the exit codes racadm returns on success
var AcceptedExitCodes = []int{0}
