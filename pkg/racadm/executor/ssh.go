package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/davidroman0O/racadm/errors"
	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig describes the management station racadm is installed on
type SSHConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	KeyFile        string
	KnownHostsFile string
}

// SSHExecutor runs racadm on a remote management station over SSH
type SSHExecutor struct {
	config SSHConfig
	logger zerolog.Logger

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHExecutor creates an SSHExecutor; the connection is opened on first use
func NewSSHExecutor(config SSHConfig, logger zerolog.Logger) *SSHExecutor {
	if config.Port == 0 {
		config.Port = 22
	}
	return &SSHExecutor{
		config: config,
		logger: logger.With().Str("component", "executor").Str("transport", "ssh").Str("station", config.Host).Logger(),
	}
}

func (s *SSHExecutor) clientConfig() (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	if s.config.Password != "" {
		authMethods = append(authMethods, ssh.Password(s.config.Password))
	}

	if s.config.KeyFile != "" {
		key, err := os.ReadFile(s.config.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfiguration, "unable to read private key")
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfiguration, "unable to parse private key")
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if s.config.KnownHostsFile != "" {
		cb, err := knownhosts.New(s.config.KnownHostsFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfiguration, "unable to load known hosts")
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User:            s.config.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
	}, nil
}

func (s *SSHExecutor) getClient(ctx context.Context) (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	cfg, err := s.clientConfig()
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.logger.Debug().Str("addr", addr).Msg("connecting")

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConnection, fmt.Sprintf("failed to dial %s", addr))
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.ErrConnection, fmt.Sprintf("ssh handshake with %s failed", addr))
	}

	s.client = ssh.NewClient(c, chans, reqs)
	return s.client, nil
}

// Execute implements Executor
func (s *SSHExecutor) Execute(ctx context.Context, program string, args []string) (*Result, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	// Each command gets its own session on the shared connection
	session, err := client.NewSession()
	if err != nil {
		s.reset()
		return nil, errors.Wrap(err, errors.ErrExecution, "failed to create session")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	s.logger.Debug().Str("program", program).Strs("args", Redact(args)).Msg("running command")

	// Run in the background so ctx can interrupt the remote racadm
	done := make(chan error, 1)
	go func() {
		done <- session.Run(ShellQuote(program, args))
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		<-done
		return nil, errors.Wrap(ctx.Err(), errors.ErrCancelled, "racadm interrupted")
	case err = <-done:
	}

	result := &Result{
		Stdout: trimNewline(stdout.String()),
		Stderr: trimNewline(stderr.String()),
	}

	if err != nil {
		// A non zero exit is reported through Result, not as an error
		var exitErr *ssh.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
			return result, nil
		}
		return nil, errors.Wrap(err, errors.ErrExecution, "racadm session ended abnormally")
	}

	return result, nil
}

// UploadFile implements Uploader
func (s *SSHExecutor) UploadFile(ctx context.Context, localPath, remotePath string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		return errors.Wrap(err, errors.ErrConnection, "sftp client creation failed")
	}
	defer sftpClient.Close()

	remoteDir := path.Dir(remotePath)
	if err := sftpClient.MkdirAll(remoteDir); err != nil {
		if _, statErr := sftpClient.Stat(remoteDir); statErr != nil {
			return errors.Wrap(err, errors.ErrExecution, fmt.Sprintf("failed to create remote directory %s", remoteDir))
		}
	}

	src, err := os.Open(localPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrValidation, fmt.Sprintf("failed to open local file %s", localPath))
	}
	defer src.Close()

	dst, err := sftpClient.Create(remotePath)
	if err != nil {
		return errors.Wrap(err, errors.ErrExecution, fmt.Sprintf("failed to create remote file %s", remotePath))
	}

	// Copy, then drop the partial file if anything failed
	n, err := copyAndClose(dst, src)
	if err != nil {
		_ = sftpClient.Remove(remotePath)
		return errors.WithContext(err, map[string]interface{}{"remote": remotePath})
	}

	s.logger.Info().Str("local", localPath).Str("remote", remotePath).Int64("bytes", n).Msg("staged file")
	return nil
}

// copyAndClose copies src into dst and closes dst, reporting a failed close
// since sftp flushes pending writes there
func copyAndClose(dst io.WriteCloser, src io.Reader) (int64, error) {
	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		return n, errors.Wrap(err, errors.ErrExecution, "failed to copy file content")
	}
	if err := dst.Close(); err != nil {
		return n, errors.Wrap(err, errors.ErrExecution, "failed to finalize remote file")
	}
	return n, nil
}

// Close closes the SSH connection if one is open
func (s *SSHExecutor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *SSHExecutor) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
}
