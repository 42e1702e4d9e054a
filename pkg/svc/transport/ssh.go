package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

const sshPort = "22"

// remoteInterpreter is the command the payload is piped into on the target.
const remoteInterpreter = "bash -s"

// SSHFactory opens SSH sessions writing payload output to the given writers.
type SSHFactory struct {
	stdout io.Writer
	stderr io.Writer
}

// NewSSHFactory creates a factory for SSH sessions. Nil writers default to
// os.Stdout and os.Stderr.
func NewSSHFactory(stdout, stderr io.Writer) *SSHFactory {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &SSHFactory{stdout: stdout, stderr: stderr}
}

// NewSession creates a session for the given target. Dialing happens in Run.
func (f *SSHFactory) NewSession(target Target) Session {
	return &SSHSession{
		target: target,
		stdout: f.stdout,
		stderr: f.stderr,
	}
}

// SSHSession executes one payload on one remote machine over SSH.
type SSHSession struct {
	target Target
	stdout io.Writer
	stderr io.Writer
}

// Run dials the target, streams the payload into the remote interpreter's
// stdin, and blocks until the remote process terminates. Cancelling the
// context tears the connection down, which aborts the remote command.
func (s *SSHSession) Run(ctx context.Context, payload string) error {
	if s.target.Host == "" {
		return ErrMissingHost
	}

	clientConfig, err := s.clientConfig()
	if err != nil {
		return err
	}

	address := s.target.Host
	if !strings.Contains(address, ":") {
		address = net.JoinHostPort(address, sshPort)
	}

	logrus.WithFields(logrus.Fields{
		"address": address,
		"user":    clientConfig.User,
		"bytes":   len(payload),
	}).Debug("dialing target")

	client, err := ssh.Dial("tcp", address, clientConfig)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.target.Host, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open session on %s: %w", s.target.Host, err)
	}
	defer session.Close()

	session.Stdin = strings.NewReader(payload)
	session.Stdout = s.stdout
	session.Stderr = s.stderr

	command := remoteInterpreter
	if s.target.Options.Sudo {
		command = "sudo " + command
	}

	done := make(chan error, 1)

	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		_ = session.Close()

		return fmt.Errorf("session on %s: %w", s.target.Host, ctx.Err())
	case runErr := <-done:
		return s.mapExit(runErr)
	}
}

func (s *SSHSession) mapExit(runErr error) error {
	if runErr == nil {
		logrus.WithField("host", s.target.Host).Debug("payload completed")

		return nil
	}

	var exitErr *ssh.ExitError
	if errors.As(runErr, &exitErr) {
		logrus.WithFields(logrus.Fields{
			"host":   s.target.Host,
			"status": exitErr.ExitStatus(),
		}).Debug("payload failed")

		return &ExitError{Status: exitErr.ExitStatus()}
	}

	return fmt.Errorf("run payload on %s: %w", s.target.Host, runErr)
}

// clientConfig builds the SSH client configuration for the target. Host-key
// verification is disabled; freshly provisioned machines have unknown keys.
func (s *SSHSession) clientConfig() (*ssh.ClientConfig, error) {
	login := s.target.Options.Login
	if login == "" {
		current, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("resolve current user: %w", err)
		}

		login = current.Username
	}

	authMethods, err := s.authMethods()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            login,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // Intentional, see above.
	}, nil
}

// authMethods prefers the identity file when one was supplied and falls back
// to the running SSH agent.
func (s *SSHSession) authMethods() ([]ssh.AuthMethod, error) {
	if s.target.Options.IdentityFile != "" {
		keyBytes, err := os.ReadFile(s.target.Options.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("read identity file: %w", err)
		}

		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parse identity file %s: %w", s.target.Options.IdentityFile, err)
		}

		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}

	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil, errors.New("no identity file supplied and no SSH agent available")
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connect to SSH agent: %w", err)
	}

	agentClient := agent.NewClient(conn)

	return []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)}, nil
}
