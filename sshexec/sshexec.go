// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package sshexec runs shell commands on slice nodes.  Every
// connection goes through the FABRIC bastion host named in the
// fablib configuration: the runner first authenticates to the
// bastion with the bastion key, then tunnels a second SSH session to
// the node's management IP and authenticates with the slice key.
//
//     runner := sshexec.New(cfg)
//     result := runner.Run(ctx, node, "uname -a")
//     results := runner.RunAll(ctx, slice.Nodes(false), "uname -a")
package sshexec

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/diffeo/go-fablib/fablib"
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// DefaultWorkers is the number of nodes RunAll talks to at once.
const DefaultWorkers = 8

// DefaultTimeout bounds each SSH handshake.
const DefaultTimeout = 30 * time.Second

// Target is the part of a node the runner needs.  *fablib.Node
// satisfies it.
type Target interface {
	Name() string
	ManagementIP() string
	Username() string
	PrivateKeyFile() string
}

// ErrNoManagementIP is returned for a node that has not been given a
// management address, usually because its slice was never submitted.
type ErrNoManagementIP struct {
	Node string
}

func (err ErrNoManagementIP) Error() string {
	return "node " + err.Node + " has no management IP"
}

// Result is the outcome of one command on one node.
type Result struct {
	Node   string
	Stdout string
	Stderr string
	Err    error
}

// execFunc runs one command on one target.
type execFunc func(ctx context.Context, target Target, command string) Result

// Runner executes commands over SSH.  It holds no connections between
// calls and is safe for concurrent use.
type Runner struct {
	config  *fablib.Config
	workers int
	timeout time.Duration
	dialer  *net.Dialer
	exec    execFunc
}

// New creates a runner using the bastion and key settings in cfg.
func New(cfg *fablib.Config) *Runner {
	r := &Runner{
		config:  cfg,
		workers: DefaultWorkers,
		timeout: DefaultTimeout,
	}
	r.dialer = &net.Dialer{Timeout: r.timeout}
	r.exec = r.execute
	return r
}

// WithWorkers changes the RunAll concurrency and returns the runner.
func (r *Runner) WithWorkers(workers int) *Runner {
	if workers > 0 {
		r.workers = workers
	}
	return r
}

func (r *Runner) log() *logrus.Entry {
	return r.config.Log()
}

// Run executes command on a single node and waits for it to finish.
// A non-zero exit status is reported as an *ssh.ExitError in
// Result.Err, with the command's output still filled in.
func (r *Runner) Run(ctx context.Context, target Target, command string) Result {
	return r.exec(ctx, target, command)
}

// RunAll executes command on every target concurrently.  The results
// are in the same order as targets.
func (r *Runner) RunAll(ctx context.Context, targets []*fablib.Node, command string) []Result {
	results := make([]Result, len(targets))
	pool := workerpool.New(r.workers)
	for i, target := range targets {
		i, target := i, target
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Node: target.Name(), Err: err}
				return
			}
			results[i] = r.exec(ctx, target, command)
		})
	}
	pool.StopWait()
	return results
}

func (r *Runner) execute(ctx context.Context, target Target, command string) Result {
	result := Result{Node: target.Name()}
	log := r.log().WithFields(logrus.Fields{
		"node":    target.Name(),
		"command": command,
	})

	client, err := r.connect(ctx, target)
	if err != nil {
		result.Err = err
		log.WithError(err).Debug("ssh connection failed")
		return result
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		result.Err = errors.Wrap(err, "open session")
		return result
	}
	defer session.Close()

	var stdout, stderr limitedBuffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		client.Close()
		err = ctx.Err()
	}
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Err = err
	log.WithError(err).Debug("ssh command finished")
	return result
}

// connect opens a client to the target tunneled through the bastion.
func (r *Runner) connect(ctx context.Context, target Target) (*ssh.Client, error) {
	ip := target.ManagementIP()
	if ip == "" {
		return nil, ErrNoManagementIP{Node: target.Name()}
	}
	cfg := r.config
	bastionConfig, err := r.clientConfig(cfg.BastionUsername, cfg.BastionKeyFile, cfg.BastionKeyPassphrase)
	if err != nil {
		return nil, errors.Wrap(err, "bastion credentials")
	}
	nodeConfig, err := r.clientConfig(target.Username(), target.PrivateKeyFile(), cfg.SlicePrivateKeyPassphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "credentials for %s", target.Name())
	}

	bastionAddr := hostPort(cfg.BastionHost)
	conn, err := r.dialer.DialContext(ctx, "tcp", bastionAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial bastion %s", bastionAddr)
	}
	bastionConn, chans, reqs, err := ssh.NewClientConn(conn, bastionAddr, bastionConfig)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "bastion handshake %s", bastionAddr)
	}
	bastion := ssh.NewClient(bastionConn, chans, reqs)

	nodeAddr := hostPort(ip)
	tunnel, err := bastion.Dial("tcp", nodeAddr)
	if err != nil {
		bastion.Close()
		return nil, errors.Wrapf(err, "tunnel to %s", nodeAddr)
	}
	nodeConn, chans, reqs, err := ssh.NewClientConn(tunnel, nodeAddr, nodeConfig)
	if err != nil {
		tunnel.Close()
		bastion.Close()
		return nil, errors.Wrapf(err, "node handshake %s", nodeAddr)
	}
	client := ssh.NewClient(nodeConn, chans, reqs)
	go func() {
		client.Wait()
		bastion.Close()
	}()
	return client, nil
}

func (r *Runner) clientConfig(username, keyFile, passphrase string) (*ssh.ClientConfig, error) {
	if username == "" {
		return nil, errors.New("no username")
	}
	signer, err := loadSigner(keyFile, passphrase)
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.timeout,
	}, nil
}

// loadSigner reads a PEM private key, decrypting it if a passphrase
// is given.
func loadSigner(keyFile, passphrase string) (ssh.Signer, error) {
	pem, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "read private key")
	}
	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pem)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse private key %s", keyFile)
	}
	return signer, nil
}

// hostPort adds the default SSH port to a host or address that lacks
// one.  Bare IPv6 addresses are bracketed.
func hostPort(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, "22")
}
