// Package ssh provides an SSH client for running console scripts on the
// appliance. It handles connection establishment with key-based
// authentication (optionally passphrase protected), host key verification
// against a known_hosts file, and transcript logging.
//
// Security: Host key verification is disabled when no HostKeyCallback is
// configured. Freshly deployed appliances present a host key nobody has seen
// yet; set KnownHostsPath once the key is pinned.
package ssh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second

	redacted = "********"
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// Passphrase decrypts PrivateKey when it is encrypted.
	Passphrase string

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback

	// SessionLog receives the transcript of every script run, with secrets
	// redacted. Optional.
	SessionLog io.Writer
}

// Client runs console scripts on the appliance via SSH.
// It parses the private key once during construction and
// creates connections on-demand per call.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Validate required fields
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg

	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Host key unknown before first boot
	}

	signer, err := parsePrivateKey(configCopy.PrivateKey, configCopy.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// KnownHostsCallback returns a host key callback backed by a known_hosts file.
func KnownHostsCallback(path string) (ssh.HostKeyCallback, error) {
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", path, err)
	}
	return cb, nil
}

func parsePrivateKey(key []byte, passphrase string) (ssh.Signer, error) {
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(key)
}

// CreateAccount creates a local administrator account on the appliance and
// returns the console output, which ends with the configured user list.
// The password never appears in the returned output or the session log.
func (c *Client) CreateAccount(ctx context.Context, username, password string) (string, error) {
	script := []string{
		"enable",
		"configure terminal",
		fmt.Sprintf("username %s password 0 %s", username, password),
		"exit",
		"show usernames",
		"exit",
	}
	return c.RunScript(ctx, script, password)
}

// RunScript opens an interactive shell, sends each line of script and
// returns everything the appliance printed until the shell closed.
// Occurrences of secrets are masked in the output and the session log.
func (c *Client) RunScript(ctx context.Context, script []string, secrets ...string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	// The appliance CLI only accepts commands on a terminal.
	modes := ssh.TerminalModes{ssh.ECHO: 0}
	if err := session.RequestPty("vt100", 200, 80, modes); err != nil {
		return "", fmt.Errorf("failed to request terminal on %s: %w", c.config.Host, err)
	}

	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output
	session.Stdin = strings.NewReader(strings.Join(script, "\n") + "\n")

	if err := session.Shell(); err != nil {
		return "", fmt.Errorf("failed to start shell on %s: %w", c.config.Host, err)
	}
	err = session.Wait()

	out := redact(output.String(), secrets)
	c.writeLog(script, out, secrets)

	if err != nil {
		return out, fmt.Errorf("console script failed on %s: %w\nOutput: %s", c.config.Host, err, out)
	}
	return out, nil
}

// connect establishes the SSH connection. The connection is closed when ctx
// is cancelled.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	dialer := net.Dialer{Timeout: c.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	go func() {
		select {
		case <-ctx.Done():
			_ = client.Close()
		case <-closed(client):
		}
	}()

	return client, nil
}

// closed returns a channel closed once client's connection ends.
func closed(client *ssh.Client) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = client.Wait()
		close(done)
	}()
	return done
}

func (c *Client) writeLog(script []string, output string, secrets []string) {
	if c.config.SessionLog == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "### %s %s@%s\n", time.Now().UTC().Format(time.RFC3339), c.config.User, c.config.Host)
	for _, line := range script {
		fmt.Fprintf(&b, "> %s\n", redact(line, secrets))
	}
	b.WriteString(output)
	if !strings.HasSuffix(output, "\n") {
		b.WriteString("\n")
	}
	_, _ = io.WriteString(c.config.SessionLog, b.String())
}

func redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}
