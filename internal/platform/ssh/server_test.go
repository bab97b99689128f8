package ssh

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/ssh"
)

// testKey is an ed25519 key pair in the formats the client consumes.
type testKey struct {
	signer ssh.Signer
	pem    []byte
}

func generateTestKey(t *testing.T, passphrase string) *testKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	var block *pem.Block
	if passphrase != "" {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	} else {
		block, err = ssh.MarshalPrivateKey(priv, "")
	}
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	return &testKey{signer: signer, pem: pem.EncodeToMemory(block)}
}

// consoleServer emulates the appliance console: it accepts one client key,
// echoes every received line and keeps a user table.
type consoleServer struct {
	addr    string
	hostKey ssh.Signer

	mu       sync.Mutex
	received []string
	users    []string
}

func startConsoleServer(t *testing.T, clientKey ssh.PublicKey) *consoleServer {
	t.Helper()
	host := generateTestKey(t, "")
	srv := &consoleServer{hostKey: host.signer, users: []string{"admin"}}

	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(_ ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if string(key.Marshal()) == string(clientKey.Marshal()) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown key")
		},
	}
	cfg.AddHostKey(host.signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	srv.addr = ln.Addr().String()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.serve(conn, cfg)
		}
	}()
	return srv
}

func (s *consoleServer) hostPort(t *testing.T) (string, int) {
	t.Helper()
	host, port, err := net.SplitHostPort(s.addr)
	if err != nil {
		t.Fatalf("bad address: %v", err)
	}
	p, _ := strconv.Atoi(port)
	return host, p
}

func (s *consoleServer) serve(conn net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go s.session(ch, chReqs)
	}
}

func (s *consoleServer) session(ch ssh.Channel, reqs <-chan *ssh.Request) {
	defer func() { _ = ch.Close() }()
	for req := range reqs {
		switch req.Type {
		case "pty-req":
			_ = req.Reply(true, nil)
		case "shell":
			_ = req.Reply(true, nil)
			exit(ch, s.shell(ch))
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}

// shell runs console lines until "exit" outside config mode. "abort" ends
// the shell with a non-zero status.
func (s *consoleServer) shell(ch ssh.Channel) uint32 {
	configMode := false
	scanner := bufio.NewScanner(ch)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		s.mu.Lock()
		s.received = append(s.received, line)
		s.mu.Unlock()

		fmt.Fprintf(ch, "appliance# %s\n", line)
		switch {
		case line == "configure terminal":
			configMode = true
		case strings.HasPrefix(line, "username ") && configMode:
			fields := strings.Fields(line)
			s.mu.Lock()
			s.users = append(s.users, fields[1])
			s.mu.Unlock()
		case line == "show usernames":
			s.mu.Lock()
			for _, u := range s.users {
				fmt.Fprintf(ch, "%s\n", u)
			}
			s.mu.Unlock()
		case line == "exit" && configMode:
			configMode = false
		case line == "exit":
			return 0
		case line == "abort":
			return 1
		}
	}
	return 0
}

func exit(ch ssh.Channel, status uint32) {
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
}

func (s *consoleServer) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}
