// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pin"
)

// default tuning
const (
	DefaultHandshakeTimeout = 30 * time.Second

	// DefaultALPN - protocol offered on QUIC endpoints when the
	// options carry none; QUIC cannot negotiate without ALPN
	DefaultALPN = "pintle/1"
)

// Options - per session tuning, the zero value is usable
type Options struct {
	HandshakeTimeout time.Duration // covers dial, handshake and verification
	ServerName       string        // SNI override, endpoint host when blank
	ALPN             []string      // protocols to offer
	KeepAlive        time.Duration // QUIC keep alive interval
	IdleTimeout      time.Duration // QUIC idle disconnect
}

// Session - a single pinned connection attempt and its outcome
//
// the zero Session is not usable; always construct with NewSession
type Session struct {
	sync.RWMutex

	endpoint Endpoint
	pins     pin.Configuration
	options  Options

	state    State
	err      error
	peer     fingerprint.Fingerprint
	peerSeen bool
	dialled  bool

	done     chan struct{}
	doneOnce sync.Once

	conn     *tls.Conn       // TLS transport
	quicConn quic.Connection // QUIC transport
}

// NewSession - prepare a session for one endpoint
//
// the pin configuration is validated here, before any network
// activity, so an unusable configuration is reported as such and
// never as a connection failure
func NewSession(endpoint string, pins pin.Configuration, options Options) (*Session, error) {

	e, err := ParseEndpoint(endpoint)
	if nil != err {
		return nil, err
	}

	err = pins.Verify()
	if nil != err {
		return nil, err
	}

	if options.HandshakeTimeout <= 0 {
		options.HandshakeTimeout = DefaultHandshakeTimeout
	}

	return &Session{
		endpoint: e,
		pins:     pins,
		options:  options,
		state:    Connecting,
		done:     make(chan struct{}),
	}, nil
}

// Connect - dial the endpoint and verify the peer
//
// blocks until the session is Established or terminal; the returned
// error is also retained for Err.  a session connects at most once.
func (s *Session) Connect(ctx context.Context) error {

	s.Lock()
	if s.dialled || Connecting != s.state {
		s.Unlock()
		return fault.AlreadyConnected
	}
	s.dialled = true
	s.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.options.HandshakeTimeout)
	defer cancel()

	if transportQUIC == s.endpoint.transport {
		return s.connectQUIC(ctx)
	}
	return s.connectTLS(ctx)
}

// Connect - create a session and connect it in one call
//
// on a connection failure the session is still returned so the caller
// can inspect its state and error
func Connect(ctx context.Context, endpoint string, pins pin.Configuration, options Options) (*Session, error) {
	s, err := NewSession(endpoint, pins, options)
	if nil != err {
		return nil, err
	}
	return s, s.Connect(ctx)
}

func (s *Session) connectTLS(ctx context.Context) error {

	dialer := &tls.Dialer{
		NetDialer: new(net.Dialer),
		Config:    dialTLSConfig(s.endpoint, s.options),
	}

	c, err := dialer.DialContext(ctx, "tcp", s.endpoint.Address())
	if nil != err {
		return s.fail(classifyDialError(err))
	}
	conn := c.(*tls.Conn)

	// the handshake succeeded, now judge the peer
	s.setState(Verifying)

	err = s.verifyPeer(conn.ConnectionState().PeerCertificates)
	if nil != err {
		conn.Close()
		return s.reject(err)
	}

	s.Lock()
	if Closed == s.state { // closed while connecting
		s.Unlock()
		conn.Close()
		return fault.SessionNotEstablished
	}
	s.conn = conn
	s.state = Established
	s.Unlock()

	return nil
}

// verifyPeer - record the transmitted certificate digest and match it
// against the pins
func (s *Session) verifyPeer(certificates []*x509.Certificate) error {

	peer, err := peerFingerprint(certificates)
	if nil != err {
		return err
	}

	s.Lock()
	s.peer = peer
	s.peerSeen = true
	s.Unlock()

	return s.pins.Match(certificates[0].Raw)
}

// peerFingerprint - digest the transmitted leaf certificate
func peerFingerprint(certificates []*x509.Certificate) (fingerprint.Fingerprint, error) {
	if 0 == len(certificates) {
		return fingerprint.Fingerprint{}, fault.NoPeerCertificate
	}
	return fingerprint.New(certificates[0].Raw, fingerprint.SHA256)
}

// dialTLSConfig - the dial configuration
//
// certificate authority verification is disabled on purpose: the peer
// is accepted only when the digest of its transmitted certificate
// matches a pin, which is checked immediately after the handshake
func dialTLSConfig(e Endpoint, options Options) *tls.Config {

	alpn := options.ALPN
	if transportQUIC == e.transport && 0 == len(alpn) {
		alpn = []string{DefaultALPN}
	}

	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true,
		ServerName:         options.ServerName,
		NextProtos:         alpn,
	}
}

// classifyDialError - separate running out of time from transport
// trouble
func classifyDialError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fault.HandshakeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fault.HandshakeTimeout
	}
	return fault.TransportFailure
}

// fail - mark the session Failed unless already terminal
func (s *Session) fail(err error) error {
	s.terminate(Failed, err)
	return err
}

// reject - mark the session Rejected unless already terminal
func (s *Session) reject(err error) error {
	s.terminate(Rejected, err)
	return err
}

func (s *Session) terminate(state State, err error) {
	s.Lock()
	if !s.state.Terminal() {
		s.state = state
		s.err = err
	}
	s.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Session) setState(state State) {
	s.Lock()
	if !s.state.Terminal() {
		s.state = state
	}
	s.Unlock()
}

// State - the current session state
func (s *Session) State() State {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// Is - detect a particular session state
func (s *Session) Is(state State) bool {
	s.RLock()
	defer s.RUnlock()
	return state == s.state
}

// Err - the error that made the session terminal, nil otherwise
func (s *Session) Err() error {
	s.RLock()
	defer s.RUnlock()
	return s.err
}

// Endpoint - the endpoint this session was created for
func (s *Session) Endpoint() Endpoint {
	return s.endpoint
}

// PeerFingerprint - the digest the peer actually transmitted
//
// available from Verifying onwards, notably also when the session was
// rejected, so a mismatch can be reported together with the value seen
func (s *Session) PeerFingerprint() (fingerprint.Fingerprint, bool) {
	s.RLock()
	defer s.RUnlock()
	return s.peer, s.peerSeen
}

// Done - closed once the session is terminal
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// WaitClosed - block until the session is terminal
func (s *Session) WaitClosed(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Conn - the established TLS connection
//
// only valid while Established; QUIC sessions transfer over streams
// instead
func (s *Session) Conn() (net.Conn, error) {
	s.RLock()
	defer s.RUnlock()

	if Established != s.state {
		return nil, fault.SessionNotEstablished
	}
	if nil == s.conn {
		return nil, fault.TransportMismatch
	}
	return s.conn, nil
}

// Close - shut the session down
//
// safe to call in any state and more than once; a session that was
// rejected or failed keeps that state
func (s *Session) Close() error {

	s.Lock()

	var err error
	switch s.state {
	case Rejected, Failed, Closed:
		// already terminal
	case Established:
		if nil != s.conn {
			err = s.conn.Close()
		}
		if nil != s.quicConn {
			err = s.quicConn.CloseWithError(closeCodeNormal, "client close")
		}
		s.state = Closed
	default:
		s.state = Closed
	}

	s.Unlock()
	s.doneOnce.Do(func() { close(s.done) })

	return err
}

// String - endpoint and state for logging
func (s *Session) String() string {
	return s.endpoint.String() + " [" + s.State().String() + "]"
}
