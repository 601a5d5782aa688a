// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinned

import (
	"context"
	"errors"

	quic "github.com/quic-go/quic-go"

	"github.com/pintle-project/pintled/fault"
)

// application close codes on the QUIC transport
const (
	closeCodeNormal   quic.ApplicationErrorCode = 0
	closeCodeRejected quic.ApplicationErrorCode = 1
)

func (s *Session) connectQUIC(ctx context.Context) error {

	conf := &quic.Config{
		HandshakeIdleTimeout: s.options.HandshakeTimeout,
		MaxIdleTimeout:       s.options.IdleTimeout,
		KeepAlivePeriod:      s.options.KeepAlive,
	}

	conn, err := quic.DialAddr(ctx, s.endpoint.Address(), dialTLSConfig(s.endpoint, s.options), conf)
	if nil != err {
		return s.fail(classifyDialError(err))
	}

	// the handshake succeeded, now judge the peer
	s.setState(Verifying)

	err = s.verifyPeer(conn.ConnectionState().TLS.PeerCertificates)
	if nil != err {
		conn.CloseWithError(closeCodeRejected, err.Error())
		return s.reject(err)
	}

	s.Lock()
	if Closed == s.state { // closed while connecting
		s.Unlock()
		conn.CloseWithError(closeCodeNormal, "client close")
		return fault.SessionNotEstablished
	}
	s.quicConn = conn
	s.state = Established
	s.Unlock()

	go s.watch(conn)

	return nil
}

// watch - move the session to Closed when the transport dies
//
// a clean remote close leaves no error; anything else is recorded as
// a transport failure
func (s *Session) watch(conn quic.Connection) {

	<-conn.Context().Done()

	err := fault.TransportFailure
	var applicationError *quic.ApplicationError
	if errors.As(context.Cause(conn.Context()), &applicationError) {
		if closeCodeNormal == applicationError.ErrorCode {
			err = nil
		}
	}

	s.Lock()
	if !s.state.Terminal() {
		s.state = Closed
		s.err = err
	}
	s.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

// streamConn - the QUIC connection, only while Established
//
// the order of the checks keeps a rejected or failed session answering
// SessionNotEstablished for every transfer attempt
func (s *Session) streamConn() (quic.Connection, error) {
	s.RLock()
	defer s.RUnlock()

	if Established != s.state {
		return nil, fault.SessionNotEstablished
	}
	if nil == s.quicConn {
		return nil, fault.TransportMismatch
	}
	return s.quicConn, nil
}

// OpenBidirectionalStream - open a stream readable and writable on
// both ends
func (s *Session) OpenBidirectionalStream(ctx context.Context) (quic.Stream, error) {
	conn, err := s.streamConn()
	if nil != err {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if nil != err {
		return nil, fault.TransportFailure
	}
	return stream, nil
}

// OpenUnidirectionalStream - open a send-only stream
func (s *Session) OpenUnidirectionalStream(ctx context.Context) (quic.SendStream, error) {
	conn, err := s.streamConn()
	if nil != err {
		return nil, err
	}

	stream, err := conn.OpenUniStreamSync(ctx)
	if nil != err {
		return nil, fault.TransportFailure
	}
	return stream, nil
}
