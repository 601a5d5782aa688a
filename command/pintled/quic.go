// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"
	"github.com/quic-go/quic-go"
	"golang.org/x/time/rate"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/pinned"
)

const (
	quicIdleTimeout = 2 * time.Minute

	// per-remote rate limiter lifetime in the cache
	limiterLifetime = time.Hour
	limiterPurge    = 2 * time.Hour
	handshakeBurst  = 5
)

// application close code sent to throttled remotes
const quicCodeRateLimited = quic.ApplicationErrorCode(2)

// the QUIC echo listeners as one background process
type quicService struct {
	log       *logger.L
	listeners []*quic.Listener
	limiters  *cache.Cache
	rate      rate.Limit
}

func newQUICService(service *ServiceType, tlsConfiguration *tls.Config) (*quicService, error) {
	if service.HandshakeRate <= 0 {
		return nil, fault.MissingParameters
	}

	s := &quicService{
		log:      logger.New("quic"),
		limiters: cache.New(limiterLifetime, limiterPurge),
		rate:     rate.Limit(service.HandshakeRate),
	}

	quicTLS := tlsConfiguration.Clone()
	quicTLS.NextProtos = []string{pinned.DefaultALPN}

	quicConfiguration := &quic.Config{
		MaxIdleTimeout: quicIdleTimeout,
	}

	for _, address := range canonicalAddresses(service.QuicListen) {
		l, err := quic.ListenAddr(address, quicTLS, quicConfiguration)
		if nil != err {
			for _, open := range s.listeners {
				open.Close()
			}
			return nil, err
		}
		s.listeners = append(s.listeners, l)
	}

	return s, nil
}

func (s *quicService) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for _, l := range s.listeners {
		log.Infof("listening on: %s", l.Addr())
		wg.Add(1)
		go s.accept(ctx, l, &wg)
	}

	<-shutdown

	cancel()
	for _, l := range s.listeners {
		l.Close()
	}
	wg.Wait()
}

func (s *quicService) accept(ctx context.Context, l *quic.Listener, wg *sync.WaitGroup) {
	defer wg.Done()

loop:
	for {
		conn, err := l.Accept(ctx)
		if nil != err {
			break loop // listener closed or shutting down
		}

		if !s.allow(conn.RemoteAddr()) {
			s.log.Warnf("throttle: %s", conn.RemoteAddr())
			_ = conn.CloseWithError(quicCodeRateLimited, fault.RateLimiting.Error())
			continue loop
		}

		servedQUIC.Increment()
		go s.serve(ctx, conn)
	}
}

// one limiter per remote host, kept in an expiring cache so idle
// remotes do not accumulate
func (s *quicService) allow(remote net.Addr) bool {
	host, _, err := net.SplitHostPort(remote.String())
	if nil != err {
		host = remote.String()
	}

	var limiter *rate.Limiter
	if cached, ok := s.limiters.Get(host); ok {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(s.rate, handshakeBurst)
		s.limiters.Set(host, limiter, 0)
	}

	return limiter.Allow()
}

// echo every stream until the connection closes
func (s *quicService) serve(ctx context.Context, conn quic.Connection) {
	log := s.log
	log.Debugf("session start: %s  active: %d", conn.RemoteAddr(), activeQUIC.Increment())

	go s.drainUniStreams(ctx, conn)

	for {
		stream, err := conn.AcceptStream(ctx)
		if nil != err {
			break
		}
		go func(stream quic.Stream) {
			_, err := io.Copy(stream, stream)
			if nil != err {
				log.Debugf("stream error: %s", err)
			}
			stream.Close()
		}(stream)
	}

	_ = conn.CloseWithError(0, "server shutdown")
	log.Debugf("session finished: %s  active: %d", conn.RemoteAddr(), activeQUIC.Decrement())
}

// unidirectional streams are read and discarded
func (s *quicService) drainUniStreams(ctx context.Context, conn quic.Connection) {
	for {
		stream, err := conn.AcceptUniStream(ctx)
		if nil != err {
			return
		}
		go func(stream quic.ReceiveStream) {
			_, _ = io.Copy(io.Discard, stream)
		}(stream)
	}
}
