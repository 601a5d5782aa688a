// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	// ExistsError - errors for items already present
	ExistsError GenericError
	// InvalidError - errors for bad data or bad parameters
	InvalidError GenericError
	// NotFoundError - errors for missing items
	NotFoundError GenericError
	// ProcessError - errors for operations failing part way
	ProcessError GenericError
	// RejectedError - errors for peers failing verification
	RejectedError GenericError
	// TimeoutError - errors for operations running out of time
	TimeoutError GenericError
)

// common errors - keep in alphabetic order
var (
	AlreadyConnected             = ProcessError("already connected")
	AlreadyInitialised           = ProcessError("already initialised")
	CertificateFileAlreadyExists = ExistsError("certificate file already exists")
	CorruptedPinRecord           = InvalidError("corrupted pin record")
	FingerprintChanged           = RejectedError("fingerprint changed since first seen")
	FingerprintMismatch          = RejectedError("fingerprint mismatch")
	HandshakeTimeout             = TimeoutError("handshake timeout")
	InvalidCertificateData       = InvalidError("invalid certificate data")
	InvalidConfigurationFile     = InvalidError("invalid configuration file")
	InvalidDnsDomainName         = InvalidError("invalid dns domain name")
	InvalidEndpoint              = InvalidError("invalid endpoint")
	InvalidFingerprintEncoding   = InvalidError("invalid fingerprint encoding")
	InvalidFingerprintLength     = InvalidError("invalid fingerprint length")
	InvalidPinFormat             = InvalidError("invalid pin format")
	KeyFileAlreadyExists         = ExistsError("key file already exists")
	MissingParameters            = InvalidError("missing parameters")
	MissingPinConfiguration      = InvalidError("missing pin configuration")
	NoPeerCertificate            = RejectedError("no peer certificate")
	NoSuitableRecords            = NotFoundError("no suitable records")
	NotInitialised               = ProcessError("not initialised")
	PinNotFound                  = NotFoundError("pin not found")
	RateLimiting                 = ProcessError("rate limiting")
	SessionNotEstablished        = ProcessError("session not established")
	StoreNotOpen                 = ProcessError("store not open")
	TransportFailure             = ProcessError("transport failure")
	TransportMismatch            = InvalidError("operation not supported by session transport")
	UnknownSnippetKind           = NotFoundError("unknown snippet kind")
	UnsupportedAlgorithm         = InvalidError("unsupported fingerprint algorithm")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RejectedError) Error() string { return string(e) }
func (e TimeoutError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRejected(e error) bool { _, ok := e.(RejectedError); return ok }
func IsErrTimeout(e error) bool  { _, ok := e.(TimeoutError); return ok }
