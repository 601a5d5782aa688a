// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package certificate - local certificate handling
//
// loads TLS keypairs for the listeners, provisions self-signed
// certificates on first start and reads certificate files in PEM or
// raw DER form for fingerprinting.
package certificate

import (
	"bytes"
	"crypto/tls"
	"encoding/pem"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/util"
)

// self-signed certificates are valid for ten years
const selfSignedValidity = 10 * 365 * 24 * time.Hour

// Get - verify that a keypair is valid and return the listener
// tls.Config together with the fingerprint of the certificate exactly
// as it will be transmitted
func Get(log *logger.L, name string, certificatePEM string, keyPEM string) (*tls.Config, fingerprint.Fingerprint, error) {
	var fin fingerprint.Fingerprint

	keyPair, err := tls.X509KeyPair([]byte(certificatePEM), []byte(keyPEM))
	if err != nil {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		MinVersion: tls.VersionTLS12,
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin, err = fingerprint.New(keyPair.Certificate[0], fingerprint.SHA256)
	if err != nil {
		log.Errorf("%s failed to fingerprint certificate: %v", name, err)
		return nil, fin, err
	}

	log.Infof("%s fingerprint = %s", name, fin)

	return tlsConfiguration, fin, nil
}

// Load - read a keypair from files and verify it with Get
func Load(log *logger.L, name string, certificateFileName string, keyFileName string) (*tls.Config, fingerprint.Fingerprint, error) {
	var fin fingerprint.Fingerprint

	certificatePEM, err := os.ReadFile(certificateFileName)
	if err != nil {
		log.Errorf("%s certificate: %q error: %v", name, certificateFileName, err)
		return nil, fin, err
	}

	keyPEM, err := os.ReadFile(keyFileName)
	if err != nil {
		log.Errorf("%s private key: %q error: %v", name, keyFileName, err)
		return nil, fin, err
	}

	return Get(log, name, string(certificatePEM), string(keyPEM))
}

// MakeSelfSigned - create a self-signed certificate
//
// fails if either file already exists so an existing identity is never
// silently replaced
func MakeSelfSigned(name string, certificateFileName string, keyFileName string, override bool, extraHosts []string) error {

	if util.EnsureFileExists(certificateFileName) {
		return fault.CertificateFileAlreadyExists
	}

	if util.EnsureFileExists(keyFileName) {
		return fault.KeyFileAlreadyExists
	}

	org := "pintled self signed cert for: " + name
	validUntil := time.Now().Add(selfSignedValidity)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, override, extraHosts)
	if err != nil {
		return err
	}

	if err = os.WriteFile(certificateFileName, cert, 0666); err != nil {
		return err
	}

	if err = os.WriteFile(keyFileName, key, 0600); err != nil {
		os.Remove(certificateFileName)
		return err
	}

	return nil
}

// EnsureSelfSigned - provision a keypair on first start
//
// an existing pair is left untouched; half a pair is an error as the
// files no longer belong together
func EnsureSelfSigned(log *logger.L, name string, certificateFileName string, keyFileName string, extraHosts []string) error {

	haveCertificate := util.EnsureFileExists(certificateFileName)
	haveKey := util.EnsureFileExists(keyFileName)

	switch {
	case haveCertificate && haveKey:
		return nil
	case haveCertificate:
		log.Errorf("%s certificate: %q exists without its key", name, certificateFileName)
		return fault.CertificateFileAlreadyExists
	case haveKey:
		log.Errorf("%s private key: %q exists without its certificate", name, keyFileName)
		return fault.KeyFileAlreadyExists
	}

	log.Infof("%s creating self signed certificate: %q", name, certificateFileName)
	return MakeSelfSigned(name, certificateFileName, keyFileName, false, extraHosts)
}

// ReadDER - read a certificate file returning the raw DER bytes
//
// PEM input selects the first CERTIFICATE block; anything else is
// assumed to already be DER
func ReadDER(fileName string) ([]byte, error) {

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if nil == block {
			break
		}
		if "CERTIFICATE" == block.Type {
			return block.Bytes, nil
		}
	}

	// PEM data without a certificate block cannot be DER
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN")) {
		return nil, fault.InvalidCertificateData
	}

	return data, nil
}
