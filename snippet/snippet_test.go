// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snippet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/snippet"
)

const (
	testHex    = "f4da4ef2f22ac1796a86576d62b9b7ed453be00978dec515fd04ffa2e57393fe"
	testColons = "F4:DA:4E:F2:F2:2A:C1:79:6A:86:57:6D:62:B9:B7:ED:45:3B:E0:09:78:DE:C5:15:FD:04:FF:A2:E5:73:93:FE"
	testBase64 = "9NpO8vIqwXlqhldtYrm37UU74Al43sUV/QT/ouVzk/4="
)

func testParameters(t *testing.T) snippet.Parameters {
	f, err := fingerprint.FromHex(testHex)
	assert.Nil(t, err, "fromHex error")
	return snippet.Parameters{
		Host:        "node.example.com",
		Port:        2150,
		Fingerprint: f,
	}
}

func TestRenderBrowser(t *testing.T) {
	out, err := snippet.Render(snippet.Browser, testParameters(t))
	assert.Nil(t, err, "render error")
	assert.True(t, strings.Contains(out, `new WebTransport("https://node.example.com:2150/"`), "missing endpoint: %s", out)
	assert.True(t, strings.Contains(out, "serverCertificateHashes"), "missing hash member: %s", out)
	assert.True(t, strings.Contains(out, `"sha-256"`), "missing algorithm: %s", out)
	assert.True(t, strings.Contains(out, testBase64), "missing digest: %s", out)
}

func TestRenderShell(t *testing.T) {
	out, err := snippet.Render(snippet.Shell, testParameters(t))
	assert.Nil(t, err, "render error")
	assert.True(t, strings.Contains(out, "openssl s_client -connect node.example.com:2150"), "missing connect: %s", out)
	assert.True(t, strings.Contains(out, testColons), "missing digest: %s", out)
}

func TestRenderDNS(t *testing.T) {
	out, err := snippet.Render(snippet.DNS, testParameters(t))
	assert.Nil(t, err, "render error")
	assert.Equal(t, "_2150._tcp.node.example.com. IN TLSA 3 0 1 "+testHex+"\n", out, "wrong record")

	p := testParameters(t)
	p.Protocol = "udp"
	out, err = snippet.Render(snippet.DNS, p)
	assert.Nil(t, err, "render error")
	assert.True(t, strings.Contains(out, "_2150._udp."), "missing udp label: %s", out)
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := snippet.Render(snippet.Kind("carrier-pigeon"), testParameters(t))
	assert.Equal(t, fault.UnknownSnippetKind, err, "wrong error")
	assert.True(t, fault.IsErrNotFound(err), "wrong error class")
}

func TestRenderBadParameters(t *testing.T) {
	p := testParameters(t)
	p.Host = ""
	_, err := snippet.Render(snippet.Shell, p)
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error for empty host")

	p = testParameters(t)
	p.Port = 0
	_, err = snippet.Render(snippet.Shell, p)
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error for port")

	p = testParameters(t)
	p.Port = 70000
	_, err = snippet.Render(snippet.Shell, p)
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error for port")

	p = testParameters(t)
	p.Protocol = "sctp"
	_, err = snippet.Render(snippet.DNS, p)
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error for protocol")

	p = testParameters(t)
	p.Fingerprint = fingerprint.Fingerprint{}
	_, err = snippet.Render(snippet.Browser, p)
	assert.Equal(t, fault.MissingPinConfiguration, err, "wrong error for zero fingerprint")
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"browser", "dns", "shell"}, snippet.Kinds(), "wrong kind list")
}
