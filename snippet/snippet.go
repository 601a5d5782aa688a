// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package snippet - render ready to use pin snippets
//
// a server operator who just provisioned a certificate needs to hand
// the fingerprint to connecting parties in whatever form their side
// understands: a WebTransport fragment for browsers, an openssl
// command to double check the digest by hand, or a TLSA record line
// for publication in DNS.
package snippet

import (
	"net"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
)

// Kind - selects the rendered snippet form
type Kind string

// all snippet kinds
const (
	Browser Kind = "browser"
	Shell   Kind = "shell"
	DNS     Kind = "dns"
)

// Parameters - what the snippets are rendered from
type Parameters struct {
	Host        string
	Port        int
	Protocol    string // "tcp" or "udp", for the TLSA name
	Fingerprint fingerprint.Fingerprint
}

const (
	/**** WebTransport template ****/
	browserTemplate = `const transport = new WebTransport("https://{{.Host}}:{{.Port}}/", {
  serverCertificateHashes: [
    {
      algorithm: "{{.Algorithm}}",
      value: Uint8Array.from(atob("{{.Base64}}"), c => c.charCodeAt(0)),
    },
  ],
});
await transport.ready;
`

	/**** manual verification template ****/
	shellTemplate = `openssl s_client -connect {{.Address}} </dev/null 2>/dev/null \
  | openssl x509 -noout -fingerprint -sha256
# expect: sha256 Fingerprint={{.ColonHex}}
`

	/**** TLSA record template ****/
	dnsTemplate = `_{{.Port}}._{{.Protocol}}.{{.Host}}. IN TLSA 3 0 1 {{.Hex}}
`
)

var snippets = map[Kind]*template.Template{
	Browser: template.Must(template.New("browser").Parse(browserTemplate)),
	Shell:   template.Must(template.New("shell").Parse(shellTemplate)),
	DNS:     template.Must(template.New("dns").Parse(dnsTemplate)),
}

// expanded parameter set handed to the templates
type snippetData struct {
	Host      string
	Port      int
	Protocol  string
	Address   string
	Algorithm string
	Hex       string
	ColonHex  string
	Base64    string
}

// Kinds - the names of every registered snippet
func Kinds() []string {
	all := make([]string, 0, len(snippets))
	for kind := range snippets {
		all = append(all, string(kind))
	}
	sort.Strings(all)
	return all
}

// Render - render one snippet kind
func Render(kind Kind, p Parameters) (string, error) {

	t, ok := snippets[kind]
	if !ok {
		return "", fault.UnknownSnippetKind
	}

	if "" == p.Host {
		return "", fault.InvalidEndpoint
	}
	if p.Port < 1 || p.Port > 65535 {
		return "", fault.InvalidEndpoint
	}
	if p.Fingerprint.IsZero() {
		return "", fault.MissingPinConfiguration
	}

	protocol := p.Protocol
	if "" == protocol {
		protocol = "tcp"
	}
	switch protocol {
	case "tcp", "udp":
	default:
		return "", fault.InvalidEndpoint
	}

	data := snippetData{
		Host:      p.Host,
		Port:      p.Port,
		Protocol:  protocol,
		Address:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Algorithm: string(fingerprint.SHA256),
		Hex:       p.Fingerprint.String(),
		ColonHex:  p.Fingerprint.ColonString(),
		Base64:    p.Fingerprint.Base64(),
	}

	var out strings.Builder
	err := t.Execute(&out, data)
	if nil != err {
		return "", err
	}
	return out.String(), nil
}
