// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pinstore_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
	"github.com/pintle-project/pintled/pinstore"
)

func setupStore(t *testing.T) {
	err := pinstore.Initialise(filepath.Join(t.TempDir(), "data"))
	assert.Nil(t, err, "initialise error")
	t.Cleanup(pinstore.Finalise)
}

func digestOf(fill byte) fingerprint.Fingerprint {
	f := fingerprint.Fingerprint{}
	for i := range f {
		f[i] = fill
	}
	return f
}

func TestInitialise(t *testing.T) {
	setupStore(t)

	err := pinstore.Initialise(filepath.Join(t.TempDir(), "other"))
	assert.Equal(t, fault.AlreadyInitialised, err, "wrong error")
}

func TestNotOpen(t *testing.T) {
	pinstore.Finalise()

	_, err := pinstore.Get("node.example.com:2150")
	assert.Equal(t, fault.StoreNotOpen, err, "wrong get error")

	err = pinstore.Put(pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.SHA256,
		Digest:    digestOf(0x11),
	})
	assert.Equal(t, fault.StoreNotOpen, err, "wrong put error")

	err = pinstore.Delete("node.example.com:2150")
	assert.Equal(t, fault.StoreNotOpen, err, "wrong delete error")

	_, err = pinstore.List()
	assert.Equal(t, fault.StoreNotOpen, err, "wrong list error")

	_, _, err = pinstore.Remember("node.example.com:2150", digestOf(0x11))
	assert.Equal(t, fault.StoreNotOpen, err, "wrong remember error")
}

func TestPutGet(t *testing.T) {
	setupStore(t)

	entry := pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.SHA256,
		Digest:    digestOf(0x42),
		FirstSeen: time.Unix(1700000000, 0).UTC(),
		LastSeen:  time.Unix(1700003600, 0).UTC(),
	}

	err := pinstore.Put(entry)
	assert.Nil(t, err, "put error")

	stored, err := pinstore.Get("node.example.com:2150")
	assert.Nil(t, err, "get error")
	assert.Equal(t, entry, stored, "wrong entry")

	_, err = pinstore.Get("absent.example.com:2150")
	assert.Equal(t, fault.PinNotFound, err, "wrong error")
	assert.True(t, fault.IsErrNotFound(err), "wrong error class")
}

func TestPutValidation(t *testing.T) {
	setupStore(t)

	err := pinstore.Put(pinstore.Entry{
		Algorithm: fingerprint.SHA256,
		Digest:    digestOf(0x42),
	})
	assert.Equal(t, fault.InvalidEndpoint, err, "wrong error for empty endpoint")

	err = pinstore.Put(pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.Algorithm("sha-512"),
		Digest:    digestOf(0x42),
	})
	assert.Equal(t, fault.UnsupportedAlgorithm, err, "wrong error for algorithm")

	err = pinstore.Put(pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.SHA256,
	})
	assert.Equal(t, fault.MissingPinConfiguration, err, "wrong error for zero digest")
}

func TestDelete(t *testing.T) {
	setupStore(t)

	entry := pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.SHA256,
		Digest:    digestOf(0x42),
		FirstSeen: time.Unix(1700000000, 0).UTC(),
		LastSeen:  time.Unix(1700000000, 0).UTC(),
	}
	err := pinstore.Put(entry)
	assert.Nil(t, err, "put error")

	err = pinstore.Delete("node.example.com:2150")
	assert.Nil(t, err, "delete error")

	_, err = pinstore.Get("node.example.com:2150")
	assert.Equal(t, fault.PinNotFound, err, "wrong error")

	// deleting an absent key is not an error
	err = pinstore.Delete("absent.example.com:2150")
	assert.Nil(t, err, "delete error")
}

func TestList(t *testing.T) {
	setupStore(t)

	endpoints := []string{
		"charlie.example.com:2150",
		"alpha.example.com:2150",
		"bravo.example.com:9000",
	}
	for i, endpoint := range endpoints {
		err := pinstore.Put(pinstore.Entry{
			Endpoint:  endpoint,
			Algorithm: fingerprint.SHA256,
			Digest:    digestOf(byte(i + 1)),
			FirstSeen: time.Unix(1700000000, 0).UTC(),
			LastSeen:  time.Unix(1700000000, 0).UTC(),
		})
		assert.Nil(t, err, "put error")
	}

	entries, err := pinstore.List()
	assert.Nil(t, err, "list error")
	assert.Equal(t, 3, len(entries), "wrong entry count")
	assert.Equal(t, "alpha.example.com:2150", entries[0].Endpoint, "wrong order")
	assert.Equal(t, "bravo.example.com:9000", entries[1].Endpoint, "wrong order")
	assert.Equal(t, "charlie.example.com:2150", entries[2].Endpoint, "wrong order")
	assert.Equal(t, digestOf(0x01), entries[2].Digest, "wrong digest")
}

func TestRemember(t *testing.T) {
	setupStore(t)

	digest := digestOf(0x42)

	entry, isNew, err := pinstore.Remember("node.example.com:2150", digest)
	assert.Nil(t, err, "remember error")
	assert.True(t, isNew, "expected new entry")
	assert.Equal(t, digest, entry.Digest, "wrong digest")
	assert.Equal(t, fingerprint.SHA256, entry.Algorithm, "wrong algorithm")
	assert.Equal(t, entry.FirstSeen, entry.LastSeen, "times differ on first contact")

	// repeat observation refreshes last seen only
	again, isNew, err := pinstore.Remember("node.example.com:2150", digest)
	assert.Nil(t, err, "remember error")
	assert.False(t, isNew, "expected existing entry")
	assert.Equal(t, entry.FirstSeen, again.FirstSeen, "first seen drifted")
	assert.False(t, again.LastSeen.Before(entry.LastSeen), "last seen went backwards")

	// a different fingerprint must not overwrite the record
	stored, isNew, err := pinstore.Remember("node.example.com:2150", digestOf(0x43))
	assert.Equal(t, fault.FingerprintChanged, err, "wrong error")
	assert.True(t, fault.IsErrRejected(err), "wrong error class")
	assert.False(t, isNew, "expected existing entry")
	assert.Equal(t, digest, stored.Digest, "stored digest changed")

	check, err := pinstore.Get("node.example.com:2150")
	assert.Nil(t, err, "get error")
	assert.Equal(t, digest, check.Digest, "record was overwritten")
}

func TestReopen(t *testing.T) {
	database := filepath.Join(t.TempDir(), "data")

	err := pinstore.Initialise(database)
	assert.Nil(t, err, "initialise error")

	entry := pinstore.Entry{
		Endpoint:  "node.example.com:2150",
		Algorithm: fingerprint.SHA256,
		Digest:    digestOf(0x42),
		FirstSeen: time.Unix(1700000000, 0).UTC(),
		LastSeen:  time.Unix(1700000000, 0).UTC(),
	}
	err = pinstore.Put(entry)
	assert.Nil(t, err, "put error")

	pinstore.Finalise()

	err = pinstore.Initialise(database)
	assert.Nil(t, err, "reopen error")
	defer pinstore.Finalise()

	stored, err := pinstore.Get("node.example.com:2150")
	assert.Nil(t, err, "get error")
	assert.Equal(t, entry, stored, "entry lost on reopen")
}
