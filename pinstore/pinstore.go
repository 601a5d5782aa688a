// SPDX-License-Identifier: ISC
// Copyright (c) 2024-2026 Pintle Project
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pinstore - persistent first-seen pin database
//
// keeps one record per endpoint: the fingerprint observed on first
// contact and the times it was first and last confirmed.  a later
// observation with a different fingerprint is never stored silently;
// the caller gets fault.FingerprintChanged and must decide.
package pinstore

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/pintle-project/pintled/fault"
	"github.com/pintle-project/pintled/fingerprint"
)

// Entry - one remembered endpoint
type Entry struct {
	Endpoint  string
	Algorithm fingerprint.Algorithm
	Digest    fingerprint.Fingerprint
	FirstSeen time.Time
	LastSeen  time.Time
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentPinDBVersion = 0x100

	// key prefix for pin records
	pinPrefix = 'P'
)

// holds the database handle
var globalData struct {
	sync.RWMutex
	db *leveldb.DB
}

// Initialise - open up the database connection
//
// this must be called before any other operation
func Initialise(database string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.db {
		return fault.AlreadyInitialised
	}

	pinsDatabase := database + "-pins.leveldb"

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}

	db, err := leveldb.OpenFile(pinsDatabase, opt)
	if nil != err {
		return err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {

		// database was empty so tag as current version
		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, currentPinDBVersion)
		err = db.Put(versionKey, buffer, nil)
		if nil != err {
			db.Close()
			return err
		}

	} else if nil != err {
		db.Close()
		return err

	} else {
		if 4 != len(versionValue) {
			db.Close()
			return fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
		}

		// ensure no database downgrade
		version := int(binary.BigEndian.Uint32(versionValue))
		if version > currentPinDBVersion {
			db.Close()
			return fmt.Errorf("pin database version: %d > current version: %d", version, currentPinDBVersion)
		}
	}

	globalData.db = db
	return nil
}

// Finalise - close the database connection
func Finalise() {
	globalData.Lock()
	if nil != globalData.db {
		globalData.db.Close()
		globalData.db = nil
	}
	globalData.Unlock()
}

// prepend the prefix onto an endpoint key
func pinKey(endpoint string) []byte {
	key := make([]byte, 1, len(endpoint)+1)
	key[0] = pinPrefix
	return append(key, endpoint...)
}

// record layout:
//
//	32 bytes  digest
//	 8 bytes  first seen, unix seconds big endian
//	 8 bytes  last seen, unix seconds big endian
//	 n bytes  algorithm name
const fixedRecordSize = fingerprint.Size + 8 + 8

func packEntry(entry Entry) []byte {
	buffer := make([]byte, fixedRecordSize, fixedRecordSize+len(entry.Algorithm))
	copy(buffer, entry.Digest[:])
	binary.BigEndian.PutUint64(buffer[fingerprint.Size:], uint64(entry.FirstSeen.Unix()))
	binary.BigEndian.PutUint64(buffer[fingerprint.Size+8:], uint64(entry.LastSeen.Unix()))
	return append(buffer, entry.Algorithm...)
}

func unpackEntry(endpoint string, buffer []byte) (Entry, error) {
	if len(buffer) <= fixedRecordSize {
		return Entry{}, fault.CorruptedPinRecord
	}
	entry := Entry{
		Endpoint:  endpoint,
		Algorithm: fingerprint.Algorithm(buffer[fixedRecordSize:]),
	}
	copy(entry.Digest[:], buffer[:fingerprint.Size])
	entry.FirstSeen = time.Unix(int64(binary.BigEndian.Uint64(buffer[fingerprint.Size:])), 0).UTC()
	entry.LastSeen = time.Unix(int64(binary.BigEndian.Uint64(buffer[fingerprint.Size+8:])), 0).UTC()
	if nil != fingerprint.CheckAlgorithm(entry.Algorithm) {
		return Entry{}, fault.CorruptedPinRecord
	}
	return entry, nil
}

// Put - store an entry, overwriting any previous record
func Put(entry Entry) error {
	if "" == entry.Endpoint {
		return fault.InvalidEndpoint
	}
	err := fingerprint.CheckAlgorithm(entry.Algorithm)
	if nil != err {
		return err
	}
	if entry.Digest.IsZero() {
		return fault.MissingPinConfiguration
	}

	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.db {
		return fault.StoreNotOpen
	}
	return globalData.db.Put(pinKey(entry.Endpoint), packEntry(entry), nil)
}

// Get - fetch the entry for an endpoint
func Get(endpoint string) (Entry, error) {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.db {
		return Entry{}, fault.StoreNotOpen
	}

	buffer, err := globalData.db.Get(pinKey(endpoint), nil)
	if leveldb.ErrNotFound == err {
		return Entry{}, fault.PinNotFound
	} else if nil != err {
		return Entry{}, err
	}
	return unpackEntry(endpoint, buffer)
}

// Delete - remove the entry for an endpoint
func Delete(endpoint string) error {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.db {
		return fault.StoreNotOpen
	}
	return globalData.db.Delete(pinKey(endpoint), nil)
}

// List - all remembered endpoints in key order
func List() ([]Entry, error) {
	globalData.RLock()
	defer globalData.RUnlock()
	if nil == globalData.db {
		return nil, fault.StoreNotOpen
	}

	pinRange := ldb_util.Range{
		Start: []byte{pinPrefix},
		Limit: []byte{pinPrefix + 1},
	}

	entries := []Entry{}
	iter := globalData.db.NewIterator(&pinRange, nil)
	for iter.Next() {

		// contents of the returned slices must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		entry, err := unpackEntry(string(key[1:]), value)
		if nil != err {
			iter.Release()
			return nil, err
		}
		entries = append(entries, entry)
	}
	iter.Release()
	err := iter.Error()
	if nil != err {
		return nil, err
	}
	return entries, nil
}

// Remember - record an observed fingerprint for an endpoint
//
// a first observation creates the entry and returns true; a repeat of
// the stored fingerprint refreshes the last seen time and returns
// false; a different fingerprint leaves the record untouched and
// returns the stored entry with fault.FingerprintChanged so the caller
// can display both sides
func Remember(endpoint string, digest fingerprint.Fingerprint) (Entry, bool, error) {
	if "" == endpoint {
		return Entry{}, false, fault.InvalidEndpoint
	}
	if digest.IsZero() {
		return Entry{}, false, fault.MissingPinConfiguration
	}

	now := time.Now().UTC().Truncate(time.Second)

	existing, err := Get(endpoint)
	if fault.PinNotFound == err {
		entry := Entry{
			Endpoint:  endpoint,
			Algorithm: fingerprint.SHA256,
			Digest:    digest,
			FirstSeen: now,
			LastSeen:  now,
		}
		return entry, true, Put(entry)
	} else if nil != err {
		return Entry{}, false, err
	}

	if existing.Digest != digest {
		return existing, false, fault.FingerprintChanged
	}

	existing.LastSeen = now
	return existing, false, Put(existing)
}
