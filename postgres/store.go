// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"
	"time"

	"github.com/diffeo/go-fablib/fim"
	"github.com/diffeo/go-fablib/topology"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// docToBytes encodes a slice document as CBOR.
func docToBytes(doc *topology.Slice) (out []byte, err error) {
	encoder := codec.NewEncoderBytes(&out, new(codec.CborHandle))
	err = encoder.Encode(doc)
	return
}

// bytesToDoc decodes a CBOR slice document.
func bytesToDoc(in []byte) (*topology.Slice, error) {
	doc := new(topology.Slice)
	decoder := codec.NewDecoderBytes(in, new(codec.CborHandle))
	if err := decoder.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decode slice document")
	}
	doc.Normalize()
	return doc, nil
}

// Create inserts an empty slice row if none exists.
func (s *Store) Create(name string) error {
	data, err := docToBytes(topology.NewSlice(name))
	if err != nil {
		return err
	}
	return withTx(s.db, false, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO slices(name, data) VALUES($1, $2) "+
			"ON CONFLICT (name) DO NOTHING", name, data)
		return err
	})
}

// List returns the names of all slices in name order.
func (s *Store) List() (names []string, err error) {
	err = withTx(s.db, true, func(tx *sql.Tx) error {
		names = nil
		rows, err := tx.Query(buildSelect([]string{"name"}, []string{"slices"}, nil) + " ORDER BY name")
		if err != nil {
			return err
		}
		return scanRows(rows, func() error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
			return nil
		})
	})
	return
}

// load reads and decodes one slice document inside a transaction.
func load(tx *sql.Tx, name string, forUpdate bool) (*topology.Slice, error) {
	var params queryParams
	query := buildSelect([]string{"data"}, []string{"slices"},
		[]string{"name=" + params.Param(name)})
	if forUpdate {
		query += " FOR UPDATE"
	}
	var data []byte
	err := tx.QueryRow(query, params...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fim.ErrGone
	}
	if err != nil {
		return nil, err
	}
	return bytesToDoc(data)
}

// View decodes the named slice document and calls f on it.
func (s *Store) View(name string, f func(*topology.Slice) error) error {
	return withTx(s.db, true, func(tx *sql.Tx) error {
		doc, err := load(tx, name, false)
		if err != nil {
			return err
		}
		return f(doc)
	})
}

// Update decodes the named slice document, calls f on it, and writes
// it back if f succeeds.
func (s *Store) Update(name string, f func(*topology.Slice) error) error {
	return withTx(s.db, false, func(tx *sql.Tx) error {
		doc, err := load(tx, name, true)
		if err != nil {
			return err
		}
		err = f(doc)
		if err != nil {
			return err
		}
		data, err := docToBytes(doc)
		if err != nil {
			return errors.Wrap(err, "encode slice document")
		}
		var leaseEnd time.Time
		if end, err := doc.Lease(); err == nil {
			leaseEnd = end
		}
		var params queryParams
		query := buildUpdate("slices", []string{
			"data=" + params.Param(data),
			"lease_end=" + params.Param(timeToNullTime(leaseEnd)),
			"updated_at=NOW()",
		}, []string{"name=" + params.Param(name)})
		_, err = tx.Exec(query, params...)
		return err
	})
}

// Destroy deletes the named slice row.
func (s *Store) Destroy(name string) error {
	return withTx(s.db, false, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM slices WHERE name=$1", name)
		return err
	})
}
