// Package storage keeps snapshots of buffers together with the element
// layout they should be viewed with.
//
// Each snapshot is stored in pebble under its KSUID. The value is a CBOR
// envelope holding a codec record whose key is the encoded layout and whose
// value is the snapshot bytes, so the record CRC covers both.
package storage

import (
	"bytes"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/codec"
)

const envelopeVersion = 1

var (
	// ErrNotFound is returned for an unknown snapshot id.
	ErrNotFound = errors.New("storage: snapshot not found")
	// ErrCorrupt is returned when a stored snapshot fails its checksum or
	// cannot be decoded.
	ErrCorrupt = errors.New("storage: snapshot corrupt")
)

var keyPrefix = []byte("snap/")

// envelope is the stored value.
type envelope struct {
	Version int    `cbor:"1,keyasint"`
	Name    string `cbor:"2,keyasint,omitempty"`
	Record  []byte `cbor:"3,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: the same snapshot always produces the
	// same bytes.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("storage: CBOR decoder initialization failed: " + err.Error())
	}
}

// Store is a pebble-backed snapshot store.
type Store struct {
	db     *pebble.DB
	codec  *codec.RecordCodec
	logger zerolog.Logger
}

// Open opens or creates a store in dir.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "storage: open %s", dir)
	}
	logger = logger.With().Str("component", "storage").Logger()
	logger.Debug().Str("dir", dir).Msg("store opened")
	return &Store{db: db, codec: codec.NewRecordCodec(), logger: logger}, nil
}

// Put stores snap under a new id.
func (s *Store) Put(snap Snapshot) (ksuid.KSUID, error) {
	if err := snap.Layout.Validate(); err != nil {
		return ksuid.Nil, err
	}
	value, err := s.encode(snap)
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(key(id), value, pebble.Sync); err != nil {
		return ksuid.Nil, errors.Wrap(err, "storage: put")
	}
	s.logger.Debug().Str("id", id.String()).Int("bytes", len(snap.Data)).Msg("snapshot stored")
	return id, nil
}

// Get returns the snapshot stored under id.
func (s *Store) Get(id ksuid.KSUID) (*Snapshot, error) {
	value, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage: get")
	}
	defer closer.Close()

	snap, err := s.decode(id, value)
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id.String()).Msg("snapshot failed verification")
		return nil, err
	}
	return snap, nil
}

// Delete removes the snapshot stored under id.
func (s *Store) Delete(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return errors.Wrap(err, "storage: delete")
	}
	closer.Close()

	if err := s.db.Delete(key(id), pebble.Sync); err != nil {
		return errors.Wrap(err, "storage: delete")
	}
	s.logger.Debug().Str("id", id.String()).Msg("snapshot deleted")
	return nil
}

// List returns every stored snapshot in id order, which is creation order.
// Snapshots that fail verification are listed with Corrupt set.
func (s *Store) List() ([]Entry, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: prefixEnd(keyPrefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "storage: list")
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(bytes.TrimPrefix(iter.Key(), keyPrefix))
		if err != nil {
			return nil, errors.Wrap(err, "storage: list")
		}
		entry := Entry{ID: id, CreatedAt: id.Time()}
		snap, err := s.decode(id, iter.Value())
		if err != nil {
			entry.Corrupt = true
		} else {
			entry.Name = snap.Name
			entry.Layout = snap.Layout
			entry.Size = len(snap.Data)
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "storage: list")
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) encode(snap Snapshot) ([]byte, error) {
	layout, err := encMode.Marshal(snap.Layout)
	if err != nil {
		return nil, errors.Wrap(err, "storage: encode layout")
	}
	record, err := s.codec.Encode(layout, snap.Data)
	if err != nil {
		return nil, errors.Wrap(err, "storage: encode record")
	}
	value, err := encMode.Marshal(envelope{Version: envelopeVersion, Name: snap.Name, Record: record})
	if err != nil {
		return nil, errors.Wrap(err, "storage: encode envelope")
	}
	return value, nil
}

// decode copies out of value, which pebble only lends until the closer or
// iterator moves on.
func (s *Store) decode(id ksuid.KSUID, value []byte) (*Snapshot, error) {
	var env envelope
	if err := decMode.Unmarshal(value, &env); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: envelope: %v", id, err)
	}
	if env.Version != envelopeVersion {
		return nil, errors.Wrapf(ErrCorrupt, "%s: envelope version %d", id, env.Version)
	}
	if err := codec.NewRecordView(buffer.NewReadOnly(env.Record)).Verify(); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", id, err)
	}
	record, err := s.codec.Decode(env.Record)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", id, err)
	}

	var layout Layout
	if err := decMode.Unmarshal(record.Key, &layout); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: layout: %v", id, err)
	}
	return &Snapshot{
		Name:     env.Name,
		Layout:   layout,
		Data:     bytes.Clone(record.Value),
		StoredAt: time.Unix(0, int64(record.Timestamp)),
	}, nil
}

func key(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), keyPrefix...), id.Bytes()...)
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}
