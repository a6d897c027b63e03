package kinship

import (
	"encoding/json"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"github.com/tidwall/gjson"
)

var ErrSnapshotCorrupted = errors.New("snapshot is corrupted")
var ErrSnapshotWriteFailed = errors.New("snapshot write failed")
var ErrSnapshotReadFailed = errors.New("snapshot read failed")

const snapshotVersion = 1

type snapshotModel struct {
	Version  int             `json:"version"`
	Checksum uint64          `json:"checksum"`
	Records  json.RawMessage `json:"records"`
}

// WriteSnapshot serializes every row to path as JSON, checksummed with
// xxhash and swapped in through a temp file, so a crash mid-write cannot
// truncate an existing snapshot.
func (ms *MemoryStore) WriteSnapshot(path string) error {
	ms.mu.RLock()
	records := make([]*storedRow, 0, ms.rows.Len())
	ms.rows.Ascend(nil, func(i interface{}) bool {
		sr, ok := i.(*storedRow)
		if !ok {
			panic(storedRowCastPanic)
		}
		records = append(records, sr)
		return true
	})
	ms.mu.RUnlock()

	payload, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(ErrSnapshotWriteFailed, err.Error())
	}

	b, err := json.Marshal(&snapshotModel{
		Version:  snapshotVersion,
		Checksum: xxhash.Sum64(payload),
		Records:  payload,
	})
	if err != nil {
		return errors.Wrap(ErrSnapshotWriteFailed, err.Error())
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, b, 0666); err != nil {
		return errors.Wrapf(ErrSnapshotWriteFailed, "could not write %s: %s", tmpPath, err.Error())
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(ErrSnapshotWriteFailed, "could not swap in %s: %s", path, err.Error())
	}

	return nil
}

// ReadSnapshot replaces the store contents with the rows of a snapshot
// written by WriteSnapshot. The checksum is verified over the raw records
// payload before anything is decoded.
func (ms *MemoryStore) ReadSnapshot(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(ErrSnapshotReadFailed, "could not read %s: %s", path, err.Error())
	}

	version := gjson.GetBytes(raw, "version")
	if !version.Exists() || version.Int() != snapshotVersion {
		return errors.Wrapf(ErrSnapshotCorrupted, "unsupported version in %s", path)
	}

	recs := gjson.GetBytes(raw, "records")
	if !recs.Exists() {
		return errors.Wrapf(ErrSnapshotCorrupted, "no records payload in %s", path)
	}

	checksum := gjson.GetBytes(raw, "checksum")
	if !checksum.Exists() || checksum.Uint() != xxhash.Sum64([]byte(recs.Raw)) {
		return errors.Wrapf(ErrSnapshotCorrupted, "checksum mismatch in %s", path)
	}

	var records []*storedRow
	if err := json.Unmarshal([]byte(recs.Raw), &records); err != nil {
		return errors.Wrap(ErrSnapshotCorrupted, err.Error())
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.rows = btree.NewNonConcurrent(byStoreKeys)
	for _, sr := range records {
		ms.rows.Set(sr)
	}

	return nil
}
