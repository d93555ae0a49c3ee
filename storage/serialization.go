// Copyright 2025 Sefirot Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/sefirot-labs/sefirot/core"
)

// MarshalChunkRecord serializes a chunk record to MUS format.
func MarshalChunkRecord(rec *core.ChunkRecord) []byte {
	size := ord.String.Size(rec.Id) +
		varint.PositiveInt.Size(rec.Ordinal) +
		ord.String.Size(rec.ContentHash) +
		ord.String.Size(rec.Text) +
		varint.PositiveInt.Size(int(rec.Tier)) +
		ord.String.Size(rec.Source) +
		varint.PositiveInt.Size(len(rec.Vector)) +
		ord.String.Size(rec.EmbeddingModel) +
		varint.Int64.Size(rec.IngestedAt.UnixMicro())
	for _, v := range rec.Vector {
		size += raw.Float32.Size(v)
	}

	bs := make([]byte, size)
	n := ord.String.Marshal(rec.Id, bs)
	n += varint.PositiveInt.Marshal(rec.Ordinal, bs[n:])
	n += ord.String.Marshal(rec.ContentHash, bs[n:])
	n += ord.String.Marshal(rec.Text, bs[n:])
	n += varint.PositiveInt.Marshal(int(rec.Tier), bs[n:])
	n += ord.String.Marshal(rec.Source, bs[n:])
	n += varint.PositiveInt.Marshal(len(rec.Vector), bs[n:])
	for _, v := range rec.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += ord.String.Marshal(rec.EmbeddingModel, bs[n:])
	varint.Int64.Marshal(rec.IngestedAt.UnixMicro(), bs[n:])
	return bs
}

// UnmarshalChunkRecord deserializes a chunk record from MUS format.
func UnmarshalChunkRecord(bs []byte) (*core.ChunkRecord, error) {
	rec := &core.ChunkRecord{}
	var (
		n, off int
		err    error
	)
	if rec.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return nil, wrapSerErr("chunk id", err)
	}
	off += n
	if rec.Ordinal, n, err = varint.PositiveInt.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("chunk ordinal", err)
	}
	off += n
	if rec.ContentHash, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("chunk content hash", err)
	}
	off += n
	if rec.Text, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("chunk text", err)
	}
	off += n
	tier, n, err := varint.PositiveInt.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("chunk tier", err)
	}
	rec.Tier = core.PrivacyTier(tier)
	off += n
	if rec.Source, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("chunk source", err)
	}
	off += n
	length, n, err := varint.PositiveInt.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("chunk vector length", err)
	}
	off += n
	rec.Vector = make([]float32, length)
	for i := 0; i < length; i++ {
		if rec.Vector[i], n, err = raw.Float32.Unmarshal(bs[off:]); err != nil {
			return nil, wrapSerErr("chunk vector", err)
		}
		off += n
	}
	if rec.EmbeddingModel, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("chunk embedding model", err)
	}
	off += n
	micros, _, err := varint.Int64.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("chunk ingested at", err)
	}
	rec.IngestedAt = unixMicroUTC(micros)
	return rec, nil
}

// MarshalDocumentRecord serializes a document record to MUS format. Entity
// map keys are written in sorted order so that serialization is
// deterministic.
func MarshalDocumentRecord(rec *core.DocumentRecord) []byte {
	keys := sortedKeys(rec.Entities)

	size := ord.String.Size(rec.ContentHash) +
		ord.String.Size(rec.Source) +
		varint.PositiveInt.Size(int(rec.Tier)) +
		ord.String.Size(rec.Format) +
		varint.PositiveInt64.Size(rec.SizeBytes) +
		varint.Int64.Size(rec.IngestedAt.UnixMicro()) +
		ord.String.Size(rec.EmbeddingModel) +
		varint.PositiveInt.Size(rec.ChunkCount) +
		varint.PositiveInt.Size(len(keys)) +
		varint.PositiveInt.Size(len(rec.WikiLinks))
	for _, k := range keys {
		size += ord.String.Size(k)
		size += varint.PositiveInt.Size(len(rec.Entities[k]))
		for _, v := range rec.Entities[k] {
			size += ord.String.Size(v)
		}
	}
	for _, l := range rec.WikiLinks {
		size += ord.String.Size(l)
	}

	bs := make([]byte, size)
	n := ord.String.Marshal(rec.ContentHash, bs)
	n += ord.String.Marshal(rec.Source, bs[n:])
	n += varint.PositiveInt.Marshal(int(rec.Tier), bs[n:])
	n += ord.String.Marshal(rec.Format, bs[n:])
	n += varint.PositiveInt64.Marshal(rec.SizeBytes, bs[n:])
	n += varint.Int64.Marshal(rec.IngestedAt.UnixMicro(), bs[n:])
	n += ord.String.Marshal(rec.EmbeddingModel, bs[n:])
	n += varint.PositiveInt.Marshal(rec.ChunkCount, bs[n:])
	n += varint.PositiveInt.Marshal(len(keys), bs[n:])
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += varint.PositiveInt.Marshal(len(rec.Entities[k]), bs[n:])
		for _, v := range rec.Entities[k] {
			n += ord.String.Marshal(v, bs[n:])
		}
	}
	n += varint.PositiveInt.Marshal(len(rec.WikiLinks), bs[n:])
	for _, l := range rec.WikiLinks {
		n += ord.String.Marshal(l, bs[n:])
	}
	return bs
}

// UnmarshalDocumentRecord deserializes a document record from MUS format.
func UnmarshalDocumentRecord(bs []byte) (*core.DocumentRecord, error) {
	rec := &core.DocumentRecord{}
	var (
		n, off int
		err    error
	)
	if rec.ContentHash, n, err = ord.String.Unmarshal(bs); err != nil {
		return nil, wrapSerErr("document content hash", err)
	}
	off += n
	if rec.Source, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("document source", err)
	}
	off += n
	tier, n, err := varint.PositiveInt.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("document tier", err)
	}
	rec.Tier = core.PrivacyTier(tier)
	off += n
	if rec.Format, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("document format", err)
	}
	off += n
	if rec.SizeBytes, n, err = varint.PositiveInt64.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("document size", err)
	}
	off += n
	micros, n, err := varint.Int64.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("document ingested at", err)
	}
	rec.IngestedAt = unixMicroUTC(micros)
	off += n
	if rec.EmbeddingModel, n, err = ord.String.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("document embedding model", err)
	}
	off += n
	if rec.ChunkCount, n, err = varint.PositiveInt.Unmarshal(bs[off:]); err != nil {
		return nil, wrapSerErr("document chunk count", err)
	}
	off += n
	keyCount, n, err := varint.PositiveInt.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("document entity count", err)
	}
	off += n
	if keyCount > 0 {
		rec.Entities = make(map[string][]string, keyCount)
	}
	for i := 0; i < keyCount; i++ {
		key, n, err := ord.String.Unmarshal(bs[off:])
		if err != nil {
			return nil, wrapSerErr("document entity category", err)
		}
		off += n
		valCount, n, err := varint.PositiveInt.Unmarshal(bs[off:])
		if err != nil {
			return nil, wrapSerErr("document entity values", err)
		}
		off += n
		vals := make([]string, valCount)
		for j := 0; j < valCount; j++ {
			if vals[j], n, err = ord.String.Unmarshal(bs[off:]); err != nil {
				return nil, wrapSerErr("document entity value", err)
			}
			off += n
		}
		rec.Entities[key] = vals
	}
	linkCount, n, err := varint.PositiveInt.Unmarshal(bs[off:])
	if err != nil {
		return nil, wrapSerErr("document wiki link count", err)
	}
	off += n
	if linkCount > 0 {
		rec.WikiLinks = make([]string, linkCount)
	}
	for i := 0; i < linkCount; i++ {
		if rec.WikiLinks[i], n, err = ord.String.Unmarshal(bs[off:]); err != nil {
			return nil, wrapSerErr("document wiki link", err)
		}
		off += n
	}
	return rec, nil
}

func unixMicroUTC(micros int64) time.Time {
	return time.UnixMicro(micros).UTC()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func wrapSerErr(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, field, err)
}
