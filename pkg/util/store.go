// pkg/util/store.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeObject writes obj to w as msgpack compressed with zstd.
func EncodeObject(w io.Writer, obj any) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(obj); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// DecodeObject is the inverse of EncodeObject.
func DecodeObject(r io.Reader, obj any) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	if err := msgpack.NewDecoder(zr).Decode(obj); err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	return nil
}

// StoreObject saves obj to the given path, creating directories as
// needed. The file is written to a temporary name and renamed so that a
// crash while saving never leaves a truncated file behind.
func StoreObject(path string, obj any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := EncodeObject(f, obj); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// RetrieveObject loads an object saved by StoreObject.
func RetrieveObject(path string, obj any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return DecodeObject(f, obj)
}
