/*
 * molfile.go, part of gomol.
 *
 * Copyright 2024 The gomol developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package molfile saves and loads versioned molecules. A file is a
//zstd-compressed JSON envelope: a small header identifying the document,
//then the molecule itself (timeline, checkpoints and transform; never the
//live graph, which is replayed on load from the checkpoint that saving
//forces at the current history step).
package molfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	mol "github.com/gomolcad/gomol"
)

const (
	//Magic identifies a gomol structure file.
	Magic = "gomol-structure"
	//Version is the current file format version.
	Version = 1
)

// Header identifies a saved document.
type Header struct {
	Magic    string    `json:"magic"`
	Version  int       `json:"version"`
	Document uuid.UUID `json:"document"`
	Created  time.Time `json:"created"`
}

type envelope struct {
	Header   Header        `json:"header"`
	Molecule *mol.Molecule `json:"molecule"`
}

// Error is the molfile error type. It carries the file name in addition to
// the usual decorations.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err *Error) Error() string {
	return fmt.Sprintf("molfile: %s (file: %s)", err.message, err.filename)
}

// Decorate adds dec to the decoration slice and returns the result.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// FileName returns the name of the file the error refers to.
func (err *Error) FileName() string { return err.filename }

// Save writes M to the named file, assigning the document a fresh UUID. The
// optional compressionLevel is a zstd level (1 fastest to 4 best); the
// default balances the two. Saving forces a checkpoint at M's current
// history step, so loading the file replays no features.
func Save(name string, M *mol.Molecule, compressionLevel ...int) error {
	level := zstd.SpeedDefault
	if len(compressionLevel) > 0 {
		level = zstd.EncoderLevel(compressionLevel[0])
	}
	f, err := os.Create(name)
	if err != nil {
		return &Error{err.Error(), name, []string{"os.Create", "Save"}}
	}
	defer f.Close()
	w, err := zstd.NewWriter(f, zstd.WithEncoderLevel(level))
	if err != nil {
		return &Error{err.Error(), name, []string{"zstd.NewWriter", "Save"}}
	}
	env := envelope{
		Header: Header{
			Magic:    Magic,
			Version:  Version,
			Document: uuid.New(),
			Created:  time.Now().UTC(),
		},
		Molecule: M,
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		w.Close()
		return &Error{err.Error(), name, []string{"json.Encode", "Save"}}
	}
	if err := w.Close(); err != nil {
		return &Error{err.Error(), name, []string{"zstd.Close", "Save"}}
	}
	return nil
}

// Load reads a structure file written by Save and returns the molecule
// materialized at its saved history step.
func Load(name string) (*mol.Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"os.Open", "Load"}}
	}
	defer f.Close()
	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, &Error{err.Error(), name, []string{"zstd.NewReader", "Load"}}
	}
	defer r.Close()
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, &Error{err.Error(), name, []string{"json.Decode", "Load"}}
	}
	if env.Header.Magic != Magic {
		return nil, &Error{fmt.Sprintf("not a gomol structure file (magic %q)", env.Header.Magic), name, []string{"Load"}}
	}
	if env.Header.Version > Version {
		return nil, &Error{fmt.Sprintf("file version %d is newer than supported version %d", env.Header.Version, Version), name, []string{"Load"}}
	}
	if env.Molecule == nil {
		return nil, &Error{"file contains no molecule", name, []string{"Load"}}
	}
	return env.Molecule, nil
}
