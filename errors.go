/*
 * errors.go, part of gomol.
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

package mol

import "fmt"

// Error is the interface implemented by all errors returned from this library.
// The Decorate method allows adding information (normally, the name of the
// function passing the error up, plus anything relevant) without changing the
// error's type or wrapping it. If passed an empty string, Decorate just
// returns the current decoration slice without adding to it.
type Error interface {
	Error() string
	Decorate(string) []string
}

// CError is the concrete "catch-all" error type for conditions that callers
// are not expected to branch on.
type CError struct {
	msg  string
	deco []string
}

func (err *CError) Error() string { return err.msg }

// Decorate adds dec to the decoration slice and returns the result.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// errDecorate decorates err if it implements Error, or wraps it in
// a CError otherwise, so information is never lost on the way up.
func errDecorate(err error, dec string) error {
	err2, ok := err.(Error)
	if !ok {
		err2 = &CError{err.Error(), []string{}}
	}
	err2.Decorate(dec)
	return err2
}

// AtomOverwriteError signals an attempt to insert an atom under a specifier
// that is already taken by a live atom.
type AtomOverwriteError struct {
	Spec AtomSpecifier
	deco []string
}

func (err *AtomOverwriteError) Error() string {
	return fmt.Sprintf("gomol: atom specifier %v already in use", err.Spec)
}

func (err *AtomOverwriteError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// BrokenReferenceError signals an operation that referenced an atom
// specifier with no corresponding live atom.
type BrokenReferenceError struct {
	Spec AtomSpecifier
	deco []string
}

func (err *BrokenReferenceError) Error() string {
	return fmt.Sprintf("gomol: no atom with specifier %v", err.Spec)
}

func (err *BrokenReferenceError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}
