/*
 * pdb.go, part of gomol.
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

import (
	"bufio"
	"fmt"
	"log"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

//The parser here reads just what a bulk structure import needs: one model's
//worth of ATOM/HETATM records and the CONECT records bonding them. Residue
//and chain bookkeeping, alternate locations, and multi-model files are out.

type pdbAtom struct {
	serial  int
	element string
	pos     r3.Vec
}

type pdbFragment struct {
	atoms []pdbAtom
	bonds [][2]int //pairs of serials, low serial first
}

//symbolFromName tries to guess a chemical element symbol from a PDB atom
//name, mostly based on AMBER names. It only deals with some common
//bio-elements.
func symbolFromName(name string) (string, error) {
	symbol := ""
	if len(name) == 4 || name[0] == 'H' { //only Hs can have 4-char names in AMBER
		symbol = "H"
	} else if name[0] == 'C' {
		switch name {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		default:
			symbol = "C"
		}
	} else if name[0] == 'N' {
		if name == "NA" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	} else if name[0] == 'O' {
		symbol = "O"
	} else if name[0] == 'P' {
		symbol = "P"
	} else if name[0] == 'S' {
		if name == "SE" {
			symbol = "Se"
		} else {
			symbol = "S"
		}
	} else if strings.HasPrefix(name, "ZN") {
		symbol = "Zn"
	}
	if symbol == "" {
		return symbol, &CError{fmt.Sprintf("couldn't guess an element from the PDB name %q", name), []string{"symbolFromName"}}
	}
	return symbol, nil
}

//parseAtomLine reads one valid ATOM or HETATM line. The element comes from
//columns 77-78 when present, with a name-based guess as fallback.
func parseAtomLine(line string) (pdbAtom, error) {
	var at pdbAtom
	if len(line) < 54 {
		return at, &CError{"line too short for an ATOM/HETATM record", []string{"parseAtomLine"}}
	}
	serial, err := strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return at, errDecorate(err, "parseAtomLine")
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	z, err3 := strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, err := range []error{err1, err2, err3} {
		if err != nil {
			return at, errDecorate(err, "parseAtomLine")
		}
	}
	symbol := ""
	if len(line) >= 78 {
		symbol = strings.TrimSpace(line[76:78])
	}
	if symbol == "" {
		name := strings.TrimSpace(line[12:16])
		symbol, err = symbolFromName(name)
		if err != nil {
			return at, errDecorate(err, "parseAtomLine")
		}
	}
	at.serial = serial
	at.element = symbol
	at.pos = r3.Vec{X: x, Y: y, Z: z}
	return at, nil
}

//parseConectLine reads the serial pairs of one CONECT record.
func parseConectLine(line string) ([][2]int, error) {
	fields := strings.Fields(line[6:])
	if len(fields) < 2 {
		return nil, &CError{"CONECT record with fewer than two serials", []string{"parseConectLine"}}
	}
	from, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, errDecorate(err, "parseConectLine")
	}
	var pairs [][2]int
	for _, f := range fields[1:] {
		to, err := strconv.Atoi(f)
		if err != nil {
			return nil, errDecorate(err, "parseConectLine")
		}
		a, b := from, to
		if a > b {
			a, b = b, a
		}
		pairs = append(pairs, [2]int{a, b})
	}
	return pairs, nil
}

//parsePDB reads a PDB file's contents into a fragment ready to be replayed
//as graph edits. Malformed ATOM/HETATM/CONECT lines are logged and skipped;
//CONECT records are symmetric in real files, so duplicate pairs are folded.
//An input yielding no atoms at all is an error.
func parsePDB(contents string) (*pdbFragment, error) {
	frag := new(pdbFragment)
	seen := make(map[[2]int]bool)
	scanner := bufio.NewScanner(strings.NewReader(contents))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			at, err := parseAtomLine(line)
			if err != nil {
				log.Printf("parsePDB: couldn't read atom on line %d: %v", lineno, err)
				continue
			}
			frag.atoms = append(frag.atoms, at)
		case strings.HasPrefix(line, "CONECT"):
			pairs, err := parseConectLine(line)
			if err != nil {
				log.Printf("parsePDB: couldn't read CONECT on line %d: %v", lineno, err)
				continue
			}
			for _, p := range pairs {
				if !seen[p] {
					seen[p] = true
					frag.bonds = append(frag.bonds, p)
				}
			}
		case strings.HasPrefix(line, "ENDMDL"):
			//only the first model is imported
			return finishFragment(frag)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errDecorate(err, "parsePDB")
	}
	return finishFragment(frag)
}

func finishFragment(frag *pdbFragment) (*pdbFragment, error) {
	if len(frag.atoms) == 0 {
		return nil, &CError{"no ATOM/HETATM records found", []string{"parsePDB"}}
	}
	return frag, nil
}
