// This file is part of ngaro - https://github.com/db47h/ngaro
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
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

package asm

import (
	"io"
	"text/scanner"

	"github.com/averagestudentdontfail/Ourochronos/ast"
)

// Parse reads the structured-statement notation from r and returns the
// resulting *ast.Program. name is used only in error positions.
//
// If err is non-nil it can safely be type-asserted to ErrAsm. Parsing stops
// once 10 entries have accumulated; the statement being parsed at that point
// may still add a few more.
func Parse(name string, r io.Reader) (*ast.Program, error) {
	p := newParser()
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(_ *scanner.Scanner, msg string) { p.error(msg) }

	prog := ast.New()
	p.next()
	for !p.atEOF() && !p.abort() {
		if p.text == "proc" {
			p.next()
			proc := p.parseProcedure()
			if _, dup := prog.Procedures[proc.Name]; dup {
				p.error("duplicate procedure " + proc.Name)
			}
			prog.Procedures[proc.Name] = proc
			continue
		}
		prog.Body = append(prog.Body, p.parseStmt())
	}

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return prog, nil
}
