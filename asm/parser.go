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
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/averagestudentdontfail/Ourochronos/ast"
)

const maxErrors = 10

// ErrAsm encapsulates errors generated by the parser, which gives up once
// maxErrors or more have accumulated.
type ErrAsm []struct {
	Pos scanner.Position
	Msg string
}

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("%s: %s", err.Pos, err.Msg))
	}
	return strings.Join(l, "\n")
}

// parser is a recursive-descent reader over the structured-statement
// notation, producing an *ast.Program directly rather than a flat
// label-patched instruction image — there are no jumps to patch because
// If/While/Match/TemporalScope are parsed as nested blocks, not addresses.
type parser struct {
	s    scanner.Scanner
	tok  rune
	text string
	errs ErrAsm
}

func newParser() *parser {
	return &parser{}
}

func (p *parser) error(msg string) {
	pos := p.s.Position
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	p.errs = append(p.errs, struct {
		Pos scanner.Position
		Msg string
	}{pos, msg})
}

func (p *parser) abort() bool { return len(p.errs) >= maxErrors }

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
}

func (p *parser) atEOF() bool { return p.tok == scanner.EOF }

func (p *parser) atAny(words ...string) bool {
	for _, w := range words {
		if p.text == w {
			return true
		}
	}
	return false
}

func (p *parser) expect(word string) {
	if p.text != word {
		p.error("expected " + word + ", got " + p.text)
		return
	}
	p.next()
}

func (p *parser) parseUint() uint64 {
	if p.tok != scanner.Int {
		p.error("expected integer, got " + p.text)
		return 0
	}
	v, err := strconv.ParseUint(p.text, 0, 64)
	if err != nil {
		p.error(err.Error())
		return 0
	}
	p.next()
	return v
}

// parseBlock reads statements until the current token matches one of
// terminators (which it leaves unconsumed, as the caller owns it) or EOF.
func (p *parser) parseBlock(terminators ...string) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEOF() && !p.atAny(terminators...) && !p.abort() {
		stmts = append(stmts, p.parseStmt())
	}
	return stmts
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.tok == scanner.Int:
		v := p.parseUint()
		return ast.Push(v)

	case p.text == "if":
		p.next()
		then := p.parseBlock("else", "then")
		var els []ast.Stmt
		if p.text == "else" {
			p.next()
			els = p.parseBlock("then")
		}
		p.expect("then")
		return ast.If(then, els)

	case p.text == "begin":
		p.next()
		cond := p.parseBlock("while")
		p.expect("while")
		body := p.parseBlock("repeat")
		p.expect("repeat")
		return ast.While(cond, body)

	case p.text == "match":
		p.next()
		var cases []ast.MatchCase
		var def []ast.Stmt
		for p.text == "case" {
			p.next()
			pattern := p.parseUint()
			body := p.parseBlock("case", "default", "end")
			cases = append(cases, ast.MatchCase{Pattern: pattern, Body: body})
		}
		if p.text == "default" {
			p.next()
			def = p.parseBlock("end")
		}
		p.expect("end")
		return ast.Match(cases, def)

	case p.text == "tscope":
		p.next()
		base := p.parseUint()
		size := p.parseUint()
		body := p.parseBlock("end")
		p.expect("end")
		return ast.TemporalScope(uint16(base), uint16(size), body)

	case p.text == "call":
		p.next()
		name := p.text
		p.next()
		return ast.Call(name)

	default:
		if op, ok := ast.Lookup(p.text); ok {
			p.next()
			return ast.Op(op)
		}
		p.error("unknown word " + strconv.Quote(p.text))
		p.next()
		return ast.Op(ast.OpNop)
	}
}

// parseProcedure reads a "proc <name> <params> <returns> ... end" block. The
// leading "proc" token has already been consumed by the caller.
func (p *parser) parseProcedure() *ast.Procedure {
	name := p.text
	p.next()
	params := int(p.parseUint())
	returns := int(p.parseUint())
	body := p.parseBlock("end")
	p.expect("end")
	return &ast.Procedure{Name: name, Params: params, Returns: returns, Body: body}
}
