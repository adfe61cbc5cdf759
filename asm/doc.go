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

// Package asm provides a textual notation for building ast.Program values,
// for use by tests and the command-line front-end. It is an internal
// convenience, not a claim to implement a canonical surface syntax: it has
// no macro system, no standard word library, and no stability guarantee
// across versions.
//
// Mnemonics are the opcode names of package ast (nop, dup, add, oracle,
// prophecy, and so on — see ast.Lookup for the full catalog). An integer
// literal compiles to a Push of that value.
//
// Structured control flow uses block keywords rather than labels and jumps,
// since the engine interprets a statement tree, not flat addressed code:
//
//	if ... else ... then
//	begin ... while ... repeat
//	match case <n> ... case <n> ... default ... end
//	tscope <base> <size> ... end
//
// A procedure is declared at the top level:
//
//	proc name <params> <returns> ... end
//
// and invoked from anywhere, including before its own declaration, with:
//
//	call name
//
// Comments are skipped by the scanner's built-in comment handling
// (// line and /* block */). There is no use for parentheses as a
// stack-effect marker since procedure signatures are declared with
// explicit param/return counts.
package asm
