// Copyright 2025 EngFlow Inc. All rights reserved.
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

package lexer

import "github.com/EngFlow/ccfront/internal/cc/dialect"

// keywordsC89 are reserved in every dialect this engine supports.
var keywordsC89 = map[string]TokenKind{
	"int": KwInt, "char": KwChar, "float": KwFloat, "double": KwDouble,
	"void": KwVoid, "short": KwShort, "long": KwLong, "signed": KwSigned,
	"unsigned": KwUnsigned, "const": KwConst, "volatile": KwVolatile,
	"static": KwStatic, "extern": KwExtern, "auto": KwAuto, "register": KwRegister,
	"if": KwIf, "else": KwElse, "while": KwWhile, "for": KwFor, "do": KwDo,
	"switch": KwSwitch, "case": KwCase, "default": KwDefault, "break": KwBreak,
	"continue": KwContinue, "return": KwReturn, "goto": KwGoto, "sizeof": KwSizeof,
	"struct": KwStruct, "union": KwUnion, "enum": KwEnum, "typedef": KwTypedef,
}

// keywordsC99 adds the keywords introduced in C99, on top of keywordsC89.
var keywordsC99 = map[string]TokenKind{
	"inline": KwInline, "restrict": KwRestrict, "_Bool": KwBool, "_Complex": KwComplex,
}

// keywordsC11 adds the keywords introduced in C11, on top of keywordsC99.
var keywordsC11 = map[string]TokenKind{
	"_Static_assert": KwStaticAssert, "_Alignof": KwAlignof, "_Alignas": KwAlignas,
	"_Noreturn": KwNoreturn, "_Generic": KwGeneric, "_Thread_local": KwThreadLocal,
}

// keywordTable returns the effective identifier→keyword mapping for d: the
// C99+ and C11+ additions are only reserved words once the dialect has
// reached the standard revision that introduced them (spec.md §6:
// "inline, restrict are keywords only in C99+").
func keywordTable(d dialect.Dialect) map[string]TokenKind {
	table := make(map[string]TokenKind, len(keywordsC89)+len(keywordsC99)+len(keywordsC11))
	for k, v := range keywordsC89 {
		table[k] = v
	}
	if d.AtLeast(dialect.C99) {
		for k, v := range keywordsC99 {
			table[k] = v
		}
	}
	if d.AtLeast(dialect.C11) {
		for k, v := range keywordsC11 {
			table[k] = v
		}
	}
	return table
}

// punctuatorRule is one entry of the maximal-munch operator/delimiter
// table: the literal spelling and the kind it produces. Entries are tried
// longest-first so e.g. "<<=" is preferred over "<<" over "<".
type punctuatorRule struct {
	spelling string
	kind     TokenKind
}

// punctuatorsByLength groups punctuatorRules by spelling length, longest
// first, so matchPunctuator can try the longest candidates before falling
// back to shorter ones — the maximal-munch discipline spec.md §4.9 calls
// for explicitly ("<<=", ">>=" before "<<" ">>" before "<" ">").
var punctuatorsByLength = [][]punctuatorRule{
	{ // length 3
		{"<<=", ShlAssign},
		{">>=", ShrAssign},
		{"...", Ellipsis},
	},
	{ // length 2
		{"==", Eq}, {"!=", NotEq}, {"<=", LessEq}, {">=", GreaterEq},
		{"&&", LogicalAnd}, {"||", LogicalOr},
		{"<<", Shl}, {">>", Shr},
		{"+=", PlusAssign}, {"-=", MinusAssign}, {"*=", StarAssign}, {"/=", SlashAssign},
		{"%=", PercentAssign}, {"&=", AmpAssign}, {"|=", PipeAssign}, {"^=", CaretAssign},
		{"->", Arrow}, {"++", Increment}, {"--", Decrement},
	},
	{ // length 1
		{"(", LParen}, {")", RParen}, {"{", LBrace}, {"}", RBrace},
		{"[", LBracket}, {"]", RBracket},
		{";", Semicolon}, {",", Comma}, {":", Colon}, {"?", Question}, {".", Dot},
		{"+", Plus}, {"-", Minus}, {"*", Star}, {"/", Slash}, {"%", Percent}, {"~", Tilde},
		{"&", Amp}, {"|", Pipe}, {"^", Caret},
		{"=", Assign}, {"<", Less}, {">", Greater}, {"!", LogicalNot},
	},
}

// matchPunctuator tries to match a punctuator at the start of data,
// longest spelling first. ok is false if no punctuator starts there.
func matchPunctuator(data []byte) (rule punctuatorRule, ok bool) {
	for _, bucket := range punctuatorsByLength {
		n := len(bucket[0].spelling)
		if len(data) < n {
			continue
		}
		candidate := string(data[:n])
		for _, r := range bucket {
			if r.spelling == candidate {
				return r, true
			}
		}
	}
	return punctuatorRule{}, false
}
