package nogscript

import "fmt"

// ParseError carries a source position, matching parser.rs's
// range-carrying ParseError model.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parser is a recursive-descent statement parser with a Pratt expression
// parser inside it, ported from expr_parser.rs's precedence-climbing
// structure.
type Parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses src into a sequence of top-level statements.
func Parse(src string) ([]Node, error) {
	toks, err := TokenizeKeepingNewlines(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseStatements(func(k Kind) bool { return k == KindEOF })
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k Kind) (Token, error) {
	if !p.at(k) {
		return Token{}, &ParseError{Line: p.cur().Line, Message: fmt.Sprintf("expected %s, got %s", k, p.cur().Kind)}
	}
	return p.advance(), nil
}

// skipTerminators consumes statement terminators (newline or `;`).
func (p *Parser) skipTerminators() {
	for p.at(KindNewLine) || p.at(KindSemiColon) {
		p.advance()
	}
}

func (p *Parser) parseStatements(stop func(Kind) bool) ([]Node, error) {
	var stmts []Node
	p.skipTerminators()
	for !stop(p.cur().Kind) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipTerminators()
	}
	return stmts, nil
}

func (p *Parser) parseBlock() ([]Node, error) {
	if _, err := p.expect(KindLCurly); err != nil {
		return nil, err
	}
	body, err := p.parseStatements(func(k Kind) bool { return k == KindRCurly })
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindRCurly); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseStatement() (Node, error) {
	switch p.cur().Kind {
	case KindTripleSlash:
		p.advance()
		for !p.at(KindNewLine) && !p.at(KindEOF) {
			p.advance()
		}
		return p.parseStatement()
	case KindVar:
		return p.parseVarDecl()
	case KindIf:
		return p.parseIf()
	case KindWhile:
		return p.parseWhile()
	case KindBreak:
		p.advance()
		return BreakStmt{}, nil
	case KindContinue:
		p.advance()
		return ContinueStmt{}, nil
	case KindReturn:
		p.advance()
		if p.at(KindNewLine) || p.at(KindSemiColon) || p.at(KindRCurly) || p.at(KindEOF) {
			return ReturnStmt{}, nil
		}
		val, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		return ReturnStmt{Value: val}, nil
	case KindFn:
		return p.parseFnDecl(false)
	case KindClass:
		return p.parseClassDecl(false)
	case KindImport:
		return p.parseImport()
	case KindExport:
		p.advance()
		switch p.cur().Kind {
		case KindFn:
			decl, err := p.parseFnDecl(true)
			if err != nil {
				return nil, err
			}
			return ExportStmt{Decl: decl}, nil
		case KindClass:
			decl, err := p.parseClassDecl(true)
			if err != nil {
				return nil, err
			}
			return ExportStmt{Decl: decl}, nil
		default:
			decl, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return ExportStmt{Decl: decl}, nil
		}
	case KindOp:
		return p.parseOpImpl()
	default:
		expr, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		return ExprStmt{Expr: expr}, nil
	}
}

func (p *Parser) parseVarDecl() (Node, error) {
	p.advance() // 'var'
	var names []string
	if p.at(KindLBracket) {
		p.advance()
		for !p.at(KindRBracket) {
			id, err := p.expect(KindIdentifier)
			if err != nil {
				return nil, err
			}
			names = append(names, id.Text)
			if p.at(KindComma) {
				p.advance()
			}
		}
		if _, err := p.expect(KindRBracket); err != nil {
			return nil, err
		}
	} else {
		id, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		names = append(names, id.Text)
	}
	if _, err := p.expect(KindEqual); err != nil {
		return nil, err
	}
	val, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	return VarDecl{Names: names, Value: val}, nil
}

func (p *Parser) parseIf() (Node, error) {
	p.advance() // 'if'
	cond, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := IfStmt{Cond: cond, Then: then}
	for p.at(KindElseIf) {
		p.advance()
		elifCond, err := p.parseExpr(precAssign)
		if err != nil {
			return nil, err
		}
		elifBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.ElifConds = append(stmt.ElifConds, elifCond)
		stmt.ElifBodies = append(stmt.ElifBodies, elifBody)
	}
	if p.at(KindElse) {
		p.advance()
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Node, error) {
	p.advance()
	cond, err := p.parseExpr(precAssign)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseParams() ([]string, error) {
	if _, err := p.expect(KindLParen); err != nil {
		return nil, err
	}
	var params []string
	for !p.at(KindRParen) {
		id, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		params = append(params, id.Text)
		if p.at(KindComma) {
			p.advance()
		}
	}
	if _, err := p.expect(KindRParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFnDecl(exported bool) (*FnDecl, error) {
	p.advance() // 'fn'
	name, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FnDecl{Name: name.Text, Params: params, Body: body, Exported: exported}, nil
}

func (p *Parser) parseClassDecl(exported bool) (*ClassDecl, error) {
	p.advance() // 'class'
	name, err := p.expect(KindClassIdentifier)
	if err != nil {
		return nil, err
	}
	decl := &ClassDecl{
		Name:     name.Text,
		Fields:   map[string]Node{},
		Methods:  map[string]*FnDecl{},
		Statics:  map[string]*FnDecl{},
		OpImpls:  map[string]*FnDecl{},
		Exported: exported,
	}
	if _, err := p.expect(KindLCurly); err != nil {
		return nil, err
	}
	p.skipTerminators()
	for !p.at(KindRCurly) {
		switch p.cur().Kind {
		case KindStatic:
			p.advance()
			fn, err := p.parseFnDecl(false)
			if err != nil {
				return nil, err
			}
			decl.Statics[fn.Name] = fn
		case KindFn:
			fn, err := p.parseFnDecl(false)
			if err != nil {
				return nil, err
			}
			decl.Methods[fn.Name] = fn
		case KindOp:
			p.advance()
			opTok := p.advance()
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			decl.OpImpls[opTok.Text] = &FnDecl{Name: opTok.Text, Params: params, Body: body}
		case KindIdentifier:
			fieldName := p.advance().Text
			var def Node = NullLit{}
			if p.at(KindEqual) {
				p.advance()
				def, err = p.parseExpr(precAssign)
				if err != nil {
					return nil, err
				}
			}
			decl.Fields[fieldName] = def
		default:
			return nil, &ParseError{Line: p.cur().Line, Message: fmt.Sprintf("unexpected token in class body: %s", p.cur().Kind)}
		}
		p.skipTerminators()
	}
	if _, err := p.expect(KindRCurly); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseOpImpl() (Node, error) {
	// A bare top-level `op <sym>(args) {...}` block overrides a builtin
	// operator outside a class; represented as a ClassDecl-less FnDecl
	// wrapped as an ExprStmt no-op is unnecessary here: nogscript only
	// defines operator impls inside class bodies, so this is a parse error
	// at top level in well-formed programs but accepted permissively.
	p.advance()
	opTok := p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FnDecl{Name: "op:" + opTok.Text, Params: params, Body: body}, nil
}

func (p *Parser) parseImport() (Node, error) {
	p.advance() // 'import'
	var path string
	first, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	path = first.Text
	for p.at(KindDot) {
		p.advance()
		part, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		path += "." + part.Text
	}
	return ImportStmt{Path: path}, nil
}
