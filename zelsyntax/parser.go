package zelsyntax

type parser struct {
	lexer *Lexer
	tok   Token
}

// Parse parses a single expression. The first lexical or syntax error aborts.
func Parse(src string) (Expr, error) {
	p := &parser{
		lexer: NewLexer(src),
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenEOF {
		return nil, p.expected("operator or end of input")
	}
	return expr, nil
}

func (p *parser) next() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expected(what string) error {
	return &SyntaxError{
		Pos:      p.tok.Pos,
		Expected: what,
		Found:    p.tok,
	}
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.tok
	if tok.Kind != kind {
		return tok, p.expected("'" + kind.String() + "'")
	}
	return tok, p.next()
}

var binaryPrecedence = map[TokenKind]int{
	TokenOr:      1,
	TokenAnd:     2,
	TokenEq:      3,
	TokenNe:      3,
	TokenLt:      4,
	TokenLe:      4,
	TokenGt:      4,
	TokenGe:      4,
	TokenPlus:    5,
	TokenMinus:   5,
	TokenStar:    6,
	TokenSlash:   6,
	TokenPercent: 6,
}

func (p *parser) parseExpr() (Expr, error) {
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenQuestion {
		return cond, nil
	}
	pos := p.tok.Pos
	if err := p.next(); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	// right associative
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Conditional{
		Pos:  pos,
		Cond: cond,
		Then: then,
		Else: els,
	}, nil
}

func (p *parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.tok
		prec, ok := binaryPrecedence[op.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		// left associative
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if op.Kind == TokenAnd || op.Kind == TokenOr {
			left = &Logical{
				Pos: op.Pos,
				Op:  op.Kind,
				X:   left,
				Y:   right,
			}
		} else {
			left = &Binary{
				Pos: op.Pos,
				Op:  op.Kind,
				X:   left,
				Y:   right,
			}
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.Kind == TokenMinus || p.tok.Kind == TokenNot {
		op := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{
			Pos: op.Pos,
			Op:  op.Kind,
			X:   x,
		}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokenDot {
		if err := p.next(); err != nil {
			return nil, err
		}
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokenLParen {
			x = &Member{
				Pos:  name.Pos,
				X:    x,
				Name: name.Text,
			}
			continue
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		x = &Call{
			Pos:  name.Pos,
			X:    x,
			Name: name.Text,
			Args: args,
		}
	}
	return x, nil
}

func (p *parser) parseArgs() (args []Expr, err error) {
	if p.tok.Kind == TokenRParen {
		return nil, p.next()
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.tok.Kind {
		case TokenComma:
			if err := p.next(); err != nil {
				return nil, err
			}
		case TokenRParen:
			return args, p.next()
		default:
			return nil, p.expected("',' or ')'")
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.Kind {

	case TokenInt, TokenFloat, TokenDecimal, TokenString, TokenTrue, TokenFalse, TokenNull:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Literal{
			Pos:   tok.Pos,
			Value: tok.Value,
		}, nil

	case TokenIdent:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Ident{
			Pos:  tok.Pos,
			Name: tok.Text,
		}, nil

	case TokenLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return x, nil

	}
	return nil, p.expected("expression")
}
