package sqlparse

import (
	"fmt"
	"strconv"

	"github.com/k0kubun/reldb/ast"
	"github.com/k0kubun/reldb/value"
)

// Parser is a simple recursor over a pre-lexed token stream; one Parser
// handles exactly one statement.
type Parser struct {
	toks []Token
	pos  int
}

// Parse lexes and parses one statement (with an optional trailing ';'),
// rejecting anything left over as a syntax error.
func Parse(src string) (ast.Statement, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == TSemicolon {
		p.next()
	}
	if p.peek().Kind != TEOF {
		return nil, ErrSyntax
	}
	return stmt, nil
}

func (p *Parser) peek() Token { return p.toks[p.pos] }

func (p *Parser) next() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k Kind) (Token, error) {
	if p.peek().Kind != k {
		return Token{}, ErrSyntax
	}
	return p.next(), nil
}

func (p *Parser) expectKeyword(kw string) error {
	if !equalsKeyword(p.peek(), kw) {
		return ErrSyntax
	}
	p.next()
	return nil
}

func (p *Parser) identUpper() (string, error) {
	t, err := p.expect(TIdent)
	if err != nil {
		return "", err
	}
	return upper(t.Text), nil
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	kw := p.peek()
	if kw.Kind != TIdent {
		return nil, ErrSyntax
	}
	switch {
	case equalsKeyword(kw, "CREATE"):
		p.next()
		if err := p.expectKeyword("TABLE"); err != nil {
			return nil, err
		}
		return p.parseCreateTable()
	case equalsKeyword(kw, "DROP"):
		p.next()
		if err := p.expectKeyword("TABLE"); err != nil {
			return nil, err
		}
		return p.parseDropTable()
	case equalsKeyword(kw, "INSERT"):
		p.next()
		return p.parseInsert()
	case equalsKeyword(kw, "DELETE"):
		p.next()
		return p.parseDelete()
	case equalsKeyword(kw, "SELECT"):
		p.next()
		return p.parseSelect()
	case equalsKeyword(kw, "SHOW"):
		p.next()
		if err := p.expectKeyword("TABLES"); err != nil {
			return nil, err
		}
		return ast.ShowTables{}, nil
	case equalsKeyword(kw, "DESC"), equalsKeyword(kw, "DESCRIBE"), equalsKeyword(kw, "EXPLAIN"):
		p.next()
		table, err := p.identUpper()
		if err != nil {
			return nil, err
		}
		return ast.Describe{Table: table}, nil
	case equalsKeyword(kw, "EXIT"):
		p.next()
		return ast.Exit{}, nil
	}
	return nil, ErrSyntax
}

func (p *Parser) parseCreateTable() (ast.Statement, error) {
	name, err := p.identUpper()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TLParen); err != nil {
		return nil, err
	}

	var columns []ast.ColumnDef
	var pk *ast.PrimaryKeyDef
	var fks []ast.ForeignKeyDef

	for {
		switch {
		case equalsKeyword(p.peek(), "PRIMARY"):
			p.next()
			if err := p.expectKeyword("KEY"); err != nil {
				return nil, err
			}
			if pk != nil {
				return nil, fmt.Errorf("primary key definition is duplicated")
			}
			if _, err := p.expect(TLParen); err != nil {
				return nil, err
			}
			cols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TRParen); err != nil {
				return nil, err
			}
			pk = &ast.PrimaryKeyDef{Columns: cols}
		case equalsKeyword(p.peek(), "FOREIGN"):
			p.next()
			if err := p.expectKeyword("KEY"); err != nil {
				return nil, err
			}
			if _, err := p.expect(TLParen); err != nil {
				return nil, err
			}
			fkCols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TRParen); err != nil {
				return nil, err
			}
			if err := p.expectKeyword("REFERENCES"); err != nil {
				return nil, err
			}
			refTable, err := p.identUpper()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TLParen); err != nil {
				return nil, err
			}
			refCols, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TRParen); err != nil {
				return nil, err
			}
			fks = append(fks, ast.ForeignKeyDef{Columns: fkCols, RefTable: refTable, RefColumns: refCols})
		default:
			colName, err := p.identUpper()
			if err != nil {
				return nil, err
			}
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}
			notNull := false
			if equalsKeyword(p.peek(), "NOT") {
				p.next()
				if err := p.expectKeyword("NULL"); err != nil {
					return nil, err
				}
				notNull = true
			}
			columns = append(columns, ast.ColumnDef{Name: colName, Type: typ, NotNull: notNull})
		}

		if p.peek().Kind == TComma {
			p.next()
			continue
		}
		break
	}

	if _, err := p.expect(TRParen); err != nil {
		return nil, err
	}
	return ast.CreateTable{Table: name, Columns: columns, PrimaryKey: pk, ForeignKeys: fks}, nil
}

func (p *Parser) parseType() (value.Type, error) {
	switch {
	case equalsKeyword(p.peek(), "INT"):
		p.next()
		return value.Int(), nil
	case equalsKeyword(p.peek(), "DATE"):
		p.next()
		return value.Date(), nil
	case equalsKeyword(p.peek(), "CHAR"):
		p.next()
		if _, err := p.expect(TLParen); err != nil {
			return value.Type{}, err
		}
		numTok, err := p.expect(TInt)
		if err != nil {
			return value.Type{}, err
		}
		n, convErr := strconv.Atoi(numTok.Text)
		if convErr != nil {
			return value.Type{}, ErrSyntax
		}
		if _, err := p.expect(TRParen); err != nil {
			return value.Type{}, err
		}
		return value.Char(n), nil
	}
	return value.Type{}, ErrSyntax
}

func (p *Parser) parseIdentList() ([]string, error) {
	var cols []string
	for {
		c, err := p.identUpper()
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if p.peek().Kind == TComma {
			p.next()
			continue
		}
		break
	}
	return cols, nil
}

func (p *Parser) parseDropTable() (ast.Statement, error) {
	name, err := p.identUpper()
	if err != nil {
		return nil, err
	}
	return ast.DropTable{Table: name}, nil
}

func (p *Parser) parseInsert() (ast.Statement, error) {
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.identUpper()
	if err != nil {
		return nil, err
	}

	var columns []string
	if p.peek().Kind == TLParen {
		p.next()
		columns, err = p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TLParen); err != nil {
		return nil, err
	}

	var vals []value.Literal
	if p.peek().Kind != TRParen {
		for {
			lit, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			vals = append(vals, lit)
			if p.peek().Kind == TComma {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(TRParen); err != nil {
		return nil, err
	}
	return ast.InsertStatement{Table: table, Columns: columns, Values: vals}, nil
}

func (p *Parser) parseLiteral() (value.Literal, error) {
	t := p.peek()
	switch t.Kind {
	case TInt:
		p.next()
		return value.Literal{Tag: value.TagInt, Text: t.Text}, nil
	case TStr:
		p.next()
		return value.Literal{Tag: value.TagStr, Text: t.Text}, nil
	case TDate:
		if _, err := value.ParseDate(t.Text); err != nil {
			return value.Literal{}, ErrSyntax
		}
		p.next()
		return value.Literal{Tag: value.TagDate, Text: t.Text}, nil
	case TIdent:
		if equalsKeyword(t, "NULL") {
			p.next()
			return value.Literal{Tag: value.TagNull}, nil
		}
	}
	return value.Literal{}, ErrSyntax
}

func (p *Parser) parseDelete() (ast.Statement, error) {
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.identUpper()
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	if equalsKeyword(p.peek(), "WHERE") {
		p.next()
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return ast.DeleteStatement{Table: table, Where: where}, nil
}

func (p *Parser) parseSelect() (ast.Statement, error) {
	cols, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	firstTable, err := p.identUpper()
	if err != nil {
		return nil, err
	}
	from := []string{firstTable}
	for p.peek().Kind == TComma {
		p.next()
		t, err := p.identUpper()
		if err != nil {
			return nil, err
		}
		from = append(from, t)
	}

	var joins []ast.Join
	for equalsKeyword(p.peek(), "JOIN") {
		p.next()
		jt, err := p.identUpper()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("ON"); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		joins = append(joins, ast.Join{Table: jt, On: cond})
	}

	var where ast.Expr
	if equalsKeyword(p.peek(), "WHERE") {
		p.next()
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	var orderBy *ast.OrderBy
	if equalsKeyword(p.peek(), "ORDER") {
		p.next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		col, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		desc := false
		switch {
		case equalsKeyword(p.peek(), "DESC"):
			p.next()
			desc = true
		case equalsKeyword(p.peek(), "ASC"):
			p.next()
		}
		orderBy = &ast.OrderBy{Column: col, Desc: desc}
	}

	return ast.SelectStatement{Columns: cols, From: from, Joins: joins, Where: where, OrderBy: orderBy}, nil
}

// parseSelectList returns nil for a bare "*" projection (§4.4: empty
// projection expands to all columns in declaration order).
func (p *Parser) parseSelectList() ([]ast.ColumnRef, error) {
	if p.peek().Kind == TStar {
		p.next()
		return nil, nil
	}
	var cols []ast.ColumnRef
	for {
		c, err := p.parseColumnRef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if p.peek().Kind == TComma {
			p.next()
			continue
		}
		break
	}
	return cols, nil
}

func (p *Parser) parseColumnRef() (ast.ColumnRef, error) {
	first, err := p.identUpper()
	if err != nil {
		return ast.ColumnRef{}, err
	}
	if p.peek().Kind == TDot {
		p.next()
		col, err := p.identUpper()
		if err != nil {
			return ast.ColumnRef{}, err
		}
		return ast.ColumnRef{Table: first, Column: col}, nil
	}
	return ast.ColumnRef{Column: first}, nil
}

// Boolean expression grammar (§4.5): parseExpr -> OR -> AND -> NOT -> test.

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for equalsKeyword(p.peek(), "OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for equalsKeyword(p.peek(), "AND") {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	if equalsKeyword(p.peek(), "NOT") {
		p.next()
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.Not{X: x}, nil
	}
	return p.parseTest()
}

func (p *Parser) parseTest() (ast.Expr, error) {
	if p.peek().Kind == TLParen {
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return p.parsePredicate()
}

func (p *Parser) parsePredicate() (ast.Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if equalsKeyword(p.peek(), "IS") {
		p.next()
		not := false
		if equalsKeyword(p.peek(), "NOT") {
			p.next()
			not = true
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		ref, ok := left.(ast.ColumnRef)
		if !ok {
			return nil, ErrSyntax
		}
		return ast.IsNull{Column: ref, Not: not}, nil
	}

	op, err := p.parseCmpOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return ast.Comparison{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseOperand() (ast.Operand, error) {
	t := p.peek()
	switch t.Kind {
	case TIdent:
		if equalsKeyword(t, "NULL") {
			p.next()
			return ast.Literal{Literal: value.Literal{Tag: value.TagNull}}, nil
		}
		return p.parseColumnRef()
	case TInt:
		p.next()
		return ast.Literal{Literal: value.Literal{Tag: value.TagInt, Text: t.Text}}, nil
	case TStr:
		p.next()
		return ast.Literal{Literal: value.Literal{Tag: value.TagStr, Text: t.Text}}, nil
	case TDate:
		if _, err := value.ParseDate(t.Text); err != nil {
			return nil, ErrSyntax
		}
		p.next()
		return ast.Literal{Literal: value.Literal{Tag: value.TagDate, Text: t.Text}}, nil
	}
	return nil, ErrSyntax
}

func (p *Parser) parseCmpOp() (ast.CompareOp, error) {
	t := p.peek()
	switch t.Kind {
	case TEq:
		p.next()
		return ast.OpEq, nil
	case TNe:
		p.next()
		return ast.OpNe, nil
	case TLt:
		p.next()
		return ast.OpLt, nil
	case TLe:
		p.next()
		return ast.OpLe, nil
	case TGt:
		p.next()
		return ast.OpGt, nil
	case TGe:
		p.next()
		return ast.OpGe, nil
	}
	return 0, ErrSyntax
}

