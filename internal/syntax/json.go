package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return map[string]interface{}{
			"type":  "File",
			"pos":   n.pos.String(),
			"stmts": stmtsJSON(n.Stmts),
		}

	case *Block:
		return map[string]interface{}{
			"type":  "Block",
			"pos":   n.pos.String(),
			"stmts": stmtsJSON(n.Stmts),
		}

	case *PrintStmt:
		args := make([]interface{}, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, toJSON(a))
		}
		return map[string]interface{}{
			"type": "PrintStmt",
			"pos":  n.pos.String(),
			"args": args,
		}

	case *ConstDecl:
		return map[string]interface{}{
			"type":  "ConstDecl",
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *LetDecl:
		return map[string]interface{}{
			"type":  "LetDecl",
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *IfStmt:
		m := map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		return map[string]interface{}{
			"type": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"body": toJSON(n.Body),
		}

	case *ForStmt:
		return map[string]interface{}{
			"type":   "ForStmt",
			"pos":    n.pos.String(),
			"init":   toJSON(n.Init),
			"cond":   toJSON(n.Cond),
			"update": toJSON(n.Update),
			"body":   toJSON(n.Body),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		return map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *Operation:
		return map[string]interface{}{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}
	}

	return map[string]interface{}{
		"type": "Unknown",
		"pos":  node.Pos().String(),
	}
}

func stmtsJSON(list []Stmt) []interface{} {
	out := make([]interface{}, 0, len(list))
	for _, s := range list {
		out = append(out, toJSON(s))
	}
	return out
}
