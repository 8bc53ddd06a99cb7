package apla

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type dumpFile struct {
	Name  string      `yaml:"name"`
	Nodes []*dumpNode `yaml:"nodes"`
}

type dumpNode struct {
	Kind       string      `yaml:"kind"`
	Span       string      `yaml:"span"`
	Name       string      `yaml:"name,omitempty"`
	Literal    string      `yaml:"literal,omitempty"`
	Mutability string      `yaml:"mutability,omitempty"`
	Op         string      `yaml:"op,omitempty"`
	Type       string      `yaml:"type,omitempty"`
	Class      string      `yaml:"class,omitempty"`
	Static     bool        `yaml:"static,omitempty"`
	ViaSelf    bool        `yaml:"via_self,omitempty"`
	Params     []dumpParam `yaml:"params,omitempty"`
	Lhs        *dumpNode   `yaml:"lhs,omitempty"`
	Rhs        *dumpNode   `yaml:"rhs,omitempty"`
	Value      *dumpNode   `yaml:"value,omitempty"`
	Args       []*dumpNode `yaml:"args,omitempty"`
	Body       []*dumpNode `yaml:"body,omitempty"`
}

type dumpParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Dump writes file as YAML. Checked files carry their resolved types.
func Dump(w io.Writer, file *File) error {
	out := dumpFile{Name: file.Name, Nodes: dumpNodes(file.Nodes)}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("dump %s: %w", file.Name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("dump %s: %w", file.Name, err)
	}
	return nil
}

func dumpNodes(nodes []Node) []*dumpNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*dumpNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, dumpOf(node))
	}
	return out
}

func dumpType(t Type) string {
	if t.Kind == InvalidType {
		return ""
	}
	return t.String()
}

func dumpOf(node Node) *dumpNode {
	if node == nil {
		return nil
	}
	d := &dumpNode{Span: node.Span().String()}
	switch n := node.(type) {
	case *ValueNode:
		d.Kind = "value"
		d.Literal = n.String()
		d.Type = dumpType(n.Type)
		d.ViaSelf = n.ViaSelf
	case *BinaryNode:
		d.Kind = "binary"
		d.Op = n.Op.String()
		d.Type = dumpType(n.Type)
		d.Class = n.Class
		d.Static = n.Static
		d.Lhs = dumpOf(n.Lhs)
		d.Rhs = dumpOf(n.Rhs)
	case *VarDecl:
		d.Kind = "variable"
		d.Name = n.Name.Name
		d.Mutability = n.Mutability.String()
		d.Type = dumpType(n.Type)
		d.Value = dumpOf(n.Value)
	case *FunDecl:
		d.Kind = "function"
		switch {
		case n.Body == nil:
			d.Kind = "extern"
		case n.Constructor:
			d.Kind = "constructor"
		}
		d.Name = n.Name.Name
		d.Type = dumpType(n.ReturnType)
		d.Class = n.Class
		for _, param := range n.Params {
			typ := dumpType(param.Type)
			if typ == "" {
				typ = param.TypeName.Name
			}
			d.Params = append(d.Params, dumpParam{Name: param.Name.Name, Type: typ})
		}
		d.Body = dumpNodes(n.Body)
	case *ReturnNode:
		d.Kind = "return"
		d.Value = dumpOf(n.Value)
	case *CallNode:
		d.Kind = "call"
		d.Name = n.Name.Name
		d.Type = dumpType(n.Type)
		d.Class = n.Class
		d.ViaSelf = n.ViaSelf
		d.Args = dumpNodes(n.Args)
	case *IncludeNode:
		d.Kind = "include"
		d.Literal = n.Path
	case *ClassDecl:
		d.Kind = "class"
		d.Name = n.Name.Name
		d.Body = dumpNodes(n.Body)
	}
	return d
}
