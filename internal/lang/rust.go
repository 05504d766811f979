package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

func init() {
	Languages["rust"] = &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		lang:       rust.GetLanguage(),
		FuncTypes:  map[string]bool{"function_item": true},
		FuncName:   rustFuncName,
	}
}

// rustFuncName returns "name", or "Type::name" inside an impl block.
func rustFuncName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	name := NodeText(nameNode, source)
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Type() == "function_item" {
			break
		}
		if p.Type() != "impl_item" {
			continue
		}
		if typ := p.ChildByFieldName("type"); typ != nil {
			return NodeText(typ, source) + "::" + name
		}
		break
	}
	return name
}
