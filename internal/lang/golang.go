package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		FuncTypes: map[string]bool{
			"function_declaration": true,
			"method_declaration":   true,
		},
		FuncName: goFuncName,
	}
}

// goFuncName returns "Name" for functions and "Recv.Name" for methods.
func goFuncName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	name := NodeText(nameNode, source)
	if node.Type() != "method_declaration" {
		return name
	}
	if recv := goFindReceiverType(node, source); recv != "" {
		return recv + "." + name
	}
	return name
}

// goFindReceiverType extracts the receiver type name from a method_declaration node.
// Navigates: method_declaration → parameter_list (receiver) → parameter_declaration → type.
func goFindReceiverType(node *sitter.Node, source []byte) string {
	list := node.ChildByFieldName("receiver")
	if list == nil {
		return ""
	}
	for j := 0; j < int(list.NamedChildCount()); j++ {
		param := list.NamedChild(j)
		if param.Type() == "parameter_declaration" {
			return goExtractTypeName(param, source)
		}
	}
	return ""
}

// goExtractTypeName extracts the type name from a parameter_declaration,
// unwrapping pointer_type and generic_type if present.
func goExtractTypeName(param *sitter.Node, source []byte) string {
	for i := 0; i < int(param.ChildCount()); i++ {
		child := param.Child(i)
		switch child.Type() {
		case "type_identifier":
			return NodeText(child, source)
		case "pointer_type", "generic_type":
			for k := 0; k < int(child.ChildCount()); k++ {
				inner := child.Child(k)
				if inner.Type() == "type_identifier" {
					return NodeText(inner, source)
				}
			}
		}
	}
	return ""
}
