package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

func init() {
	Languages["c"] = &Language{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		lang:       c.GetLanguage(),
		FuncTypes:  map[string]bool{"function_definition": true},
		FuncName:   cFuncName,
	}
	Languages["cpp"] = &Language{
		Name:       "cpp",
		Extensions: []string{".cc", ".cpp", ".cxx", ".hh", ".hpp", ".hxx"},
		lang:       cpp.GetLanguage(),
		FuncTypes:  map[string]bool{"function_definition": true},
		FuncName:   cFuncName,
	}
}

// declaratorNames are the leaf node types that carry a function's name.
var declaratorNames = map[string]bool{
	"identifier":           true,
	"field_identifier":     true,
	"qualified_identifier": true,
	"destructor_name":      true,
	"operator_name":        true,
}

// cFuncName follows the declarator chain of a function_definition
// (pointer_declarator → function_declarator → identifier) down to the name.
func cFuncName(node *sitter.Node, source []byte) string {
	decl := node.ChildByFieldName("declarator")
	for depth := 0; decl != nil && depth < 16; depth++ {
		if declaratorNames[decl.Type()] {
			return NodeText(decl, source)
		}
		next := decl.ChildByFieldName("declarator")
		if next == nil && decl.NamedChildCount() > 0 {
			// reference_declarator has no field name for its inner declarator.
			next = decl.NamedChild(int(decl.NamedChildCount()) - 1)
		}
		decl = next
	}
	return ""
}
