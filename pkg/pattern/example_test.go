package pattern_test

import (
	"fmt"

	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/seq"
)

func ExampleCompile() {
	s := pattern.Compile("[1 2]*2 scale2[3 4]", pattern.Options{})
	fmt.Println(seq.Stringify(s))
	// Output: 1 2 1 2 6 8
}

func ExampleCompile_rests() {
	s := pattern.Compile("- 1 -*3", pattern.Options{})
	fmt.Println(seq.Stringify(s))
	// Output: - 1 - - -
}

func ExampleTokenize() {
	tokens, _ := pattern.Tokenize("1 [2 3]*2 scale2[4]")
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	// Output:
	// 1
	// [2 3]*2
	// scale2[4]
}

func ExampleClassify() {
	tok := pattern.Classify("scale2[1 2 3]")
	fmt.Println(tok.Kind, tok.Name, tok.Param, tok.Inner)
	// Output: transform scale 2 1 2 3
}
