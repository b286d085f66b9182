// Package dbg converts arbitrary keys into random readable names. This
// is helpful when staring at logs full of roadmap vertex indices and
// obstacle ids: "BoldFalcon" is easier to track across lines than
// "137". The memo flagrantly leaks memory: a name is generated on the
// first request for a key and kept for good.
package dbg

import (
	"fmt"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

var (
	mu   sync.Mutex
	memo = map[interface{}]string{}
)

func init() {
	// names are handed out in order of demand; keep them
	// nondeterministic as a reminder that the same name does not refer
	// to the same thing between runs
	petname.NonDeterministicMode()
}

// Name returns a stable readable alias for the given key.
func Name(key interface{}) string {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[key]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s",
		strings.Title(petname.Adjective()), strings.Title(petname.Name()))
	memo[key] = r
	return r
}

// Vertex names a roadmap vertex index.
func Vertex(idx int) string {
	return fmt.Sprintf("%s(%d)", Name(fmt.Sprintf("v%d", idx)), idx)
}
