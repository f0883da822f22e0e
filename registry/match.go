package registry

import "github.com/weiihann/ubench/config"

// Wildcard is the descriptor leaf value that accepts any configured scalar.
const Wildcard = "*"

// Matches reports whether cfg is compatible with descriptor. Every key of cfg
// must exist in descriptor: scalar leaves must be equal or face a Wildcard,
// and subtrees must face subtrees and match recursively. Keys only present in
// descriptor impose no constraint.
func Matches(cfg, descriptor config.Tree) bool {
	for key, value := range cfg {
		want, ok := descriptor[key]
		if !ok {
			return false
		}

		switch v := value.(type) {
		case config.Tree:
			sub, ok := want.(config.Tree)
			if !ok || !Matches(v, sub) {
				return false
			}

		default:
			leaf, ok := want.(string)
			if !ok {
				return false
			}

			if leaf == Wildcard {
				continue
			}

			if s, ok := v.(string); !ok || s != leaf {
				return false
			}
		}
	}

	return true
}
