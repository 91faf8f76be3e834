package cmd

import "strings"

// pairFlags take their value as two separate tokens, e.g.
// "--modify-time hours -1". pflag only knows single-value flags, so the
// two tokens are joined before parsing.
var pairFlags = map[string]bool{
	"--filter-meta": true,
	"--modify-time": true,
}

// normalizeArgs rewrites "--flag A B" into "--flag=A=B". The joined form
// and "--flag A=B" are left for pflag as they are.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !pairFlags[arg] || i+1 >= len(args) {
			out = append(out, arg)
			continue
		}

		first := args[i+1]
		if strings.Contains(first, "=") || i+2 >= len(args) {
			out = append(out, arg+"="+first)
			i++
			continue
		}
		out = append(out, arg+"="+first+"="+args[i+2])
		i += 2
	}
	return out
}
