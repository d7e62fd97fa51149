package launcher

import (
	"fmt"
	"slices"
	"strings"
)

// ParseArgs extracts -m/--model from args and returns the rest untouched
// for claude. Parsing stops at "--", which is dropped.
func ParseArgs(args []string) (model string, passthrough []string, err error) {
	passthrough = []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return model, append(passthrough, args[i+1:]...), nil
		case arg == "-m" || arg == "--model":
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("flag needs an argument: %s", arg)
			}
			i++
			model = args[i]
		case strings.HasPrefix(arg, "--model="):
			model = strings.TrimPrefix(arg, "--model=")
		case strings.HasPrefix(arg, "-m="):
			model = strings.TrimPrefix(arg, "-m=")
		default:
			passthrough = append(passthrough, arg)
		}
	}
	return model, passthrough, nil
}

// WantsHelp reports whether claude is being asked for its help text.
func WantsHelp(args []string) bool {
	return slices.Contains(args, "--help") || slices.Contains(args, "-h")
}

// WantsVersion reports whether args ask only for the version.
func WantsVersion(args []string) bool {
	return len(args) == 1 && (args[0] == "-v" || args[0] == "--version")
}
