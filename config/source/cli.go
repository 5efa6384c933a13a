package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// CLISource loads dot-notated command-line flags:
//
//	--container.name=api --logging.level debug
//	  -> {container: {name: "api"}, logging: {level: "debug"}}
//
// Single-dash long flags (-server.addr=:9090) are accepted too. Unknown
// positional arguments and empty values are ignored. It should be the last
// source so flags override everything else.
type CLISource struct {
	// Args replaces os.Args[1:] when non-nil.
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseFlags(args), nil
}

func parseFlags(raw []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	args := normalizeArgs(raw)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name := extractFlagName(arg)
		if name == "" {
			continue
		}
		if fs.Lookup(name) == nil {
			fs.String(name, "", "config value for "+name)
		}

		// skip the value of "--flag value"
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		value := flag.Value.String()
		if value == "" {
			return
		}
		setNestedValue(result, strings.Split(flag.Name, "."), value)
	})

	return result
}

// normalizeArgs turns single-dash long flags into double-dash ones for pflag.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		normalized[i] = arg
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := strings.TrimPrefix(arg, "-")
			if len(rest) > 1 && rest[0] != '=' {
				normalized[i] = "-" + arg
			}
		}
	}
	return normalized
}

func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	name, _, _ := strings.Cut(arg, "=")
	return name
}
