package pluginhost

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Config holds the handful of server.cfg settings this plug-in reads.
// JitStack holds the jit_stack value as parsed; no other code in this
// module reads it, so it has no effect on any image's stack.
type Config struct {
	JitStack int
}

const defaultJitStack = 4096

// ParseConfig reads a SA-MP/AMX-style server.cfg: one whitespace-split
// "key value" pair per line, blank lines and lines starting with '#'
// ignored. Unknown keys are skipped rather than rejected, since
// server.cfg is shared with the rest of the host and carries settings
// this plug-in has no business validating.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := Config{JitStack: defaultJitStack}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key, val := fields[0], fields[1]
		switch key {
		case "jit_stack":
			n, err := strconv.Atoi(val)
			if err != nil {
				return cfg, fmt.Errorf("pluginhost: parsing jit_stack: %w", err)
			}
			cfg.JitStack = n
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("pluginhost: reading server.cfg: %w", err)
	}
	return cfg, nil
}
