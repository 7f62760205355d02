package tectonic

import (
	"bufio"
	"os"
	"strings"
)

const maxScriptArgs = 32

// Exec reads path line by line, strips whitespace, skips blank/comment lines
// (leading '/' or '#'), tokenizes by ASCII space into at most maxScriptArgs argv
// entries, and feeds each to the command table. A missing file reports an error
// and returns; a single failing command does not abort the script (spec.md §4.2).
func (t *CommandTable) Exec(e *Engine, path string) {
	f, err := os.Open(path)
	if err != nil {
		t.logger.Errorf("could not open script file: %s", path)
		return
	}
	defer f.Close()

	t.logger.Infof("executing script: %s", path)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "/") || strings.HasPrefix(line, "#") {
			continue
		}

		argv := tokenize(line)
		if len(argv) > 0 {
			t.Execute(e, argv)
		}
	}

	t.logger.Infof("finished executing script: %s", path)
}

// tokenize splits a line on ASCII spaces into at most maxScriptArgs tokens.
func tokenize(line string) []string {
	fields := strings.Split(line, " ")
	var out []string
	for _, f := range fields {
		if f == "" {
			continue
		}
		out = append(out, f)
		if len(out) >= maxScriptArgs {
			break
		}
	}
	return out
}
