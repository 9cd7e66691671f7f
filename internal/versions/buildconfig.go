package versions

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

const subdirectoryDirective = "add_subdirectory("

// Declaration is one plugin subdirectory found in the build configuration.
type Declaration struct {
	Name string
	Line int
}

// ParseBuildConfig returns plugin declarations in file order. Only the first
// argument of each add_subdirectory directive is considered, and only names
// whose first rune is an uppercase letter are kept. Text after '#' is a
// comment. A directive may span several lines; one left open at the end of
// the file declares nothing. Repeated names are returned as they appear.
func ParseBuildConfig(r io.Reader) ([]Declaration, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		decls     []Declaration
		open      bool
		openLine  int
		arguments strings.Builder
	)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		for {
			if !open {
				start := strings.Index(line, subdirectoryDirective)
				if start < 0 {
					break
				}
				open, openLine = true, lineNo
				arguments.Reset()
				line = line[start+len(subdirectoryDirective):]
			}
			end := strings.IndexByte(line, ')')
			if end < 0 {
				arguments.WriteString(line)
				arguments.WriteByte('\n')
				break
			}
			arguments.WriteString(line[:end])
			if name := firstArgument(arguments.String()); isPluginName(name) {
				decls = append(decls, Declaration{Name: name, Line: openLine})
			}
			open = false
			line = line[end+1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read build configuration: %w", err)
	}
	return decls, nil
}

func firstArgument(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], `"`)
}

func isPluginName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	return first != utf8.RuneError && unicode.IsUpper(first)
}
