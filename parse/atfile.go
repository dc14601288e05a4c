package parse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrRecursiveAtFile is returned when an argument file references itself, directly or indirectly
var ErrRecursiveAtFile = errors.New("recursive argument file")

// FileReader reads the contents of an argument file
type FileReader func(path string) ([]byte, error)

// ExpandAtFiles replaces every "@path" argument with the shell-split contents of the file
// at path. Argument files may reference other argument files. "@@x" yields the literal
// "@x", and an "@path" naming a file which does not exist is kept as is. A nil reader
// reads from the local file system.
func ExpandAtFiles(args []string, read FileReader) ([]string, error) {
	if read == nil {
		read = os.ReadFile
	}
	return expand(args, read, map[string]bool{})
}

func expand(args []string, read FileReader, active map[string]bool) ([]string, error) {
	expanded := make([]string, 0, len(args))
	for _, arg := range args {
		if len(arg) < 2 || arg[0] != '@' {
			expanded = append(expanded, arg)
			continue
		}
		if arg[1] == '@' {
			expanded = append(expanded, arg[1:])
			continue
		}

		path := arg[1:]
		if active[path] {
			return nil, fmt.Errorf("%w: %s", ErrRecursiveAtFile, path)
		}
		content, err := read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				expanded = append(expanded, arg)
				continue
			}
			return nil, fmt.Errorf("reading argument file %s: %w", path, err)
		}

		fileArgs, err := Split(string(content))
		if err != nil {
			return nil, fmt.Errorf("splitting argument file %s: %w", path, err)
		}

		active[path] = true
		fileArgs, err = expand(fileArgs, read, active)
		delete(active, path)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, fileArgs...)
	}

	return expanded, nil
}
